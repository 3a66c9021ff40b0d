package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"dealhub.backend/internal/infrastructure/models"
)

// Migrate creates or updates the schema. It also works against SQLite,
// which the repository tests use.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Deal{},
		&models.Redemption{},
	); err != nil {
		return err
	}

	// Verification codes only need to be unique while the redemption is pending.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_redemptions_pending_code
		ON redemptions (verification_code) WHERE status = 'PENDING'`).Error; err != nil {
		return fmt.Errorf("failed to create pending code index: %w", err)
	}

	return nil
}
