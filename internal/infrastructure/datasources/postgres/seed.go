package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dealhub.backend/internal/domain/entities"
	"dealhub.backend/internal/infrastructure/models"
	"dealhub.backend/pkg/crypto"
	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/utils"
)

// SeedAdmin creates the bootstrap admin account when email is set and no
// user with that email exists yet.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := models.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         string(entities.UserRoleAdmin),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info(context.Background(), "Default admin created", zap.String("email", email))
	return nil
}
