package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Redemption struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_redemptions_user_deal"`
	DealID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_redemptions_user_deal;index:idx_redemptions_deal_status"`
	VerificationCode string          `gorm:"type:varchar(6);not null"`
	Status           string          `gorm:"type:varchar(16);not null;index:idx_redemptions_deal_status"`
	OrderAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RedeemedAt       time.Time       `gorm:"not null;index"`
	ConfirmedAt      *time.Time
	RejectedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
