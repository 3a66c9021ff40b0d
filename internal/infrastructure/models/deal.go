package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Deal struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title         string          `gorm:"type:varchar(200);not null"`
	Description   *string         `gorm:"type:text"`
	Code          string          `gorm:"type:varchar(6);uniqueIndex;not null"`
	QRCode        *string         `gorm:"column:qr_code;type:text"`
	DiscountType  string          `gorm:"type:varchar(16);not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MaxUses       int             `gorm:"not null"`
	UsedCount     int             `gorm:"not null;default:0"`
	PerUserLimit  int             `gorm:"not null;default:1"`
	StartsAt      time.Time       `gorm:"not null"`
	ExpiresAt     time.Time       `gorm:"not null;index"`
	IsActive      bool            `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
}
