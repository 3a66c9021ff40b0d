package models

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(150);not null"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description      *string   `gorm:"type:text"`
	Address          string    `gorm:"type:varchar(255);not null"`
	City             string    `gorm:"type:varchar(100);not null;index"`
	Latitude         *float64
	Longitude        *float64
	SubscriptionTier string `gorm:"type:varchar(16);not null;default:'BRONZE'"`
	ApprovalStatus   string `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
