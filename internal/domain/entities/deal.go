package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// DiscountType represents how a deal discount is computed
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// DefaultPerUserLimit applies when a deal is created without one
const DefaultPerUserLimit = 1

// Deal represents a deal entity
type Deal struct {
	ID            uuid.UUID       `json:"id"`
	RestaurantID  uuid.UUID       `json:"restaurantId"`
	Title         string          `json:"title"`
	Description   null.String     `json:"description"`
	Code          string          `json:"code"`
	QRCode        null.String     `json:"qrCode"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MaxUses       int             `json:"maxUses"`
	UsedCount     int             `json:"usedCount"`
	PerUserLimit  int             `json:"perUserLimit"`
	StartsAt      time.Time       `json:"startsAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Restaurant *Restaurant `json:"restaurant,omitempty"`
}

// RemainingUses is derived, never stored
func (d *Deal) RemainingUses() int {
	if d.UsedCount >= d.MaxUses {
		return 0
	}
	return d.MaxUses - d.UsedCount
}

// RedeemableAt reports whether the deal is active and inside its window
func (d *Deal) RedeemableAt(now time.Time) bool {
	return d.IsActive && !now.Before(d.StartsAt) && !now.After(d.ExpiresAt)
}

// Discount returns the discount for orderAmount, clamped to orderAmount
// and rounded to cents.
func (d *Deal) Discount(orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch d.DiscountType {
	case DiscountPercentage:
		discount = orderAmount.Mul(d.DiscountValue).Div(decimal.NewFromInt(100))
	default:
		discount = d.DiscountValue
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	return discount.Round(2)
}

// DealView is a deal as returned to API clients
type DealView struct {
	*Deal
	RemainingUses int      `json:"remainingUses"`
	Distance      *float64 `json:"distance,omitempty"`
}

// NewDealView wraps d with its derived fields
func NewDealView(d *Deal) *DealView {
	return &DealView{Deal: d, RemainingUses: d.RemainingUses()}
}

// DealFilter holds deal listing criteria
type DealFilter struct {
	RestaurantID *uuid.UUID
	City         string
	DiscountType DiscountType
	Search       string
	Latitude     *float64
	Longitude    *float64
	RadiusKm     *float64
}

// HasLocation reports whether the caller supplied both coordinates
func (f DealFilter) HasLocation() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// CreateDealInput represents input for creating a deal
type CreateDealInput struct {
	RestaurantID  uuid.UUID       `json:"restaurantId" binding:"required"`
	Title         string          `json:"title" binding:"required,min=3,max=200"`
	Description   string          `json:"description"`
	DiscountType  DiscountType    `json:"discountType" binding:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue decimal.Decimal `json:"discountValue" binding:"required"`
	MaxUses       int             `json:"maxUses" binding:"required,min=1"`
	PerUserLimit  int             `json:"perUserLimit" binding:"omitempty,min=1"`
	StartsAt      *time.Time      `json:"startsAt"`
	ExpiresAt     time.Time       `json:"expiresAt" binding:"required"`
}

// UpdateDealInput represents a partial deal update
type UpdateDealInput struct {
	Title         *string          `json:"title" binding:"omitempty,min=3,max=200"`
	Description   *string          `json:"description"`
	DiscountType  *DiscountType    `json:"discountType" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal `json:"discountValue"`
	MaxUses       *int             `json:"maxUses" binding:"omitempty,min=1"`
	PerUserLimit  *int             `json:"perUserLimit" binding:"omitempty,min=1"`
	StartsAt      *time.Time       `json:"startsAt"`
	ExpiresAt     *time.Time       `json:"expiresAt"`
	IsActive      *bool            `json:"isActive"`
}
