package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// RedemptionStatus represents the redemption lifecycle
type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "PENDING"
	RedemptionConfirmed RedemptionStatus = "CONFIRMED"
	RedemptionRejected  RedemptionStatus = "REJECTED"
)

// Redemption represents a user's claim on a deal
type Redemption struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"userId"`
	DealID           uuid.UUID        `json:"dealId"`
	VerificationCode string           `json:"verificationCode"`
	Status           RedemptionStatus `json:"status"`
	OrderAmount      decimal.Decimal  `json:"orderAmount"`
	DiscountAmount   decimal.Decimal  `json:"discountAmount"`
	FinalAmount      decimal.Decimal  `json:"finalAmount"`
	RedeemedAt       time.Time        `json:"redeemedAt"`
	ConfirmedAt      null.Time        `json:"confirmedAt"`
	RejectedAt       null.Time        `json:"rejectedAt"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ClaimInput represents input for claiming a deal
type ClaimInput struct {
	OrderAmount decimal.Decimal `json:"orderAmount" binding:"required"`
}

// VerifyRedemptionInput carries the code the customer presents at the till
type VerifyRedemptionInput struct {
	VerificationCode string `json:"verificationCode" binding:"required,len=6,numeric"`
}
