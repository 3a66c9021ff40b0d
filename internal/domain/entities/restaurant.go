package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SubscriptionTier decides how many active deals a restaurant may run
type SubscriptionTier string

const (
	TierBronze  SubscriptionTier = "BRONZE"
	TierSilver  SubscriptionTier = "SILVER"
	TierGold    SubscriptionTier = "GOLD"
	TierDiamond SubscriptionTier = "DIAMOND"
)

// Valid reports whether t is one of the known tiers
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierDiamond:
		return true
	}
	return false
}

// ApprovalStatus gates restaurant visibility in deal listings
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Restaurant represents a restaurant entity
type Restaurant struct {
	ID               uuid.UUID        `json:"id"`
	OwnerID          uuid.UUID        `json:"ownerId"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Description      null.String      `json:"description"`
	Address          string           `json:"address"`
	City             string           `json:"city"`
	Latitude         null.Float64     `json:"latitude"`
	Longitude        null.Float64     `json:"longitude"`
	SubscriptionTier SubscriptionTier `json:"subscriptionTier"`
	ApprovalStatus   ApprovalStatus   `json:"approvalStatus"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// HasCoordinates reports whether both latitude and longitude are set
func (r *Restaurant) HasCoordinates() bool {
	return r != nil && r.Latitude.Valid && r.Longitude.Valid
}

// CreateRestaurantInput represents input for registering a restaurant
type CreateRestaurantInput struct {
	Name        string   `json:"name" binding:"required,min=2,max=150"`
	Email       string   `json:"email" binding:"required,email"`
	Description string   `json:"description"`
	Address     string   `json:"address" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	// OwnerID lets an admin register a restaurant on behalf of an owner
	OwnerID *uuid.UUID `json:"ownerId"`
}

// UpdateApprovalInput carries an admin approval decision
type UpdateApprovalInput struct {
	Status ApprovalStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}

// UpdateTierInput carries an admin tier change
type UpdateTierInput struct {
	Tier SubscriptionTier `json:"tier" binding:"required,oneof=BRONZE SILVER GOLD DIAMOND"`
}

// RestaurantFilter narrows the admin restaurant listing
type RestaurantFilter struct {
	Status ApprovalStatus
	City   string
}
