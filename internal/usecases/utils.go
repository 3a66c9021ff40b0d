package usecases

import (
	"errors"

	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/pkg/crypto"
	"dealhub.backend/pkg/jwt"
)

var (
	generateDealCode         = crypto.GenerateDealCode
	generateVerificationCode = crypto.GenerateVerificationCode
	generateSessionID        = crypto.GenerateSessionID
	hashPassword             = crypto.HashPassword
)

// canManageRestaurant reports whether the caller may manage the restaurant
// and its deals.
func canManageRestaurant(r *entities.Restaurant, userID uuid.UUID, role entities.UserRole) bool {
	if role == entities.UserRoleAdmin {
		return true
	}
	return r != nil && userID != uuid.Nil && r.OwnerID == userID
}

// mapNotFound replaces a bare ErrNotFound with the given variant
func mapNotFound(err error, variant *domainerrors.AppError) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return variant
	}
	return err
}

func mapTokenError(err error) error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return domainerrors.ErrTokenIsExpired
	}
	return domainerrors.ErrTokenIsInvalid
}
