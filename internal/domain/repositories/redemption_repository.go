package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
)

// RedemptionRepository defines redemption data operations
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *entities.Redemption) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Redemption, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Redemption, int, error)
	CountPendingByDeal(ctx context.Context, dealID uuid.UUID) (int, error)
	// CountActiveByUserAndDeal counts the user's non-rejected redemptions of a deal
	CountActiveByUserAndDeal(ctx context.Context, userID, dealID uuid.UUID) (int, error)
	// Transition moves a PENDING redemption to status, failing with
	// ErrExpiredOrInactive when it is no longer pending.
	Transition(ctx context.Context, id uuid.UUID, status entities.RedemptionStatus, at time.Time) error
	// RejectPendingBefore rejects PENDING redemptions claimed before cutoff
	RejectPendingBefore(ctx context.Context, cutoff time.Time, limit int) (int, error)
}
