package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
)

// DealRepository defines deal data operations
type DealRepository interface {
	Create(ctx context.Context, deal *entities.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error)
	// GetByIDForUpdate locks the row for the rest of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Deal, error)
	Update(ctx context.Context, deal *entities.Deal) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	// ListActive returns active, unexpired deals of approved restaurants.
	// A limit <= 0 returns every match.
	ListActive(ctx context.Context, filter entities.DealFilter, now time.Time, limit, offset int) ([]*entities.Deal, int, error)
	GetByRestaurantID(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]*entities.Deal, int, error)
	CountActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID, now time.Time) (int, error)
	// IncrementUsedCount adds one use, failing with ErrLimitReached when
	// the deal is already at maxUses.
	IncrementUsedCount(ctx context.Context, id uuid.UUID) error
}
