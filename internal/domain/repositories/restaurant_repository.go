package repositories

import (
	"context"

	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
)

// RestaurantRepository defines restaurant data operations
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *entities.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error)
	// GetByIDForUpdate locks the row for the rest of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Restaurant, error)
	List(ctx context.Context, filter entities.RestaurantFilter, limit, offset int) ([]*entities.Restaurant, int, error)
	UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status entities.ApprovalStatus) error
	UpdateTier(ctx context.Context, id uuid.UUID, tier entities.SubscriptionTier) error
}
