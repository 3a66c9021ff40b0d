package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/domain/repositories"
	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/utils"
)

// RestaurantUsecase handles restaurant registration and admin moderation
type RestaurantUsecase struct {
	restaurantRepo repositories.RestaurantRepository
	userRepo       repositories.UserRepository
}

// NewRestaurantUsecase creates a new restaurant usecase
func NewRestaurantUsecase(restaurantRepo repositories.RestaurantRepository, userRepo repositories.UserRepository) *RestaurantUsecase {
	return &RestaurantUsecase{
		restaurantRepo: restaurantRepo,
		userRepo:       userRepo,
	}
}

// Create registers a restaurant in PENDING approval on the BRONZE tier
func (u *RestaurantUsecase) Create(ctx context.Context, input *entities.CreateRestaurantInput, userID uuid.UUID, role entities.UserRole) (*entities.Restaurant, error) {
	if role != entities.UserRoleRestaurantOwner && role != entities.UserRoleAdmin {
		return nil, domainerrors.Forbidden("only restaurant owners can register restaurants")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, domainerrors.BadRequest("latitude and longitude must be given together")
	}

	ownerID := userID
	if input.OwnerID != nil && *input.OwnerID != userID {
		if role != entities.UserRoleAdmin {
			return nil, domainerrors.Forbidden("only admins can register restaurants for another owner")
		}
		if _, err := u.userRepo.GetByID(ctx, *input.OwnerID); err != nil {
			return nil, mapNotFound(err, domainerrors.ErrUserNotFound)
		}
		ownerID = *input.OwnerID
	}

	now := time.Now().UTC()
	restaurant := &entities.Restaurant{
		ID:               utils.GenerateUUIDv7(),
		OwnerID:          ownerID,
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		Description:      null.NewString(input.Description, input.Description != ""),
		Address:          strings.TrimSpace(input.Address),
		City:             strings.TrimSpace(input.City),
		Latitude:         null.Float64FromPtr(input.Latitude),
		Longitude:        null.Float64FromPtr(input.Longitude),
		SubscriptionTier: entities.TierBronze,
		ApprovalStatus:   entities.ApprovalPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.restaurantRepo.Create(ctx, restaurant); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("restaurant email already registered")
		}
		return nil, err
	}

	logger.Info(ctx, "Restaurant registered",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return restaurant, nil
}

// Get returns a restaurant by id
func (u *RestaurantUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	restaurant, err := u.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
	}
	return restaurant, nil
}

// ListMine returns the restaurants owned by the caller
func (u *RestaurantUsecase) ListMine(ctx context.Context, ownerID uuid.UUID) ([]*entities.Restaurant, error) {
	restaurants, err := u.restaurantRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if restaurants == nil {
		restaurants = []*entities.Restaurant{}
	}
	return restaurants, nil
}

// List returns restaurants for moderation
func (u *RestaurantUsecase) List(ctx context.Context, filter entities.RestaurantFilter, page utils.PaginationParams) (*utils.Page[*entities.Restaurant], error) {
	items, total, err := u.restaurantRepo.List(ctx, filter, page.Limit, page.CalculateOffset())
	if err != nil {
		return nil, err
	}
	return utils.NewPage(items, total, page), nil
}

// SetApprovalStatus approves or rejects a restaurant
func (u *RestaurantUsecase) SetApprovalStatus(ctx context.Context, id uuid.UUID, status entities.ApprovalStatus) (*entities.Restaurant, error) {
	switch status {
	case entities.ApprovalPending, entities.ApprovalApproved, entities.ApprovalRejected:
	default:
		return nil, domainerrors.BadRequest("invalid approval status")
	}
	if err := u.restaurantRepo.UpdateApprovalStatus(ctx, id, status); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
	}
	logger.Info(ctx, "Restaurant approval changed", zap.String("restaurant_id", id.String()), zap.String("status", string(status)))
	return u.Get(ctx, id)
}

// SetTier changes the subscription tier, and with it the deal quota
func (u *RestaurantUsecase) SetTier(ctx context.Context, id uuid.UUID, tier entities.SubscriptionTier) (*entities.Restaurant, error) {
	if !tier.Valid() {
		return nil, domainerrors.BadRequest("invalid subscription tier")
	}
	if err := u.restaurantRepo.UpdateTier(ctx, id, tier); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
	}
	logger.Info(ctx, "Restaurant tier changed", zap.String("restaurant_id", id.String()), zap.String("tier", string(tier)))
	return u.Get(ctx, id)
}
