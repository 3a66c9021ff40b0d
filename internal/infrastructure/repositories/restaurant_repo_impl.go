package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/infrastructure/models"
)

// RestaurantRepository implements restaurant data operations
type RestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Create creates a new restaurant
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	m := &models.Restaurant{
		ID:               restaurant.ID,
		OwnerID:          restaurant.OwnerID,
		Name:             restaurant.Name,
		Email:            strings.ToLower(restaurant.Email),
		Description:      restaurant.Description.Ptr(),
		Address:          restaurant.Address,
		City:             restaurant.City,
		Latitude:         restaurant.Latitude.Ptr(),
		Longitude:        restaurant.Longitude.Ptr(),
		SubscriptionTier: string(restaurant.SubscriptionTier),
		ApprovalStatus:   string(restaurant.ApprovalStatus),
		CreatedAt:        restaurant.CreatedAt,
		UpdatedAt:        restaurant.UpdatedAt,
	}
	return translateError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a restaurant by ID
func (r *RestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	var m models.Restaurant
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return restaurantToEntity(&m), nil
}

// GetByIDForUpdate gets a restaurant and locks its row
func (r *RestaurantRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	var m models.Restaurant
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return restaurantToEntity(&m), nil
}

// GetByOwnerID lists the restaurants a user owns
func (r *RestaurantRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Restaurant, error) {
	var ms []models.Restaurant
	if err := GetDB(ctx, r.db).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	restaurants := make([]*entities.Restaurant, 0, len(ms))
	for i := range ms {
		restaurants = append(restaurants, restaurantToEntity(&ms[i]))
	}
	return restaurants, nil
}

// List lists restaurants for the admin view
func (r *RestaurantRepository) List(ctx context.Context, filter entities.RestaurantFilter, limit, offset int) ([]*entities.Restaurant, int, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("approval_status = ?", filter.Status)
		}
		if filter.City != "" {
			db = db.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
		}
		return db
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Restaurant{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Restaurant
	query := GetDB(ctx, r.db).Scopes(scope).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	restaurants := make([]*entities.Restaurant, 0, len(ms))
	for i := range ms {
		restaurants = append(restaurants, restaurantToEntity(&ms[i]))
	}
	return restaurants, int(total), nil
}

// UpdateApprovalStatus sets the approval status
func (r *RestaurantRepository) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status entities.ApprovalStatus) error {
	return r.update(ctx, id, map[string]interface{}{"approval_status": string(status)})
}

// UpdateTier sets the subscription tier
func (r *RestaurantRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier entities.SubscriptionTier) error {
	return r.update(ctx, id, map[string]interface{}{"subscription_tier": string(tier)})
}

func (r *RestaurantRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := GetDB(ctx, r.db).Model(&models.Restaurant{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func restaurantToEntity(m *models.Restaurant) *entities.Restaurant {
	return &entities.Restaurant{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		Name:             m.Name,
		Email:            m.Email,
		Description:      null.StringFromPtr(m.Description),
		Address:          m.Address,
		City:             m.City,
		Latitude:         null.Float64FromPtr(m.Latitude),
		Longitude:        null.Float64FromPtr(m.Longitude),
		SubscriptionTier: entities.SubscriptionTier(m.SubscriptionTier),
		ApprovalStatus:   entities.ApprovalStatus(m.ApprovalStatus),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
