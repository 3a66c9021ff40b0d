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

// DealRepository implements deal data operations
type DealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create creates a new deal. A duplicate code surfaces as ErrAlreadyExists.
func (r *DealRepository) Create(ctx context.Context, deal *entities.Deal) error {
	m := &models.Deal{
		ID:            deal.ID,
		RestaurantID:  deal.RestaurantID,
		Title:         deal.Title,
		Description:   deal.Description.Ptr(),
		Code:          deal.Code,
		QRCode:        deal.QRCode.Ptr(),
		DiscountType:  string(deal.DiscountType),
		DiscountValue: deal.DiscountValue,
		MaxUses:       deal.MaxUses,
		UsedCount:     deal.UsedCount,
		PerUserLimit:  deal.PerUserLimit,
		StartsAt:      deal.StartsAt,
		ExpiresAt:     deal.ExpiresAt,
		IsActive:      deal.IsActive,
		CreatedAt:     deal.CreatedAt,
		UpdatedAt:     deal.UpdatedAt,
	}
	// Select("*") so a false IsActive is written instead of the column default
	return translateError(GetDB(ctx, r.db).Select("*").Omit("Restaurant").Create(m).Error)
}

// GetByID gets a deal with its restaurant
func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	var m models.Deal
	if err := GetDB(ctx, r.db).Preload("Restaurant").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return dealToEntity(&m), nil
}

// GetByIDForUpdate gets a deal and locks its row
func (r *DealRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	var m models.Deal
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return dealToEntity(&m), nil
}

// Update writes the mutable fields of a deal. usedCount is never written
// here, and maxUses may not drop below it.
func (r *DealRepository) Update(ctx context.Context, deal *entities.Deal) error {
	result := GetDB(ctx, r.db).Model(&models.Deal{}).
		Where("id = ? AND used_count <= ?", deal.ID, deal.MaxUses).
		Updates(map[string]interface{}{
			"title":          deal.Title,
			"description":    deal.Description.Ptr(),
			"qr_code":        deal.QRCode.Ptr(),
			"discount_type":  string(deal.DiscountType),
			"discount_value": deal.DiscountValue,
			"max_uses":       deal.MaxUses,
			"per_user_limit": deal.PerUserLimit,
			"starts_at":      deal.StartsAt,
			"expires_at":     deal.ExpiresAt,
			"is_active":      deal.IsActive,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOr(ctx, deal.ID, domainerrors.ErrLimitReached)
	}
	return nil
}

// Deactivate soft-deletes a deal
func (r *DealRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Deal{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListActive returns active, unexpired deals of approved restaurants
func (r *DealRepository) ListActive(ctx context.Context, filter entities.DealFilter, now time.Time, limit, offset int) ([]*entities.Deal, int, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN restaurants ON restaurants.id = deals.restaurant_id").
			Where("deals.is_active = ? AND deals.expires_at > ?", true, now).
			Where("restaurants.approval_status = ?", string(entities.ApprovalApproved))

		if filter.RestaurantID != nil {
			db = db.Where("deals.restaurant_id = ?", *filter.RestaurantID)
		}
		if filter.City != "" {
			db = db.Where("LOWER(restaurants.city) LIKE ?", likeTerm(filter.City))
		}
		if filter.DiscountType != "" {
			db = db.Where("deals.discount_type = ?", string(filter.DiscountType))
		}
		if filter.Search != "" {
			term := likeTerm(filter.Search)
			db = db.Where("(LOWER(deals.title) LIKE ? OR LOWER(COALESCE(deals.description, '')) LIKE ?)", term, term)
		}
		return db
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Deal{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Model(&models.Deal{}).Scopes(scope).
		Select("deals.*").
		Preload("Restaurant").
		Order("deals.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.Deal
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return dealsToEntities(ms), int(total), nil
}

// GetByRestaurantID lists every deal of a restaurant, active or not
func (r *DealRepository) GetByRestaurantID(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]*entities.Deal, int, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Deal{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Where("restaurant_id = ?", restaurantID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.Deal
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return dealsToEntities(ms), int(total), nil
}

// CountActiveByRestaurant counts active, unexpired deals
func (r *DealRepository) CountActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID, now time.Time) (int, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Deal{}).
		Where("restaurant_id = ? AND is_active = ? AND expires_at > ?", restaurantID, true, now).
		Count(&count).Error
	return int(count), err
}

// IncrementUsedCount atomically adds one use while usedCount < maxUses
func (r *DealRepository) IncrementUsedCount(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Deal{}).
		Where("id = ? AND used_count < max_uses", id).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOr(ctx, id, domainerrors.ErrLimitReached)
	}
	return nil
}

// missingOr returns ErrNotFound when the deal is gone, otherwise err
func (r *DealRepository) missingOr(ctx context.Context, id uuid.UUID, err error) error {
	var count int64
	if cErr := GetDB(ctx, r.db).Model(&models.Deal{}).Where("id = ?", id).Count(&count).Error; cErr != nil {
		return cErr
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return err
}

func likeTerm(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func dealsToEntities(ms []models.Deal) []*entities.Deal {
	deals := make([]*entities.Deal, 0, len(ms))
	for i := range ms {
		deals = append(deals, dealToEntity(&ms[i]))
	}
	return deals
}

func dealToEntity(m *models.Deal) *entities.Deal {
	d := &entities.Deal{
		ID:            m.ID,
		RestaurantID:  m.RestaurantID,
		Title:         m.Title,
		Description:   null.StringFromPtr(m.Description),
		Code:          m.Code,
		QRCode:        null.StringFromPtr(m.QRCode),
		DiscountType:  entities.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		MaxUses:       m.MaxUses,
		UsedCount:     m.UsedCount,
		PerUserLimit:  m.PerUserLimit,
		StartsAt:      m.StartsAt,
		ExpiresAt:     m.ExpiresAt,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Restaurant != nil {
		d.Restaurant = restaurantToEntity(m.Restaurant)
	}
	return d
}
