package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dealhub.backend/internal/domain/entities"
	"dealhub.backend/internal/infrastructure/datasources/postgres"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, postgres.Migrate(db), "migrate")
	t.Cleanup(func() { postgres.Close(db) })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role entities.UserRole) *entities.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

type restaurantOpt func(*entities.Restaurant)

func withCoordinates(lat, lon float64) restaurantOpt {
	return func(r *entities.Restaurant) {
		r.Latitude = null.Float64From(lat)
		r.Longitude = null.Float64From(lon)
	}
}

func withStatus(status entities.ApprovalStatus) restaurantOpt {
	return func(r *entities.Restaurant) { r.ApprovalStatus = status }
}

func seedRestaurant(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name, city string, opts ...restaurantOpt) *entities.Restaurant {
	t.Helper()
	now := time.Now().UTC()
	r := &entities.Restaurant{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Name:             name,
		Email:            uuid.NewString() + "@restaurants.test",
		Address:          "1 Main St",
		City:             city,
		SubscriptionTier: entities.TierBronze,
		ApprovalStatus:   entities.ApprovalApproved,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(r)
	}
	require.NoError(t, NewRestaurantRepository(db).Create(context.Background(), r))
	return r
}

type dealOpt func(*entities.Deal)

func seedDeal(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, title string, opts ...dealOpt) *entities.Deal {
	t.Helper()
	now := time.Now().UTC()
	d := &entities.Deal{
		ID:            uuid.New(),
		RestaurantID:  restaurantID,
		Title:         title,
		Code:          strings.ToUpper(uuid.NewString()[:6]),
		DiscountType:  entities.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		MaxUses:       10,
		PerUserLimit:  1,
		StartsAt:      now.Add(-time.Hour),
		ExpiresAt:     now.Add(24 * time.Hour),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(d)
	}
	require.NoError(t, NewDealRepository(db).Create(context.Background(), d))
	return d
}
