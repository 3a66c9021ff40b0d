package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dealhub.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// Mock RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) List(ctx context.Context, filter entities.RestaurantFilter, limit, offset int) ([]*entities.Restaurant, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Restaurant), args.Int(1), args.Error(2)
}

func (m *MockRestaurantRepository) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status entities.ApprovalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRestaurantRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier entities.SubscriptionTier) error {
	args := m.Called(ctx, id, tier)
	return args.Error(0)
}

// Mock DealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) Create(ctx context.Context, deal *entities.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deal), args.Error(1)
}

func (m *MockDealRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deal), args.Error(1)
}

func (m *MockDealRepository) Update(ctx context.Context, deal *entities.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDealRepository) ListActive(ctx context.Context, filter entities.DealFilter, now time.Time, limit, offset int) ([]*entities.Deal, int, error) {
	args := m.Called(ctx, filter, now, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Deal), args.Int(1), args.Error(2)
}

func (m *MockDealRepository) GetByRestaurantID(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]*entities.Deal, int, error) {
	args := m.Called(ctx, restaurantID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Deal), args.Int(1), args.Error(2)
}

func (m *MockDealRepository) CountActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID, now time.Time) (int, error) {
	args := m.Called(ctx, restaurantID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockDealRepository) IncrementUsedCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock RedemptionRepository
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Create(ctx context.Context, redemption *entities.Redemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRedemptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Redemption, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Redemption), args.Int(1), args.Error(2)
}

func (m *MockRedemptionRepository) CountPendingByDeal(ctx context.Context, dealID uuid.UUID) (int, error) {
	args := m.Called(ctx, dealID)
	return args.Int(0), args.Error(1)
}

func (m *MockRedemptionRepository) CountActiveByUserAndDeal(ctx context.Context, userID, dealID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, dealID)
	return args.Int(0), args.Error(1)
}

func (m *MockRedemptionRepository) Transition(ctx context.Context, id uuid.UUID, status entities.RedemptionStatus, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *MockRedemptionRepository) RejectPendingBefore(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Int(0), args.Error(1)
}

// Mock qrcode.Generator
type MockQRGenerator struct {
	mock.Mock
}

func (m *MockQRGenerator) Generate(content string) (string, error) {
	args := m.Called(content)
	return args.String(0), args.Error(1)
}
