package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/usecases"
	"dealhub.backend/pkg/utils"
)

func restaurantInput() *entities.CreateRestaurantInput {
	return &entities.CreateRestaurantInput{
		Name:    "Warung Sedap",
		Email:   "Hello@Sedap.id",
		Address: "Jl. Sudirman 1",
		City:    "Jakarta",
	}
}

func TestRestaurantUsecase_Create(t *testing.T) {
	t.Run("owner registers pending bronze restaurant", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		uc := usecases.NewRestaurantUsecase(repo, new(MockUserRepository))
		owner := uuid.New()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Restaurant")).Return(nil).Once()

		in := restaurantInput()
		in.Latitude = floatPtr(-6.2)
		in.Longitude = floatPtr(106.8)
		r, err := uc.Create(context.Background(), in, owner, entities.UserRoleRestaurantOwner)
		require.NoError(t, err)
		assert.Equal(t, owner, r.OwnerID)
		assert.Equal(t, "hello@sedap.id", r.Email)
		assert.Equal(t, entities.ApprovalPending, r.ApprovalStatus)
		assert.Equal(t, entities.TierBronze, r.SubscriptionTier)
		assert.True(t, r.HasCoordinates())
	})

	t.Run("customers cannot register", func(t *testing.T) {
		uc := usecases.NewRestaurantUsecase(new(MockRestaurantRepository), new(MockUserRepository))
		_, err := uc.Create(context.Background(), restaurantInput(), uuid.New(), entities.UserRoleCustomer)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("half a coordinate", func(t *testing.T) {
		uc := usecases.NewRestaurantUsecase(new(MockRestaurantRepository), new(MockUserRepository))
		in := restaurantInput()
		in.Latitude = floatPtr(1)
		_, err := uc.Create(context.Background(), in, uuid.New(), entities.UserRoleRestaurantOwner)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("admin registers for an owner", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		users := new(MockUserRepository)
		uc := usecases.NewRestaurantUsecase(repo, users)
		owner := uuid.New()
		users.On("GetByID", mock.Anything, owner).Return(&entities.User{ID: owner}, nil).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		in := restaurantInput()
		in.OwnerID = &owner
		r, err := uc.Create(context.Background(), in, uuid.New(), entities.UserRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, owner, r.OwnerID)
	})

	t.Run("owner cannot register for someone else", func(t *testing.T) {
		uc := usecases.NewRestaurantUsecase(new(MockRestaurantRepository), new(MockUserRepository))
		other := uuid.New()
		in := restaurantInput()
		in.OwnerID = &other
		_, err := uc.Create(context.Background(), in, uuid.New(), entities.UserRoleRestaurantOwner)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("unknown owner", func(t *testing.T) {
		users := new(MockUserRepository)
		uc := usecases.NewRestaurantUsecase(new(MockRestaurantRepository), users)
		owner := uuid.New()
		users.On("GetByID", mock.Anything, owner).Return(nil, domainerrors.ErrNotFound).Once()

		in := restaurantInput()
		in.OwnerID = &owner
		_, err := uc.Create(context.Background(), in, uuid.New(), entities.UserRoleAdmin)
		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		uc := usecases.NewRestaurantUsecase(repo, new(MockUserRepository))
		repo.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()

		_, err := uc.Create(context.Background(), restaurantInput(), uuid.New(), entities.UserRoleRestaurantOwner)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	})
}

func TestRestaurantUsecase_Moderation(t *testing.T) {
	repo := new(MockRestaurantRepository)
	uc := usecases.NewRestaurantUsecase(repo, new(MockUserRepository))
	id := uuid.New()

	repo.On("UpdateApprovalStatus", mock.Anything, id, entities.ApprovalApproved).Return(nil).Once()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Restaurant{ID: id, ApprovalStatus: entities.ApprovalApproved}, nil).Once()
	r, err := uc.SetApprovalStatus(context.Background(), id, entities.ApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, entities.ApprovalApproved, r.ApprovalStatus)

	_, err = uc.SetApprovalStatus(context.Background(), id, "MAYBE")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.SetTier(context.Background(), id, "PLATINUM")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	missing := uuid.New()
	repo.On("UpdateTier", mock.Anything, missing, entities.TierGold).Return(domainerrors.ErrNotFound).Once()
	_, err = uc.SetTier(context.Background(), missing, entities.TierGold)
	assert.ErrorIs(t, err, domainerrors.ErrRestaurantNotFound)
}

func TestRestaurantUsecase_Listings(t *testing.T) {
	repo := new(MockRestaurantRepository)
	uc := usecases.NewRestaurantUsecase(repo, new(MockUserRepository))
	owner := uuid.New()

	repo.On("GetByOwnerID", mock.Anything, owner).Return(nil, nil).Once()
	mine, err := uc.ListMine(context.Background(), owner)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)

	filter := entities.RestaurantFilter{Status: entities.ApprovalPending}
	repo.On("List", mock.Anything, filter, 20, 20).Return([]*entities.Restaurant{{ID: uuid.New()}}, 21, nil).Once()
	page, err := uc.List(context.Background(), filter, utils.GetPaginationParams(2, 20))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.Meta.HasNext)
}
