package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/interfaces/http/response"
	"dealhub.backend/pkg/utils"
)

// RestaurantService is the restaurant usecase surface the handlers need
type RestaurantService interface {
	Create(ctx context.Context, input *entities.CreateRestaurantInput, userID uuid.UUID, role entities.UserRole) (*entities.Restaurant, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]*entities.Restaurant, error)
	List(ctx context.Context, filter entities.RestaurantFilter, page utils.PaginationParams) (*utils.Page[*entities.Restaurant], error)
	SetApprovalStatus(ctx context.Context, id uuid.UUID, status entities.ApprovalStatus) (*entities.Restaurant, error)
	SetTier(ctx context.Context, id uuid.UUID, tier entities.SubscriptionTier) (*entities.Restaurant, error)
}

// RestaurantHandler handles restaurant endpoints
type RestaurantHandler struct {
	restaurantUsecase RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(restaurantUsecase RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantUsecase: restaurantUsecase}
}

// CreateRestaurant registers a restaurant pending admin approval
// POST /api/v1/restaurants
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var input entities.CreateRestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	restaurant, err := h.restaurantUsecase.Create(c.Request.Context(), &input, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, restaurant)
}

// GetRestaurant gets a restaurant by ID
// GET /api/v1/restaurants/:id
func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, err := parseIDParam(c, "id", "restaurant")
	if err != nil {
		response.Error(c, err)
		return
	}

	restaurant, err := h.restaurantUsecase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, restaurant)
}

// ListMyRestaurants lists the caller's restaurants
// GET /api/v1/restaurants/mine
func (h *RestaurantHandler) ListMyRestaurants(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	restaurants, err := h.restaurantUsecase.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"restaurants": restaurants})
}
