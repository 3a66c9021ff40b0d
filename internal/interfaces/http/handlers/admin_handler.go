package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/interfaces/http/response"
)

// UserAdminService deactivates accounts
type UserAdminService interface {
	DeactivateUser(ctx context.Context, actorID, targetID uuid.UUID) error
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	restaurantUsecase RestaurantService
	userUsecase       UserAdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(restaurantUsecase RestaurantService, userUsecase UserAdminService) *AdminHandler {
	return &AdminHandler{
		restaurantUsecase: restaurantUsecase,
		userUsecase:       userUsecase,
	}
}

// ListRestaurants lists restaurants for moderation
// GET /api/v1/admin/restaurants?status=&city=
func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	filter := entities.RestaurantFilter{
		Status: entities.ApprovalStatus(strings.ToUpper(c.Query("status"))),
		City:   strings.TrimSpace(c.Query("city")),
	}

	page, err := h.restaurantUsecase.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// UpdateRestaurantStatus approves or rejects a restaurant
// PUT /api/v1/admin/restaurants/:id/status
func (h *AdminHandler) UpdateRestaurantStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id", "restaurant")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.UpdateApprovalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	restaurant, err := h.restaurantUsecase.SetApprovalStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, restaurant)
}

// UpdateRestaurantTier changes a restaurant's subscription tier
// PUT /api/v1/admin/restaurants/:id/tier
func (h *AdminHandler) UpdateRestaurantTier(c *gin.Context) {
	id, err := parseIDParam(c, "id", "restaurant")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.UpdateTierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	restaurant, err := h.restaurantUsecase.SetTier(c.Request.Context(), id, input.Tier)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, restaurant)
}

// DeactivateUser disables a user account
// PUT /api/v1/admin/users/:id/deactivate
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	id, err := parseIDParam(c, "id", "user")
	if err != nil {
		response.Error(c, err)
		return
	}

	actorID, _, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.userUsecase.DeactivateUser(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User deactivated"})
}
