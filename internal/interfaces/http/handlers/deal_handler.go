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
	"dealhub.backend/pkg/utils"
)

// DealService is the deal usecase surface the handler needs
type DealService interface {
	List(ctx context.Context, filter entities.DealFilter, page utils.PaginationParams) (*utils.Page[*entities.DealView], error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.DealView, error)
	Create(ctx context.Context, input *entities.CreateDealInput, userID uuid.UUID, role entities.UserRole) (*entities.DealView, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.UpdateDealInput, userID uuid.UUID, role entities.UserRole) (*entities.DealView, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, role entities.UserRole) error
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, userID uuid.UUID, role entities.UserRole, page utils.PaginationParams) (*utils.Page[*entities.DealView], error)
}

// DealHandler handles deal endpoints
type DealHandler struct {
	dealUsecase DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealUsecase DealService) *DealHandler {
	return &DealHandler{dealUsecase: dealUsecase}
}

// ListDeals lists redeemable deals
// GET /api/v1/deals?page=&limit=&restaurantId=&city=&discountType=&search=&lat=&lng=&radius=
func (h *DealHandler) ListDeals(c *gin.Context) {
	filter, err := dealFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.dealUsecase.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

func dealFilterFromQuery(c *gin.Context) (entities.DealFilter, error) {
	filter := entities.DealFilter{
		City:   strings.TrimSpace(c.Query("city")),
		Search: strings.TrimSpace(c.Query("search")),
	}

	if raw := c.Query("restaurantId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, domainerrors.BadRequest("Invalid restaurantId")
		}
		filter.RestaurantID = &id
	}

	if raw := strings.ToUpper(c.Query("discountType")); raw != "" {
		dt := entities.DiscountType(raw)
		if dt != entities.DiscountPercentage && dt != entities.DiscountFixed {
			return filter, domainerrors.BadRequest("discountType must be PERCENTAGE or FIXED")
		}
		filter.DiscountType = dt
	}

	var err error
	if filter.Latitude, err = optionalFloat(c, "lat", "latitude"); err != nil {
		return filter, err
	}
	if filter.Longitude, err = optionalFloat(c, "lng", "longitude"); err != nil {
		return filter, err
	}
	if filter.RadiusKm, err = optionalFloat(c, "radius"); err != nil {
		return filter, err
	}
	return filter, nil
}

// GetDeal gets a deal by ID
// GET /api/v1/deals/:id
func (h *DealHandler) GetDeal(c *gin.Context) {
	id, err := parseIDParam(c, "id", "deal")
	if err != nil {
		response.Error(c, err)
		return
	}

	deal, err := h.dealUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, deal)
}

// CreateDeal creates a deal for a restaurant the caller manages
// POST /api/v1/deals
func (h *DealHandler) CreateDeal(c *gin.Context) {
	var input entities.CreateDealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	deal, err := h.dealUsecase.Create(c.Request.Context(), &input, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, deal)
}

// UpdateDeal partially updates a deal
// PUT /api/v1/deals/:id
func (h *DealHandler) UpdateDeal(c *gin.Context) {
	id, err := parseIDParam(c, "id", "deal")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.UpdateDealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	deal, err := h.dealUsecase.Update(c.Request.Context(), id, &input, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, deal)
}

// DeleteDeal deactivates a deal
// DELETE /api/v1/deals/:id
func (h *DealHandler) DeleteDeal(c *gin.Context) {
	id, err := parseIDParam(c, "id", "deal")
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.dealUsecase.Delete(c.Request.Context(), id, userID, role); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Deal deactivated"})
}

// ListRestaurantDeals lists every deal of a restaurant for its owner
// GET /api/v1/restaurants/:id/deals
func (h *DealHandler) ListRestaurantDeals(c *gin.Context) {
	id, err := parseIDParam(c, "id", "restaurant")
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.dealUsecase.ListByRestaurant(c.Request.Context(), id, userID, role, pagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}
