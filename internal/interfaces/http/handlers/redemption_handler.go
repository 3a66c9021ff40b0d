package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/interfaces/http/response"
	"dealhub.backend/pkg/utils"
)

// RedemptionService is the redemption usecase surface the handler needs
type RedemptionService interface {
	Claim(ctx context.Context, userID, dealID uuid.UUID, orderAmount decimal.Decimal) (*entities.Redemption, error)
	Confirm(ctx context.Context, redemptionID uuid.UUID, code string, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error)
	Reject(ctx context.Context, redemptionID uuid.UUID, code string, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error)
	Get(ctx context.Context, redemptionID uuid.UUID, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error)
	ListMine(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) (*utils.Page[*entities.Redemption], error)
}

// RedemptionHandler handles claim and redemption endpoints
type RedemptionHandler struct {
	redemptionUsecase RedemptionService
}

// NewRedemptionHandler creates a new redemption handler
func NewRedemptionHandler(redemptionUsecase RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionUsecase: redemptionUsecase}
}

// ClaimDeal reserves one use of a deal for the caller
// POST /api/v1/deals/:id/claim
func (h *RedemptionHandler) ClaimDeal(c *gin.Context) {
	dealID, err := parseIDParam(c, "id", "deal")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.ClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, _, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	redemption, err := h.redemptionUsecase.Claim(c.Request.Context(), userID, dealID, input.OrderAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, redemption)
}

// ListMyRedemptions lists the caller's redemptions
// GET /api/v1/redemptions
func (h *RedemptionHandler) ListMyRedemptions(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.redemptionUsecase.ListMine(c.Request.Context(), userID, pagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// GetRedemption gets a redemption visible to the caller
// GET /api/v1/redemptions/:id
func (h *RedemptionHandler) GetRedemption(c *gin.Context) {
	id, err := parseIDParam(c, "id", "redemption")
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	redemption, err := h.redemptionUsecase.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, redemption)
}

// ConfirmRedemption completes a pending redemption at the till
// POST /api/v1/redemptions/:id/confirm
func (h *RedemptionHandler) ConfirmRedemption(c *gin.Context) {
	h.settle(c, h.redemptionUsecase.Confirm)
}

// RejectRedemption cancels a pending redemption
// POST /api/v1/redemptions/:id/reject
func (h *RedemptionHandler) RejectRedemption(c *gin.Context) {
	h.settle(c, h.redemptionUsecase.Reject)
}

type settleFunc func(ctx context.Context, redemptionID uuid.UUID, code string, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error)

func (h *RedemptionHandler) settle(c *gin.Context, fn settleFunc) {
	id, err := parseIDParam(c, "id", "redemption")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.VerifyRedemptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, role, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	redemption, err := fn(c.Request.Context(), id, input.VerificationCode, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, redemption)
}
