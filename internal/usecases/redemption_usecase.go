package usecases

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/domain/repositories"
	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/metrics"
	"dealhub.backend/pkg/utils"
)

// RedemptionUsecase handles the claim, confirm and reject lifecycle
type RedemptionUsecase struct {
	uow            repositories.UnitOfWork
	dealRepo       repositories.DealRepository
	restaurantRepo repositories.RestaurantRepository
	redemptionRepo repositories.RedemptionRepository
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewRedemptionUsecase creates a new redemption usecase
func NewRedemptionUsecase(
	uow repositories.UnitOfWork,
	dealRepo repositories.DealRepository,
	restaurantRepo repositories.RestaurantRepository,
	redemptionRepo repositories.RedemptionRepository,
	m *metrics.Metrics,
) *RedemptionUsecase {
	return &RedemptionUsecase{
		uow:            uow,
		dealRepo:       dealRepo,
		restaurantRepo: restaurantRepo,
		redemptionRepo: redemptionRepo,
		metrics:        m,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source
func (u *RedemptionUsecase) WithClock(now func() time.Time) *RedemptionUsecase {
	u.now = now
	return u
}

// Claim reserves one use of a deal for the user as a PENDING redemption.
// Pending claims count against maxUses so the last use cannot be claimed
// twice.
func (u *RedemptionUsecase) Claim(ctx context.Context, userID, dealID uuid.UUID, orderAmount decimal.Decimal) (*entities.Redemption, error) {
	if !orderAmount.IsPositive() {
		return nil, domainerrors.BadRequest("orderAmount must be positive")
	}
	orderAmount = orderAmount.Round(2)

	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		var redemption *entities.Redemption

		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			now := u.now()

			deal, err := u.dealRepo.GetByIDForUpdate(txCtx, dealID)
			if err != nil {
				return mapNotFound(err, domainerrors.ErrDealNotFound)
			}
			if !deal.IsActive {
				return domainerrors.ErrDealInactive
			}
			if !deal.RedeemableAt(now) {
				return domainerrors.ErrDealExpired
			}

			restaurant, err := u.restaurantRepo.GetByID(txCtx, deal.RestaurantID)
			if err != nil {
				return mapNotFound(err, domainerrors.ErrRestaurantNotFound)
			}
			if restaurant.ApprovalStatus != entities.ApprovalApproved {
				return domainerrors.ErrDealInactive
			}

			pending, err := u.redemptionRepo.CountPendingByDeal(txCtx, dealID)
			if err != nil {
				return err
			}
			if deal.UsedCount+pending >= deal.MaxUses {
				return domainerrors.ErrDealExhausted
			}

			mine, err := u.redemptionRepo.CountActiveByUserAndDeal(txCtx, userID, dealID)
			if err != nil {
				return err
			}
			if mine >= deal.PerUserLimit {
				return domainerrors.ErrPerUserLimitReached
			}

			code, err := generateVerificationCode()
			if err != nil {
				return err
			}

			discount := deal.Discount(orderAmount)
			redemption = &entities.Redemption{
				ID:               utils.GenerateUUIDv7(),
				UserID:           userID,
				DealID:           dealID,
				VerificationCode: code,
				Status:           entities.RedemptionPending,
				OrderAmount:      orderAmount,
				DiscountAmount:   discount,
				FinalAmount:      orderAmount.Sub(discount),
				RedeemedAt:       now,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			return u.redemptionRepo.Create(txCtx, redemption)
		})
		if err == nil {
			u.metrics.Redemption(string(entities.RedemptionPending))
			logger.Info(ctx, "Deal claimed",
				zap.String("redemption_id", redemption.ID.String()),
				zap.String("deal_id", dealID.String()),
			)
			return redemption, nil
		}
		if !errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, err
		}

		u.metrics.CodeCollision("verification")
		logger.Warn(ctx, "Verification code collision, regenerating", zap.Int("attempt", attempt))
	}

	return nil, domainerrors.ErrCodeCollision
}

// Confirm completes a PENDING redemption and consumes one use of the deal
func (u *RedemptionUsecase) Confirm(ctx context.Context, redemptionID uuid.UUID, code string, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error) {
	return u.settle(ctx, redemptionID, code, userID, role, entities.RedemptionConfirmed)
}

// Reject cancels a PENDING redemption and releases its reservation
func (u *RedemptionUsecase) Reject(ctx context.Context, redemptionID uuid.UUID, code string, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error) {
	return u.settle(ctx, redemptionID, code, userID, role, entities.RedemptionRejected)
}

func (u *RedemptionUsecase) settle(ctx context.Context, redemptionID uuid.UUID, code string, userID uuid.UUID, role entities.UserRole, status entities.RedemptionStatus) (*entities.Redemption, error) {
	redemption, err := u.redemptionRepo.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRedemptionNotFound)
	}
	deal, err := u.dealRepo.GetByID(ctx, redemption.DealID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrDealNotFound)
	}
	restaurant := deal.Restaurant
	if restaurant == nil {
		restaurant, err = u.restaurantRepo.GetByID(ctx, deal.RestaurantID)
		if err != nil {
			return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
		}
	}

	if !canManageRestaurant(restaurant, userID, role) {
		return nil, domainerrors.ErrNotOwner
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(redemption.VerificationCode)) != 1 {
		return nil, domainerrors.ErrVerificationMismatch
	}
	if redemption.Status != entities.RedemptionPending {
		return nil, domainerrors.ErrRedemptionNotPending
	}

	now := u.now()
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.redemptionRepo.Transition(txCtx, redemptionID, status, now); err != nil {
			if errors.Is(err, domainerrors.ErrExpiredOrInactive) {
				return domainerrors.ErrRedemptionNotPending
			}
			return mapNotFound(err, domainerrors.ErrRedemptionNotFound)
		}
		if status != entities.RedemptionConfirmed {
			return nil
		}
		if err := u.dealRepo.IncrementUsedCount(txCtx, redemption.DealID); err != nil {
			if errors.Is(err, domainerrors.ErrLimitReached) {
				return domainerrors.ErrDealExhausted
			}
			return mapNotFound(err, domainerrors.ErrDealNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	redemption.Status = status
	redemption.UpdatedAt = now
	if status == entities.RedemptionConfirmed {
		redemption.ConfirmedAt.SetValid(now)
	} else {
		redemption.RejectedAt.SetValid(now)
	}

	u.metrics.Redemption(string(status))
	logger.Info(ctx, "Redemption settled",
		zap.String("redemption_id", redemptionID.String()),
		zap.String("status", string(status)),
	)
	return redemption, nil
}

// Get returns a redemption to its customer, the deal's restaurant owner or
// an admin. Everyone but the customer gets it without the verification code.
func (u *RedemptionUsecase) Get(ctx context.Context, redemptionID uuid.UUID, userID uuid.UUID, role entities.UserRole) (*entities.Redemption, error) {
	redemption, err := u.redemptionRepo.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRedemptionNotFound)
	}
	if redemption.UserID == userID {
		return redemption, nil
	}
	if role == entities.UserRoleAdmin {
		return withoutCode(redemption), nil
	}

	deal, err := u.dealRepo.GetByID(ctx, redemption.DealID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrDealNotFound)
	}
	restaurant := deal.Restaurant
	if restaurant == nil {
		if restaurant, err = u.restaurantRepo.GetByID(ctx, deal.RestaurantID); err != nil {
			return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
		}
	}
	if !canManageRestaurant(restaurant, userID, role) {
		return nil, domainerrors.Forbidden("not allowed to view this redemption")
	}
	return withoutCode(redemption), nil
}

// withoutCode copies r with the verification code cleared. Only the customer
// who claimed a redemption may read its code.
func withoutCode(r *entities.Redemption) *entities.Redemption {
	masked := *r
	masked.VerificationCode = ""
	return &masked
}

// ListMine returns the caller's redemptions, newest first
func (u *RedemptionUsecase) ListMine(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) (*utils.Page[*entities.Redemption], error) {
	items, total, err := u.redemptionRepo.GetByUserID(ctx, userID, page.Limit, page.CalculateOffset())
	if err != nil {
		return nil, err
	}
	return utils.NewPage(items, total, page), nil
}
