package usecases

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/domain/repositories"
	"dealhub.backend/pkg/geo"
	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/metrics"
	"dealhub.backend/pkg/qrcode"
	"dealhub.backend/pkg/utils"
)

var maxPercentage = decimal.NewFromInt(100)

// DealUsecase handles deal listing and lifecycle
type DealUsecase struct {
	uow            repositories.UnitOfWork
	dealRepo       repositories.DealRepository
	restaurantRepo repositories.RestaurantRepository
	qr             qrcode.Generator
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewDealUsecase creates a new deal usecase. qr and m may be nil.
func NewDealUsecase(
	uow repositories.UnitOfWork,
	dealRepo repositories.DealRepository,
	restaurantRepo repositories.RestaurantRepository,
	qr qrcode.Generator,
	m *metrics.Metrics,
) *DealUsecase {
	return &DealUsecase{
		uow:            uow,
		dealRepo:       dealRepo,
		restaurantRepo: restaurantRepo,
		qr:             qr,
		metrics:        m,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source
func (u *DealUsecase) WithClock(now func() time.Time) *DealUsecase {
	u.now = now
	return u
}

// List returns a page of redeemable deals. When the filter carries a
// location every match is ranked by distance before the page is cut.
func (u *DealUsecase) List(ctx context.Context, filter entities.DealFilter, page utils.PaginationParams) (*utils.Page[*entities.DealView], error) {
	if err := validateLocation(filter); err != nil {
		return nil, err
	}
	now := u.now()

	if !filter.HasLocation() {
		deals, total, err := u.dealRepo.ListActive(ctx, filter, now, page.Limit, page.CalculateOffset())
		if err != nil {
			return nil, err
		}
		views := make([]*entities.DealView, 0, len(deals))
		for _, d := range deals {
			views = append(views, entities.NewDealView(d))
		}
		return utils.NewPage(views, total, page), nil
	}

	deals, _, err := u.dealRepo.ListActive(ctx, filter, now, 0, 0)
	if err != nil {
		return nil, err
	}

	lat, lon := *filter.Latitude, *filter.Longitude
	radius := 0.0
	if filter.RadiusKm != nil {
		radius = *filter.RadiusKm
	}

	views := make([]*entities.DealView, 0, len(deals))
	for _, d := range deals {
		view := entities.NewDealView(d)
		if d.Restaurant.HasCoordinates() {
			dist := geo.Distance(lat, lon, d.Restaurant.Latitude.Float64, d.Restaurant.Longitude.Float64)
			if radius > 0 && dist > radius {
				continue
			}
			view.Distance = &dist
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Distance, views[j].Distance
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	start, end := page.Window(len(views))
	return utils.NewPage(views[start:end], len(views), page), nil
}

func validateLocation(filter entities.DealFilter) error {
	if (filter.Latitude == nil) != (filter.Longitude == nil) {
		return domainerrors.BadRequest("latitude and longitude must be given together")
	}
	if filter.Latitude != nil && (*filter.Latitude < -90 || *filter.Latitude > 90) {
		return domainerrors.BadRequest("latitude must be between -90 and 90")
	}
	if filter.Longitude != nil && (*filter.Longitude < -180 || *filter.Longitude > 180) {
		return domainerrors.BadRequest("longitude must be between -180 and 180")
	}
	if filter.RadiusKm != nil && *filter.RadiusKm < 0 {
		return domainerrors.BadRequest("radius must not be negative")
	}
	return nil
}

// GetByID returns a single deal with its remaining uses
func (u *DealUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.DealView, error) {
	deal, err := u.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrDealNotFound)
	}
	return entities.NewDealView(deal), nil
}

// Create adds a deal to a restaurant, enforcing ownership and the tier quota
// while the restaurant row is locked.
func (u *DealUsecase) Create(ctx context.Context, input *entities.CreateDealInput, userID uuid.UUID, role entities.UserRole) (*entities.DealView, error) {
	now := u.now()
	startsAt := now
	if input.StartsAt != nil {
		startsAt = input.StartsAt.UTC()
	}
	expiresAt := input.ExpiresAt.UTC()

	if err := validateDealTerms(input.DiscountType, input.DiscountValue, startsAt, expiresAt); err != nil {
		return nil, err
	}
	if !expiresAt.After(now) {
		return nil, domainerrors.BadRequest("expiresAt must be in the future")
	}
	if input.MaxUses < 1 {
		return nil, domainerrors.BadRequest("maxUses must be at least 1")
	}
	perUserLimit := input.PerUserLimit
	if perUserLimit == 0 {
		perUserLimit = entities.DefaultPerUserLimit
	}
	if perUserLimit < 0 {
		return nil, domainerrors.BadRequest("perUserLimit must be at least 1")
	}

	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		code, err := generateDealCode()
		if err != nil {
			return nil, err
		}

		deal := &entities.Deal{
			ID:            utils.GenerateUUIDv7(),
			RestaurantID:  input.RestaurantID,
			Title:         strings.TrimSpace(input.Title),
			Description:   null.NewString(input.Description, input.Description != ""),
			Code:          code,
			QRCode:        u.renderQR(ctx, code),
			DiscountType:  input.DiscountType,
			DiscountValue: input.DiscountValue,
			MaxUses:       input.MaxUses,
			PerUserLimit:  perUserLimit,
			StartsAt:      startsAt,
			ExpiresAt:     expiresAt,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			restaurant, err := u.restaurantRepo.GetByIDForUpdate(txCtx, input.RestaurantID)
			if err != nil {
				return mapNotFound(err, domainerrors.ErrRestaurantNotFound)
			}
			if !canManageRestaurant(restaurant, userID, role) {
				return domainerrors.ErrNotOwner
			}

			active, err := u.dealRepo.CountActiveByRestaurant(txCtx, restaurant.ID, now)
			if err != nil {
				return err
			}
			if active >= DealLimitForTier(restaurant.SubscriptionTier) {
				u.metrics.DealRejected("tier_limit")
				return domainerrors.ErrDealLimitReached
			}

			deal.Restaurant = restaurant
			return u.dealRepo.Create(txCtx, deal)
		})
		if err == nil {
			u.metrics.DealCreated()
			logger.Info(ctx, "Deal created",
				zap.String("deal_id", deal.ID.String()),
				zap.String("restaurant_id", deal.RestaurantID.String()),
			)
			return entities.NewDealView(deal), nil
		}
		if !errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, err
		}

		u.metrics.CodeCollision("deal")
		logger.Warn(ctx, "Deal code collision, regenerating", zap.Int("attempt", attempt))
	}

	return nil, domainerrors.ErrCodeCollision
}

// renderQR degrades to a null QR code when rendering fails
func (u *DealUsecase) renderQR(ctx context.Context, code string) null.String {
	if u.qr == nil {
		return null.String{}
	}
	img, err := u.qr.Generate(code)
	if err != nil {
		u.metrics.QRFailure()
		logger.Warn(ctx, "QR generation failed", zap.String("code", code), zap.Error(err))
		return null.String{}
	}
	return null.StringFrom(img)
}

func validateDealTerms(discountType entities.DiscountType, value decimal.Decimal, startsAt, expiresAt time.Time) error {
	if discountType != entities.DiscountPercentage && discountType != entities.DiscountFixed {
		return domainerrors.BadRequest("discountType must be PERCENTAGE or FIXED")
	}
	if !value.IsPositive() {
		return domainerrors.BadRequest("discountValue must be positive")
	}
	if discountType == entities.DiscountPercentage && value.GreaterThan(maxPercentage) {
		return domainerrors.BadRequest("percentage discount cannot exceed 100")
	}
	if !expiresAt.After(startsAt) {
		return domainerrors.BadRequest("expiresAt must be after startsAt")
	}
	return nil
}

// Update applies a partial update. The tier quota is not re-checked.
func (u *DealUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UpdateDealInput, userID uuid.UUID, role entities.UserRole) (*entities.DealView, error) {
	var updated *entities.Deal

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		deal, err := u.loadManagedDeal(txCtx, id, userID, role)
		if err != nil {
			return err
		}

		if input.Title != nil {
			deal.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			deal.Description = null.NewString(*input.Description, *input.Description != "")
		}
		if input.DiscountType != nil {
			deal.DiscountType = *input.DiscountType
		}
		if input.DiscountValue != nil {
			deal.DiscountValue = *input.DiscountValue
		}
		if input.MaxUses != nil {
			if *input.MaxUses < deal.UsedCount {
				return domainerrors.BadRequest("maxUses cannot be lower than usedCount")
			}
			deal.MaxUses = *input.MaxUses
		}
		if input.PerUserLimit != nil {
			if *input.PerUserLimit < 1 {
				return domainerrors.BadRequest("perUserLimit must be at least 1")
			}
			deal.PerUserLimit = *input.PerUserLimit
		}
		if input.StartsAt != nil {
			deal.StartsAt = input.StartsAt.UTC()
		}
		if input.ExpiresAt != nil {
			deal.ExpiresAt = input.ExpiresAt.UTC()
		}
		if input.IsActive != nil {
			deal.IsActive = *input.IsActive
		}

		if err := validateDealTerms(deal.DiscountType, deal.DiscountValue, deal.StartsAt, deal.ExpiresAt); err != nil {
			return err
		}

		if err := u.dealRepo.Update(txCtx, deal); err != nil {
			if errors.Is(err, domainerrors.ErrLimitReached) {
				return domainerrors.BadRequest("maxUses cannot be lower than usedCount")
			}
			return mapNotFound(err, domainerrors.ErrDealNotFound)
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities.NewDealView(updated), nil
}

// Delete deactivates a deal. Deals are never removed.
func (u *DealUsecase) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, role entities.UserRole) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.loadManagedDeal(txCtx, id, userID, role); err != nil {
			return err
		}
		if err := u.dealRepo.Deactivate(txCtx, id); err != nil {
			return mapNotFound(err, domainerrors.ErrDealNotFound)
		}
		logger.Info(txCtx, "Deal deactivated", zap.String("deal_id", id.String()))
		return nil
	})
}

// ListByRestaurant returns every deal of a restaurant, active or not
func (u *DealUsecase) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, userID uuid.UUID, role entities.UserRole, page utils.PaginationParams) (*utils.Page[*entities.DealView], error) {
	restaurant, err := u.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
	}
	if !canManageRestaurant(restaurant, userID, role) {
		return nil, domainerrors.ErrNotOwner
	}

	deals, total, err := u.dealRepo.GetByRestaurantID(ctx, restaurantID, page.Limit, page.CalculateOffset())
	if err != nil {
		return nil, err
	}
	views := make([]*entities.DealView, 0, len(deals))
	for _, d := range deals {
		views = append(views, entities.NewDealView(d))
	}
	return utils.NewPage(views, total, page), nil
}

// loadManagedDeal locks a deal and checks the caller may manage it
func (u *DealUsecase) loadManagedDeal(ctx context.Context, id uuid.UUID, userID uuid.UUID, role entities.UserRole) (*entities.Deal, error) {
	deal, err := u.dealRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrDealNotFound)
	}
	restaurant, err := u.restaurantRepo.GetByID(ctx, deal.RestaurantID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRestaurantNotFound)
	}
	if !canManageRestaurant(restaurant, userID, role) {
		return nil, domainerrors.ErrNotOwner
	}
	deal.Restaurant = restaurant
	return deal, nil
}
