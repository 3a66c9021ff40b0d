package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
)

// memStore is an in-memory backing store whose Do serializes transactions
// and rolls back on error, standing in for row locks in concurrency tests.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	restaurants map[uuid.UUID]entities.Restaurant
	deals       map[uuid.UUID]entities.Deal
	redemptions map[uuid.UUID]entities.Redemption
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		restaurants: map[uuid.UUID]entities.Restaurant{},
		deals:       map[uuid.UUID]entities.Deal{},
		redemptions: map[uuid.UUID]entities.Redemption{},
	}
}

func (s *memStore) Do(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	deals := copyMap(s.deals)
	redemptions := copyMap(s.redemptions)
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		s.mu.Lock()
		s.deals = deals
		s.redemptions = redemptions
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](in map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type memRestaurants struct{ s *memStore }

func (r memRestaurants) Create(_ context.Context, restaurant *entities.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r memRestaurants) GetByID(_ context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.restaurants[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &v, nil
}

func (r memRestaurants) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	return r.GetByID(ctx, id)
}

func (r memRestaurants) GetByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*entities.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entities.Restaurant
	for _, v := range r.s.restaurants {
		if v.OwnerID == ownerID {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r memRestaurants) List(context.Context, entities.RestaurantFilter, int, int) ([]*entities.Restaurant, int, error) {
	return nil, 0, nil
}

func (r memRestaurants) UpdateApprovalStatus(context.Context, uuid.UUID, entities.ApprovalStatus) error {
	return nil
}

func (r memRestaurants) UpdateTier(context.Context, uuid.UUID, entities.SubscriptionTier) error {
	return nil
}

type memDeals struct{ s *memStore }

func (r memDeals) Create(_ context.Context, deal *entities.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.deals {
		if d.Code == deal.Code {
			return domainerrors.ErrAlreadyExists
		}
	}
	stored := *deal
	stored.Restaurant = nil
	r.s.deals[deal.ID] = stored
	return nil
}

func (r memDeals) GetByID(_ context.Context, id uuid.UUID) (*entities.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.deals[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &v, nil
}

func (r memDeals) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	return r.GetByID(ctx, id)
}

func (r memDeals) Update(_ context.Context, deal *entities.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.deals[deal.ID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if deal.MaxUses < cur.UsedCount {
		return domainerrors.ErrLimitReached
	}
	next := *deal
	next.UsedCount = cur.UsedCount
	next.Restaurant = nil
	r.s.deals[deal.ID] = next
	return nil
}

func (r memDeals) Deactivate(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.deals[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	cur.IsActive = false
	r.s.deals[id] = cur
	return nil
}

func (r memDeals) ListActive(context.Context, entities.DealFilter, time.Time, int, int) ([]*entities.Deal, int, error) {
	return nil, 0, nil
}

func (r memDeals) GetByRestaurantID(context.Context, uuid.UUID, int, int) ([]*entities.Deal, int, error) {
	return nil, 0, nil
}

func (r memDeals) CountActiveByRestaurant(_ context.Context, restaurantID uuid.UUID, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, d := range r.s.deals {
		if d.RestaurantID == restaurantID && d.IsActive && d.ExpiresAt.After(now) {
			n++
		}
	}
	return n, nil
}

func (r memDeals) IncrementUsedCount(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.deals[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if cur.UsedCount >= cur.MaxUses {
		return domainerrors.ErrLimitReached
	}
	cur.UsedCount++
	r.s.deals[id] = cur
	return nil
}

type memRedemptions struct{ s *memStore }

func (r memRedemptions) Create(_ context.Context, redemption *entities.Redemption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.redemptions {
		if v.Status == entities.RedemptionPending && v.VerificationCode == redemption.VerificationCode {
			return domainerrors.ErrAlreadyExists
		}
	}
	r.s.redemptions[redemption.ID] = *redemption
	return nil
}

func (r memRedemptions) GetByID(_ context.Context, id uuid.UUID) (*entities.Redemption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.redemptions[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &v, nil
}

func (r memRedemptions) GetByUserID(context.Context, uuid.UUID, int, int) ([]*entities.Redemption, int, error) {
	return nil, 0, nil
}

func (r memRedemptions) CountPendingByDeal(_ context.Context, dealID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, v := range r.s.redemptions {
		if v.DealID == dealID && v.Status == entities.RedemptionPending {
			n++
		}
	}
	return n, nil
}

func (r memRedemptions) CountActiveByUserAndDeal(_ context.Context, userID, dealID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, v := range r.s.redemptions {
		if v.UserID == userID && v.DealID == dealID && v.Status != entities.RedemptionRejected {
			n++
		}
	}
	return n, nil
}

func (r memRedemptions) Transition(_ context.Context, id uuid.UUID, status entities.RedemptionStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.redemptions[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if cur.Status != entities.RedemptionPending {
		return domainerrors.ErrExpiredOrInactive
	}
	cur.Status = status
	cur.UpdatedAt = at
	r.s.redemptions[id] = cur
	return nil
}

func (r memRedemptions) RejectPendingBefore(context.Context, time.Time, int) (int, error) {
	return 0, nil
}

func (s *memStore) countByStatus(dealID uuid.UUID, status entities.RedemptionStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.redemptions {
		if v.DealID == dealID && v.Status == status {
			n++
		}
	}
	return n
}

func (s *memStore) deal(id uuid.UUID) entities.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deals[id]
}
