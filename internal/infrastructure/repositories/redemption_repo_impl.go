package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/infrastructure/models"
)

// RedemptionRepository implements redemption data operations
type RedemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository creates a new redemption repository
func NewRedemptionRepository(db *gorm.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

// Create creates a redemption. A verification code already held by a
// pending redemption surfaces as ErrAlreadyExists.
func (r *RedemptionRepository) Create(ctx context.Context, redemption *entities.Redemption) error {
	m := &models.Redemption{
		ID:               redemption.ID,
		UserID:           redemption.UserID,
		DealID:           redemption.DealID,
		VerificationCode: redemption.VerificationCode,
		Status:           string(redemption.Status),
		OrderAmount:      redemption.OrderAmount,
		DiscountAmount:   redemption.DiscountAmount,
		FinalAmount:      redemption.FinalAmount,
		RedeemedAt:       redemption.RedeemedAt,
		ConfirmedAt:      redemption.ConfirmedAt.Ptr(),
		RejectedAt:       redemption.RejectedAt.Ptr(),
		CreatedAt:        redemption.CreatedAt,
		UpdatedAt:        redemption.UpdatedAt,
	}
	return translateError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a redemption by ID
func (r *RedemptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Redemption, error) {
	var m models.Redemption
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return r.toEntity(&m), nil
}

// GetByUserID lists a user's redemptions, newest first
func (r *RedemptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Redemption, int, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Redemption{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("redeemed_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.Redemption
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	redemptions := make([]*entities.Redemption, 0, len(ms))
	for i := range ms {
		redemptions = append(redemptions, r.toEntity(&ms[i]))
	}
	return redemptions, int(total), nil
}

// CountPendingByDeal counts pending redemptions holding a reservation on a deal
func (r *RedemptionRepository) CountPendingByDeal(ctx context.Context, dealID uuid.UUID) (int, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Redemption{}).
		Where("deal_id = ? AND status = ?", dealID, string(entities.RedemptionPending)).
		Count(&count).Error
	return int(count), err
}

// CountActiveByUserAndDeal counts the user's non-rejected redemptions of a deal
func (r *RedemptionRepository) CountActiveByUserAndDeal(ctx context.Context, userID, dealID uuid.UUID) (int, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Redemption{}).
		Where("user_id = ? AND deal_id = ? AND status <> ?", userID, dealID, string(entities.RedemptionRejected)).
		Count(&count).Error
	return int(count), err
}

// Transition moves a pending redemption to CONFIRMED or REJECTED
func (r *RedemptionRepository) Transition(ctx context.Context, id uuid.UUID, status entities.RedemptionStatus, at time.Time) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": at,
	}
	switch status {
	case entities.RedemptionConfirmed:
		updates["confirmed_at"] = at
	case entities.RedemptionRejected:
		updates["rejected_at"] = at
	}

	result := GetDB(ctx, r.db).Model(&models.Redemption{}).
		Where("id = ? AND status = ?", id, string(entities.RedemptionPending)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := GetDB(ctx, r.db).Model(&models.Redemption{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrExpiredOrInactive
}

// RejectPendingBefore rejects up to limit pending redemptions claimed before cutoff
func (r *RedemptionRepository) RejectPendingBefore(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	var ids []uuid.UUID
	query := GetDB(ctx, r.db).Model(&models.Redemption{}).
		Where("status = ? AND redeemed_at < ?", string(entities.RedemptionPending), cutoff).
		Order("redeemed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	result := GetDB(ctx, r.db).Model(&models.Redemption{}).
		Where("id IN ? AND status = ?", ids, string(entities.RedemptionPending)).
		Updates(map[string]interface{}{
			"status":      string(entities.RedemptionRejected),
			"rejected_at": now,
			"updated_at":  now,
		})
	return int(result.RowsAffected), result.Error
}

func (r *RedemptionRepository) toEntity(m *models.Redemption) *entities.Redemption {
	return &entities.Redemption{
		ID:               m.ID,
		UserID:           m.UserID,
		DealID:           m.DealID,
		VerificationCode: m.VerificationCode,
		Status:           entities.RedemptionStatus(m.Status),
		OrderAmount:      m.OrderAmount,
		DiscountAmount:   m.DiscountAmount,
		FinalAmount:      m.FinalAmount,
		RedeemedAt:       m.RedeemedAt,
		ConfirmedAt:      null.TimeFromPtr(m.ConfirmedAt),
		RejectedAt:       null.TimeFromPtr(m.RejectedAt),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
