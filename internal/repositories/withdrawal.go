package repositories

import (
	"context"
	"errors"
	"time"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"

	"gorm.io/gorm"
)

// WithdrawalRepository handles persistence for withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	GetByReference(ctx context.Context, reference string) (*models.Withdrawal, error)
	ListByCollection(ctx context.Context, collectionID uint) ([]models.Withdrawal, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Withdrawal, error)
	Update(ctx context.Context, withdrawal *models.Withdrawal) error
	// ListProcessingOlderThan returns withdrawals stuck in processing
	// since before the cutoff, for the reconciliation job.
	ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Withdrawal, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(withdrawal).Error
}

func (r *withdrawalRepository) GetByReference(ctx context.Context, reference string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&withdrawal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}

func (r *withdrawalRepository) ListByCollection(ctx context.Context, collectionID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("created_at ASC").
		Find(&withdrawals).Error
	return withdrawals, err
}

func (r *withdrawalRepository) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

func (r *withdrawalRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Save(withdrawal).Error
}

func (r *withdrawalRepository) ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", models.WithdrawalStatusProcessing, cutoff).
		Find(&withdrawals).Error
	return withdrawals, err
}
