package repositories

import (
	"context"
	"errors"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"

	"gorm.io/gorm"
)

// ContributionRepository handles persistence for the contribution
// ledger. Paid rows are append-only; the unique (reference, leg) index
// is what makes verified-payment ingestion idempotent.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	// CreateBatch inserts all legs of one gateway charge atomically.
	// Returns ErrDuplicateContribution if the reference is already
	// recorded.
	CreateBatch(ctx context.Context, contributions []models.Contribution) error
	GetByReference(ctx context.Context, reference string) ([]models.Contribution, error)
	ListPaidByCollection(ctx context.Context, collectionID uint) ([]models.Contribution, error)
	CountPaidByCollection(ctx context.Context, collectionID uint) (int64, error)
	ParticipantCodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, contribution *models.Contribution) error
	UpdateBatch(ctx context.Context, contributions []models.Contribution) error
}

type contributionRepository struct {
	db *gorm.DB
}

func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	err := r.db.WithContext(ctx).Create(contribution).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrDuplicateContribution
	}
	return err
}

func (r *contributionRepository) CreateBatch(ctx context.Context, contributions []models.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&contributions).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrDuplicateContribution
	}
	return err
}

func (r *contributionRepository) GetByReference(ctx context.Context, reference string) ([]models.Contribution, error) {
	var contributions []models.Contribution
	err := r.db.WithContext(ctx).
		Where("gateway_reference = ?", reference).
		Order("leg_index ASC").
		Find(&contributions).Error
	return contributions, err
}

func (r *contributionRepository) ListPaidByCollection(ctx context.Context, collectionID uint) ([]models.Contribution, error) {
	var contributions []models.Contribution
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND status = ?", collectionID, models.ContributionStatusPaid).
		Order("created_at ASC").
		Find(&contributions).Error
	return contributions, err
}

func (r *contributionRepository) CountPaidByCollection(ctx context.Context, collectionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("collection_id = ? AND status = ?", collectionID, models.ContributionStatusPaid).
		Count(&count).Error
	return count, err
}

func (r *contributionRepository) ParticipantCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("participant_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *contributionRepository) Update(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Save(contribution).Error
}

func (r *contributionRepository) UpdateBatch(ctx context.Context, contributions []models.Contribution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range contributions {
			if err := tx.Save(&contributions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
