package repositories

import (
	"context"
	"errors"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository handles persistence for collections.
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	GetByShareCode(ctx context.Context, code string) (*models.Collection, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Collection, error)
	ShareCodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, collection *models.Collection) error
	Retire(ctx context.Context, id uint) error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).First(&collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) GetByShareCode(ctx context.Context, code string) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).Where("share_code = ?", code).First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("share_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

func (r *collectionRepository) Retire(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Collection{}, id).Error
}
