package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/storedesk/storesapi/internal/models"
)

func (r *GormRepo) CreateStore(ctx context.Context, s *models.Store) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Store{}).
		Where("name = ?", s.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *GormRepo) Stores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *GormRepo) StoreByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.DB.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

func (r *GormRepo) StoreItems(ctx context.Context, storeID uint) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) StoreTags(ctx context.Context, storeID uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteStore removes the store together with its items, its tags and the
// link rows of both, in one transaction.
func (r *GormRepo) DeleteStore(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var store models.Store
		if err := tx.First(&store, id).Error; err != nil {
			return translate(err)
		}

		if err := tx.
			Where("item_id IN (?)", tx.Model(&models.Item{}).Select("id").Where("store_id = ?", id)).
			Delete(&models.ItemTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&store).Error
	})
}
