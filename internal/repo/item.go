package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/storedesk/storesapi/internal/models"
)

// ItemNameTaken reports whether another item in the store already carries the
// name. excludeID skips the item being updated.
func (r *GormRepo) ItemNameTaken(ctx context.Context, storeID uint, name string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("store_id = ? AND name = ?", storeID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	taken, err := r.ItemNameTaken(ctx, item.StoreID, item.Name, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}
	return translate(r.DB.WithContext(ctx).Create(item).Error)
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.Item) error {
	taken, err := r.ItemNameTaken(ctx, item.StoreID, item.Name, item.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}
	return translate(r.DB.WithContext(ctx).Save(item).Error)
}

func (r *GormRepo) Items(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ItemByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// ItemTags returns the materialized tags linked to the item.
func (r *GormRepo) ItemTags(ctx context.Context, itemID uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).
		Joins("JOIN item_tags ON item_tags.tag_id = tags.id").
		Where("item_tags.item_id = ?", itemID).
		Order("tags.id ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormRepo) LinkItemTag(ctx context.Context, itemID, tagID uint) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.ItemTag{}).
		Where("item_id = ? AND tag_id = ?", itemID, tagID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	link := models.ItemTag{ItemID: itemID, TagID: tagID}
	return translate(r.DB.WithContext(ctx).Create(&link).Error)
}

func (r *GormRepo) UnlinkItemTag(ctx context.Context, itemID, tagID uint) error {
	return r.DB.WithContext(ctx).
		Where("item_id = ? AND tag_id = ?", itemID, tagID).
		Delete(&models.ItemTag{}).Error
}
