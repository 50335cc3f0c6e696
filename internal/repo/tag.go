package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/storedesk/storesapi/internal/models"
)

func (r *GormRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Tag{}).
		Where("store_id = ? AND name = ?", tag.StoreID, tag.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translate(r.DB.WithContext(ctx).Create(tag).Error)
}

func (r *GormRepo) TagByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

// TagItems returns the materialized items linked to the tag.
func (r *GormRepo) TagItems(ctx context.Context, tagID uint) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).
		Joins("JOIN item_tags ON item_tags.item_id = items.id").
		Where("item_tags.tag_id = ?", tagID).
		Order("items.id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) TagLinkCount(ctx context.Context, tagID uint) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.ItemTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteTag refuses to delete a tag that is still linked to at least one item.
func (r *GormRepo) DeleteTag(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return translate(err)
		}

		var links int64
		if err := tx.Model(&models.ItemTag{}).Where("tag_id = ?", id).Count(&links).Error; err != nil {
			return err
		}
		if links > 0 {
			return ErrTagInUse
		}
		return tx.Delete(&tag).Error
	})
}
