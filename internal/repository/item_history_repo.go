package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemHistoryRepository interface {
	// ListVersionsCovering returns every version whose validity interval
	// covers the cutoff instant, joined with the item code. A healthy
	// history yields at most one row per item; callers must treat more
	// than one as an integrity fault, not pick a winner.
	ListVersionsCovering(ctx context.Context, cutoff time.Time) ([]model.ItemVersion, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.ItemVersion, error)
	OpenVersion(ctx context.Context, itemID uuid.UUID) (*model.ItemVersion, error)
	CloseVersion(ctx context.Context, versionID uuid.UUID, at time.Time) error
	CreateVersion(ctx context.Context, v *model.ItemVersion) error
	FindItemByCode(ctx context.Context, code string) (*model.Item, error)
	CreateItem(ctx context.Context, item *model.Item) error
}

type itemHistoryRepository struct {
	db *gorm.DB
}

func NewItemHistoryRepository(db *gorm.DB) ItemHistoryRepository {
	return &itemHistoryRepository{db: db}
}

func (r *itemHistoryRepository) ListVersionsCovering(ctx context.Context, cutoff time.Time) ([]model.ItemVersion, error) {
	var versions []model.ItemVersion
	if err := GetDB(ctx, r.db).
		Preload("Item").
		Where("valid_from <= ? AND (valid_to IS NULL OR valid_to > ?)", cutoff, cutoff).
		Order("item_id, valid_from").
		Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to query versions covering %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return versions, nil
}

func (r *itemHistoryRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.ItemVersion, error) {
	var versions []model.ItemVersion
	if err := GetDB(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("valid_from").
		Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to query item history: %w", err)
	}
	return versions, nil
}

// OpenVersion returns the item's current (valid_to IS NULL) version, or nil
// if the item has no open interval.
func (r *itemHistoryRepository) OpenVersion(ctx context.Context, itemID uuid.UUID) (*model.ItemVersion, error) {
	var versions []model.ItemVersion
	if err := GetDB(ctx, r.db).
		Where("item_id = ? AND valid_to IS NULL", itemID).
		Limit(2).
		Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to query open version: %w", err)
	}
	switch len(versions) {
	case 0:
		return nil, nil
	case 1:
		return &versions[0], nil
	default:
		return nil, fmt.Errorf("item %s has more than one open version", itemID)
	}
}

func (r *itemHistoryRepository) CloseVersion(ctx context.Context, versionID uuid.UUID, at time.Time) error {
	res := GetDB(ctx, r.db).
		Model(&model.ItemVersion{}).
		Where("id = ? AND valid_to IS NULL", versionID).
		Update("valid_to", at)
	if res.Error != nil {
		return fmt.Errorf("failed to close version: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("version %s is not open", versionID)
	}
	return nil
}

func (r *itemHistoryRepository) CreateVersion(ctx context.Context, v *model.ItemVersion) error {
	return GetDB(ctx, r.db).Create(v).Error
}

func (r *itemHistoryRepository) FindItemByCode(ctx context.Context, code string) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "item_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemHistoryRepository) CreateItem(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}
