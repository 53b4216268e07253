package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

type SnapshotRepository interface {
	DeleteForDate(ctx context.Context, date time.Time) (int64, error)
	InsertBatch(ctx context.Context, rows []model.ItemSnapshot) error
	ListByDate(ctx context.Context, date time.Time) ([]model.ItemSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// DeleteForDate removes every snapshot row of one date. Always paired with
// InsertBatch inside a single transaction so a rebuild is a full replace,
// never a partial patch.
func (r *snapshotRepository) DeleteForDate(ctx context.Context, date time.Time) (int64, error) {
	res := GetDB(ctx, r.db).
		Where("snapshot_date = ?", date.Format("2006-01-02")).
		Delete(&model.ItemSnapshot{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete snapshots for %s: %w", date.Format("2006-01-02"), res.Error)
	}
	return res.RowsAffected, nil
}

func (r *snapshotRepository) InsertBatch(ctx context.Context, rows []model.ItemSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	if err := GetDB(ctx, r.db).CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("failed to insert snapshot batch: %w", err)
	}
	return nil
}

func (r *snapshotRepository) ListByDate(ctx context.Context, date time.Time) ([]model.ItemSnapshot, error) {
	var rows []model.ItemSnapshot
	if err := GetDB(ctx, r.db).
		Where("snapshot_date = ?", date.Format("2006-01-02")).
		Order("item_code").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return rows, nil
}
