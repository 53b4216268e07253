package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DayCountRow is a sparse per-day event count; days with no events are
// absent and densified by the flow service.
type DayCountRow struct {
	Day   time.Time `gorm:"column:day"`
	Count int       `gorm:"column:count"`
}

type AlertRepository interface {
	// UpsertBatch inserts alerts, replacing existing rows by alert_id so
	// re-ingestion is idempotent.
	UpsertBatch(ctx context.Context, alerts []model.ComplianceAlert) error
	DailyCreatedCounts(ctx context.Context, start, end time.Time) ([]DayCountRow, error)
	DailyResolvedCounts(ctx context.Context, start, end time.Time) ([]DayCountRow, error)
	ListCreatedBetween(ctx context.Context, start, end time.Time) ([]model.ComplianceAlert, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) UpsertBatch(ctx context.Context, alerts []model.ComplianceAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	err := GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "alert_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"alert_type", "status", "assigned_to_name", "creation_date",
			"resolution_date", "impact_level", "sla_hours", "jurisdiction",
			"category", "tax_code", "monetary_exposure", "has_invoice_linked",
			"order_code", "invoice_no", "ingested_at",
		}),
	}).CreateInBatches(alerts, 200).Error
	if err != nil {
		return fmt.Errorf("failed to upsert alerts: %w", err)
	}
	return nil
}

func (r *alertRepository) DailyCreatedCounts(ctx context.Context, start, end time.Time) ([]DayCountRow, error) {
	query := `
		SELECT DATE_TRUNC('day', creation_date) AS day, COUNT(*) AS count
		FROM compliance_alerts
		WHERE creation_date >= $1 AND creation_date < $2
		GROUP BY DATE_TRUNC('day', creation_date)
		ORDER BY day
	`
	var rows []DayCountRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query daily created counts: %w", err)
	}
	return rows, nil
}

func (r *alertRepository) DailyResolvedCounts(ctx context.Context, start, end time.Time) ([]DayCountRow, error) {
	query := `
		SELECT DATE_TRUNC('day', resolution_date) AS day, COUNT(*) AS count
		FROM compliance_alerts
		WHERE resolution_date IS NOT NULL
		  AND resolution_date >= $1 AND resolution_date < $2
		GROUP BY DATE_TRUNC('day', resolution_date)
		ORDER BY day
	`
	var rows []DayCountRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query daily resolved counts: %w", err)
	}
	return rows, nil
}

func (r *alertRepository) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]model.ComplianceAlert, error) {
	var alerts []model.ComplianceAlert
	if err := GetDB(ctx, r.db).
		Where("creation_date >= ? AND creation_date < ?", start, end).
		Order("creation_date").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}
