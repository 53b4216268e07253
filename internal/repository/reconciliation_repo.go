package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderTotalRow is one side of the reconciliation, already aggregated per
// order. Summing before the sides are combined avoids row multiplication
// from the 1:N payment and invoice fan-outs.
type OrderTotalRow struct {
	OrderID   uuid.UUID       `gorm:"column:order_id"`
	OrderCode string          `gorm:"column:order_code"`
	Total     decimal.Decimal `gorm:"column:total"`
}

type ReconciliationRepository interface {
	// PaidTotalsByOrder sums APPROVED payments per order with paid_at in [start, end).
	PaidTotalsByOrder(ctx context.Context, start, end time.Time) ([]OrderTotalRow, error)
	// InvoicedTotalsByOrder sums ISSUED invoices per order with issued_at in [start, end).
	InvoicedTotalsByOrder(ctx context.Context, start, end time.Time) ([]OrderTotalRow, error)
}

type reconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) PaidTotalsByOrder(ctx context.Context, start, end time.Time) ([]OrderTotalRow, error) {
	query := `
		SELECT p.order_id,
		       COALESCE(o.order_code, '') AS order_code,
		       SUM(p.amount) AS total
		FROM payments p
		LEFT JOIN orders o ON o.id = p.order_id
		WHERE p.status = 'APPROVED'
		  AND p.paid_at >= $1
		  AND p.paid_at < $2
		GROUP BY p.order_id, o.order_code
	`

	var rows []OrderTotalRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query paid totals: %w", err)
	}
	return rows, nil
}

func (r *reconciliationRepository) InvoicedTotalsByOrder(ctx context.Context, start, end time.Time) ([]OrderTotalRow, error) {
	query := `
		SELECT i.order_id,
		       COALESCE(o.order_code, '') AS order_code,
		       SUM(i.total_amount) AS total
		FROM invoices i
		LEFT JOIN orders o ON o.id = i.order_id
		WHERE i.status = 'ISSUED'
		  AND i.issued_at >= $1
		  AND i.issued_at < $2
		GROUP BY i.order_id, o.order_code
	`

	var rows []OrderTotalRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query invoiced totals: %w", err)
	}
	return rows, nil
}
