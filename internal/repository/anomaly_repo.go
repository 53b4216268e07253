package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Grouping dimensions accepted by GroupTaxSums. Mapped to concrete columns
// through a whitelist; never interpolated from user input directly.
const (
	GroupByCategory     = "category"
	GroupByJurisdiction = "jurisdiction"
)

var groupColumns = map[string]string{
	GroupByCategory:     "t.category",
	GroupByJurisdiction: "t.jurisdiction",
}

// GroupTaxSumRow carries the raw numerator and denominator for one group.
// Dividing happens in the service so a zero base can surface as an
// undefined rate instead of a database error.
type GroupTaxSumRow struct {
	GroupKey string          `gorm:"column:group_key"`
	TaxSum   decimal.Decimal `gorm:"column:tax_sum"`
	BaseSum  decimal.Decimal `gorm:"column:base_sum"`
}

type AnomalyRepository interface {
	// GroupTaxSums aggregates tax lines of ISSUED invoices with issued_at
	// in [start, end), summed per category or jurisdiction.
	GroupTaxSums(ctx context.Context, groupBy string, start, end time.Time) ([]GroupTaxSumRow, error)
}

type anomalyRepository struct {
	db *gorm.DB
}

func NewAnomalyRepository(db *gorm.DB) AnomalyRepository {
	return &anomalyRepository{db: db}
}

func (r *anomalyRepository) GroupTaxSums(ctx context.Context, groupBy string, start, end time.Time) ([]GroupTaxSumRow, error) {
	column, ok := groupColumns[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported group_by %q (expected category or jurisdiction)", groupBy)
	}

	query := fmt.Sprintf(`
		SELECT %s AS group_key,
		       SUM(t.tax_amount) AS tax_sum,
		       SUM(t.base_amount) AS base_sum
		FROM tax_lines t
		JOIN invoices i ON i.id = t.invoice_id
		WHERE i.status = 'ISSUED'
		  AND i.issued_at >= $1
		  AND i.issued_at < $2
		GROUP BY %s
	`, column, column)

	var rows []GroupTaxSumRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query tax sums by %s: %w", groupBy, err)
	}
	return rows, nil
}
