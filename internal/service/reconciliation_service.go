package service

import (
	"context"
	"sort"
	"time"

	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// DefaultMaterialityThreshold separates true discrepancies from rounding
// noise when the caller does not supply a threshold.
var DefaultMaterialityThreshold = decimal.NewFromFloat(0.01)

// ReconciliationRecord is the per-order diff between the payment and the
// invoice stream. Derived per query — a reporting artifact, never a source
// of truth.
type ReconciliationRecord struct {
	OrderID       string          `json:"order_id"`
	OrderCode     string          `json:"order_code"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	Diff          decimal.Decimal `json:"diff"`
	AbsDiff       decimal.Decimal `json:"abs_diff"`
	Discrepant    bool            `json:"discrepant"`
}

type ReconciliationService interface {
	// Reconcile diffs approved payments against issued invoices per order
	// over [start, end). Orders with activity on only one side stay in the
	// output with the missing side at zero. Single currency; refunds and
	// chargebacks are not netted.
	Reconcile(ctx context.Context, start, end time.Time, threshold decimal.Decimal) ([]ReconciliationRecord, error)
}

type reconciliationService struct {
	repo repository.ReconciliationRepository
}

func NewReconciliationService(repo repository.ReconciliationRepository) ReconciliationService {
	return &reconciliationService{repo: repo}
}

func (s *reconciliationService) Reconcile(ctx context.Context, start, end time.Time, threshold decimal.Decimal) ([]ReconciliationRecord, error) {
	paid, err := s.repo.PaidTotalsByOrder(ctx, start, end)
	if err != nil {
		return nil, err
	}
	invoiced, err := s.repo.InvoicedTotalsByOrder(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return mergeOrderTotals(paid, invoiced, threshold), nil
}

// mergeOrderTotals performs the full outer correlation of the two
// pre-aggregated sides. Every order seen on either side appears exactly
// once; ordering is abs_diff descending with order code, then id, as the
// deterministic tiebreak.
func mergeOrderTotals(paid, invoiced []repository.OrderTotalRow, threshold decimal.Decimal) []ReconciliationRecord {
	type sides struct {
		orderCode string
		paid      decimal.Decimal
		invoiced  decimal.Decimal
	}

	byOrder := make(map[string]*sides)
	for _, row := range paid {
		byOrder[row.OrderID.String()] = &sides{orderCode: row.OrderCode, paid: row.Total}
	}
	for _, row := range invoiced {
		if existing, ok := byOrder[row.OrderID.String()]; ok {
			existing.invoiced = row.Total
			if existing.orderCode == "" {
				existing.orderCode = row.OrderCode
			}
			continue
		}
		byOrder[row.OrderID.String()] = &sides{orderCode: row.OrderCode, invoiced: row.Total}
	}

	records := make([]ReconciliationRecord, 0, len(byOrder))
	for orderID, s := range byOrder {
		diff := s.paid.Sub(s.invoiced)
		absDiff := diff.Abs()
		records = append(records, ReconciliationRecord{
			OrderID:       orderID,
			OrderCode:     s.orderCode,
			PaidTotal:     s.paid,
			InvoicedTotal: s.invoiced,
			Diff:          diff,
			AbsDiff:       absDiff,
			Discrepant:    absDiff.GreaterThan(threshold),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if c := records[i].AbsDiff.Cmp(records[j].AbsDiff); c != 0 {
			return c > 0
		}
		if records[i].OrderCode != records[j].OrderCode {
			return records[i].OrderCode < records[j].OrderCode
		}
		return records[i].OrderID < records[j].OrderID
	})

	return records
}
