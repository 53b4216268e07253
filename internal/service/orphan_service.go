package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type OrphanService interface {
	// FindOrphans runs the five integrity checks over the lookback window
	// ending at asOf and concatenates their results into one uniform set.
	// Each check windows on its own natural date field.
	FindOrphans(ctx context.Context, asOf time.Time, lookbackDays int) ([]model.OrphanRecord, error)
}

type orphanService struct {
	repo repository.OrphanRepository
}

func NewOrphanService(repo repository.OrphanRepository) OrphanService {
	return &orphanService{repo: repo}
}

func (s *orphanService) FindOrphans(ctx context.Context, asOf time.Time, lookbackDays int) ([]model.OrphanRecord, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("lookback_days must be positive, got %d", lookbackDays)
	}
	start := asOf.AddDate(0, 0, -lookbackDays)
	end := asOf

	var (
		orders       []model.OrphanRecord
		payments     []model.OrphanRecord
		orderItems   []model.OrphanRecord
		invoiceItems []model.OrphanRecord
		invoices     []model.OrphanRecord
	)

	// The checks are independent reads; running them concurrently is a
	// performance choice only and cannot change the result set.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.repo.OrdersWithoutInvoice(gctx, start, end)
		if err != nil {
			return err
		}
		orders = mapOrphanOrders(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.PaymentsWithoutInvoice(gctx, start, end)
		if err != nil {
			return err
		}
		payments = mapOrphanPayments(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.OrderItemsWithoutInvoiceItem(gctx, start, end)
		if err != nil {
			return err
		}
		orderItems = mapOrphanOrderItems(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.InvoiceItemsWithoutOrderItem(gctx, start, end)
		if err != nil {
			return err
		}
		invoiceItems = mapOrphanInvoiceItems(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.InvoicesWithoutTaxLine(gctx, start, end)
		if err != nil {
			return err
		}
		invoices = mapOrphanInvoices(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Union by concatenation in a fixed check order; each repo query is
	// internally ordered, so the combined set is deterministic.
	combined := make([]model.OrphanRecord, 0,
		len(orders)+len(payments)+len(orderItems)+len(invoiceItems)+len(invoices))
	combined = append(combined, orders...)
	combined = append(combined, payments...)
	combined = append(combined, orderItems...)
	combined = append(combined, invoiceItems...)
	combined = append(combined, invoices...)
	return combined, nil
}

func amountHint(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

func mapOrphanOrders(rows []repository.OrphanOrderRow) []model.OrphanRecord {
	records := make([]model.OrphanRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.OrphanRecord{
			OrphanType:   model.OrphanOrderWithoutInvoice,
			OrderID:      ptr(r.OrderID),
			OccurredDate: r.CreatedAt,
			AmountHint:   amountHint(r.TotalAmount),
			Details:      fmt.Sprintf("order %s has no issued invoice", r.OrderCode),
		})
	}
	return records
}

func mapOrphanPayments(rows []repository.OrphanPaymentRow) []model.OrphanRecord {
	records := make([]model.OrphanRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.OrphanRecord{
			OrphanType:   model.OrphanPaymentWithoutInvoice,
			PaymentID:    ptr(r.PaymentID),
			OrderID:      ptr(r.OrderID),
			OccurredDate: r.PaidAt,
			AmountHint:   amountHint(r.Amount),
			Details:      fmt.Sprintf("approved payment on order %s has no issued invoice", r.OrderID),
		})
	}
	return records
}

func mapOrphanOrderItems(rows []repository.OrphanOrderItemRow) []model.OrphanRecord {
	records := make([]model.OrphanRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.OrphanRecord{
			OrphanType:   model.OrphanOrderItemWithoutInvoiceItem,
			OrderItemID:  ptr(r.OrderItemID),
			OrderID:      ptr(r.OrderID),
			ItemID:       ptr(r.ItemID),
			OccurredDate: r.CreatedAt,
			AmountHint:   amountHint(r.LineAmount),
			Details:      "order line missing from the order's issued invoice(s)",
		})
	}
	return records
}

func mapOrphanInvoiceItems(rows []repository.OrphanInvoiceItemRow) []model.OrphanRecord {
	records := make([]model.OrphanRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.OrphanRecord{
			OrphanType:    model.OrphanInvoiceItemWithoutOrderItem,
			InvoiceItemID: ptr(r.InvoiceItemID),
			InvoiceID:     ptr(r.InvoiceID),
			ItemID:        ptr(r.ItemID),
			OccurredDate:  r.IssuedAt,
			AmountHint:    amountHint(r.NetAmount),
			Details:       "invoice line has no matching order line",
		})
	}
	return records
}

func mapOrphanInvoices(rows []repository.OrphanInvoiceRow) []model.OrphanRecord {
	records := make([]model.OrphanRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.OrphanRecord{
			OrphanType:   model.OrphanInvoiceWithoutTaxLine,
			InvoiceID:    ptr(r.InvoiceID),
			OrderID:      ptr(r.OrderID),
			OccurredDate: r.IssuedAt,
			AmountHint:   amountHint(r.TotalAmount),
			Details:      fmt.Sprintf("issued invoice %s has no tax lines", r.InvoiceNo),
		})
	}
	return records
}
