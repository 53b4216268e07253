package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrphanRepo struct {
	start, end time.Time
}

func (s *stubOrphanRepo) OrdersWithoutInvoice(_ context.Context, start, end time.Time) ([]repository.OrphanOrderRow, error) {
	s.start, s.end = start, end
	return []repository.OrphanOrderRow{{
		OrderID:     uuid.New(),
		OrderCode:   "O-100",
		CreatedAt:   start.AddDate(0, 0, 1),
		TotalAmount: decimal.RequireFromString("150.00"),
	}}, nil
}

func (s *stubOrphanRepo) PaymentsWithoutInvoice(_ context.Context, start, _ time.Time) ([]repository.OrphanPaymentRow, error) {
	return []repository.OrphanPaymentRow{{
		PaymentID: uuid.New(),
		OrderID:   uuid.New(),
		PaidAt:    start.AddDate(0, 0, 2),
		Amount:    decimal.RequireFromString("80.00"),
	}}, nil
}

func (s *stubOrphanRepo) OrderItemsWithoutInvoiceItem(_ context.Context, start, _ time.Time) ([]repository.OrphanOrderItemRow, error) {
	return []repository.OrphanOrderItemRow{{
		OrderItemID: uuid.New(),
		OrderID:     uuid.New(),
		ItemID:      uuid.New(),
		CreatedAt:   start.AddDate(0, 0, 3),
		LineAmount:  decimal.RequireFromString("45.00"),
	}}, nil
}

func (s *stubOrphanRepo) InvoiceItemsWithoutOrderItem(_ context.Context, start, _ time.Time) ([]repository.OrphanInvoiceItemRow, error) {
	return []repository.OrphanInvoiceItemRow{{
		InvoiceItemID: uuid.New(),
		InvoiceID:     uuid.New(),
		ItemID:        uuid.New(),
		IssuedAt:      start.AddDate(0, 0, 4),
		NetAmount:     decimal.RequireFromString("12.00"),
	}}, nil
}

func (s *stubOrphanRepo) InvoicesWithoutTaxLine(_ context.Context, start, _ time.Time) ([]repository.OrphanInvoiceRow, error) {
	return []repository.OrphanInvoiceRow{{
		InvoiceID:   uuid.New(),
		InvoiceNo:   "INV-100",
		OrderID:     uuid.New(),
		IssuedAt:    start.AddDate(0, 0, 5),
		TotalAmount: decimal.RequireFromString("150.00"),
	}}, nil
}

func TestFindOrphansConcatenatesAllChecks(t *testing.T) {
	repo := &stubOrphanRepo{}
	svc := NewOrphanService(repo)
	asOf := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	records, err := svc.FindOrphans(context.Background(), asOf, 90)
	require.NoError(t, err)
	require.Len(t, records, 5)

	// fixed check order, each tag exactly once
	assert.Equal(t, model.OrphanOrderWithoutInvoice, records[0].OrphanType)
	assert.Equal(t, model.OrphanPaymentWithoutInvoice, records[1].OrphanType)
	assert.Equal(t, model.OrphanOrderItemWithoutInvoiceItem, records[2].OrphanType)
	assert.Equal(t, model.OrphanInvoiceItemWithoutOrderItem, records[3].OrphanType)
	assert.Equal(t, model.OrphanInvoiceWithoutTaxLine, records[4].OrphanType)

	// lookback window derived from asOf
	assert.Equal(t, asOf.AddDate(0, 0, -90), repo.start)
	assert.Equal(t, asOf, repo.end)

	for _, r := range records {
		assert.True(t, r.AmountHint.Valid)
		assert.NotEmpty(t, r.Details)
	}
}

func TestFindOrphansRejectsNonPositiveLookback(t *testing.T) {
	svc := NewOrphanService(&stubOrphanRepo{})
	_, err := svc.FindOrphans(context.Background(), time.Now(), 0)
	assert.Error(t, err)
}
