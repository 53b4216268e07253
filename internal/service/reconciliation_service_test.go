package service

import (
	"testing"

	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalRow(id uuid.UUID, code, total string) repository.OrderTotalRow {
	return repository.OrderTotalRow{
		OrderID:   id,
		OrderCode: code,
		Total:     decimal.RequireFromString(total),
	}
}

func TestMergeOrderTotalsDiff(t *testing.T) {
	orderID := uuid.New()
	paid := []repository.OrderTotalRow{totalRow(orderID, "O-100", "50.00")}
	invoiced := []repository.OrderTotalRow{totalRow(orderID, "O-100", "45.00")}

	records := mergeOrderTotals(paid, invoiced, DefaultMaterialityThreshold)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "5", r.Diff.String())
	assert.Equal(t, "5", r.AbsDiff.String())
	assert.True(t, r.Discrepant)
}

func TestMergeOrderTotalsMissingSideIsZero(t *testing.T) {
	onlyPaid, onlyInvoiced := uuid.New(), uuid.New()
	paid := []repository.OrderTotalRow{totalRow(onlyPaid, "O-100", "80.00")}
	invoiced := []repository.OrderTotalRow{totalRow(onlyInvoiced, "O-200", "30.00")}

	records := mergeOrderTotals(paid, invoiced, DefaultMaterialityThreshold)
	require.Len(t, records, 2)

	byCode := map[string]ReconciliationRecord{}
	for _, r := range records {
		byCode[r.OrderCode] = r
	}

	assert.True(t, byCode["O-100"].InvoicedTotal.IsZero())
	assert.Equal(t, "80", byCode["O-100"].Diff.String())
	assert.True(t, byCode["O-200"].PaidTotal.IsZero())
	assert.Equal(t, "-30", byCode["O-200"].Diff.String())
}

func TestMergeOrderTotalsThreshold(t *testing.T) {
	orderID := uuid.New()
	paid := []repository.OrderTotalRow{totalRow(orderID, "O-100", "100.00")}
	invoiced := []repository.OrderTotalRow{totalRow(orderID, "O-100", "99.995")}

	// |diff| = 0.005 <= 0.01: rounding noise, not a discrepancy
	records := mergeOrderTotals(paid, invoiced, DefaultMaterialityThreshold)
	require.Len(t, records, 1)
	assert.False(t, records[0].Discrepant)

	// a diff exactly at the threshold is still not discrepant (strictly greater)
	invoiced[0].Total = decimal.RequireFromString("99.99")
	records = mergeOrderTotals(paid, invoiced, DefaultMaterialityThreshold)
	assert.False(t, records[0].Discrepant)
}

func TestMergeOrderTotalsDeterministicOrdering(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	paid := []repository.OrderTotalRow{
		totalRow(a, "O-300", "5.00"),
		totalRow(b, "O-100", "50.00"),
		totalRow(c, "O-200", "50.00"),
	}
	invoiced := []repository.OrderTotalRow{
		totalRow(b, "O-100", "40.00"),
		totalRow(c, "O-200", "40.00"),
	}

	records := mergeOrderTotals(paid, invoiced, DefaultMaterialityThreshold)
	require.Len(t, records, 3)

	// abs_diff descending, order code ascending on ties
	assert.Equal(t, "O-100", records[0].OrderCode)
	assert.Equal(t, "O-200", records[1].OrderCode)
	assert.Equal(t, "O-300", records[2].OrderCode)
}
