package ingest

import (
	"testing"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exposure(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestSummarize(t *testing.T) {
	resolved := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	alerts := []model.ComplianceAlert{
		{AlertID: "A1", AlertType: "MISSING_INVOICE", Status: "open", ImpactLevel: "low",
			AssignedToName: "Ana", MonetaryExposure: exposure("100.00")},
		{AlertID: "A2", AlertType: "MISSING_INVOICE", Status: "closed", ImpactLevel: "high",
			ResolutionDate: &resolved, MonetaryExposure: exposure("300.00")},
		{AlertID: "A3", AlertType: "WRONG_TAX_RATE", Status: "open", ImpactLevel: "low",
			AssignedToName: "Bruno"}, // null exposure
	}

	s := Summarize(alerts)

	assert.Equal(t, 3, s.TotalAlerts)
	assert.Equal(t, 2, s.StatusDistribution["open"])
	assert.Equal(t, 2, s.TypeDistribution["MISSING_INVOICE"])
	assert.Equal(t, 2, s.ImpactDistribution["low"])
	assert.Equal(t, 2, s.AssignedPresent)
	assert.Equal(t, 1, s.AssignedMissing)
	assert.Equal(t, 2, s.UnresolvedCount)

	// null exposures are excluded from the stats, not counted as zero
	assert.Equal(t, 200.0, s.ExposureMean)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalAlerts)
	assert.Zero(t, s.ExposureMean)
	assert.Zero(t, s.ExposureP95)
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	assert.Equal(t, 30.0, percentile(values, 50))
	assert.Equal(t, 10.0, percentile(values, 0))
	assert.Equal(t, 50.0, percentile(values, 100))

	// linear interpolation between ranks: p95 of [10..50] is 48
	assert.InDelta(t, 48.0, percentile(values, 95), 1e-9)

	require.Equal(t, 0.0, percentile(nil, 95))
	assert.Equal(t, 7.0, percentile([]float64{7}, 95))
}
