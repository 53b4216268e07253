package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSourceDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	a := NewSimulatedSource(42, now)
	b := NewSimulatedSource(42, now)

	pageA, err := a.ListAlertIDs(context.Background(), "open", 20, 0)
	require.NoError(t, err)
	pageB, err := b.ListAlertIDs(context.Background(), "open", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, pageA.Data, pageB.Data)

	detailA, err := a.GetAlertDetail(context.Background(), pageA.Data[0])
	require.NoError(t, err)
	detailB, err := b.GetAlertDetail(context.Background(), pageA.Data[0])
	require.NoError(t, err)
	assert.Equal(t, detailA, detailB)

	// a different seed produces a different dataset
	other := NewSimulatedSource(7, now)
	pageOther, err := other.ListAlertIDs(context.Background(), "open", 20, 0)
	require.NoError(t, err)
	assert.NotEqual(t, pageA.Data, pageOther.Data)
}

func TestSimulatedSourcePagination(t *testing.T) {
	src := NewSimulatedSource(42, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	first, err := src.ListAlertIDs(context.Background(), "open", 50, 0)
	require.NoError(t, err)
	second, err := src.ListAlertIDs(context.Background(), "open", 50, 50)
	require.NoError(t, err)

	assert.Len(t, first.Data, 50)
	assert.Len(t, second.Data, 50)
	for _, id := range second.Data {
		assert.NotContains(t, first.Data, id)
	}
}

func TestSimulatedDetailNormalizes(t *testing.T) {
	src := NewSimulatedSource(42, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	page, err := src.ListAlertIDs(context.Background(), "open", 100, 0)
	require.NoError(t, err)

	for _, id := range page.Data {
		detail, err := src.GetAlertDetail(context.Background(), id)
		require.NoError(t, err)

		alert, err := NormalizeAlert(detail)
		require.NoError(t, err, "simulated payload for %s must normalize", id)
		assert.Equal(t, id, alert.AlertID)
		assert.Contains(t, []string{"open", "in_progress", "closed"}, alert.Status)
		if alert.Status == "closed" {
			assert.NotNil(t, alert.ResolutionDate)
		}
	}
}
