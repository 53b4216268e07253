package ingest

import (
	"context"
	"io"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	byID map[string]model.ComplianceAlert
}

func (m *memStore) UpsertBatch(_ context.Context, alerts []model.ComplianceAlert) error {
	if m.byID == nil {
		m.byID = make(map[string]model.ComplianceAlert)
	}
	for _, a := range alerts {
		m.byID[a.AlertID] = a
	}
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunnerScanNormalizeUpsert(t *testing.T) {
	source := NewSimulatedSource(42, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	store := &memStore{}
	runner := NewRunner(source, store, testLogger())

	result, err := runner.Run(context.Background(), Options{Limit: 60, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, 60, result.Fetched)
	assert.Equal(t, 60, result.Normalized)
	assert.Zero(t, result.Failed)
	assert.Len(t, store.byID, 60)
	assert.Equal(t, 60, result.Summary.TotalAlerts)
}

func TestRunnerRerunIsIdempotent(t *testing.T) {
	source := NewSimulatedSource(42, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	store := &memStore{}
	runner := NewRunner(source, store, testLogger())

	_, err := runner.Run(context.Background(), Options{Limit: 40})
	require.NoError(t, err)
	firstCount := len(store.byID)

	_, err = runner.Run(context.Background(), Options{Limit: 40})
	require.NoError(t, err)

	// same scan upserts the same alert_ids: no duplicates accumulate
	assert.Equal(t, firstCount, len(store.byID))
}

func TestRunnerRejectsNonPositiveLimit(t *testing.T) {
	runner := NewRunner(NewSimulatedSource(1, time.Now()), &memStore{}, testLogger())
	_, err := runner.Run(context.Background(), Options{Limit: 0})
	assert.Error(t, err)
}
