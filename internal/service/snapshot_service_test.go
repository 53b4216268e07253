package service

import (
	"context"
	"io"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type stubHistoryRepo struct {
	repository.ItemHistoryRepository
	versions []model.ItemVersion
}

func (s *stubHistoryRepo) ListVersionsCovering(_ context.Context, _ time.Time) ([]model.ItemVersion, error) {
	return s.versions, nil
}

type stubSnapshotRepo struct {
	deleted  int64
	inserted []model.ItemSnapshot
}

func (s *stubSnapshotRepo) DeleteForDate(_ context.Context, _ time.Time) (int64, error) {
	return s.deleted, nil
}

func (s *stubSnapshotRepo) InsertBatch(_ context.Context, rows []model.ItemSnapshot) error {
	s.inserted = rows
	return nil
}

func (s *stubSnapshotRepo) ListByDate(_ context.Context, _ time.Time) ([]model.ItemSnapshot, error) {
	return s.inserted, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func version(itemID uuid.UUID, code, title, price string, from time.Time, to *time.Time) model.ItemVersion {
	return model.ItemVersion{
		ID:         uuid.New(),
		ItemID:     itemID,
		Item:       &model.Item{ID: itemID, ItemCode: code},
		Title:      title,
		Category:   "Electronics",
		Condition:  model.ConditionNew,
		Status:     model.ItemStatusActive,
		Price:      decimal.RequireFromString(price),
		SellerCode: "SELL-01",
		ValidFrom:  from,
		ValidTo:    to,
	}
}

// --- tests ---

func TestCutoffFor(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	cutoff := CutoffFor(date, loc)

	assert.Equal(t, 23, cutoff.Hour())
	assert.Equal(t, 59, cutoff.Minute())
	assert.Equal(t, 59, cutoff.Second())
	assert.Equal(t, loc, cutoff.Location())
	// Sao Paulo is UTC-3: the cutoff instant is 02:59:59 UTC the next day
	assert.Equal(t, time.Date(2025, 6, 16, 2, 59, 59, 0, time.UTC), cutoff.UTC())
}

func TestBuildSnapshotRowsOnePerItem(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	rows, err := buildSnapshotRows("2025-06-15", cutoff, "run-1", []model.ItemVersion{
		version(a, "MLB-001", "Mouse", "149.90", cutoff.AddDate(0, -1, 0), nil),
		version(b, "MLB-002", "Keyboard", "399.00", cutoff.AddDate(0, -2, 0), nil),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Equal(t, "run-1", row.RunID)
		assert.Len(t, row.ContentHash, 64)
	}
	assert.Equal(t, "MLB-001", rows[0].ItemCode)
}

func TestBuildSnapshotRowsRejectsOverlap(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	a := uuid.New()

	_, err := buildSnapshotRows("2025-06-15", cutoff, "run-1", []model.ItemVersion{
		version(a, "MLB-001", "Mouse", "149.90", cutoff.AddDate(0, -1, 0), nil),
		version(a, "MLB-001", "Mouse v2", "139.90", cutoff.AddDate(0, 0, -3), nil),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHistoryIntegrity)
}

func TestSnapshotContentHashStableAcrossRuns(t *testing.T) {
	itemID := uuid.New()
	v := version(itemID, "MLB-001", "Mouse", "149.90", time.Now(), nil)

	h1 := snapshotContentHash("2025-06-15", v)
	h2 := snapshotContentHash("2025-06-15", v)
	assert.Equal(t, h1, h2)

	// run-specific fields don't participate, semantic fields do
	changed := v
	changed.Price = decimal.RequireFromString("139.90")
	assert.NotEqual(t, h1, snapshotContentHash("2025-06-15", changed))
	assert.NotEqual(t, h1, snapshotContentHash("2025-06-16", v))
}

func TestRebuildIsIdempotent(t *testing.T) {
	loc := time.UTC
	itemID := uuid.New()
	history := &stubHistoryRepo{versions: []model.ItemVersion{
		version(itemID, "MLB-001", "Mouse", "149.90", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil),
	}}
	snapshots := &stubSnapshotRepo{}

	svc := NewSnapshotService(history, snapshots, passthroughTxManager{}, nil, nil, loc, quietLogger())
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	first, err := svc.Rebuild(context.Background(), date, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Items)
	firstHash := snapshots.inserted[0].ContentHash

	snapshots.deleted = 1
	second, err := svc.Rebuild(context.Background(), date, "run-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Replaced)
	assert.Equal(t, firstHash, snapshots.inserted[0].ContentHash)
	assert.Equal(t, "run-2", snapshots.inserted[0].RunID)
}
