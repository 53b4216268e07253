package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAlertRepo struct {
	created  []repository.DayCountRow
	resolved []repository.DayCountRow
}

func (s *stubAlertRepo) UpsertBatch(context.Context, []model.ComplianceAlert) error { return nil }

func (s *stubAlertRepo) DailyCreatedCounts(context.Context, time.Time, time.Time) ([]repository.DayCountRow, error) {
	return s.created, nil
}

func (s *stubAlertRepo) DailyResolvedCounts(context.Context, time.Time, time.Time) ([]repository.DayCountRow, error) {
	return s.resolved, nil
}

func (s *stubAlertRepo) ListCreatedBetween(context.Context, time.Time, time.Time) ([]model.ComplianceAlert, error) {
	return nil, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDensifyFlowEmptyWindow(t *testing.T) {
	points := densifyFlow(day("2025-06-01"), 5, nil, nil)
	require.Len(t, points, 5)
	for i, p := range points {
		assert.Equal(t, day("2025-06-01").AddDate(0, 0, i).Format("2006-01-02"), p.Day)
		assert.Zero(t, p.Created)
		assert.Zero(t, p.Resolved)
		assert.Zero(t, p.Backlog)
	}
}

func TestDensifyFlowRunningBacklog(t *testing.T) {
	created := []repository.DayCountRow{{Day: day("2025-06-01"), Count: 1}}
	resolved := []repository.DayCountRow{{Day: day("2025-06-02"), Count: 1}}

	points := densifyFlow(day("2025-06-01"), 4, created, resolved)
	require.Len(t, points, 4)

	backlogs := []int{points[0].Backlog, points[1].Backlog, points[2].Backlog, points[3].Backlog}
	assert.Equal(t, []int{1, 0, 0, 0}, backlogs)
}

func TestDensifyFlowNegativeBacklogAtWindowEdge(t *testing.T) {
	// a resolution of an alert created before the window is valid data
	resolved := []repository.DayCountRow{{Day: day("2025-06-01"), Count: 2}}

	points := densifyFlow(day("2025-06-01"), 2, nil, resolved)
	require.Len(t, points, 2)
	assert.Equal(t, -2, points[0].Backlog)
	assert.Equal(t, -2, points[1].Backlog)
}

func TestAlertFlowWindowBounds(t *testing.T) {
	svc := NewFlowService(&stubAlertRepo{})
	asOf := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	points, err := svc.AlertFlow(context.Background(), asOf, 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	// window ends at the end of asOf's calendar day
	assert.Equal(t, "2025-06-09", points[0].Day)
	assert.Equal(t, "2025-06-15", points[6].Day)
}

func TestAlertFlowRejectsNonPositiveWindow(t *testing.T) {
	svc := NewFlowService(&stubAlertRepo{})
	_, err := svc.AlertFlow(context.Background(), time.Now(), 0)
	assert.Error(t, err)
}
