package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/repository"
)

// FlowPoint is one day of the alert flow series. Backlog is the running
// difference of created minus resolved within the window; it may go
// negative near the window edge (resolutions of alerts created before the
// window), which is a valid value, not an error.
type FlowPoint struct {
	Day      string `json:"day"` // YYYY-MM-DD
	Created  int    `json:"created_count"`
	Resolved int    `json:"resolved_count"`
	Backlog  int    `json:"backlog"`
}

type FlowService interface {
	// AlertFlow returns one point per calendar day for the windowDays days
	// ending at asOf's date — every day materialized, zero counts included,
	// so the backlog series is continuous.
	AlertFlow(ctx context.Context, asOf time.Time, windowDays int) ([]FlowPoint, error)
}

type flowService struct {
	repo repository.AlertRepository
}

func NewFlowService(repo repository.AlertRepository) FlowService {
	return &flowService{repo: repo}
}

func (s *flowService) AlertFlow(ctx context.Context, asOf time.Time, windowDays int) ([]FlowPoint, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("window_days must be positive, got %d", windowDays)
	}

	y, m, d := asOf.Date()
	windowEnd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1) // exclusive
	windowStart := windowEnd.AddDate(0, 0, -windowDays)

	created, err := s.repo.DailyCreatedCounts(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	resolved, err := s.repo.DailyResolvedCounts(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	return densifyFlow(windowStart, windowDays, created, resolved), nil
}

// densifyFlow expands the sparse per-day counts into a dense calendar of
// windowDays days starting at windowStart, accumulating the backlog as a
// running sum.
func densifyFlow(windowStart time.Time, windowDays int, created, resolved []repository.DayCountRow) []FlowPoint {
	createdByDay := make(map[string]int, len(created))
	for _, row := range created {
		createdByDay[row.Day.Format("2006-01-02")] = row.Count
	}
	resolvedByDay := make(map[string]int, len(resolved))
	for _, row := range resolved {
		resolvedByDay[row.Day.Format("2006-01-02")] = row.Count
	}

	points := make([]FlowPoint, 0, windowDays)
	backlog := 0
	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		c := createdByDay[day]
		r := resolvedByDay[day]
		backlog += c - r
		points = append(points, FlowPoint{
			Day:      day,
			Created:  c,
			Resolved: r,
			Backlog:  backlog,
		})
	}
	return points
}
