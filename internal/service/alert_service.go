package service

import (
	"context"
	"time"

	"backend/internal/ingest"
	"backend/internal/repository"
)

type AlertService interface {
	// Summary computes descriptive statistics over alerts created in
	// [start, end).
	Summary(ctx context.Context, start, end time.Time) (*ingest.Summary, error)
}

type alertService struct {
	repo repository.AlertRepository
}

func NewAlertService(repo repository.AlertRepository) AlertService {
	return &alertService{repo: repo}
}

func (s *alertService) Summary(ctx context.Context, start, end time.Time) (*ingest.Summary, error) {
	alerts, err := s.repo.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	summary := ingest.Summarize(alerts)
	return &summary, nil
}
