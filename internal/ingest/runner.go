package ingest

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/sirupsen/logrus"
)

// Store is the slice of the alert repository the runner needs.
type Store interface {
	UpsertBatch(ctx context.Context, alerts []model.ComplianceAlert) error
}

type Options struct {
	Status   string // upstream filter, usually "open"
	Limit    int    // how many alerts to pull
	PageSize int    // ID page size during the scan
}

type Result struct {
	Fetched    int     `json:"fetched"`
	Normalized int     `json:"normalized"`
	Failed     int     `json:"failed"`
	Summary    Summary `json:"summary"`
}

// Runner scans the alert source page by page, normalizes every detail
// payload and upserts the batch. Upserting by alert_id makes a rerun of
// the same scan idempotent.
type Runner struct {
	source Source
	store  Store
	log    *logrus.Logger
}

func NewRunner(source Source, store Store, log *logrus.Logger) *Runner {
	return &Runner{source: source, store: store, log: log}
}

func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.Status == "" {
		opts.Status = "open"
	}

	var ids []string
	offset := 0
	for len(ids) < opts.Limit {
		page, err := r.source.ListAlertIDs(ctx, opts.Status, opts.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list alert ids at offset %d: %w", offset, err)
		}
		if len(page.Data) == 0 {
			break
		}
		ids = append(ids, page.Data...)
		offset += opts.PageSize
	}
	if len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	result := &Result{}
	alerts := make([]model.ComplianceAlert, 0, len(ids))
	for i, id := range ids {
		payload, err := r.source.GetAlertDetail(ctx, id)
		if err != nil {
			result.Failed++
			r.log.WithFields(logrus.Fields{"alert_id": id}).WithError(err).Warn("failed to fetch alert detail")
			continue
		}
		if payload == nil {
			continue // gone upstream
		}
		result.Fetched++

		alert, err := NormalizeAlert(payload)
		if err != nil {
			result.Failed++
			r.log.WithFields(logrus.Fields{"alert_id": id}).WithError(err).Warn("failed to normalize alert")
			continue
		}
		alerts = append(alerts, alert)

		if (i+1)%25 == 0 {
			r.log.WithFields(logrus.Fields{"progress": i + 1, "total": len(ids)}).Info("alert scan progress")
		}
	}
	result.Normalized = len(alerts)

	if err := r.store.UpsertBatch(ctx, alerts); err != nil {
		return nil, err
	}

	result.Summary = Summarize(alerts)
	r.log.WithFields(logrus.Fields{
		"fetched":    result.Fetched,
		"normalized": result.Normalized,
		"failed":     result.Failed,
	}).Info("alert ingestion finished")

	return result, nil
}
