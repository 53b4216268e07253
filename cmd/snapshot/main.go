package main

import (
	"context"
	"flag"
	"time"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Batch entry point for the nightly snapshot rebuild. Equivalent to
// POST /api/snapshots/rebuild, without the HTTP surface.
func main() {
	log := config.NewLogger()

	var (
		dateFlag  = flag.String("date", "", "snapshot date to rebuild (YYYY-MM-DD, required)")
		runIDFlag = flag.String("run-id", "", "run identifier (defaults to a fresh UUID)")
	)
	flag.Parse()

	if *dateFlag == "" {
		log.Fatal("missing required -date flag (YYYY-MM-DD)")
	}
	date, err := time.Parse("2006-01-02", *dateFlag)
	if err != nil {
		log.WithError(err).Fatal("invalid -date, expected YYYY-MM-DD")
	}

	runID := *runIDFlag
	if runID == "" {
		runID = uuid.NewString()
	}

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	loc, err := cfg.SnapshotLocation()
	if err != nil {
		log.WithError(err).Fatal("Invalid snapshot time zone")
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("Database connection failed")
	}

	txManager := repository.NewTransactionManager(db)
	historyRepo := repository.NewItemHistoryRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// No hub: batch runs broadcast nothing.
	snapshotService := service.NewSnapshotService(historyRepo, snapshotRepo, txManager, db, nil, loc, log)

	result, err := snapshotService.Rebuild(context.Background(), date, runID)
	if err != nil {
		log.WithError(err).Fatal("snapshot rebuild failed")
	}

	log.WithFields(logrus.Fields{
		"snapshot_date": result.SnapshotDate,
		"run_id":        result.RunID,
		"cutoff":        result.Cutoff,
		"items":         result.Items,
		"replaced":      result.Replaced,
	}).Info("snapshot rebuild complete")
}
