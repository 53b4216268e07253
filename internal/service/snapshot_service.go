package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrHistoryIntegrity marks a corrupted item history: more than one
// interval covering the cutoff instant. The run must fail and the history
// be repaired upstream — reconstruction never picks a winner.
var ErrHistoryIntegrity = errors.New("item history integrity violation")

// --- DTOs ---

type RebuildResult struct {
	SnapshotDate string `json:"snapshot_date"`
	RunID        string `json:"run_id"`
	Cutoff       string `json:"cutoff"`
	Items        int    `json:"items"`
	Replaced     int64  `json:"replaced"`
}

type SnapshotResponse struct {
	SnapshotDate string `json:"snapshot_date"`
	ItemID       string `json:"item_id"`
	ItemCode     string `json:"item_code"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Condition    string `json:"condition"`
	Status       string `json:"status"`
	Price        string `json:"price"`
	SellerCode   string `json:"seller_code"`
	RunID        string `json:"run_id"`
	InsertedAt   string `json:"inserted_at"`
	ContentHash  string `json:"content_hash"`
}

// --- Interface ---

type SnapshotService interface {
	// Rebuild reconstructs the state of every item at the end-of-day
	// cutoff of snapshotDate and replaces that date's snapshot set.
	// Idempotent: rerunning with unchanged history yields identical rows
	// (including content hashes) under a new run id.
	Rebuild(ctx context.Context, snapshotDate time.Time, runID string) (*RebuildResult, error)
	GetSnapshots(ctx context.Context, date time.Time) ([]SnapshotResponse, error)
}

type snapshotService struct {
	history   repository.ItemHistoryRepository
	snapshots repository.SnapshotRepository
	txManager repository.TransactionManager
	db        *gorm.DB
	hub       *websocket.Hub
	loc       *time.Location
	log       *logrus.Logger

	mu        sync.Mutex
	dateLocks map[string]*sync.Mutex
}

// NewSnapshotService wires the reconstructor. loc is the business cutoff
// time zone (config.SnapshotTimezone); hub may be nil in CLI runs.
func NewSnapshotService(
	history repository.ItemHistoryRepository,
	snapshots repository.SnapshotRepository,
	txManager repository.TransactionManager,
	db *gorm.DB,
	hub *websocket.Hub,
	loc *time.Location,
	log *logrus.Logger,
) SnapshotService {
	return &snapshotService{
		history:   history,
		snapshots: snapshots,
		txManager: txManager,
		db:        db,
		hub:       hub,
		loc:       loc,
		log:       log,
		dateLocks: make(map[string]*sync.Mutex),
	}
}

// --- Implementation ---

// CutoffFor returns the reconstruction instant for a snapshot date:
// 23:59:59 of that calendar day in the business time zone. Evaluated in
// one place only so DST transitions cannot drift between call sites.
func CutoffFor(snapshotDate time.Time, loc *time.Location) time.Time {
	y, m, d := snapshotDate.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, loc)
}

func (s *snapshotService) Rebuild(ctx context.Context, snapshotDate time.Time, runID string) (*RebuildResult, error) {
	dateKey := snapshotDate.Format("2006-01-02")

	// Concurrent rebuilds of the same date serialize here; different
	// dates proceed independently.
	lock := s.lockForDate(dateKey)
	lock.Lock()
	defer lock.Unlock()

	cutoff := CutoffFor(snapshotDate, s.loc)

	versions, err := s.history.ListVersionsCovering(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	rows, err := buildSnapshotRows(dateKey, cutoff, runID, versions)
	if err != nil {
		return nil, err
	}

	var replaced int64
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.snapshots.DeleteForDate(txCtx, snapshotDate)
		if err != nil {
			return err
		}
		replaced = deleted
		return s.snapshots.InsertBatch(txCtx, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot rebuild for %s failed: %w", dateKey, err)
	}

	s.log.WithFields(logrus.Fields{
		"snapshot_date": dateKey,
		"run_id":        runID,
		"items":         len(rows),
		"replaced":      replaced,
	}).Info("snapshot rebuilt")

	s.writeAuditLog(ctx, runID, dateKey, len(rows))

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.RunEvent{
			Event:        "snapshot_rebuilt",
			SnapshotDate: dateKey,
			RunID:        runID,
			Rows:         len(rows),
			FinishedAt:   time.Now(),
		})
	}

	return &RebuildResult{
		SnapshotDate: dateKey,
		RunID:        runID,
		Cutoff:       cutoff.Format(time.RFC3339),
		Items:        len(rows),
		Replaced:     replaced,
	}, nil
}

// buildSnapshotRows groups covering versions per item and materializes one
// snapshot row each. More than one covering version for an item is a data
// fault and aborts the whole run.
func buildSnapshotRows(dateKey string, cutoff time.Time, runID string, versions []model.ItemVersion) ([]model.ItemSnapshot, error) {
	byItem := make(map[string][]model.ItemVersion)
	for _, v := range versions {
		key := v.ItemID.String()
		byItem[key] = append(byItem[key], v)
	}

	var corrupted []string
	for key, vs := range byItem {
		if len(vs) > 1 {
			corrupted = append(corrupted, key)
		}
	}
	if len(corrupted) > 0 {
		sort.Strings(corrupted)
		return nil, fmt.Errorf("%w: %d item(s) with overlapping intervals at %s: %s",
			ErrHistoryIntegrity, len(corrupted), cutoff.Format(time.RFC3339), strings.Join(corrupted, ", "))
	}

	snapshotDate, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot date %q: %w", dateKey, err)
	}

	rows := make([]model.ItemSnapshot, 0, len(versions))
	for _, v := range versions {
		itemCode := ""
		if v.Item != nil {
			itemCode = v.Item.ItemCode
		}
		rows = append(rows, model.ItemSnapshot{
			SnapshotDate: snapshotDate,
			ItemID:       v.ItemID,
			ItemCode:     itemCode,
			Title:        v.Title,
			Category:     v.Category,
			Condition:    v.Condition,
			Status:       v.Status,
			Price:        v.Price,
			SellerCode:   v.SellerCode,
			RunID:        runID,
			ContentHash:  snapshotContentHash(dateKey, v),
		})
	}
	return rows, nil
}

// snapshotDigest is the canonical hashing payload: the snapshot date plus
// the semantic attributes, nothing run-specific. Field order is fixed by
// the struct, decimals are rendered at fixed scale, so the digest is
// stable across runs and environments.
type snapshotDigest struct {
	SnapshotDate string `json:"snapshot_date"`
	ItemID       string `json:"item_id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Condition    string `json:"condition"`
	Status       string `json:"status"`
	Price        string `json:"price"`
	SellerCode   string `json:"seller_code"`
}

func snapshotContentHash(dateKey string, v model.ItemVersion) string {
	payload, _ := json.Marshal(snapshotDigest{
		SnapshotDate: dateKey,
		ItemID:       v.ItemID.String(),
		Title:        v.Title,
		Category:     v.Category,
		Condition:    v.Condition,
		Status:       v.Status,
		Price:        v.Price.StringFixed(4),
		SellerCode:   v.SellerCode,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *snapshotService) GetSnapshots(ctx context.Context, date time.Time) ([]SnapshotResponse, error) {
	rows, err := s.snapshots.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	res := make([]SnapshotResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, SnapshotResponse{
			SnapshotDate: r.SnapshotDate.Format("2006-01-02"),
			ItemID:       r.ItemID.String(),
			ItemCode:     r.ItemCode,
			Title:        r.Title,
			Category:     r.Category,
			Condition:    r.Condition,
			Status:       r.Status,
			Price:        r.Price.StringFixed(4),
			SellerCode:   r.SellerCode,
			RunID:        r.RunID,
			InsertedAt:   r.InsertedAt.Format(time.RFC3339),
			ContentHash:  r.ContentHash,
		})
	}
	return res, nil
}

func (s *snapshotService) lockForDate(dateKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dateLocks[dateKey]; !ok {
		s.dateLocks[dateKey] = &sync.Mutex{}
	}
	return s.dateLocks[dateKey]
}

func (s *snapshotService) writeAuditLog(ctx context.Context, runID, dateKey string, items int) {
	if s.db == nil {
		return
	}
	details, _ := json.Marshal(map[string]interface{}{
		"snapshot_date": dateKey,
		"items":         items,
	})

	entry := model.AuditLog{
		Action:     model.ActionRebuildSnapshot,
		EntityID:   runID,
		EntityName: "snapshot " + dateKey,
		Details:    string(details),
	}

	// Best-effort audit log — don't fail the run if logging fails
	_ = s.db.WithContext(ctx).Create(&entry).Error
}
