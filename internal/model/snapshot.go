package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSnapshot is the reconstructed state of one item at the end-of-day
// cutoff of SnapshotDate. Rows for a date are fully replaced on every
// rebuild, so reruns are idempotent.
//
// ContentHash digests the semantic attributes plus the snapshot date,
// excluding RunID and InsertedAt, so auditors can tell "same content,
// different run" apart from a real content change.
type ItemSnapshot struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SnapshotDate time.Time       `gorm:"type:date;not null;uniqueIndex:idx_snapshot_date_item" json:"snapshot_date"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_date_item" json:"item_id"`
	ItemCode     string          `gorm:"type:varchar(30);not null" json:"item_code"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Category     string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Condition    string          `gorm:"type:varchar(10);not null" json:"condition"`
	Status       string          `gorm:"type:varchar(10);not null" json:"status"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	SellerCode   string          `gorm:"type:varchar(30);not null" json:"seller_code"`
	RunID        string          `gorm:"type:varchar(64);not null;index" json:"run_id"`
	InsertedAt   time.Time       `gorm:"autoCreateTime" json:"inserted_at"`
	ContentHash  string          `gorm:"type:char(64);not null" json:"content_hash"`
}
