package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus enum constants
const (
	ItemStatusActive = "ACTIVE"
	ItemStatusPaused = "PAUSED"
	ItemStatusClosed = "CLOSED"
)

// ItemCondition enum constants
const (
	ConditionNew  = "NEW"
	ConditionUsed = "USED"
)

// Item is the stable identity of a catalog listing. Everything that can
// change over time lives in ItemVersion.
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemCode  string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"item_code"` // e.g. MLB-83920114
	CreatedAt time.Time `json:"created_at"`
}

// ItemVersion is one state interval of an item's tracked attributes.
// History is append-only: a change closes the open interval (sets ValidTo)
// and inserts a new one. Rows are never updated in place.
//
// Per item, intervals must not overlap and at most one row may have
// ValidTo = NULL (the current state).
type ItemVersion struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Title      string          `gorm:"type:varchar(255);not null" json:"title"`
	Category   string          `gorm:"type:varchar(50);not null;index" json:"category"` // Electronics, Books, Home, Games, Beauty
	Condition  string          `gorm:"type:varchar(10);not null" json:"condition"`
	Status     string          `gorm:"type:varchar(10);not null" json:"status"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	SellerCode string          `gorm:"type:varchar(30);not null;index" json:"seller_code"`
	ValidFrom  time.Time       `gorm:"not null;index" json:"valid_from"` // inclusive
	ValidTo    *time.Time      `gorm:"index" json:"valid_to"`            // exclusive, NULL = current
	CreatedAt  time.Time       `json:"created_at"`
}

// Covers reports whether this version was the item's state at instant t.
// The interval is half-open: ValidFrom <= t < ValidTo.
func (v ItemVersion) Covers(t time.Time) bool {
	if t.Before(v.ValidFrom) {
		return false
	}
	return v.ValidTo == nil || v.ValidTo.After(t)
}

// SameAttributes reports whether two versions carry identical tracked
// attributes, ignoring validity bounds. Used to suppress no-op intervals.
func (v ItemVersion) SameAttributes(o ItemVersion) bool {
	return v.Title == o.Title &&
		v.Category == o.Category &&
		v.Condition == o.Condition &&
		v.Status == o.Status &&
		v.SellerCode == o.SellerCode &&
		v.Price.Equal(o.Price)
}
