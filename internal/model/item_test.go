package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return parsed
}

func TestItemVersionCovers(t *testing.T) {
	from := mustTime(t, "2025-01-01T00:00:00Z")
	to := mustTime(t, "2025-03-01T00:00:00Z")

	closed := ItemVersion{ValidFrom: from, ValidTo: &to, Price: decimal.NewFromInt(100)}
	open := ItemVersion{ValidFrom: to, ValidTo: nil, Price: decimal.NewFromInt(120)}

	// inside the closed interval
	assert.True(t, closed.Covers(mustTime(t, "2025-02-15T12:00:00Z")))
	assert.False(t, open.Covers(mustTime(t, "2025-02-15T12:00:00Z")))

	// ValidFrom is inclusive, ValidTo exclusive: at the boundary instant
	// exactly one version covers
	boundary := mustTime(t, "2025-03-01T00:00:00Z")
	assert.False(t, closed.Covers(boundary))
	assert.True(t, open.Covers(boundary))

	// before history starts
	assert.False(t, closed.Covers(mustTime(t, "2024-12-31T23:59:59Z")))
}

func TestItemVersionSameAttributes(t *testing.T) {
	base := ItemVersion{
		Title:      "Wireless Mouse",
		Category:   "Electronics",
		Condition:  ConditionNew,
		Status:     ItemStatusActive,
		Price:      decimal.RequireFromString("149.90"),
		SellerCode: "SELL-01",
	}

	same := base
	same.ValidFrom = mustTime(t, "2025-06-01T00:00:00Z") // bounds don't count
	assert.True(t, base.SameAttributes(same))

	// decimal equality is by value, not representation
	scaled := base
	scaled.Price = decimal.RequireFromString("149.9000")
	assert.True(t, base.SameAttributes(scaled))

	changed := base
	changed.Status = ItemStatusPaused
	assert.False(t, base.SameAttributes(changed))
}
