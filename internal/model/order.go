package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enum constants
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusPaid      = "PAID"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Order is a passive source row: populated by the marketplace, read by the
// reconciliation and integrity engines. No physical FKs — integrity across
// the graph is computed, not enforced.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_code"` // e.g. O48291
	BuyerCode   string          `gorm:"type:varchar(30);not null;index" json:"buyer_code"`
	Status      string          `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}
