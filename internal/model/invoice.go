package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants. Only ISSUED invoices count toward
// reconciliation and tax statistics.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusIssued    = "ISSUED"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice is the fiscal document stream, recorded independently of the
// payment stream and keyed by the same order. The reconciliation engine
// cross-checks the two.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"` // e.g. INV-58102
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Status      string          `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	IssuedAt    time.Time       `gorm:"not null;index" json:"issued_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceItem is a single invoiced line, expected to mirror an order line
// of the same item on the invoice's order.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	NetAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"net_amount"` // taxable base for the line
	CreatedAt time.Time       `json:"created_at"`
}

// TaxLine is one tax assessment on an invoice: base, rate and resulting
// amount under one tax code, linked to a jurisdiction and item category.
type TaxLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	TaxCode      string          `gorm:"type:varchar(10);not null;index" json:"tax_code"`     // ICMS, IPI, PIS, COFINS, ISS
	Jurisdiction string          `gorm:"type:varchar(10);not null;index" json:"jurisdiction"` // BR-SP, BR-RJ, ...
	Category     string          `gorm:"type:varchar(50);not null;index" json:"category"`
	BaseAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"base_amount"`
	Rate         decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"rate"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}
