package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertStatus enum constants (as delivered by the compliance alert API)
const (
	AlertStatusOpen       = "open"
	AlertStatusInProgress = "in_progress"
	AlertStatusClosed     = "closed"
)

// AlertType enum constants
const (
	AlertTypeMissingInvoice        = "MISSING_INVOICE"
	AlertTypeWrongTaxRate          = "WRONG_TAX_RATE"
	AlertTypeInvoiceAmountMismatch = "INVOICE_AMOUNT_MISMATCH"
	AlertTypeTaxJurisdictionError  = "TAX_JURISDICTION_ERROR"
)

// ComplianceAlert is one normalized alert ingested from the compliance
// alert API. AlertID is the upstream identifier; re-ingesting the same
// alert updates the existing row instead of duplicating it.
type ComplianceAlert struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AlertID          string              `gorm:"type:varchar(40);uniqueIndex;not null" json:"alert_id"` // e.g. ALRT-48213-7
	AlertType        string              `gorm:"type:varchar(40);not null;index" json:"alert_type"`
	Status           string              `gorm:"type:varchar(20);not null;index" json:"status"`
	AssignedToName   string              `gorm:"type:varchar(100)" json:"assigned_to_name"` // empty = unassigned
	CreationDate     time.Time           `gorm:"not null;index" json:"creation_date"`
	ResolutionDate   *time.Time          `gorm:"index" json:"resolution_date"` // NULL = still open
	ImpactLevel      string              `gorm:"type:varchar(10);not null" json:"impact_level"` // low, medium, high, critical
	SLAHours         int                 `gorm:"not null;default:0" json:"sla_hours"`
	Jurisdiction     string              `gorm:"type:varchar(10);index" json:"jurisdiction"`
	Category         string              `gorm:"type:varchar(50);index" json:"category"`
	TaxCode          string              `gorm:"type:varchar(10)" json:"tax_code"`
	MonetaryExposure decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"monetary_exposure"` // NULL when upstream value was unparseable
	HasInvoiceLinked bool                `gorm:"not null;default:false" json:"has_invoice_linked"`
	OrderCode        string              `gorm:"type:varchar(30)" json:"order_code"`
	InvoiceNo        string              `gorm:"type:varchar(30)" json:"invoice_no"`
	IngestedAt       time.Time           `gorm:"autoUpdateTime" json:"ingested_at"`
}
