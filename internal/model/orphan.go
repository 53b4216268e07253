package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrphanType tags which integrity check produced a record. Each check is
// scoped to one pair of entity kinds, so the same logical deficiency is
// never reported twice under different tags.
const (
	OrphanOrderWithoutInvoice         = "ORDER_WITHOUT_INVOICE"
	OrphanPaymentWithoutInvoice       = "PAYMENT_WITHOUT_INVOICE"
	OrphanOrderItemWithoutInvoiceItem = "ORDER_ITEM_WITHOUT_INVOICE_ITEM"
	OrphanInvoiceItemWithoutOrderItem = "INVOICE_ITEM_WITHOUT_ORDER_ITEM"
	OrphanInvoiceWithoutTaxLine       = "INVOICE_WITHOUT_TAX_LINE"
)

// OrphanRecord is the uniform shape all five integrity checks produce.
// Only the identifier fields applicable to the check are set; the rest
// stay nil. Derived per query, never persisted.
type OrphanRecord struct {
	OrphanType    string              `json:"orphan_type"`
	OrderID       *uuid.UUID          `json:"order_id,omitempty"`
	PaymentID     *uuid.UUID          `json:"payment_id,omitempty"`
	InvoiceID     *uuid.UUID          `json:"invoice_id,omitempty"`
	OrderItemID   *uuid.UUID          `json:"order_item_id,omitempty"`
	InvoiceItemID *uuid.UUID          `json:"invoice_item_id,omitempty"`
	ItemID        *uuid.UUID          `json:"item_id,omitempty"`
	OccurredDate  time.Time           `json:"occurred_date"`
	AmountHint    decimal.NullDecimal `json:"amount_hint"`
	Details       string              `json:"details"`
}
