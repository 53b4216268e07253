package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum constants. Only APPROVED payments participate in
// reconciliation; refunds and chargebacks are not netted (documented
// limitation of the engine).
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusApproved = "APPROVED"
	PaymentStatusRejected = "REJECTED"
	PaymentStatusRefunded = "REFUNDED"
)

// Payment is a settlement event recorded by the payment processor, keyed
// by order. One order may settle in several payments.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Status    string          `gorm:"type:varchar(20);not null;index" json:"status"`
	Method    string          `gorm:"type:varchar(30)" json:"method"` // pix, boleto, credit_card
	PaidAt    time.Time       `gorm:"not null;index" json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
}
