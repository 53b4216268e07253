package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row shapes for the five integrity checks. Each query is a left-anti-join
// scoped to the lookback window on its own natural date field — orders by
// creation, payments by settlement, invoices and their lines by issuance.

type OrphanOrderRow struct {
	OrderID     uuid.UUID       `gorm:"column:order_id"`
	OrderCode   string          `gorm:"column:order_code"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
}

type OrphanPaymentRow struct {
	PaymentID uuid.UUID       `gorm:"column:payment_id"`
	OrderID   uuid.UUID       `gorm:"column:order_id"`
	PaidAt    time.Time       `gorm:"column:paid_at"`
	Amount    decimal.Decimal `gorm:"column:amount"`
}

type OrphanOrderItemRow struct {
	OrderItemID uuid.UUID       `gorm:"column:order_item_id"`
	OrderID     uuid.UUID       `gorm:"column:order_id"`
	ItemID      uuid.UUID       `gorm:"column:item_id"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	LineAmount  decimal.Decimal `gorm:"column:line_amount"`
}

type OrphanInvoiceItemRow struct {
	InvoiceItemID uuid.UUID       `gorm:"column:invoice_item_id"`
	InvoiceID     uuid.UUID       `gorm:"column:invoice_id"`
	ItemID        uuid.UUID       `gorm:"column:item_id"`
	IssuedAt      time.Time       `gorm:"column:issued_at"`
	NetAmount     decimal.Decimal `gorm:"column:net_amount"`
}

type OrphanInvoiceRow struct {
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id"`
	InvoiceNo   string          `gorm:"column:invoice_no"`
	OrderID     uuid.UUID       `gorm:"column:order_id"`
	IssuedAt    time.Time       `gorm:"column:issued_at"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
}

type OrphanRepository interface {
	OrdersWithoutInvoice(ctx context.Context, start, end time.Time) ([]OrphanOrderRow, error)
	PaymentsWithoutInvoice(ctx context.Context, start, end time.Time) ([]OrphanPaymentRow, error)
	OrderItemsWithoutInvoiceItem(ctx context.Context, start, end time.Time) ([]OrphanOrderItemRow, error)
	InvoiceItemsWithoutOrderItem(ctx context.Context, start, end time.Time) ([]OrphanInvoiceItemRow, error)
	InvoicesWithoutTaxLine(ctx context.Context, start, end time.Time) ([]OrphanInvoiceRow, error)
}

type orphanRepository struct {
	db *gorm.DB
}

func NewOrphanRepository(db *gorm.DB) OrphanRepository {
	return &orphanRepository{db: db}
}

// OrdersWithoutInvoice finds PAID or COMPLETED orders with no ISSUED invoice.
func (r *orphanRepository) OrdersWithoutInvoice(ctx context.Context, start, end time.Time) ([]OrphanOrderRow, error) {
	query := `
		SELECT o.id AS order_id, o.order_code, o.created_at, o.total_amount
		FROM orders o
		WHERE o.status IN ('PAID', 'COMPLETED')
		  AND o.created_at >= $1
		  AND o.created_at < $2
		  AND NOT EXISTS (
		      SELECT 1 FROM invoices i
		      WHERE i.order_id = o.id AND i.status = 'ISSUED'
		  )
		ORDER BY o.created_at, o.order_code
	`
	var rows []OrphanOrderRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders without invoice: %w", err)
	}
	return rows, nil
}

// PaymentsWithoutInvoice finds APPROVED payments whose order carries no
// ISSUED invoice. Windowed on the settlement date, not the order date.
func (r *orphanRepository) PaymentsWithoutInvoice(ctx context.Context, start, end time.Time) ([]OrphanPaymentRow, error) {
	query := `
		SELECT p.id AS payment_id, p.order_id, p.paid_at, p.amount
		FROM payments p
		WHERE p.status = 'APPROVED'
		  AND p.paid_at >= $1
		  AND p.paid_at < $2
		  AND NOT EXISTS (
		      SELECT 1 FROM invoices i
		      WHERE i.order_id = p.order_id AND i.status = 'ISSUED'
		  )
		ORDER BY p.paid_at, p.id
	`
	var rows []OrphanPaymentRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query payments without invoice: %w", err)
	}
	return rows, nil
}

// OrderItemsWithoutInvoiceItem finds lines of invoiced orders whose item
// never shows up on any ISSUED invoice line of that order. Orders with no
// invoice at all are left to OrdersWithoutInvoice.
func (r *orphanRepository) OrderItemsWithoutInvoiceItem(ctx context.Context, start, end time.Time) ([]OrphanOrderItemRow, error) {
	query := `
		SELECT oi.id AS order_item_id, oi.order_id, oi.item_id, o.created_at,
		       (oi.quantity * oi.unit_price) AS line_amount
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1
		  AND o.created_at < $2
		  AND EXISTS (
		      SELECT 1 FROM invoices i
		      WHERE i.order_id = oi.order_id AND i.status = 'ISSUED'
		  )
		  AND NOT EXISTS (
		      SELECT 1
		      FROM invoice_items ii
		      JOIN invoices iv ON iv.id = ii.invoice_id
		      WHERE iv.order_id = oi.order_id
		        AND iv.status = 'ISSUED'
		        AND ii.item_id = oi.item_id
		  )
		ORDER BY o.created_at, oi.id
	`
	var rows []OrphanOrderItemRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query order items without invoice item: %w", err)
	}
	return rows, nil
}

// InvoiceItemsWithoutOrderItem finds ISSUED invoice lines whose item was
// never ordered on the invoice's order — the mirror of the check above.
func (r *orphanRepository) InvoiceItemsWithoutOrderItem(ctx context.Context, start, end time.Time) ([]OrphanInvoiceItemRow, error) {
	query := `
		SELECT ii.id AS invoice_item_id, ii.invoice_id, ii.item_id, i.issued_at, ii.net_amount
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.status = 'ISSUED'
		  AND i.issued_at >= $1
		  AND i.issued_at < $2
		  AND NOT EXISTS (
		      SELECT 1 FROM order_items oi
		      WHERE oi.order_id = i.order_id AND oi.item_id = ii.item_id
		  )
		ORDER BY i.issued_at, ii.id
	`
	var rows []OrphanInvoiceItemRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query invoice items without order item: %w", err)
	}
	return rows, nil
}

// InvoicesWithoutTaxLine finds ISSUED invoices with no tax assessment at all.
func (r *orphanRepository) InvoicesWithoutTaxLine(ctx context.Context, start, end time.Time) ([]OrphanInvoiceRow, error) {
	query := `
		SELECT i.id AS invoice_id, i.invoice_no, i.order_id, i.issued_at, i.total_amount
		FROM invoices i
		WHERE i.status = 'ISSUED'
		  AND i.issued_at >= $1
		  AND i.issued_at < $2
		  AND NOT EXISTS (
		      SELECT 1 FROM tax_lines t WHERE t.invoice_id = i.id
		  )
		ORDER BY i.issued_at, i.invoice_no
	`
	var rows []OrphanInvoiceRow
	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query invoices without tax line: %w", err)
	}
	return rows, nil
}
