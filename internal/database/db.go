package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models. The order/payment/invoice/tax tables are
	// passive sources populated by the marketplace sync; they get schema
	// but no FK constraints — integrity is computed, not enforced.
	err = db.AutoMigrate(
		&model.User{},
		&model.Item{},
		&model.ItemVersion{},
		&model.ItemSnapshot{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.TaxLine{},
		&model.ComplianceAlert{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
