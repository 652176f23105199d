package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the lightweight receipt record written alongside each outbound
// movement of an invoiced sale. One row per line item; all rows of one sale
// share the InvoiceNumber. The ledger entry remains the source of truth for
// stock — this row only carries customer and invoice metadata.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FabricID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName  string    `gorm:"not null"`
	CustomerEmail string
	CustomerPhone string
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit          string          `gorm:"not null;default:'mtr'"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SaleDate      time.Time       `gorm:"not null;index"`
	// InvoiceNumber format: INV-YYYYMMDD-NNN, sequential per calendar day.
	InvoiceNumber   string `gorm:"index"`
	PaymentMethod   string
	PaymentStatus   string
	DeliveryAddress string
	Notes           string
	Status          string `gorm:"not null;default:'completed'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Fabric *Fabric `gorm:"foreignKey:FabricID"`
}
