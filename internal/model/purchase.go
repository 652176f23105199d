package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase statuses. Only a received purchase moves stock; ordered/pending
// batches record the receipt rows and wait for a later manual entry.
const (
	PurchaseStatusOrdered  = "ordered"
	PurchaseStatusPending  = "pending"
	PurchaseStatusReceived = "received"
)

// Purchase is the receipt record for one line of a purchase order. All rows
// of one PO share the OrderNumber, which is also the shared reference on the
// inbound movements created when the purchase is received.
type Purchase struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FabricID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierName  string    `gorm:"not null"`
	SupplierEmail string
	SupplierPhone string
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit          string          `gorm:"not null;default:'mtr'"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	OrderDate     time.Time       `gorm:"not null;index"`
	// OrderNumber format: PO-<unix millis> when not supplied by the caller.
	OrderNumber          string `gorm:"index"`
	ExpectedDeliveryDate *time.Time
	PaymentTerms         string
	PaymentStatus        string
	DeliveryAddress      string
	Notes                string
	Status               string `gorm:"not null;default:'ordered'"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Fabric *Fabric `gorm:"foreignKey:FabricID"`
}
