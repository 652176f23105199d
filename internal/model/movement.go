package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDirection is the closed two-value tag on every ledger entry.
type MovementDirection string

const (
	DirectionIn  MovementDirection = "in"
	DirectionOut MovementDirection = "out"
)

// Valid reports whether d is one of the two permitted directions.
func (d MovementDirection) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// InventoryMovement is one append-only ledger entry. Rows are never updated or
// individually deleted; the only delete path is the cascade when the owning
// Fabric is removed from the catalog.
//
// The ID is a bigserial, not a UUID: when two movements share a Date the
// higher ID is the later one, which is the tie-break used for "latest
// movement" reads.
type InventoryMovement struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement"`
	FabricID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Direction MovementDirection `gorm:"type:varchar(3);not null"`
	Quantity  decimal.Decimal   `gorm:"type:decimal(12,3);not null"`
	UnitPrice decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	// TotalValue is quantity × unit price computed at append time and stored,
	// so historical pricing survives later catalog price changes.
	TotalValue decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// Reference is shared by every line of one multi-item batch (order number,
	// invoice number, PO number). Grouping by it reconstructs the batch.
	Reference   string    `gorm:"index"`
	Source      string    // e.g. "E-commerce", "Purchase", "Sales", "Manual Entry"
	PaymentMode string    // e.g. "Cash", "UPI", "Pending"
	Date        time.Time `gorm:"not null;index"`

	Fabric *Fabric `gorm:"foreignKey:FabricID"`
}

// TableName overrides GORM's default pluralization.
func (InventoryMovement) TableName() string { return "inventory_movements" }
