package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fabric is one stock-keeping unit of textile material in the catalog.
// OpeningQty is the baseline recorded at creation and is never touched by
// updates — current stock is always OpeningQty plus the signed sum of the
// fabric's inventory movements.
type Fabric struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductCode string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Type        string    `gorm:"not null;default:'General'"`
	Color       string
	Pattern     string
	OpeningQty  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Unit        string          `gorm:"not null;default:'mtr'"`
	// CostPrice is the per-unit purchase price; MRP and SellingPrice are
	// independently mutable retail figures.
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MRP          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Supplier     string          `gorm:"index"`
	Description  string
	// ImageURL is an opaque reference handled by the upload layer; the core
	// only stores and forwards it.
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
