package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PurchaseItemRequest is one line of an inbound batch. Either FabricID
// references a known fabric, or Name (plus optional ProductCode) carries
// enough to create one inline.
type PurchaseItemRequest struct {
	FabricID     *string         `json:"fabric_id"    validate:"omitempty,uuid"`
	Name         string          `json:"name"`
	ProductCode  string          `json:"product_code"`
	Quantity     decimal.Decimal `json:"quantity"     validate:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price"   validate:"min=0"`
	MRP          decimal.Decimal `json:"mrp"          validate:"min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"min=0"`
}

type CommitPurchaseRequest struct {
	SupplierName  string                `json:"supplier_name" validate:"required,min=2"`
	SupplierEmail string                `json:"supplier_email" validate:"omitempty,email"`
	SupplierPhone string                `json:"supplier_phone"`
	Items         []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
	OrderNumber   string                `json:"order_number"`
	OrderDate     string                `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentTerms  string                `json:"payment_terms"`
	Status        string                `json:"status" validate:"omitempty,oneof=ordered pending received"`
}

// UpdatePurchaseRequest edits one receipt row; never touches the ledger.
type UpdatePurchaseRequest struct {
	SupplierName  string          `json:"supplier_name" validate:"required,min=2"`
	SupplierEmail string          `json:"supplier_email" validate:"omitempty,email"`
	SupplierPhone string          `json:"supplier_phone"`
	Quantity      decimal.Decimal `json:"quantity" validate:"omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"omitempty"`
	PaymentTerms  string          `json:"payment_terms"`
	PaymentStatus string          `json:"payment_status"`
	Notes         string          `json:"notes"`
	Status        string          `json:"status" validate:"omitempty,oneof=ordered pending received"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseCommitResponse struct {
	OrderNumber    string `json:"order_number"`
	TotalItems     int    `json:"total_items"`
	CreatedFabrics int    `json:"created_fabrics"`
}

type PurchaseRecord struct {
	ID            string          `json:"id"`
	FabricID      string          `json:"fabric_id"`
	FabricName    string          `json:"fabric_name"`
	SupplierName  string          `json:"supplier_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderDate     string          `json:"order_date"`
	OrderNumber   string          `json:"order_number"`
	PaymentTerms  string          `json:"payment_terms"`
	PaymentStatus string          `json:"payment_status"`
	Status        string          `json:"status"`
}
