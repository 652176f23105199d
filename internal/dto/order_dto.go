package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OrderItemRequest is one line of an outbound batch (order or sale).
type OrderItemRequest struct {
	FabricID  string          `json:"fabric_id"  validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

// CommitOrderRequest is an e-commerce checkout (POST /v1/orders).
type CommitOrderRequest struct {
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Source      string             `json:"transaction_source"`
	PaymentMode string             `json:"payment_mode"`
	Reference   string             `json:"reference"`
}

// CommitSaleRequest is an invoiced point-of-sale transaction (POST /v1/sales).
type CommitSaleRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,min=2"`
	CustomerEmail   string             `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string             `json:"customer_phone"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	SaleDate        string             `json:"sale_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentStatus   string             `json:"payment_status"`
	DeliveryAddress string             `json:"delivery_address"`
	Notes           string             `json:"notes"`
	Status          string             `json:"status" validate:"omitempty,oneof=completed pending cancelled"`
}

// UpdateSaleRequest edits receipt metadata on one Sale row. The ledger entry
// the row accompanies is append-only and is never touched by this path.
type UpdateSaleRequest struct {
	CustomerName    string          `json:"customer_name" validate:"required,min=2"`
	CustomerEmail   string          `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string          `json:"customer_phone"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	DeliveryAddress string          `json:"delivery_address"`
	Notes           string          `json:"notes"`
	Status          string          `json:"status" validate:"omitempty,oneof=completed pending cancelled"`
	Quantity        decimal.Decimal `json:"quantity" validate:"omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price" validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderResponse struct {
	OrderID     string          `json:"order_id"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type SaleCommitResponse struct {
	InvoiceNumber string          `json:"invoice"`
	TotalItems    int             `json:"total_items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// SaleRecord is one row of the merged sales listing: either a Sale receipt
// row or an e-commerce outbound movement presented as a sale.
type SaleRecord struct {
	ID            string          `json:"id"`
	FabricID      string          `json:"fabric_id"`
	FabricName    string          `json:"fabric_name"`
	FabricType    string          `json:"fabric_type"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	SaleDate      string          `json:"sale_date"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Notes         string          `json:"notes"`
	Status        string          `json:"status"`
	DataType      string          `json:"data_type"` // sale_record | transaction_sale
}
