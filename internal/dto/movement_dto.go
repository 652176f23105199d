package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AppendMovementRequest is a manual ledger entry (POST /v1/transactions).
type AppendMovementRequest struct {
	FabricID    string          `json:"fabric_id"        validate:"required,uuid"`
	Direction   string          `json:"transaction_type" validate:"required,oneof=in out"`
	Quantity    decimal.Decimal `json:"quantity"         validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"       validate:"min=0"`
	Reference   string          `json:"reference"`
	Source      string          `json:"transaction_source"`
	PaymentMode string          `json:"payment_mode"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID          uint64          `json:"id"`
	FabricID    string          `json:"fabric_id"`
	FabricName  string          `json:"fabric_name,omitempty"`
	ProductCode string          `json:"product_code,omitempty"`
	Direction   string          `json:"transaction_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Reference   string          `json:"reference"`
	Source      string          `json:"transaction_source"`
	PaymentMode string          `json:"payment_mode"`
	Date        string          `json:"date"`
}

// ReferenceGroup reassembles one logical multi-line batch from the shared
// reference string carried by its movements.
type ReferenceGroup struct {
	Reference     string          `json:"reference"`
	Direction     string          `json:"transaction_type"`
	Lines         int64           `json:"lines"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	FirstDate     string          `json:"first_date"`
	LastDate      string          `json:"last_date"`
}
