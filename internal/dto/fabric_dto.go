package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateFabricRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=120"`
	ProductCode string `json:"product_code" validate:"omitempty,max=40"`
	Type        string `json:"type"         validate:"required"`
	Color       string `json:"color"`
	Pattern     string `json:"pattern"`
	// Quantity becomes the fabric's immutable opening quantity.
	Quantity     decimal.Decimal `json:"quantity"      validate:"min=0"`
	Unit         string          `json:"unit"          validate:"required"`
	CostPrice    decimal.Decimal `json:"price_per_unit" validate:"min=0"`
	MRP          decimal.Decimal `json:"mrp"           validate:"min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"min=0"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description"`
	ImageURL     *string         `json:"image_url"`
}

// UpdateFabricRequest deliberately has no quantity field: opening quantity is
// write-once and only ledger entries change derived stock.
type UpdateFabricRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	ProductCode  string          `json:"product_code"  validate:"omitempty,max=40"`
	Type         string          `json:"type"          validate:"required"`
	Color        string          `json:"color"`
	Pattern      string          `json:"pattern"`
	Unit         string          `json:"unit"          validate:"required"`
	CostPrice    decimal.Decimal `json:"price_per_unit" validate:"min=0"`
	MRP          decimal.Decimal `json:"mrp"           validate:"min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"min=0"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description"`
	ImageURL     *string         `json:"image_url"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// FabricFilter is bound from the query string of GET /v1/fabrics/search.
type FabricFilter struct {
	Query    string `form:"q"`
	Type     string `form:"type"`
	Color    string `form:"color"`
	Supplier string `form:"supplier"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FabricResponse struct {
	ID           string          `json:"id"`
	ProductCode  string          `json:"product_code"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Color        string          `json:"color"`
	Pattern      string          `json:"pattern"`
	OpeningQty   decimal.Decimal `json:"opening_quantity"`
	CurrentStock decimal.Decimal `json:"current_quantity"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"price_per_unit"`
	MRP          decimal.Decimal `json:"mrp"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description"`
	ImageURL     *string         `json:"image_url"`
	// Latest movement metadata, for the inventory list view.
	LatestSource      string `json:"transaction_source,omitempty"`
	LatestPaymentMode string `json:"payment_mode,omitempty"`
	CreatedAt         string `json:"date_added"`
	UpdatedAt         string `json:"last_updated"`
}

// ProductResponse is the e-commerce storefront view of a fabric.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Color       string          `json:"color"`
	Pattern     string          `json:"pattern"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	ImageURL    *string         `json:"image_url"`
	Supplier    string          `json:"supplier"`
	Available   bool            `json:"available"`
}
