package dto

import "github.com/shopspring/decimal"

// LowStockItem is one fabric whose derived stock fell below the threshold.
type LowStockItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ProductCode  string          `json:"product_code"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// SupplierCount is one row of the top-suppliers rollup.
type SupplierCount struct {
	Supplier string `json:"supplier"`
	Count    int    `json:"count"`
}

// TypeQuantity is total derived stock per fabric type.
type TypeQuantity struct {
	Type     string          `json:"type"`
	Quantity decimal.Decimal `json:"count"`
}

// ChannelBreakdown aggregates movements by source channel or payment mode.
type ChannelBreakdown struct {
	Label      string          `json:"label"`
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"total_revenue"`
}

type AnalyticsResponse struct {
	TotalFabrics   int                `json:"total_fabrics"`
	TotalValue     decimal.Decimal    `json:"total_value"`
	LowStock       []LowStockItem     `json:"low_stock"`
	TopSuppliers   []SupplierCount    `json:"top_suppliers"`
	FabricTypes    []TypeQuantity     `json:"fabric_types"`
	SourceChannels []ChannelBreakdown `json:"transaction_sources"`
	PaymentModes   []ChannelBreakdown `json:"payment_modes"`
}
