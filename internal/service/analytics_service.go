package service

import (
	"context"
	"sort"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const topSupplierLimit = 5

// AnalyticsService builds dashboard rollups. Every stock figure here is the
// same opening + signed-sum fold the rest of the system uses.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type analyticsService struct {
	fabrics   repository.FabricRepository
	movements repository.MovementRepository
	lowStock  decimal.Decimal
}

func NewAnalyticsService(fabrics repository.FabricRepository, movements repository.MovementRepository, lowStockThreshold decimal.Decimal) AnalyticsService {
	return &analyticsService{fabrics: fabrics, movements: movements, lowStock: lowStockThreshold}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*dto.AnalyticsResponse, error) {
	fabrics, err := s.fabrics.List(ctx, dto.FabricFilter{})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(fabrics))
	for _, f := range fabrics {
		ids = append(ids, f.ID)
	}
	sums, err := s.movements.SumsByFabric(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyticsResponse{
		TotalFabrics: len(fabrics),
		TotalValue:   decimal.Zero,
		LowStock:     []dto.LowStockItem{},
	}

	supplierCounts := make(map[string]int)
	typeTotals := make(map[string]decimal.Decimal)

	for i := range fabrics {
		f := &fabrics[i]
		stock := f.OpeningQty.Add(sums[f.ID])

		if stock.IsPositive() {
			resp.TotalValue = resp.TotalValue.Add(stock.Mul(f.CostPrice))
		}
		if stock.LessThan(s.lowStock) {
			resp.LowStock = append(resp.LowStock, dto.LowStockItem{
				ID:           f.ID.String(),
				Name:         f.Name,
				ProductCode:  f.ProductCode,
				CurrentStock: stock,
			})
		}
		if f.Supplier != "" {
			supplierCounts[f.Supplier]++
		}
		typeTotals[f.Type] = typeTotals[f.Type].Add(stock)
	}

	for supplier, count := range supplierCounts {
		resp.TopSuppliers = append(resp.TopSuppliers, dto.SupplierCount{Supplier: supplier, Count: count})
	}
	sort.Slice(resp.TopSuppliers, func(i, j int) bool {
		if resp.TopSuppliers[i].Count != resp.TopSuppliers[j].Count {
			return resp.TopSuppliers[i].Count > resp.TopSuppliers[j].Count
		}
		return resp.TopSuppliers[i].Supplier < resp.TopSuppliers[j].Supplier
	})
	if len(resp.TopSuppliers) > topSupplierLimit {
		resp.TopSuppliers = resp.TopSuppliers[:topSupplierLimit]
	}

	for typ, qty := range typeTotals {
		resp.FabricTypes = append(resp.FabricTypes, dto.TypeQuantity{Type: typ, Quantity: qty})
	}
	sort.Slice(resp.FabricTypes, func(i, j int) bool {
		return resp.FabricTypes[i].Type < resp.FabricTypes[j].Type
	})

	sources, err := s.movements.AggregateBySource(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range sources {
		resp.SourceChannels = append(resp.SourceChannels, dto.ChannelBreakdown{
			Label: row.Label, Count: row.Count, TotalValue: row.TotalValue,
		})
	}

	payments, err := s.movements.AggregateByPaymentMode(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range payments {
		resp.PaymentModes = append(resp.PaymentModes, dto.ChannelBreakdown{
			Label: row.Label, Count: row.Count, TotalValue: row.TotalValue,
		})
	}

	return resp, nil
}
