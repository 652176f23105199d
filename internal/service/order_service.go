package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/model"
	"fabrictrack/internal/repository"
	"fabrictrack/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Defaults applied when a committing request leaves channel fields empty.
const (
	sourceEcommerce    = "E-commerce"
	sourceSales        = "Sales"
	defaultPaymentMode = "UPI"
)

// OrderService commits outbound batches. An e-commerce order and an invoiced
// sale share the same core: lock every fabric, check every line against
// derived stock, then append every movement. A batch either lands whole or
// not at all.
type OrderService interface {
	CommitOrder(ctx context.Context, req dto.CommitOrderRequest) (*dto.OrderResponse, error)
	CommitSale(ctx context.Context, req dto.CommitSaleRequest) (*dto.SaleCommitResponse, error)

	// ListSales merges Sale receipt rows with e-commerce outbound movements
	// into one newest-first view.
	ListSales(ctx context.Context) ([]dto.SaleRecord, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) error
	DeleteSale(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	fabrics    repository.FabricRepository
	movements  repository.MovementRepository
	sales      repository.SaleRepository
	ledger     LedgerService
	dispatcher *worker.Dispatcher
	lowStock   decimal.Decimal
}

func NewOrderService(
	fabrics repository.FabricRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	ledger LedgerService,
	dispatcher *worker.Dispatcher,
	lowStockThreshold decimal.Decimal,
) OrderService {
	return &orderService{
		fabrics:    fabrics,
		movements:  movements,
		sales:      sales,
		ledger:     ledger,
		dispatcher: dispatcher,
		lowStock:   lowStockThreshold,
	}
}

// resolvedLine is one checked outbound line, ready to append.
type resolvedLine struct {
	fabric    *model.Fabric
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	total     decimal.Decimal
	remaining decimal.Decimal
}

// resolveOutbound locks each referenced fabric and checks every line against
// derived stock before anything is written. Lines for the same fabric see the
// batch's own earlier lines through the pending map, so a batch cannot
// overdraw a fabric by splitting the quantity across lines.
func (s *orderService) resolveOutbound(tx *gorm.DB, items []dto.OrderItemRequest) ([]resolvedLine, error) {
	pending := make(map[uuid.UUID]decimal.Decimal)
	lines := make([]resolvedLine, 0, len(items))

	for _, item := range items {
		fid, err := uuid.Parse(item.FabricID)
		if err != nil {
			return nil, &ValidationError{Field: "fabric_id", Reason: "not a valid id"}
		}
		if !item.Quantity.IsPositive() {
			return nil, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}

		fabric, err := s.fabrics.LockByIDTx(tx, fid)
		if err != nil {
			return nil, &NotFoundError{Resource: "fabric", ID: item.FabricID}
		}

		stock, err := s.ledger.CurrentStockTx(tx, fabric)
		if err != nil {
			return nil, err
		}
		available := stock.Sub(pending[fid])
		if item.Quantity.GreaterThan(available) {
			return nil, &InsufficientStockError{
				FabricID:  fid,
				Requested: item.Quantity,
				Available: available,
			}
		}
		pending[fid] = pending[fid].Add(item.Quantity)

		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = fabric.SellingPrice
		}
		lines = append(lines, resolvedLine{
			fabric:    fabric,
			quantity:  item.Quantity,
			unitPrice: unitPrice,
			total:     item.Quantity.Mul(unitPrice),
			remaining: available.Sub(item.Quantity),
		})
	}
	return lines, nil
}

func (s *orderService) CommitOrder(ctx context.Context, req dto.CommitOrderRequest) (*dto.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyBatch
	}

	source := req.Source
	if source == "" {
		source = sourceEcommerce
	}
	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = defaultPaymentMode
	}
	reference := req.Reference
	if reference == "" {
		reference = fmt.Sprintf("Order-%d", time.Now().UnixMilli())
	}

	total := decimal.Zero
	var committed []resolvedLine

	txErr := runTx(ctx, s.fabrics.DB(), func(tx *gorm.DB) error {
		lines, err := s.resolveOutbound(tx, req.Items)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, ln := range lines {
			m := &model.InventoryMovement{
				FabricID:    ln.fabric.ID,
				Direction:   model.DirectionOut,
				Quantity:    ln.quantity,
				UnitPrice:   ln.unitPrice,
				TotalValue:  ln.total,
				Reference:   reference,
				Source:      source,
				PaymentMode: paymentMode,
				Date:        now,
			}
			if err := s.movements.CreateTx(tx, m); err != nil {
				return err
			}
			total = total.Add(ln.total)
		}
		committed = lines
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertLowStock(ctx, committed)

	return &dto.OrderResponse{
		OrderID:     reference,
		TotalItems:  len(req.Items),
		TotalAmount: total,
	}, nil
}

func (s *orderService) CommitSale(ctx context.Context, req dto.CommitSaleRequest) (*dto.SaleCommitResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyBatch
	}

	saleDate := time.Now()
	if req.SaleDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SaleDate)
		if err != nil {
			return nil, &ValidationError{Field: "sale_date", Reason: "must be YYYY-MM-DD"}
		}
		saleDate = parsed
	}
	status := req.Status
	if status == "" {
		status = "completed"
	}

	var invoiceNumber string
	total := decimal.Zero
	var committed []resolvedLine

	txErr := runTx(ctx, s.fabrics.DB(), func(tx *gorm.DB) error {
		lines, err := s.resolveOutbound(tx, req.Items)
		if err != nil {
			return err
		}

		// Day-scoped sequence, counted inside the transaction. Concurrent
		// sales that touch a common fabric serialize on its row locks;
		// sales on disjoint fabrics do not, and may observe the same count.
		issued, err := s.sales.CountDistinctInvoicesTx(tx, saleDate)
		if err != nil {
			return err
		}
		invoiceNumber = fmt.Sprintf("INV-%s-%03d", saleDate.Format("20060102"), issued+1)

		for _, ln := range lines {
			m := &model.InventoryMovement{
				FabricID:    ln.fabric.ID,
				Direction:   model.DirectionOut,
				Quantity:    ln.quantity,
				UnitPrice:   ln.unitPrice,
				TotalValue:  ln.total,
				Reference:   invoiceNumber,
				Source:      sourceSales,
				PaymentMode: req.PaymentMethod,
				Date:        saleDate,
			}
			if err := s.movements.CreateTx(tx, m); err != nil {
				return err
			}
			sale := &model.Sale{
				FabricID:        ln.fabric.ID,
				CustomerName:    req.CustomerName,
				CustomerEmail:   req.CustomerEmail,
				CustomerPhone:   req.CustomerPhone,
				Quantity:        ln.quantity,
				Unit:            ln.fabric.Unit,
				UnitPrice:       ln.unitPrice,
				TotalAmount:     ln.total,
				SaleDate:        saleDate,
				InvoiceNumber:   invoiceNumber,
				PaymentMethod:   req.PaymentMethod,
				PaymentStatus:   req.PaymentStatus,
				DeliveryAddress: req.DeliveryAddress,
				Notes:           req.Notes,
				Status:          status,
			}
			if err := s.sales.CreateTx(tx, sale); err != nil {
				return err
			}
			total = total.Add(ln.total)
		}
		committed = lines
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		payload := map[string]interface{}{"invoice_number": invoiceNumber}
		if req.CustomerEmail != "" {
			payload["customer_email"] = req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueInvoice(ctx, payload)
	}
	s.alertLowStock(ctx, committed)

	return &dto.SaleCommitResponse{
		InvoiceNumber: invoiceNumber,
		TotalItems:    len(req.Items),
		TotalAmount:   total,
	}, nil
}

// alertLowStock enqueues one alert per committed line that left its fabric
// at or below the configured threshold. Best effort after the commit.
func (s *orderService) alertLowStock(ctx context.Context, lines []resolvedLine) {
	if s.dispatcher == nil {
		return
	}
	for _, ln := range lines {
		if ln.remaining.GreaterThan(s.lowStock) {
			continue
		}
		_ = s.dispatcher.EnqueueLowStockAlert(ctx, map[string]interface{}{
			"fabric_id":       ln.fabric.ID.String(),
			"fabric_name":     ln.fabric.Name,
			"product_code":    ln.fabric.ProductCode,
			"remaining_stock": ln.remaining.String(),
		})
	}
}

func (s *orderService) ListSales(ctx context.Context) ([]dto.SaleRecord, error) {
	type dated struct {
		record dto.SaleRecord
		at     time.Time
	}
	var merged []dated

	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sale := &sales[i]
		rec := dto.SaleRecord{
			ID:            sale.ID.String(),
			FabricID:      sale.FabricID.String(),
			CustomerName:  sale.CustomerName,
			CustomerEmail: sale.CustomerEmail,
			CustomerPhone: sale.CustomerPhone,
			Quantity:      sale.Quantity,
			Unit:          sale.Unit,
			UnitPrice:     sale.UnitPrice,
			TotalAmount:   sale.TotalAmount,
			SaleDate:      sale.SaleDate.Format(time.RFC3339),
			InvoiceNumber: sale.InvoiceNumber,
			PaymentMethod: sale.PaymentMethod,
			PaymentStatus: sale.PaymentStatus,
			Notes:         sale.Notes,
			Status:        sale.Status,
			DataType:      "sale_record",
		}
		if sale.Fabric != nil {
			rec.FabricName = sale.Fabric.Name
			rec.FabricType = sale.Fabric.Type
		}
		merged = append(merged, dated{record: rec, at: sale.SaleDate})
	}

	movements, err := s.movements.ListOutBySource(ctx, sourceEcommerce)
	if err != nil {
		return nil, err
	}
	for i := range movements {
		m := &movements[i]
		rec := dto.SaleRecord{
			ID:            fmt.Sprintf("txn-%d", m.ID),
			FabricID:      m.FabricID.String(),
			CustomerName:  "Online Customer",
			Quantity:      m.Quantity,
			UnitPrice:     m.UnitPrice,
			TotalAmount:   m.TotalValue,
			SaleDate:      m.Date.Format(time.RFC3339),
			InvoiceNumber: m.Reference,
			PaymentMethod: m.PaymentMode,
			Status:        "completed",
			DataType:      "transaction_sale",
		}
		if m.Fabric != nil {
			rec.FabricName = m.Fabric.Name
			rec.FabricType = m.Fabric.Type
			rec.Unit = m.Fabric.Unit
		}
		merged = append(merged, dated{record: rec, at: m.Date})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].at.After(merged[j].at)
	})
	out := make([]dto.SaleRecord, 0, len(merged))
	for _, d := range merged {
		out = append(out, d.record)
	}
	return out, nil
}

func (s *orderService) UpdateSale(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Resource: "sale", ID: id.String()}
	}

	// Receipt metadata only. The outbound movement this row accompanies is
	// append-only and stays untouched.
	sale.CustomerName = req.CustomerName
	sale.CustomerEmail = req.CustomerEmail
	sale.CustomerPhone = req.CustomerPhone
	sale.PaymentMethod = req.PaymentMethod
	sale.PaymentStatus = req.PaymentStatus
	sale.DeliveryAddress = req.DeliveryAddress
	sale.Notes = req.Notes
	if req.Status != "" {
		sale.Status = req.Status
	}
	if req.Quantity.IsPositive() {
		sale.Quantity = req.Quantity
	}
	if req.UnitPrice.IsPositive() {
		sale.UnitPrice = req.UnitPrice
	}
	sale.TotalAmount = sale.Quantity.Mul(sale.UnitPrice)

	return s.sales.Update(ctx, sale)
}

func (s *orderService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sales.FindByID(ctx, id); err != nil {
		return &NotFoundError{Resource: "sale", ID: id.String()}
	}
	return s.sales.Delete(ctx, id)
}
