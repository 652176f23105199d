package service

import (
	"context"
	"fmt"
	"time"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/model"
	"fabrictrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const sourcePurchase = "Purchase"

// PurchaseService commits inbound batches. A line may reference a known
// fabric or carry enough data to create one inline; either way the whole
// batch lands together or not at all. Only a received purchase moves stock.
type PurchaseService interface {
	CommitPurchase(ctx context.Context, req dto.CommitPurchaseRequest) (*dto.PurchaseCommitResponse, error)
	ListPurchases(ctx context.Context) ([]dto.PurchaseRecord, error)
	UpdatePurchase(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseRequest) error
	DeletePurchase(ctx context.Context, id uuid.UUID) error
}

type purchaseService struct {
	fabrics   repository.FabricRepository
	movements repository.MovementRepository
	purchases repository.PurchaseRepository
}

func NewPurchaseService(
	fabrics repository.FabricRepository,
	movements repository.MovementRepository,
	purchases repository.PurchaseRepository,
) PurchaseService {
	return &purchaseService{fabrics: fabrics, movements: movements, purchases: purchases}
}

// resolvedPurchaseLine is one checked inbound line. When fabric is nil the
// line targets newFabric, which the write phase creates on its first line
// and reuses for later lines of the same batch.
type resolvedPurchaseLine struct {
	fabric    *model.Fabric
	newFabric *model.Fabric
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	mrp       decimal.Decimal
	selling   decimal.Decimal
}

func (s *purchaseService) CommitPurchase(ctx context.Context, req dto.CommitPurchaseRequest) (*dto.PurchaseCommitResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyBatch
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("PO-%d", time.Now().UnixMilli())
	}
	orderDate := time.Now()
	if req.OrderDate != "" {
		parsed, err := time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			return nil, &ValidationError{Field: "order_date", Reason: "must be YYYY-MM-DD"}
		}
		orderDate = parsed
	}
	status := req.Status
	if status == "" {
		status = model.PurchaseStatusOrdered
	}

	created := 0

	txErr := runTx(ctx, s.fabrics.DB(), func(tx *gorm.DB) error {
		// Resolve phase: every line is matched or marked for creation before
		// the first write, so a bad line aborts the batch cleanly. Lines are
		// resolved in order; pendingNew lets a later line reuse a fabric an
		// earlier line of the same batch is about to create.
		lines := make([]resolvedPurchaseLine, 0, len(req.Items))
		pendingNew := make(map[string]*model.Fabric)
		for _, item := range req.Items {
			if !item.Quantity.IsPositive() {
				return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
			}
			ln := resolvedPurchaseLine{
				quantity:  item.Quantity,
				unitPrice: item.UnitPrice,
				mrp:       item.MRP,
				selling:   item.SellingPrice,
			}
			if ln.mrp.IsZero() {
				ln.mrp = item.UnitPrice
			}
			if ln.selling.IsZero() {
				ln.selling = item.UnitPrice
			}

			switch {
			case item.FabricID != nil && *item.FabricID != "":
				fid, err := uuid.Parse(*item.FabricID)
				if err != nil {
					return &ValidationError{Field: "fabric_id", Reason: "not a valid id"}
				}
				fabric, err := s.fabrics.LockByIDTx(tx, fid)
				if err != nil {
					return &NotFoundError{Resource: "fabric", ID: *item.FabricID}
				}
				ln.fabric = fabric

			case item.Name != "":
				if pending := pendingNew[item.Name]; pending != nil {
					ln.newFabric = pending
					break
				}
				if item.ProductCode != "" && pendingNew[item.ProductCode] != nil {
					ln.newFabric = pendingNew[item.ProductCode]
					break
				}
				if fabric, err := s.fabrics.FindByCodeOrNameTx(tx, item.ProductCode, item.Name); err == nil && fabric != nil && fabric.ID != uuid.Nil {
					ln.fabric = fabric
					break
				}
				code := item.ProductCode
				if code == "" {
					code = generateProductCode()
				}
				ln.newFabric = &model.Fabric{
					ProductCode:  code,
					Name:         item.Name,
					Type:         "General",
					OpeningQty:   decimal.Zero,
					Unit:         "mtr",
					CostPrice:    item.UnitPrice,
					MRP:          ln.mrp,
					SellingPrice: ln.selling,
					Supplier:     req.SupplierName,
					Description:  fmt.Sprintf("Added via purchase %s", orderNumber),
				}
				pendingNew[item.Name] = ln.newFabric
				pendingNew[code] = ln.newFabric

			default:
				return &UnresolvableLineError{Description: "line has neither fabric_id nor name"}
			}
			lines = append(lines, ln)
		}

		// Write phase.
		for _, ln := range lines {
			fabric := ln.fabric
			if fabric == nil && ln.newFabric.ID == uuid.Nil {
				if err := s.fabrics.CreateTx(tx, ln.newFabric); err != nil {
					return err
				}
				created++
				fabric = ln.newFabric
			} else {
				if fabric == nil {
					// An earlier line of this batch already created it.
					fabric = ln.newFabric
				}
				// Latest purchase always wins on pricing.
				if err := s.fabrics.UpdatePricesTx(tx, fabric.ID, ln.unitPrice, ln.mrp, ln.selling); err != nil {
					return err
				}
			}

			purchase := &model.Purchase{
				FabricID:      fabric.ID,
				SupplierName:  req.SupplierName,
				SupplierEmail: req.SupplierEmail,
				SupplierPhone: req.SupplierPhone,
				Quantity:      ln.quantity,
				Unit:          fabric.Unit,
				UnitPrice:     ln.unitPrice,
				TotalAmount:   ln.quantity.Mul(ln.unitPrice),
				OrderDate:     orderDate,
				OrderNumber:   orderNumber,
				PaymentTerms:  req.PaymentTerms,
				Status:        status,
			}
			if err := s.purchases.CreateTx(tx, purchase); err != nil {
				return err
			}

			if status == model.PurchaseStatusReceived {
				m := &model.InventoryMovement{
					FabricID:    fabric.ID,
					Direction:   model.DirectionIn,
					Quantity:    ln.quantity,
					UnitPrice:   ln.unitPrice,
					TotalValue:  ln.quantity.Mul(ln.unitPrice),
					Reference:   orderNumber,
					Source:      sourcePurchase,
					PaymentMode: req.PaymentTerms,
					Date:        orderDate,
				}
				if err := s.movements.CreateTx(tx, m); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.PurchaseCommitResponse{
		OrderNumber:    orderNumber,
		TotalItems:     len(req.Items),
		CreatedFabrics: created,
	}, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context) ([]dto.PurchaseRecord, error) {
	purchases, err := s.purchases.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseRecord, 0, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		rec := dto.PurchaseRecord{
			ID:            p.ID.String(),
			FabricID:      p.FabricID.String(),
			SupplierName:  p.SupplierName,
			Quantity:      p.Quantity,
			Unit:          p.Unit,
			UnitPrice:     p.UnitPrice,
			TotalAmount:   p.TotalAmount,
			OrderDate:     p.OrderDate.Format(time.RFC3339),
			OrderNumber:   p.OrderNumber,
			PaymentTerms:  p.PaymentTerms,
			PaymentStatus: p.PaymentStatus,
			Status:        p.Status,
		}
		if p.Fabric != nil {
			rec.FabricName = p.Fabric.Name
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *purchaseService) UpdatePurchase(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseRequest) error {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Resource: "purchase", ID: id.String()}
	}

	// Receipt row only. Flipping status here does not create a movement;
	// stock received outside the commit path goes through a manual entry.
	purchase.SupplierName = req.SupplierName
	purchase.SupplierEmail = req.SupplierEmail
	purchase.SupplierPhone = req.SupplierPhone
	purchase.PaymentTerms = req.PaymentTerms
	purchase.PaymentStatus = req.PaymentStatus
	purchase.Notes = req.Notes
	if req.Status != "" {
		purchase.Status = req.Status
	}
	if req.Quantity.IsPositive() {
		purchase.Quantity = req.Quantity
	}
	if req.UnitPrice.IsPositive() {
		purchase.UnitPrice = req.UnitPrice
	}
	purchase.TotalAmount = purchase.Quantity.Mul(purchase.UnitPrice)

	return s.purchases.Update(ctx, purchase)
}

func (s *purchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if _, err := s.purchases.FindByID(ctx, id); err != nil {
		return &NotFoundError{Resource: "purchase", ID: id.String()}
	}
	return s.purchases.Delete(ctx, id)
}
