package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/model"
	"fabrictrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService owns fabric master records. Derived stock shown on listings
// comes from the ledger fold, never from a stored counter.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateFabricRequest) (*dto.FabricResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateFabricRequest) error
	// Delete removes the fabric and cascades deletion of its movements.
	// Deleting an unknown id succeeds — the operation is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.FabricResponse, error)
	List(ctx context.Context, filter dto.FabricFilter) ([]dto.FabricResponse, error)
	// AvailableProducts is the e-commerce view: fabrics with positive stock.
	AvailableProducts(ctx context.Context) ([]dto.ProductResponse, error)
}

type catalogService struct {
	fabrics   repository.FabricRepository
	movements repository.MovementRepository
	ledger    LedgerService
}

func NewCatalogService(fabrics repository.FabricRepository, movements repository.MovementRepository, ledger LedgerService) CatalogService {
	return &catalogService{fabrics: fabrics, movements: movements, ledger: ledger}
}

// generateProductCode builds the fallback code used when a fabric is created
// without one: "ITEM-" plus the last six digits of the current unix millis
// and a random suffix, so codes minted in the same millisecond stay distinct.
func generateProductCode() string {
	return fmt.Sprintf("ITEM-%06d-%04d", time.Now().UnixMilli()%1_000_000, rand.Intn(10_000))
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateFabricRequest) (*dto.FabricResponse, error) {
	if req.Quantity.IsNegative() {
		return nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	code := req.ProductCode
	if code == "" {
		code = generateProductCode()
	}
	exists, err := s.fabrics.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConstraintViolationError{Field: "product_code", Value: code}
	}

	fabric := &model.Fabric{
		ProductCode:  code,
		Name:         req.Name,
		Type:         req.Type,
		Color:        req.Color,
		Pattern:      req.Pattern,
		OpeningQty:   req.Quantity,
		Unit:         req.Unit,
		CostPrice:    req.CostPrice,
		MRP:          req.MRP,
		SellingPrice: req.SellingPrice,
		Supplier:     req.Supplier,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
	}
	if err := s.fabrics.Create(ctx, fabric); err != nil {
		return nil, err
	}

	resp := fabricToResponse(fabric, fabric.OpeningQty, nil)
	return &resp, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateFabricRequest) error {
	existing, err := s.fabrics.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Resource: "fabric", ID: id.String()}
	}

	code := req.ProductCode
	if code == "" {
		code = existing.ProductCode
	}
	if code != existing.ProductCode {
		exists, err := s.fabrics.ExistsByCode(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			return &ConstraintViolationError{Field: "product_code", Value: code}
		}
	}

	// OpeningQty is intentionally carried over unchanged: the update column
	// set in the repository never includes it.
	existing.ProductCode = code
	existing.Name = req.Name
	existing.Type = req.Type
	existing.Color = req.Color
	existing.Pattern = req.Pattern
	existing.Unit = req.Unit
	existing.CostPrice = req.CostPrice
	existing.MRP = req.MRP
	existing.SellingPrice = req.SellingPrice
	existing.Supplier = req.Supplier
	existing.Description = req.Description
	if req.ImageURL != nil {
		existing.ImageURL = req.ImageURL
	}
	return s.fabrics.Update(ctx, existing)
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.fabrics.DB(), func(tx *gorm.DB) error {
		if err := s.movements.DeleteByFabricTx(tx, id); err != nil {
			return err
		}
		return s.fabrics.DeleteTx(tx, id)
	})
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.FabricResponse, error) {
	fabric, err := s.fabrics.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Resource: "fabric", ID: id.String()}
	}
	stock, err := s.ledger.CurrentStock(ctx, id)
	if err != nil {
		return nil, err
	}
	latest, _ := s.movements.Latest(ctx, id)
	resp := fabricToResponse(fabric, stock, latest)
	return &resp, nil
}

func (s *catalogService) List(ctx context.Context, filter dto.FabricFilter) ([]dto.FabricResponse, error) {
	fabrics, err := s.fabrics.List(ctx, filter)
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
	latest, err := s.movements.LatestPerFabric(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FabricResponse, 0, len(fabrics))
	for i := range fabrics {
		f := &fabrics[i]
		stock := f.OpeningQty.Add(sums[f.ID])
		var last *model.InventoryMovement
		if m, ok := latest[f.ID]; ok {
			last = &m
		}
		out = append(out, fabricToResponse(f, stock, last))
	}
	return out, nil
}

func (s *catalogService) AvailableProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	fabrics, err := s.List(ctx, dto.FabricFilter{})
	if err != nil {
		return nil, err
	}
	products := make([]dto.ProductResponse, 0, len(fabrics))
	for _, f := range fabrics {
		if !f.CurrentStock.IsPositive() {
			continue
		}
		products = append(products, dto.ProductResponse{
			ID:          f.ID,
			Name:        f.Name,
			Type:        f.Type,
			Color:       f.Color,
			Pattern:     f.Pattern,
			Description: f.Description,
			Price:       f.CostPrice,
			Unit:        f.Unit,
			Stock:       f.CurrentStock,
			ImageURL:    f.ImageURL,
			Supplier:    f.Supplier,
			Available:   true,
		})
	}
	return products, nil
}

func fabricToResponse(f *model.Fabric, stock decimal.Decimal, latest *model.InventoryMovement) dto.FabricResponse {
	resp := dto.FabricResponse{
		ID:           f.ID.String(),
		ProductCode:  f.ProductCode,
		Name:         f.Name,
		Type:         f.Type,
		Color:        f.Color,
		Pattern:      f.Pattern,
		OpeningQty:   f.OpeningQty,
		CurrentStock: stock,
		Unit:         f.Unit,
		CostPrice:    f.CostPrice,
		MRP:          f.MRP,
		SellingPrice: f.SellingPrice,
		Supplier:     f.Supplier,
		Description:  f.Description,
		ImageURL:     f.ImageURL,
		CreatedAt:    f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    f.UpdatedAt.Format(time.RFC3339),
	}
	if latest != nil {
		resp.LatestSource = latest.Source
		resp.LatestPaymentMode = latest.PaymentMode
	}
	return resp
}
