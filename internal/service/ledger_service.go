package service

import (
	"context"
	"time"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/model"
	"fabrictrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService owns the append-only movement log and the derived-stock
// fold. Every consumer of "current stock" — catalog listings, search,
// analytics, order validation — goes through this service so the fold is
// computed exactly one way.
type LedgerService interface {
	// Append records one manual movement. Quantity must be > 0 and the
	// direction must be in/out; total value is fixed at append time.
	Append(ctx context.Context, req dto.AppendMovementRequest) (*dto.MovementResponse, error)

	// CurrentStock is opening quantity + Σin − Σout over the fabric's ledger.
	CurrentStock(ctx context.Context, fabricID uuid.UUID) (decimal.Decimal, error)

	// CurrentStockTx computes the same fold inside a transaction, for a
	// fabric row the caller has already locked.
	CurrentStockTx(tx *gorm.DB, fabric *model.Fabric) (decimal.Decimal, error)

	// LatestMovement returns the newest movement, (date desc, id desc).
	LatestMovement(ctx context.Context, fabricID uuid.UUID) (*model.InventoryMovement, error)

	ListMovements(ctx context.Context) ([]dto.MovementResponse, error)

	// GroupByReference reassembles logical batches from the shared reference
	// string. Empty reference lists every group.
	GroupByReference(ctx context.Context, reference string) ([]dto.ReferenceGroup, error)
}

type ledgerService struct {
	fabrics   repository.FabricRepository
	movements repository.MovementRepository
}

func NewLedgerService(fabrics repository.FabricRepository, movements repository.MovementRepository) LedgerService {
	return &ledgerService{fabrics: fabrics, movements: movements}
}

func (s *ledgerService) Append(ctx context.Context, req dto.AppendMovementRequest) (*dto.MovementResponse, error) {
	direction := model.MovementDirection(req.Direction)
	if !direction.Valid() {
		return nil, &ValidationError{Field: "transaction_type", Reason: "must be 'in' or 'out'"}
	}
	if !req.Quantity.IsPositive() {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}

	fabricID, err := uuid.Parse(req.FabricID)
	if err != nil {
		return nil, &ValidationError{Field: "fabric_id", Reason: "not a valid id"}
	}
	if _, err := s.fabrics.FindByID(ctx, fabricID); err != nil {
		return nil, &NotFoundError{Resource: "fabric", ID: req.FabricID}
	}

	m := &model.InventoryMovement{
		FabricID:    fabricID,
		Direction:   direction,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalValue:  req.Quantity.Mul(req.UnitPrice),
		Reference:   req.Reference,
		Source:      req.Source,
		PaymentMode: req.PaymentMode,
		Date:        time.Now(),
	}
	if err := s.movements.Create(ctx, m); err != nil {
		return nil, err
	}
	resp := movementToResponse(m)
	return &resp, nil
}

func (s *ledgerService) CurrentStock(ctx context.Context, fabricID uuid.UUID) (decimal.Decimal, error) {
	fabric, err := s.fabrics.FindByID(ctx, fabricID)
	if err != nil {
		return decimal.Zero, &NotFoundError{Resource: "fabric", ID: fabricID.String()}
	}
	sum, err := s.movements.SumByFabric(ctx, fabricID)
	if err != nil {
		return decimal.Zero, err
	}
	return fabric.OpeningQty.Add(sum), nil
}

func (s *ledgerService) CurrentStockTx(tx *gorm.DB, fabric *model.Fabric) (decimal.Decimal, error) {
	sum, err := s.movements.SumByFabricTx(tx, fabric.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return fabric.OpeningQty.Add(sum), nil
}

func (s *ledgerService) LatestMovement(ctx context.Context, fabricID uuid.UUID) (*model.InventoryMovement, error) {
	return s.movements.Latest(ctx, fabricID)
}

func (s *ledgerService) ListMovements(ctx context.Context) ([]dto.MovementResponse, error) {
	movements, err := s.movements.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, movementToResponse(&movements[i]))
	}
	return out, nil
}

func (s *ledgerService) GroupByReference(ctx context.Context, reference string) ([]dto.ReferenceGroup, error) {
	rows, err := s.movements.GroupByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	groups := make([]dto.ReferenceGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, dto.ReferenceGroup{
			Reference:     row.Reference,
			Direction:     row.Direction,
			Lines:         row.Lines,
			TotalQuantity: row.TotalQuantity,
			TotalValue:    row.TotalValue,
			FirstDate:     row.FirstDate,
			LastDate:      row.LastDate,
		})
	}
	return groups, nil
}

func movementToResponse(m *model.InventoryMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:          m.ID,
		FabricID:    m.FabricID.String(),
		Direction:   string(m.Direction),
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalValue:  m.TotalValue,
		Reference:   m.Reference,
		Source:      m.Source,
		PaymentMode: m.PaymentMode,
		Date:        m.Date.Format(time.RFC3339),
	}
	if m.Fabric != nil {
		resp.FabricName = m.Fabric.Name
		resp.ProductCode = m.Fabric.ProductCode
	}
	return resp
}
