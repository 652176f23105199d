package repository

import (
	"context"

	"fabrictrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// signedQtyExpr is the one and only stock-fold expression: +quantity for
// inbound movements, -quantity for outbound. Every derived-stock read in the
// system goes through this constant so the fold can never drift between
// call sites.
const signedQtyExpr = "COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity " +
	"WHEN direction = 'out' THEN -quantity ELSE 0 END), 0)"

// ReferenceAggregate is the raw group-by-reference row scanned from SQL.
type ReferenceAggregate struct {
	Reference     string
	Direction     string
	Lines         int64
	TotalQuantity decimal.Decimal
	TotalValue    decimal.Decimal
	FirstDate     string
	LastDate      string
}

// SourceAggregate is one row of a channel/payment breakdown.
type SourceAggregate struct {
	Label      string
	Count      int64
	TotalValue decimal.Decimal
}

// MovementRepository is the append-only ledger store. There is no update
// method and the only delete is the per-fabric cascade used by
// catalog deletion.
type MovementRepository interface {
	Create(ctx context.Context, m *model.InventoryMovement) error
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error

	// SumByFabric returns the signed movement sum for one fabric (derived
	// stock is opening quantity plus this value).
	SumByFabric(ctx context.Context, fabricID uuid.UUID) (decimal.Decimal, error)
	SumByFabricTx(tx *gorm.DB, fabricID uuid.UUID) (decimal.Decimal, error)
	SumsByFabric(ctx context.Context, fabricIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// Latest returns the most recent movement for a fabric, ordered by
	// (date desc, id desc) — id breaks timestamp ties deterministically.
	Latest(ctx context.Context, fabricID uuid.UUID) (*model.InventoryMovement, error)
	LatestPerFabric(ctx context.Context, fabricIDs []uuid.UUID) (map[uuid.UUID]model.InventoryMovement, error)

	List(ctx context.Context) ([]model.InventoryMovement, error)
	ListByReference(ctx context.Context, reference string) ([]model.InventoryMovement, error)
	ListOutBySource(ctx context.Context, source string) ([]model.InventoryMovement, error)

	GroupByReference(ctx context.Context, reference string) ([]ReferenceAggregate, error)
	AggregateBySource(ctx context.Context) ([]SourceAggregate, error)
	AggregateByPaymentMode(ctx context.Context) ([]SourceAggregate, error)

	DeleteByFabricTx(tx *gorm.DB, fabricID uuid.UUID) error

	DB() *gorm.DB
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) SumByFabric(ctx context.Context, fabricID uuid.UUID) (decimal.Decimal, error) {
	return r.sumByFabric(r.db.WithContext(ctx), fabricID)
}

func (r *movementRepo) SumByFabricTx(tx *gorm.DB, fabricID uuid.UUID) (decimal.Decimal, error) {
	return r.sumByFabric(tx, fabricID)
}

func (r *movementRepo) sumByFabric(db *gorm.DB, fabricID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := db.Model(&model.InventoryMovement{}).
		Where("fabric_id = ?", fabricID).
		Select(signedQtyExpr).
		Scan(&sum).Error
	return sum, err
}

func (r *movementRepo) SumsByFabric(ctx context.Context, fabricIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal, len(fabricIDs))
	if len(fabricIDs) == 0 {
		return sums, nil
	}
	var rows []struct {
		FabricID uuid.UUID
		Balance  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Select("fabric_id, "+signedQtyExpr+" AS balance").
		Where("fabric_id IN ?", fabricIDs).
		Group("fabric_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		sums[row.FabricID] = row.Balance
	}
	return sums, nil
}

func (r *movementRepo) Latest(ctx context.Context, fabricID uuid.UUID) (*model.InventoryMovement, error) {
	var m model.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("fabric_id = ?", fabricID).
		Order("date DESC, id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movementRepo) LatestPerFabric(ctx context.Context, fabricIDs []uuid.UUID) (map[uuid.UUID]model.InventoryMovement, error) {
	latest := make(map[uuid.UUID]model.InventoryMovement, len(fabricIDs))
	if len(fabricIDs) == 0 {
		return latest, nil
	}
	var rows []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Select("DISTINCT ON (fabric_id) *").
		Where("fabric_id IN ?", fabricIDs).
		Order("fabric_id, date DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		latest[row.FabricID] = row
	}
	return latest, nil
}

func (r *movementRepo) List(ctx context.Context) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Preload("Fabric").
		Order("date DESC, id DESC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) ListByReference(ctx context.Context, reference string) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Preload("Fabric").
		Where("reference = ?", reference).
		Order("id ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) ListOutBySource(ctx context.Context, source string) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Preload("Fabric").
		Where("direction = ? AND source = ?", model.DirectionOut, source).
		Order("date DESC, id DESC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) GroupByReference(ctx context.Context, reference string) ([]ReferenceAggregate, error) {
	var rows []ReferenceAggregate
	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Select("reference, direction, COUNT(*) AS lines, " +
			"SUM(quantity) AS total_quantity, SUM(total_value) AS total_value, " +
			"MIN(date)::text AS first_date, MAX(date)::text AS last_date").
		Where("reference <> ''").
		Group("reference, direction").
		Order("MAX(date) DESC")
	if reference != "" {
		q = q.Where("reference = ?", reference)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *movementRepo) AggregateBySource(ctx context.Context) ([]SourceAggregate, error) {
	return r.aggregate(ctx, "source")
}

func (r *movementRepo) AggregateByPaymentMode(ctx context.Context) ([]SourceAggregate, error) {
	return r.aggregate(ctx, "payment_mode")
}

func (r *movementRepo) aggregate(ctx context.Context, column string) ([]SourceAggregate, error) {
	var rows []SourceAggregate
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Select(column+" AS label, COUNT(*) AS count, SUM(total_value) AS total_value").
		Where(column+" <> ''").
		Group(column).
		Order("total_value DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *movementRepo) DeleteByFabricTx(tx *gorm.DB, fabricID uuid.UUID) error {
	return tx.Where("fabric_id = ?", fabricID).Delete(&model.InventoryMovement{}).Error
}

func (r *movementRepo) DB() *gorm.DB { return r.db }
