package repository

import (
	"context"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FabricRepository defines the data access contract for catalog entries.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type FabricRepository interface {
	Create(ctx context.Context, f *model.Fabric) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Fabric, error)
	FindByCodeOrName(ctx context.Context, code, name string) (*model.Fabric, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter dto.FabricFilter) ([]model.Fabric, error)
	// Update overwrites descriptive and pricing fields only. OpeningQty is
	// write-once and is deliberately absent from the column set.
	Update(ctx context.Context, f *model.Fabric) error

	// Used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, f *model.Fabric) error
	// FindByCodeOrNameTx runs the catalog lookup on the open transaction so
	// it observes rows inserted earlier in the same transaction.
	FindByCodeOrNameTx(tx *gorm.DB, code, name string) (*model.Fabric, error)
	// LockByIDTx fetches the fabric row under SELECT … FOR UPDATE so that
	// concurrent batches touching the same fabric serialize their
	// stock-check + append.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Fabric, error)
	UpdatePricesTx(tx *gorm.DB, id uuid.UUID, cost, mrp, selling decimal.Decimal) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type fabricRepo struct{ db *gorm.DB }

func NewFabricRepository(db *gorm.DB) FabricRepository { return &fabricRepo{db: db} }

func (r *fabricRepo) Create(ctx context.Context, f *model.Fabric) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fabricRepo) CreateTx(tx *gorm.DB, f *model.Fabric) error {
	return tx.Create(f).Error
}

func (r *fabricRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Fabric, error) {
	var f model.Fabric
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *fabricRepo) FindByCodeOrName(ctx context.Context, code, name string) (*model.Fabric, error) {
	var f model.Fabric
	err := r.db.WithContext(ctx).
		Where("product_code = ? OR name = ?", code, name).
		First(&f).Error
	return &f, err
}

func (r *fabricRepo) FindByCodeOrNameTx(tx *gorm.DB, code, name string) (*model.Fabric, error) {
	var f model.Fabric
	err := tx.Where("product_code = ? OR name = ?", code, name).First(&f).Error
	return &f, err
}

func (r *fabricRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Fabric{}).
		Where("product_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *fabricRepo) List(ctx context.Context, filter dto.FabricFilter) ([]model.Fabric, error) {
	var fabrics []model.Fabric
	q := r.db.WithContext(ctx).Model(&model.Fabric{})

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR product_code ILIKE ?", like, like, like)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Color != "" {
		q = q.Where("color = ?", filter.Color)
	}
	if filter.Supplier != "" {
		q = q.Where("supplier = ?", filter.Supplier)
	}

	err := q.Order("created_at DESC").Find(&fabrics).Error
	return fabrics, err
}

func (r *fabricRepo) Update(ctx context.Context, f *model.Fabric) error {
	return r.db.WithContext(ctx).Model(&model.Fabric{}).
		Where("id = ?", f.ID).
		Updates(map[string]interface{}{
			"name":          f.Name,
			"product_code":  f.ProductCode,
			"type":          f.Type,
			"color":         f.Color,
			"pattern":       f.Pattern,
			"unit":          f.Unit,
			"cost_price":    f.CostPrice,
			"mrp":           f.MRP,
			"selling_price": f.SellingPrice,
			"supplier":      f.Supplier,
			"description":   f.Description,
			"image_url":     f.ImageURL,
		}).Error
}

func (r *fabricRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Fabric, error) {
	var f model.Fabric
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *fabricRepo) UpdatePricesTx(tx *gorm.DB, id uuid.UUID, cost, mrp, selling decimal.Decimal) error {
	return tx.Model(&model.Fabric{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cost_price":    cost,
		"mrp":           mrp,
		"selling_price": selling,
	}).Error
}

func (r *fabricRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Fabric{}, "id = ?", id).Error
}

func (r *fabricRepo) DB() *gorm.DB { return r.db }
