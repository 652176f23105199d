package repository

import (
	"context"
	"time"

	"fabrictrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository stores the lightweight receipt rows written next to
// outbound ledger entries of invoiced sales.
type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByInvoice(ctx context.Context, invoiceNumber string) ([]model.Sale, error)
	List(ctx context.Context) ([]model.Sale, error)
	Update(ctx context.Context, s *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountDistinctInvoicesTx counts the distinct invoice numbers already
	// issued on the given calendar day. Called inside the sale transaction so
	// the day-scoped sequence cannot race with a concurrent commit.
	CountDistinctInvoicesTx(tx *gorm.DB, day time.Time) (int64, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FindByInvoice(ctx context.Context, invoiceNumber string) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Fabric").
		Where("invoice_number = ?", invoiceNumber).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) List(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Fabric").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Update(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) CountDistinctInvoicesTx(tx *gorm.DB, day time.Time) (int64, error) {
	var count int64
	err := tx.Model(&model.Sale{}).
		Where("sale_date::date = ?", day.Format("2006-01-02")).
		Distinct("invoice_number").
		Count(&count).Error
	return count, err
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
