package service_test

// In-memory repository stubs. Services open no real transaction when
// repo.DB() returns nil, so every write the stubs see is final — which is
// exactly what the batch tests rely on to prove nothing lands before a
// failing line is detected.

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/model"
	"fabrictrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errStubNotFound = errors.New("not found")

// ── Fabric stub ───────────────────────────────────────────────────────────────

type stubFabricRepo struct {
	fabrics map[uuid.UUID]*model.Fabric
}

func newStubFabricRepo() *stubFabricRepo {
	return &stubFabricRepo{fabrics: make(map[uuid.UUID]*model.Fabric)}
}

func (r *stubFabricRepo) Create(_ context.Context, f *model.Fabric) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	r.fabrics[f.ID] = f
	return nil
}

func (r *stubFabricRepo) CreateTx(_ *gorm.DB, f *model.Fabric) error {
	return r.Create(context.Background(), f)
}

func (r *stubFabricRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Fabric, error) {
	f, ok := r.fabrics[id]
	if !ok {
		return nil, errStubNotFound
	}
	return f, nil
}

func (r *stubFabricRepo) FindByCodeOrName(_ context.Context, code, name string) (*model.Fabric, error) {
	for _, f := range r.fabrics {
		if (code != "" && f.ProductCode == code) || f.Name == name {
			return f, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubFabricRepo) FindByCodeOrNameTx(_ *gorm.DB, code, name string) (*model.Fabric, error) {
	return r.FindByCodeOrName(context.Background(), code, name)
}

func (r *stubFabricRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, f := range r.fabrics {
		if f.ProductCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubFabricRepo) List(_ context.Context, filter dto.FabricFilter) ([]model.Fabric, error) {
	var out []model.Fabric
	for _, f := range r.fabrics {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(f.Name), q) &&
				!strings.Contains(strings.ToLower(f.Description), q) &&
				!strings.Contains(strings.ToLower(f.ProductCode), q) {
				continue
			}
		}
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		if filter.Color != "" && f.Color != filter.Color {
			continue
		}
		if filter.Supplier != "" && f.Supplier != filter.Supplier {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubFabricRepo) Update(_ context.Context, f *model.Fabric) error {
	existing, ok := r.fabrics[f.ID]
	if !ok {
		return errStubNotFound
	}
	opening := existing.OpeningQty
	*existing = *f
	existing.OpeningQty = opening // column never in the update set
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *stubFabricRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Fabric, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubFabricRepo) UpdatePricesTx(_ *gorm.DB, id uuid.UUID, cost, mrp, selling decimal.Decimal) error {
	f, ok := r.fabrics[id]
	if !ok {
		return errStubNotFound
	}
	f.CostPrice = cost
	f.MRP = mrp
	f.SellingPrice = selling
	return nil
}

func (r *stubFabricRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.fabrics, id)
	return nil
}

func (r *stubFabricRepo) DB() *gorm.DB { return nil }

var _ repository.FabricRepository = (*stubFabricRepo)(nil)

// ── Movement stub ─────────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.InventoryMovement
	seq       uint64
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) Create(_ context.Context, m *model.InventoryMovement) error {
	r.seq++
	m.ID = r.seq
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	return r.Create(context.Background(), m)
}

func signedQty(m *model.InventoryMovement) decimal.Decimal {
	if m.Direction == model.DirectionIn {
		return m.Quantity
	}
	return m.Quantity.Neg()
}

func (r *stubMovementRepo) SumByFabric(_ context.Context, fabricID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i := range r.movements {
		if r.movements[i].FabricID == fabricID {
			sum = sum.Add(signedQty(&r.movements[i]))
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) SumByFabricTx(_ *gorm.DB, fabricID uuid.UUID) (decimal.Decimal, error) {
	return r.SumByFabric(context.Background(), fabricID)
}

func (r *stubMovementRepo) SumsByFabric(_ context.Context, fabricIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal, len(fabricIDs))
	for _, id := range fabricIDs {
		s, _ := r.SumByFabric(context.Background(), id)
		sums[id] = s
	}
	return sums, nil
}

func (r *stubMovementRepo) newestFirst() []model.InventoryMovement {
	out := make([]model.InventoryMovement, len(r.movements))
	copy(out, r.movements)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *stubMovementRepo) Latest(_ context.Context, fabricID uuid.UUID) (*model.InventoryMovement, error) {
	for _, m := range r.newestFirst() {
		if m.FabricID == fabricID {
			return &m, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubMovementRepo) LatestPerFabric(_ context.Context, fabricIDs []uuid.UUID) (map[uuid.UUID]model.InventoryMovement, error) {
	latest := make(map[uuid.UUID]model.InventoryMovement)
	for _, id := range fabricIDs {
		if m, err := r.Latest(context.Background(), id); err == nil {
			latest[id] = *m
		}
	}
	return latest, nil
}

func (r *stubMovementRepo) List(_ context.Context) ([]model.InventoryMovement, error) {
	return r.newestFirst(), nil
}

func (r *stubMovementRepo) ListByReference(_ context.Context, reference string) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) ListOutBySource(_ context.Context, source string) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	for _, m := range r.newestFirst() {
		if m.Direction == model.DirectionOut && m.Source == source {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) GroupByReference(_ context.Context, reference string) ([]repository.ReferenceAggregate, error) {
	type key struct{ ref, dir string }
	groups := make(map[key]*repository.ReferenceAggregate)
	for _, m := range r.movements {
		if m.Reference == "" {
			continue
		}
		if reference != "" && m.Reference != reference {
			continue
		}
		k := key{ref: m.Reference, dir: string(m.Direction)}
		g, ok := groups[k]
		if !ok {
			g = &repository.ReferenceAggregate{Reference: m.Reference, Direction: string(m.Direction)}
			groups[k] = g
		}
		g.Lines++
		g.TotalQuantity = g.TotalQuantity.Add(m.Quantity)
		g.TotalValue = g.TotalValue.Add(m.TotalValue)
	}
	var out []repository.ReferenceAggregate
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubMovementRepo) aggregate(column func(*model.InventoryMovement) string) []repository.SourceAggregate {
	agg := make(map[string]*repository.SourceAggregate)
	for i := range r.movements {
		label := column(&r.movements[i])
		if label == "" {
			continue
		}
		a, ok := agg[label]
		if !ok {
			a = &repository.SourceAggregate{Label: label}
			agg[label] = a
		}
		a.Count++
		a.TotalValue = a.TotalValue.Add(r.movements[i].TotalValue)
	}
	var out []repository.SourceAggregate
	for _, a := range agg {
		out = append(out, *a)
	}
	return out
}

func (r *stubMovementRepo) AggregateBySource(_ context.Context) ([]repository.SourceAggregate, error) {
	return r.aggregate(func(m *model.InventoryMovement) string { return m.Source }), nil
}

func (r *stubMovementRepo) AggregateByPaymentMode(_ context.Context) ([]repository.SourceAggregate, error) {
	return r.aggregate(func(m *model.InventoryMovement) string { return m.PaymentMode }), nil
}

func (r *stubMovementRepo) DeleteByFabricTx(_ *gorm.DB, fabricID uuid.UUID) error {
	var kept []model.InventoryMovement
	for _, m := range r.movements {
		if m.FabricID != fabricID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── Sale stub ─────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales []*model.Sale
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{} }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubSaleRepo) FindByInvoice(_ context.Context, invoiceNumber string) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.InvoiceNumber == invoiceNumber {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) List(_ context.Context) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) Update(_ context.Context, s *model.Sale) error {
	for i, existing := range r.sales {
		if existing.ID == s.ID {
			r.sales[i] = s
			return nil
		}
	}
	return errStubNotFound
}

func (r *stubSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range r.sales {
		if s.ID == id {
			r.sales = append(r.sales[:i], r.sales[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubSaleRepo) CountDistinctInvoicesTx(_ *gorm.DB, day time.Time) (int64, error) {
	seen := make(map[string]struct{})
	for _, s := range r.sales {
		if s.SaleDate.Format("2006-01-02") == day.Format("2006-01-02") {
			seen[s.InvoiceNumber] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Purchase stub ─────────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	purchases []*model.Purchase
}

func newStubPurchaseRepo() *stubPurchaseRepo { return &stubPurchaseRepo{} }

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.purchases = append(r.purchases, p)
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	for _, p := range r.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubPurchaseRepo) List(_ context.Context) ([]model.Purchase, error) {
	out := make([]model.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPurchaseRepo) Update(_ context.Context, p *model.Purchase) error {
	for i, existing := range r.purchases {
		if existing.ID == p.ID {
			r.purchases[i] = p
			return nil
		}
	}
	return errStubNotFound
}

func (r *stubPurchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range r.purchases {
		if p.ID == id {
			r.purchases = append(r.purchases[:i], r.purchases[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Shared helpers ────────────────────────────────────────────────────────────

func seedFabric(repo *stubFabricRepo, name, code string, openingQty int64, sellingPrice int64) *model.Fabric {
	f := &model.Fabric{
		ProductCode:  code,
		Name:         name,
		Type:         "Cotton",
		OpeningQty:   decimal.NewFromInt(openingQty),
		Unit:         "mtr",
		CostPrice:    decimal.NewFromInt(sellingPrice / 2),
		SellingPrice: decimal.NewFromInt(sellingPrice),
		Supplier:     "Test Mills",
	}
	_ = repo.Create(context.Background(), f)
	return f
}
