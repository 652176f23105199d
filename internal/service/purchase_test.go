package service_test

import (
	"context"
	"strings"
	"testing"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPurchaseSvc() (service.PurchaseService, *stubFabricRepo, *stubMovementRepo, *stubPurchaseRepo) {
	fabricRepo := newStubFabricRepo()
	movementRepo := newStubMovementRepo()
	purchaseRepo := newStubPurchaseRepo()
	svc := service.NewPurchaseService(fabricRepo, movementRepo, purchaseRepo)
	return svc, fabricRepo, movementRepo, purchaseRepo
}

func TestCommitPurchase_EmptyBatch(t *testing.T) {
	svc, _, _, _ := buildPurchaseSvc()
	_, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{SupplierName: "Gupta Textiles"})
	assert.ErrorIs(t, err, service.ErrEmptyBatch)
}

func TestCommitPurchase_CreatesFabricInline(t *testing.T) {
	svc, fabricRepo, _, _ := buildPurchaseSvc()

	resp, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Varanasi Weaves",
		OrderNumber:  "PO-100",
		Items: []dto.PurchaseItemRequest{
			{Name: "Banarasi Silk", Quantity: decimal.NewFromInt(40), UnitPrice: decimal.NewFromInt(650)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-100", resp.OrderNumber)
	assert.Equal(t, 1, resp.CreatedFabrics)

	created, err := fabricRepo.FindByCodeOrName(context.Background(), "", "Banarasi Silk")
	require.NoError(t, err)
	assert.True(t, created.OpeningQty.IsZero(), "inline fabrics start at zero; stock arrives through the ledger")
	assert.True(t, strings.HasPrefix(created.ProductCode, "ITEM-"))
	assert.Contains(t, created.Description, "PO-100")
	assert.Equal(t, "Varanasi Weaves", created.Supplier)
	// Unit price doubles as cost, and fills mrp/selling when absent.
	assert.True(t, created.CostPrice.Equal(decimal.NewFromInt(650)))
	assert.True(t, created.MRP.Equal(decimal.NewFromInt(650)))
	assert.True(t, created.SellingPrice.Equal(decimal.NewFromInt(650)))
}

func TestCommitPurchase_SameNewItemTwiceCreatesOneFabric(t *testing.T) {
	svc, fabricRepo, movementRepo, purchaseRepo := buildPurchaseSvc()

	resp, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Varanasi Weaves",
		OrderNumber:  "PO-300",
		Status:       "received",
		Items: []dto.PurchaseItemRequest{
			{Name: "Banarasi Silk", Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(650)},
			{Name: "Banarasi Silk", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(640)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CreatedFabrics, "the second line must reuse the first line's fabric")

	fabrics, err := fabricRepo.List(context.Background(), dto.FabricFilter{})
	require.NoError(t, err)
	require.Len(t, fabrics, 1)

	// Both purchase rows and both movements land on the one fabric.
	purchases, err := purchaseRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, fabrics[0].ID, purchases[0].FabricID)
	assert.Equal(t, fabrics[0].ID, purchases[1].FabricID)

	stock, err := movementRepo.SumByFabric(context.Background(), fabrics[0].ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(30)))

	// The later line's pricing wins.
	assert.True(t, fabrics[0].CostPrice.Equal(decimal.NewFromInt(640)))
}

func TestCommitPurchase_DistinctNewItemsGetDistinctCodes(t *testing.T) {
	svc, fabricRepo, _, _ := buildPurchaseSvc()

	resp, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Coastal Mills",
		Items: []dto.PurchaseItemRequest{
			{Name: "Natural Linen", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(220)},
			{Name: "Raw Khadi", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(90)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CreatedFabrics)

	fabrics, err := fabricRepo.List(context.Background(), dto.FabricFilter{})
	require.NoError(t, err)
	require.Len(t, fabrics, 2)
	assert.NotEqual(t, fabrics[0].ProductCode, fabrics[1].ProductCode,
		"codes generated in the same millisecond must not collide")
}

func TestCommitPurchase_OverwritesExistingPrices(t *testing.T) {
	svc, fabricRepo, _, _ := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	resp, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		Items: []dto.PurchaseItemRequest{
			{
				FabricID:     &id,
				Quantity:     decimal.NewFromInt(50),
				UnitPrice:    decimal.NewFromInt(95),
				MRP:          decimal.NewFromInt(140),
				SellingPrice: decimal.NewFromInt(130),
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CreatedFabrics)

	updated, err := fabricRepo.FindByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.True(t, updated.CostPrice.Equal(decimal.NewFromInt(95)))
	assert.True(t, updated.MRP.Equal(decimal.NewFromInt(140)))
	assert.True(t, updated.SellingPrice.Equal(decimal.NewFromInt(130)))
}

func TestCommitPurchase_OrderedStatusMovesNoStock(t *testing.T) {
	svc, fabricRepo, movementRepo, purchaseRepo := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	_, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		Status:       "ordered",
		Items: []dto.PurchaseItemRequest{
			{FabricID: &id, Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	purchases, err := purchaseRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, purchases, 1)

	movements, err := movementRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movements, "stock moves only once the purchase is received")
}

func TestCommitPurchase_ReceivedStatusWritesInMovements(t *testing.T) {
	svc, fabricRepo, movementRepo, _ := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	_, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		OrderNumber:  "PO-200",
		OrderDate:    "2026-02-10",
		PaymentTerms: "Net 30",
		Status:       "received",
		Items: []dto.PurchaseItemRequest{
			{FabricID: &id, Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(80)},
			{Name: "Natural Linen", Quantity: decimal.NewFromInt(30), UnitPrice: decimal.NewFromInt(220)},
		},
	})
	require.NoError(t, err)

	movements, err := movementRepo.ListByReference(context.Background(), "PO-200")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, "in", string(m.Direction))
		assert.Equal(t, "Purchase", m.Source)
		assert.Equal(t, "Net 30", m.PaymentMode)
		assert.Equal(t, "2026-02-10", m.Date.Format("2006-01-02"))
	}

	stock, err := movementRepo.SumByFabric(context.Background(), f.ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(50)))
}

func TestCommitPurchase_UnresolvableLineWritesNothing(t *testing.T) {
	svc, fabricRepo, movementRepo, purchaseRepo := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	_, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		Status:       "received",
		Items: []dto.PurchaseItemRequest{
			{FabricID: &id, Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(80)},
			{Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(60)}, // no id, no name
		},
	})
	var unresolvable *service.UnresolvableLineError
	require.ErrorAs(t, err, &unresolvable)

	purchases, err := purchaseRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, purchases)
	movements, err := movementRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCommitPurchase_GeneratesOrderNumber(t *testing.T) {
	svc, fabricRepo, _, _ := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	resp, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		Items: []dto.PurchaseItemRequest{
			{FabricID: &id, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "PO-"))
}

func TestUpdatePurchase_ReceiptOnly(t *testing.T) {
	svc, fabricRepo, movementRepo, purchaseRepo := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	_, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		Status:       "ordered",
		Items: []dto.PurchaseItemRequest{
			{FabricID: &id, Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	purchases, _ := purchaseRepo.List(context.Background())
	require.Len(t, purchases, 1)

	err = svc.UpdatePurchase(context.Background(), purchases[0].ID, dto.UpdatePurchaseRequest{
		SupplierName:  "Gupta Textiles Pvt Ltd",
		PaymentStatus: "paid",
		Status:        "received",
		Quantity:      decimal.NewFromInt(45),
		UnitPrice:     decimal.NewFromInt(85),
	})
	require.NoError(t, err)

	updated, err := purchaseRepo.FindByID(context.Background(), purchases[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Gupta Textiles Pvt Ltd", updated.SupplierName)
	assert.Equal(t, "received", updated.Status)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(3825)))

	// Flipping the receipt to received does not backfill a movement.
	movements, err := movementRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestDeletePurchase_UnknownIDIsNotFound(t *testing.T) {
	svc, fabricRepo, _, purchaseRepo := buildPurchaseSvc()
	f := seedFabric(fabricRepo, "Plain Cotton", "COT-01", 100, 110)

	id := f.ID.String()
	_, err := svc.CommitPurchase(context.Background(), dto.CommitPurchaseRequest{
		SupplierName: "Gupta Textiles",
		Items: []dto.PurchaseItemRequest{
			{FabricID: &id, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	purchases, _ := purchaseRepo.List(context.Background())
	require.NoError(t, svc.DeletePurchase(context.Background(), purchases[0].ID))

	var nf *service.NotFoundError
	err = svc.DeletePurchase(context.Background(), purchases[0].ID)
	require.ErrorAs(t, err, &nf)
}
