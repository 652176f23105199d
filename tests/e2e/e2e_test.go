//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fabrictrack/internal/config"
	"fabrictrack/internal/infra"
	"fabrictrack/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("fabrictrack_test"),
		tcPostgres.WithUsername("fabrictrack"),
		tcPostgres.WithPassword("fabrictrack"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		WorkerPoolSize:    1,
		PDFStoragePath:    t.TempDir(),
		LowStockThreshold: 10,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)
	return srv
}

func createFabric(t *testing.T, srv *httptest.Server, name string, quantity, sellingPrice float64) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/fabrics", jsonBody(t, map[string]any{
		"name":           name,
		"type":           "Cotton",
		"quantity":       quantity,
		"unit":           "mtr",
		"price_per_unit": sellingPrice / 2,
		"selling_price":  sellingPrice,
		"supplier":       "Gupta Textiles",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var fabric struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &fabric)
	require.NotEmpty(t, fabric.ID)
	return fabric.ID
}

func currentStock(t *testing.T, srv *httptest.Server, id string) float64 {
	t.Helper()
	resp := do(t, srv, "GET", "/v1/fabrics/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fabric struct {
		CurrentStock float64 `json:"current_quantity,string"`
	}
	decodeJSON(t, resp, &fabric)
	return fabric.CurrentStock
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_OrderCycle(t *testing.T) {
	srv := setupTestServer(t)
	fabricID := createFabric(t, srv, "Plain Cotton", 100, 110)

	resp := do(t, srv, "POST", "/v1/orders", jsonBody(t, map[string]any{
		"items": []map[string]any{
			{"fabric_id": fabricID, "quantity": 30},
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order struct {
		OrderID    string `json:"order_id"`
		TotalItems int    `json:"total_items"`
	}
	decodeJSON(t, resp, &order)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, 1, order.TotalItems)

	assert.Equal(t, 70.0, currentStock(t, srv, fabricID))

	// An order that would overdraw the remaining 70 is rejected whole.
	resp = do(t, srv, "POST", "/v1/orders", jsonBody(t, map[string]any{
		"items": []map[string]any{
			{"fabric_id": fabricID, "quantity": 80},
		},
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 70.0, currentStock(t, srv, fabricID))
}

func TestE2E_SaleInvoiceNumbering(t *testing.T) {
	srv := setupTestServer(t)
	fabricID := createFabric(t, srv, "Banarasi Silk", 50, 899)

	sell := func() string {
		resp := do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
			"customer_name":  "Asha Rao",
			"payment_method": "Cash",
			"items": []map[string]any{
				{"fabric_id": fabricID, "quantity": 2},
			},
		}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var sale struct {
			InvoiceNumber string `json:"invoice"`
		}
		decodeJSON(t, resp, &sale)
		return sale.InvoiceNumber
	}

	first := sell()
	second := sell()
	assert.Regexp(t, `^INV-\d{8}-001$`, first)
	assert.Regexp(t, `^INV-\d{8}-002$`, second)

	assert.Equal(t, 46.0, currentStock(t, srv, fabricID))
}

func TestE2E_PurchaseReceivedMovesStock(t *testing.T) {
	srv := setupTestServer(t)
	fabricID := createFabric(t, srv, "Natural Linen", 20, 320)

	resp := do(t, srv, "POST", "/v1/purchases", jsonBody(t, map[string]any{
		"supplier_name": "Coastal Mills",
		"status":        "received",
		"items": []map[string]any{
			{"fabric_id": fabricID, "quantity": 30, "unit_price": 220},
			{"name": "Raw Khadi", "quantity": 15, "unit_price": 90},
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var purchase struct {
		OrderNumber    string `json:"order_number"`
		CreatedFabrics int    `json:"created_fabrics"`
	}
	decodeJSON(t, resp, &purchase)
	assert.NotEmpty(t, purchase.OrderNumber)
	assert.Equal(t, 1, purchase.CreatedFabrics)

	assert.Equal(t, 50.0, currentStock(t, srv, fabricID))

	// The inline fabric shows up in the catalog with ledger-derived stock.
	listResp := do(t, srv, "GET", "/v1/fabrics/search?q=khadi", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var fabrics []struct {
		Name         string  `json:"name"`
		CurrentStock float64 `json:"current_quantity,string"`
	}
	decodeJSON(t, listResp, &fabrics)
	require.Len(t, fabrics, 1)
	assert.Equal(t, "Raw Khadi", fabrics[0].Name)
	assert.Equal(t, 15.0, fabrics[0].CurrentStock)
}

func TestE2E_ManualLedgerEntryAndGrouping(t *testing.T) {
	srv := setupTestServer(t)
	fabricID := createFabric(t, srv, "Indigo Denim", 200, 220)

	resp := do(t, srv, "POST", "/v1/transactions", jsonBody(t, map[string]any{
		"fabric_id":          fabricID,
		"transaction_type":   "out",
		"quantity":           12,
		"unit_price":         220,
		"reference":          "shrinkage-check",
		"transaction_source": "Manual",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 188.0, currentStock(t, srv, fabricID))

	groupedResp := do(t, srv, "GET", "/v1/transactions/grouped", nil)
	require.Equal(t, http.StatusOK, groupedResp.StatusCode)
	groupedResp.Body.Close()
}

func TestE2E_AnalyticsAndStockReport(t *testing.T) {
	srv := setupTestServer(t)
	createFabric(t, srv, "Plain Cotton", 100, 110)
	createFabric(t, srv, "Thin Voile", 4, 95) // below the threshold of 10

	resp := do(t, srv, "GET", "/v1/analytics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analytics struct {
		TotalFabrics int `json:"total_fabrics"`
		LowStock     []struct {
			Name string `json:"name"`
		} `json:"low_stock"`
	}
	decodeJSON(t, resp, &analytics)
	assert.Equal(t, 2, analytics.TotalFabrics)
	require.Len(t, analytics.LowStock, 1)
	assert.Equal(t, "Thin Voile", analytics.LowStock[0].Name)

	reportResp := do(t, srv, "GET", "/v1/reports/stock.xlsx", nil)
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	assert.Contains(t, reportResp.Header.Get("Content-Type"), "spreadsheetml")
	reportResp.Body.Close()
}
