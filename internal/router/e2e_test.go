//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"frozenshop/internal/authz"
	"frozenshop/internal/config"
	"frozenshop/internal/infra"
	"frozenshop/internal/model"
	"frozenshop/internal/router"
	"frozenshop/internal/service"
	"frozenshop/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") != "application/pdf" {
		_ = json.NewDecoder(resp.Body).Decode(&env)
	}
	return resp, env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	rdb    *redis.Client
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("frozenshop_test"),
		tcPostgres.WithUsername("frozenshop"),
		tcPostgres.WithPassword("frozenshop"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                    "test",
		JWTSecret:              "test-secret-key",
		JWTExpirationHours:     8,
		RememberMeDays:         30,
		DatabaseURL:            pgURL,
		Migrations:             true,
		RedisURL:               rdURL,
		PDFStoragePath:         t.TempDir(),
		CountryCode:            "62",
		ProductCacheTTLMinutes: 5,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Migrations)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	for username, role := range map[string]string{"owner": authz.RoleSuperAdmin, "packer": authz.RoleStaff} {
		hash, err := service.HashPassword("secret123")
		require.NoError(t, err)
		require.NoError(t, db.Create(&model.Admin{
			Username: username, FullName: username, PasswordHash: hash, Role: role, IsActive: true,
		}).Error)
	}

	gin.SetMode(gin.TestMode)
	engine := router.New(cfg, db, rdb, router.Deps{
		MailBreaker: infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		Dispatcher:  worker.NewDispatcher(rdb),
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, db: db, rdb: rdb}
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	resp, env := do(t, e.server, http.MethodPost, "/api/admin/auth/login",
		map[string]any{"username": username, "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, env, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CheckoutTrackCancel(t *testing.T) {
	e := setupTestEnv(t)
	token := e.login(t, "owner")

	// Catalog setup through the admin API.
	resp, env := do(t, e.server, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Nugget"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var cat struct{ ID uint `json:"id"` }
	decodeData(t, env, &cat)

	resp, env = do(t, e.server, http.MethodPost, "/api/admin/products", map[string]any{
		"sku": "NGT-1", "name": "Chicken Nugget 500g", "category_id": cat.ID,
		"price": "45000", "discount_price": "40000", "stock_quantity": 10, "min_stock": 2,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var prod struct {
		ID   uint   `json:"id"`
		Slug string `json:"slug"`
	}
	decodeData(t, env, &prod)

	resp, env = do(t, e.server, http.MethodPost, "/api/admin/shipping-areas", map[string]any{
		"area_name": "Bandung Kota", "shipping_cost": "10000", "estimated_delivery": "1 hari",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var area struct{ ID uint `json:"id"` }
	decodeData(t, env, &area)

	// Storefront sees the product at its discounted price.
	resp, env = do(t, e.server, http.MethodGet, "/api/products/"+prod.Slug, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		EffectivePrice string `json:"effective_price"`
		StockQuantity  int    `json:"stock_quantity"`
	}
	decodeData(t, env, &detail)
	assert.Equal(t, "40000", detail.EffectivePrice)
	assert.Equal(t, 10, detail.StockQuantity)

	// Checkout decrements stock and enqueues the confirmation mail.
	resp, env = do(t, e.server, http.MethodPost, "/api/checkout", map[string]any{
		"items":            []map[string]any{{"product_id": prod.ID, "quantity": 3}},
		"customer_name":    "Siti Rahma",
		"customer_phone":   "0812-3456-7890",
		"customer_email":   "siti@example.com",
		"shipping_area_id": area.ID,
		"shipping_address": "Jl. Melati No. 5, Bandung",
		"payment_method":   "cod",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var checkout struct {
		Order struct {
			ID          uint   `json:"id"`
			OrderNumber string `json:"order_number"`
			TotalAmount string `json:"total_amount"`
		} `json:"order"`
	}
	decodeData(t, env, &checkout)
	assert.Regexp(t, `^ORD-\d{8}-[A-Z0-9]{6}$`, checkout.Order.OrderNumber)
	assert.Equal(t, "130000", checkout.Order.TotalAmount)

	var stock int
	require.NoError(t, e.db.Model(&model.Product{}).Where("id = ?", prod.ID).Select("stock_quantity").Scan(&stock).Error)
	assert.Equal(t, 7, stock)

	queued, err := e.rdb.LLen(context.Background(), worker.QueueOrderMail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), queued)

	// Public tracking and receipt.
	resp, env = do(t, e.server, http.MethodGet, "/api/orders/"+checkout.Order.OrderNumber, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, e.server, http.MethodGet, "/api/orders/"+checkout.Order.OrderNumber+"/receipt", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	// Cancelling restores stock; the ledger stays consistent.
	resp, env = do(t, e.server, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", checkout.Order.ID),
		map[string]any{"status": "cancelled", "notes": "customer request"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	require.NoError(t, e.db.Model(&model.Product{}).Where("id = ?", prod.ID).Select("stock_quantity").Scan(&stock).Error)
	assert.Equal(t, 10, stock)

	resp, env = do(t, e.server, http.MethodGet, fmt.Sprintf("/api/admin/inventory/%d/verify", prod.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ledger struct {
		Consistent bool `json:"consistent"`
		Movements  int  `json:"movements"`
	}
	decodeData(t, env, &ledger)
	assert.True(t, ledger.Consistent)
	assert.Equal(t, 3, ledger.Movements)

	// Terminal orders cannot move again.
	resp, _ = do(t, e.server, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", checkout.Order.ID),
		map[string]any{"status": "confirmed"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestE2E_InsufficientStockRollsBack(t *testing.T) {
	e := setupTestEnv(t)
	token := e.login(t, "owner")

	resp, env := do(t, e.server, http.MethodPost, "/api/admin/products", map[string]any{
		"sku": "DMP-1", "name": "Dimsum Ayam", "price": "30000", "stock_quantity": 2,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var prod struct{ ID uint `json:"id"` }
	decodeData(t, env, &prod)

	resp, env = do(t, e.server, http.MethodPost, fmt.Sprintf("/api/admin/inventory/%d/adjust", prod.ID),
		map[string]any{"delta": -5, "reason": "damaged"}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, env.Message)

	var stock int
	require.NoError(t, e.db.Model(&model.Product{}).Where("id = ?", prod.ID).Select("stock_quantity").Scan(&stock).Error)
	assert.Equal(t, 2, stock)
}

func TestE2E_StaffCannotEditSettings(t *testing.T) {
	e := setupTestEnv(t)
	token := e.login(t, "packer")

	resp, _ := do(t, e.server, http.MethodPut, "/api/admin/settings",
		map[string]any{"settings": map[string]string{"store_open": "false"}}, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, e.server, http.MethodGet, "/api/admin/orders", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, e.server, http.MethodGet, "/api/admin/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
