package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ── Test database ─────────────────────────────────────────────────────────────

// newTestDB opens a private in-memory SQLite database with the full schema
// and the default settings.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and serializes
	// transactions the way row locks would on Postgres.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	require.NoError(t, repository.NewSettingRepository(db).SeedDefaults(context.Background()))
	return db
}

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeDispatcher struct {
	mu            sync.Mutex
	confirmations []uint
	statusMails   []uint
}

func (d *fakeDispatcher) EnqueueOrderConfirmation(_ context.Context, orderID uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmations = append(d.confirmations, orderID)
	return nil
}

func (d *fakeDispatcher) EnqueueOrderStatusMail(_ context.Context, orderID uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statusMails = append(d.statusMails, orderID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, event string, o *model.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event+":"+o.OrderNumber)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]*dto.ProductDetailResponse
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*dto.ProductDetailResponse)}
}

func (c *fakeCache) GetProduct(_ context.Context, slug string) (*dto.ProductDetailResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[slug]
	return p, ok
}

func (c *fakeCache) SetProduct(_ context.Context, slug string, p *dto.ProductDetailResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = p
}

func (c *fakeCache) InvalidateProducts(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*dto.ProductDetailResponse)
	c.invalidated++
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	db         *gorm.DB
	products   repository.ProductRepository
	categories repository.CategoryRepository
	areas      repository.ShippingAreaRepository
	orders     repository.OrderRepository
	movements  repository.StockMovementRepository
	settingsDB repository.SettingRepository

	dispatcher *fakeDispatcher
	publisher  *fakePublisher
	cache      *fakeCache

	settings  SettingsService
	inventory InventoryService
	checkout  CheckoutService
	orderSvc  OrderService
	catalog   CatalogService
	productSv ProductService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:         db,
		products:   repository.NewProductRepository(db),
		categories: repository.NewCategoryRepository(db),
		areas:      repository.NewShippingAreaRepository(db),
		orders:     repository.NewOrderRepository(db),
		movements:  repository.NewStockMovementRepository(db),
		settingsDB: repository.NewSettingRepository(db),
		dispatcher: &fakeDispatcher{},
		publisher:  &fakePublisher{},
		cache:      newFakeCache(),
	}
	f.settings = NewSettingsService(f.settingsDB)
	f.inventory = NewInventoryService(f.products, f.movements, f.cache)
	f.checkout = NewCheckoutService(f.products, f.orders, f.areas, f.inventory, f.settings, f.dispatcher, f.publisher, f.cache, "62")
	f.orderSvc = NewOrderService(f.orders, f.inventory, f.dispatcher, f.publisher, f.cache)
	f.catalog = NewCatalogService(f.products, f.categories, f.areas, f.settings, f.cache)
	f.productSv = NewProductService(f.products, f.categories, f.inventory, f.cache)
	return f
}

var superAdmin = authz.AuthContext{AdminID: 1, Username: "owner", Role: authz.RoleSuperAdmin}

func fixedNow() time.Time { return time.Date(2026, 1, 15, 10, 30, 0, 0, time.Local) }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// seedProduct inserts an active product whose stock is recorded through the
// ledger, like the admin create path does.
func (f *fixture) seedProduct(t *testing.T, sku string, price int64, discount *decimal.Decimal, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:           sku,
		Name:          "Product " + sku,
		Slug:          strings.ToLower(sku),
		Price:         dec(price),
		DiscountPrice: discount,
		MinStock:      2,
		IsActive:      true,
	}
	require.NoError(t, f.db.Create(p).Error)
	if stock > 0 {
		err := runTx(context.Background(), f.db, func(tx *gorm.DB) error {
			_, err := f.inventory.ApplyChangeTx(tx, authz.System, StockChange{
				ProductID:     p.ID,
				Delta:         stock,
				ReferenceType: model.RefInitial,
			})
			return err
		})
		require.NoError(t, err)
		p.StockQuantity = stock
	}
	return p
}

func (f *fixture) seedArea(t *testing.T, name string, cost int64, active bool) *model.ShippingArea {
	t.Helper()
	a := &model.ShippingArea{AreaName: name, ShippingCost: dec(cost), EstimatedDelivery: "1-2 hari", IsActive: active}
	require.NoError(t, f.db.Create(a).Error)
	return a
}

func (f *fixture) setSetting(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.AppSetting{}).Where("setting_key = ?", key).Update("setting_value", value).Error)
}

func (f *fixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, productID).Error)
	return p.StockQuantity
}

func (f *fixture) checkoutRequest(areaID uint, items ...dto.CartItemRequest) dto.CheckoutRequest {
	return dto.CheckoutRequest{
		Items:           items,
		CustomerName:    "Siti Rahma",
		CustomerPhone:   "0812-3456-7890",
		CustomerEmail:   "siti@example.com",
		ShippingAreaID:  areaID,
		ShippingAddress: "Jl. Melati No. 5, Bandung",
		PaymentMethod:   string(model.PaymentCOD),
	}
}

func line(productID uint, qty int) dto.CartItemRequest {
	return dto.CartItemRequest{ProductID: productID, Quantity: qty}
}
