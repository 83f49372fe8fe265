package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/internal/cart"
	"github.com/gryadkadev/gryadka-backend/internal/orders"
	"github.com/gryadkadev/gryadka-backend/internal/promo"
	"github.com/gryadkadev/gryadka-backend/internal/settings"
	"github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox"
)

var checkoutSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  telegram_id INTEGER NOT NULL UNIQUE,
  username TEXT,
  first_name TEXT NOT NULL,
  last_name TEXT,
  is_admin INTEGER NOT NULL DEFAULT 0,
  is_blocked INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  image_url TEXT,
  unit TEXT NOT NULL,
  price_kg NUMERIC,
  price_piece NUMERIC,
  price_package NUMERIC,
  price_box NUMERIC,
  price_multi NUMERIC,
  old_price NUMERIC,
  badge TEXT NOT NULL DEFAULT '',
  stock_quantity NUMERIC,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  unit TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  price_at_add NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id, unit)
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  delivery_type TEXT NOT NULL,
  address TEXT,
  district TEXT,
  delivery_interval_id TEXT,
  delivery_date DATETIME,
  payment_type TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  delivery_cost NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  promo_code_id TEXT,
  comment TEXT,
  status TEXT NOT NULL DEFAULT 'new',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  unit TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS order_number_counters (
  day TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS promo_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_type TEXT NOT NULL,
  value NUMERIC NOT NULL,
  min_order_amount NUMERIC,
  valid_from DATETIME,
  valid_until DATETIME,
  max_uses INTEGER,
  current_uses INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
}

var checkoutTables = []string{
	"promo_codes", "order_number_counters", "order_items", "orders", "cart_items", "products", "users",
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, table := range checkoutTables {
		require.NoError(t, db.Exec("DROP TABLE IF EXISTS "+table).Error)
	}
	for _, stmt := range checkoutSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type emitterStub struct {
	events []outbox.DomainEvent
}

func (e *emitterStub) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	e.events = append(e.events, event)
	return nil
}

type settingsStub struct {
	snapshot settings.Checkout
}

func (s settingsStub) Checkout(context.Context) (settings.Checkout, error) {
	return s.snapshot, nil
}

type intervalStub struct {
	err error
}

func (s intervalStub) EnsureSelectable(context.Context, uuid.UUID) (*models.DeliveryInterval, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.DeliveryInterval{ID: uuid.New(), IsActive: true}, nil
}

type checkoutFixture struct {
	db      *gorm.DB
	svc     Service
	emitter *emitterStub
	userID  uuid.UUID
}

func newCheckoutFixture(t *testing.T, snapshot settings.Checkout) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	emitter := &emitterStub{}

	promoSvc, err := promo.NewService(promo.ServiceParams{PromoRepo: promo.NewRepository(db)})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:        gormTxRunner{db: db},
		UserRepo:  users.NewRepository(db),
		CartRepo:  cart.NewRepository(db),
		OrderRepo: orders.NewRepository(db),
		PromoRepo: promo.NewRepository(db),
		Promo:     promoSvc,
		Intervals: intervalStub{},
		Settings:  settingsStub{snapshot: snapshot},
		Outbox:    emitter,
	})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO users (id, telegram_id, first_name) VALUES (?, ?, ?)",
		userID, 42, "Anna",
	).Error)

	return &checkoutFixture{db: db, svc: svc, emitter: emitter, userID: userID}
}

func (f *checkoutFixture) seedProduct(t *testing.T, name string, priceKg decimal.Decimal) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.db.Exec(
		"INSERT INTO products (id, category_id, name, unit, price_kg, is_active) VALUES (?, ?, ?, 'kg', ?, 1)",
		id, uuid.New(), name, priceKg,
	).Error)
	return id
}

func (f *checkoutFixture) seedCartLine(t *testing.T, productID uuid.UUID, quantity, priceAtAdd decimal.Decimal) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		"INSERT INTO cart_items (id, user_id, product_id, unit, quantity, price_at_add) VALUES (?, ?, ?, 'kg', ?, ?)",
		uuid.New(), f.userID, productID, quantity, priceAtAdd,
	).Error)
}

func (f *checkoutFixture) cartCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Raw("SELECT COUNT(*) FROM cart_items WHERE user_id = ?", f.userID).Scan(&count).Error)
	return count
}

func courierInput() CreateOrderDTO {
	address := "Lenina 1"
	return CreateOrderDTO{
		CustomerName: "Anna",
		Phone:        "+79000000000",
		DeliveryType: enums.DeliveryCourier,
		Address:      &address,
		PaymentType:  enums.PaymentCash,
	}
}

func TestCreateOrder_totalsAndCartDrain(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{
		MinOrderAmount:   decimal.NewFromInt(500),
		FreeDeliveryFrom: decimal.NewFromInt(3000),
		DeliveryCost:     decimal.NewFromInt(300),
	})

	tomatoes := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(250))
	apples := fixture.seedProduct(t, "Apples", decimal.NewFromInt(120))
	fixture.seedCartLine(t, tomatoes, decimal.NewFromInt(2), decimal.NewFromInt(250))
	fixture.seedCartLine(t, apples, decimal.RequireFromString("1.5"), decimal.NewFromInt(120))

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.NoError(t, err)

	// 2*250 + 1.5*120 = 680, below the free delivery threshold
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(680)), order.Subtotal.String())
	assert.True(t, order.DeliveryCost.Equal(decimal.NewFromInt(300)))
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.Total.Equal(decimal.NewFromInt(980)), order.Total.String())
	assert.Equal(t, enums.OrderStatusNew, order.Status)
	require.Len(t, order.Items, 2)

	assert.Equal(t, int64(0), fixture.cartCount(t), "cart drains with the order")

	require.Len(t, fixture.emitter.events, 1)
	assert.Equal(t, enums.EventOrderCreated, fixture.emitter.events[0].EventType)
	assert.Equal(t, order.ID, fixture.emitter.events[0].AggregateID)
}

func TestCreateOrder_pricesFromCartSnapshot(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})

	// price raised after the item landed in the cart
	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(250))
	fixture.seedCartLine(t, product, decimal.NewFromInt(2), decimal.NewFromInt(100))

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(200)), order.Subtotal.String())
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)), order.Items[0].UnitPrice.String())
	assert.True(t, order.Items[0].LineTotal.Equal(decimal.NewFromInt(200)))
}

func TestCreateOrder_freeDeliveryWhenThresholdUnset(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{DeliveryCost: decimal.NewFromInt(200)})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(100))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(100))

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.NoError(t, err)
	assert.True(t, order.DeliveryCost.IsZero(), "no configured threshold means every courier order ships free")
}

func TestCreateOrder_orderNumberSequence(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{DeliveryCost: decimal.NewFromInt(300)})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(250))
	day := time.Now().UTC().Format("20060102")

	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(250))
	first, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD"+day+"0001", first.OrderNumber)

	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(250))
	second, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD"+day+"0002", second.OrderNumber)
}

func TestCreateOrder_emptyCart(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})

	_, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateOrder_belowMinimumLeavesCartIntact(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{MinOrderAmount: decimal.NewFromInt(1000)})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(250))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(250))

	_, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	assert.Equal(t, int64(1), fixture.cartCount(t))
	var orderCount int64
	require.NoError(t, fixture.db.Raw("SELECT COUNT(*) FROM orders").Scan(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)
}

func TestCreateOrder_freeDeliveryThreshold(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{
		FreeDeliveryFrom: decimal.NewFromInt(3000),
		DeliveryCost:     decimal.NewFromInt(300),
	})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(1500))
	fixture.seedCartLine(t, product, decimal.NewFromInt(2), decimal.NewFromInt(1500))

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.NoError(t, err)
	assert.True(t, order.DeliveryCost.IsZero(), "subtotal at the threshold ships free")
}

func TestCreateOrder_pickupHasNoDeliveryCost(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{DeliveryCost: decimal.NewFromInt(300)})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(250))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(250))

	input := courierInput()
	input.DeliveryType = enums.DeliveryPickup
	input.Address = nil

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, input)
	require.NoError(t, err)
	assert.True(t, order.DeliveryCost.IsZero())
}

func TestCreateOrder_percentPromo(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{
		FreeDeliveryFrom: decimal.NewFromInt(3000),
		DeliveryCost:     decimal.NewFromInt(300),
	})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(500))
	fixture.seedCartLine(t, product, decimal.NewFromInt(2), decimal.NewFromInt(500))

	promoID := uuid.New()
	require.NoError(t, fixture.db.Exec(
		"INSERT INTO promo_codes (id, code, discount_type, value, max_uses, current_uses, is_active) VALUES (?, 'SPRING10', 'percent', 10, 1, 0, 1)",
		promoID,
	).Error)

	input := courierInput()
	input.PromoCode = "spring10"

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, input)
	require.NoError(t, err)
	assert.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(100)), order.DiscountAmount.String())
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1200)), order.Total.String())

	var uses int
	require.NoError(t, fixture.db.Raw("SELECT current_uses FROM promo_codes WHERE id = ?", promoID).Scan(&uses).Error)
	assert.Equal(t, 1, uses)
}

func TestCreateOrder_fixedPromoClampsToSubtotal(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(100))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(100))

	require.NoError(t, fixture.db.Exec(
		"INSERT INTO promo_codes (id, code, discount_type, value, is_active) VALUES (?, 'BIGFIX', 'fixed', 500, 1)",
		uuid.New(),
	).Error)

	input := courierInput()
	input.PromoCode = "BIGFIX"

	order, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, input)
	require.NoError(t, err)
	assert.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, order.Total.IsZero(), order.Total.String())
}

func TestCreateOrder_exhaustedPromoAbortsCheckout(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(100))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(100))

	require.NoError(t, fixture.db.Exec(
		"INSERT INTO promo_codes (id, code, discount_type, value, max_uses, current_uses, is_active) VALUES (?, 'LAST1', 'fixed', 10, 1, 0, 1)",
		uuid.New(),
	).Error)

	input := courierInput()
	input.PromoCode = "LAST1"

	// first checkout consumes the last use
	_, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, input)
	require.NoError(t, err)

	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(100))
	_, err = fixture.svc.CreateOrder(context.Background(), fixture.userID, input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "resolve rejects the spent code")
}

func TestCreateOrder_inactiveProductFailsCheckout(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(100))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.NoError(t, fixture.db.Exec("UPDATE products SET is_active = 0 WHERE id = ?", product).Error)

	_, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateOrder_blockedUser(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})
	require.NoError(t, fixture.db.Exec("UPDATE users SET is_blocked = 1 WHERE id = ?", fixture.userID).Error)

	product := fixture.seedProduct(t, "Tomatoes", decimal.NewFromInt(100))
	fixture.seedCartLine(t, product, decimal.NewFromInt(1), decimal.NewFromInt(100))

	_, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, courierInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
}

func TestCreateOrder_courierRequiresAddress(t *testing.T) {
	fixture := newCheckoutFixture(t, settings.Checkout{})

	input := courierInput()
	input.Address = nil

	_, err := fixture.svc.CreateOrder(context.Background(), fixture.userID, input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
