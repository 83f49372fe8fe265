package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS orders (
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
);
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  unit TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS order_items").Error)
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS orders").Error)
	for _, stmt := range []string{schema} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func createOrder(t *testing.T, repo *Repository, userID uuid.UUID, number string, status enums.OrderStatus, total decimal.Decimal, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    number,
		UserID:         userID,
		CustomerName:   "Anna",
		Phone:          "+79000000000",
		DeliveryType:   enums.DeliveryCourier,
		PaymentType:    enums.PaymentCash,
		Subtotal:       total,
		DeliveryCost:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          total,
		Status:         status,
	}
	order, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	require.NoError(t, repo.db.Exec("UPDATE orders SET created_at = ?, updated_at = ? WHERE id = ?", createdAt, createdAt, order.ID).Error)

	item := models.OrderItem{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ProductName: "Tomatoes",
		Unit:        enums.UnitKg,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   total,
		LineTotal:   total,
	}
	require.NoError(t, repo.CreateItems(context.Background(), []models.OrderItem{item}))
	return order
}

func TestRepositoryListByUser_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	otherID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		createOrder(t, repo, userID, fmt.Sprintf("ORD20260101%04d", i+1), enums.OrderStatusNew, decimal.NewFromInt(1000), base.Add(time.Duration(i)*time.Minute))
	}
	createOrder(t, repo, otherID, "ORD202601010009", enums.OrderStatusNew, decimal.NewFromInt(500), base)

	page, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, "ORD202601010003", page.Orders[0].OrderNumber)
	assert.NotEmpty(t, page.NextCursor)
	require.Len(t, page.Orders[0].Items, 1, "items are preloaded")

	rest, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)
	assert.Equal(t, "ORD202601010001", rest.Orders[0].OrderNumber)
	assert.Empty(t, rest.NextCursor)
}

func TestRepositoryAdminList_statusFilter(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	createOrder(t, repo, userID, "ORD202601020001", enums.OrderStatusNew, decimal.NewFromInt(100), now.Add(-2*time.Minute))
	createOrder(t, repo, userID, "ORD202601020002", enums.OrderStatusConfirmed, decimal.NewFromInt(200), now.Add(-time.Minute))

	status := enums.OrderStatusConfirmed
	page, err := repo.AdminList(context.Background(), pagination.Params{Limit: 10}, AdminFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "ORD202601020002", page.Orders[0].OrderNumber)
}

func TestRepositoryFindByIDForUser_ownership(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New()

	order := createOrder(t, repo, owner, "ORD202601030001", enums.OrderStatusNew, decimal.NewFromInt(100), time.Now().UTC())

	found, err := repo.FindByIDForUser(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = repo.FindByIDForUser(context.Background(), order.ID, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateStatusWhere_conditional(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createOrder(t, repo, uuid.New(), "ORD202601040001", enums.OrderStatusNew, decimal.NewFromInt(100), time.Now().UTC())

	affected, err := repo.UpdateStatusWhere(context.Background(), order.ID, enums.OrderStatusConfirmed, enums.OrderStatusNew)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// order already moved, guard kicks in
	affected, err = repo.UpdateStatusWhere(context.Background(), order.ID, enums.OrderStatusCancelled, enums.OrderStatusNew)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestRepositoryStats(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	createOrder(t, repo, userID, "ORD202601050001", enums.OrderStatusCompleted, decimal.NewFromInt(1000), now.Add(-time.Hour))
	createOrder(t, repo, userID, "ORD202601050002", enums.OrderStatusNew, decimal.NewFromInt(500), now.Add(-time.Minute))
	createOrder(t, repo, userID, "ORD202601050003", enums.OrderStatusCancelled, decimal.NewFromInt(9999), now.Add(-time.Minute))
	createOrder(t, repo, userID, "ORD202601050004", enums.OrderStatusCompleted, decimal.NewFromInt(300), now.AddDate(0, 0, -30))

	stats, err := repo.Stats(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.OrdersTotal, "cancelled orders never count")
	assert.True(t, stats.RevenueTotal.Equal(decimal.NewFromInt(1800)), stats.RevenueTotal.String())
	assert.Equal(t, int64(2), stats.OrdersToday)
	assert.True(t, stats.RevenueToday.Equal(decimal.NewFromInt(1500)), stats.RevenueToday.String())
	assert.Equal(t, int64(2), stats.OrdersWeek)

	counts := map[enums.OrderStatus]int64{}
	for _, row := range stats.StatusCounts {
		counts[row.Status] = row.Count
	}
	assert.Equal(t, int64(2), counts[enums.OrderStatusCompleted])
	assert.Equal(t, int64(1), counts[enums.OrderStatusCancelled])
	assert.Equal(t, int64(1), counts[enums.OrderStatusNew])
}
