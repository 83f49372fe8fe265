package catalog

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

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  emoji TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
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
);`
	productImages := `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS product_images",
		"DROP TABLE IF EXISTS products",
		"DROP TABLE IF EXISTS categories",
		categories, products, productImages,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name string, sortOrder int, active bool) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:        uuid.New(),
		Name:      name,
		SortOrder: sortOrder,
		IsActive:  active,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, priceKg string, created time.Time, active bool) *models.Product {
	t.Helper()

	price := decimal.RequireFromString(priceKg)
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Unit:       enums.UnitKg,
		PriceKg:    &price,
		IsActive:   active,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListCategories_ordering(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	newCategory(t, db, "Vegetables", 2, true)
	newCategory(t, db, "Fruits", 1, true)
	newCategory(t, db, "Archive", 0, false)

	active, err := repo.ListCategories(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Fruits", active[0].Name)
	assert.Equal(t, "Vegetables", active[1].Name)

	all, err := repo.ListCategories(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryListProducts_filtersAndPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	fruits := newCategory(t, db, "Fruits", 1, true)
	veggies := newCategory(t, db, "Vegetables", 2, true)

	now := time.Now().UTC()
	newProduct(t, db, fruits.ID, "Apples", "120.00", now.Add(-2*time.Minute), true)
	newProduct(t, db, fruits.ID, "Pears", "180.00", now.Add(-time.Minute), true)
	newProduct(t, db, veggies.ID, "Cucumbers", "90.00", now, true)
	newProduct(t, db, veggies.ID, "Old stock", "10.00", now, false)

	list, err := repo.ListProducts(context.Background(), pagination.Params{Limit: 2}, ProductFilters{})
	require.NoError(t, err)
	require.Len(t, list.Products, 2)
	assert.Equal(t, "Cucumbers", list.Products[0].Name)
	assert.NotEmpty(t, list.NextCursor)

	second, err := repo.ListProducts(context.Background(), pagination.Params{Limit: 2, Cursor: list.NextCursor}, ProductFilters{})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, "Apples", second.Products[0].Name)
	assert.Empty(t, second.NextCursor)

	byCategory, err := repo.ListProducts(context.Background(), pagination.Params{Limit: 10}, ProductFilters{CategoryID: &fruits.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory.Products, 2)

	search, err := repo.ListProducts(context.Background(), pagination.Params{Limit: 10}, ProductFilters{Query: "cucum"})
	require.NoError(t, err)
	require.Len(t, search.Products, 1)
	assert.Equal(t, "Cucumbers", search.Products[0].Name)
}

func TestRepositoryAdjustStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Fruits", 1, true)
	product := newProduct(t, db, category.ID, "Apples", "120.00", time.Now().UTC(), true)
	stock := decimal.RequireFromString("5.000")
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock_quantity", stock).Error)

	affected, err := repo.AdjustStock(context.Background(), product.ID, decimal.RequireFromString("-2"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	reloaded, err := repo.FindProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.StockQuantity)
	assert.True(t, reloaded.StockQuantity.Equal(decimal.RequireFromString("3")), "got %s", reloaded.StockQuantity)

	affected, err = repo.AdjustStock(context.Background(), product.ID, decimal.RequireFromString("-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected, "negative stock must be refused")
}

func TestRepositoryBulkAdjustCategoryPrices(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Fruits", 1, true)
	product := newProduct(t, db, category.ID, "Apples", "100.00", time.Now().UTC(), true)

	affected, err := repo.BulkAdjustCategoryPrices(context.Background(), category.ID, decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	reloaded, err := repo.FindProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PriceKg)
	assert.True(t, reloaded.PriceKg.Equal(decimal.RequireFromString("110")), "got %s", reloaded.PriceKg)
}

func TestRepositoryImages(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Fruits", 1, true)
	product := newProduct(t, db, category.ID, "Apples", "120.00", time.Now().UTC(), true)

	image, err := repo.AttachImage(context.Background(), &models.ProductImage{
		ID:        uuid.New(),
		ProductID: product.ID,
		URL:       "https://cdn.example.com/apples.jpg",
	})
	require.NoError(t, err)

	reloaded, err := repo.FindProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Images, 1)

	affected, err := repo.DetachImage(context.Background(), product.ID, image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.DetachImage(context.Background(), product.ID, image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
