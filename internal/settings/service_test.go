package settings

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  description TEXT,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS settings").Error)
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", key, value).Error)
}

func TestServiceCheckoutSnapshot(t *testing.T) {
	db := setupSettingsTestDB(t)
	seedSetting(t, db, KeyMinOrderAmount, "1000")
	seedSetting(t, db, KeyFreeDeliveryFrom, "3000")
	seedSetting(t, db, KeyDeliveryCost, "300")

	svc, err := NewService(ServiceParams{SettingsRepo: NewRepository(db)})
	require.NoError(t, err)

	snapshot, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	assert.True(t, snapshot.MinOrderAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, snapshot.FreeDeliveryFrom.Equal(decimal.NewFromInt(3000)))
	assert.True(t, snapshot.DeliveryCost.Equal(decimal.NewFromInt(300)))
}

func TestServiceCheckoutCachesUntilInvalidated(t *testing.T) {
	db := setupSettingsTestDB(t)
	seedSetting(t, db, KeyDeliveryCost, "300")

	svc, err := NewService(ServiceParams{
		SettingsRepo:    NewRepository(db),
		RefreshInterval: time.Hour,
	})
	require.NoError(t, err)

	first, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	require.True(t, first.DeliveryCost.Equal(decimal.NewFromInt(300)))

	require.NoError(t, db.Exec("UPDATE settings SET value = ? WHERE key = ?", "500", KeyDeliveryCost).Error)

	cached, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	assert.True(t, cached.DeliveryCost.Equal(decimal.NewFromInt(300)), "stale value expected within TTL")

	svc.Invalidate()
	fresh, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	assert.True(t, fresh.DeliveryCost.Equal(decimal.NewFromInt(500)))
}

func TestServiceCheckoutRejectsMalformedNumeric(t *testing.T) {
	db := setupSettingsTestDB(t)
	seedSetting(t, db, KeyMinOrderAmount, "a lot")

	svc, err := NewService(ServiceParams{SettingsRepo: NewRepository(db)})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestServiceUpsertValidatesNumericKeys(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc, err := NewService(ServiceParams{SettingsRepo: NewRepository(db)})
	require.NoError(t, err)

	_, err = svc.Upsert(context.Background(), KeyDeliveryCost, "free", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Upsert(context.Background(), KeyDeliveryCost, "-5", nil)
	require.Error(t, err)

	row, err := svc.Upsert(context.Background(), KeyDeliveryCost, "250", nil)
	require.NoError(t, err)
	assert.Equal(t, "250", row.Value)

	// contact keys take free text
	row, err = svc.Upsert(context.Background(), KeyContactPhone, "+7 900 000-00-00", nil)
	require.NoError(t, err)
	assert.Equal(t, "+7 900 000-00-00", row.Value)
}

func TestServicePublic(t *testing.T) {
	db := setupSettingsTestDB(t)
	seedSetting(t, db, KeyContactPhone, "+7 900 000-00-00")
	seedSetting(t, db, KeyDeliveryCost, "300")
	seedSetting(t, db, "internal_flag", "1")

	svc, err := NewService(ServiceParams{SettingsRepo: NewRepository(db)})
	require.NoError(t, err)

	public, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "+7 900 000-00-00", public[KeyContactPhone])
	assert.Equal(t, "300", public[KeyDeliveryCost])
	_, ok := public["internal_flag"]
	assert.False(t, ok, "unknown keys must not leak to the storefront")
}
