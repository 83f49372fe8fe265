package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

func setupDeliveryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS delivery_intervals (
  id TEXT PRIMARY KEY,
  time_from TEXT NOT NULL,
  time_to TEXT NOT NULL,
  available_from TEXT NOT NULL,
  available_to TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{"DROP TABLE IF EXISTS delivery_intervals", schema} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newDeliveryService(t *testing.T, db *gorm.DB, now string) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DeliveryRepo: NewRepository(db),
		Now:          func() time.Time { return clock(t, now) },
	})
	require.NoError(t, err)
	return svc
}

func seedInterval(t *testing.T, db *gorm.DB, availableFrom, availableTo string, active bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO delivery_intervals (id, time_from, time_to, available_from, available_to, is_active) VALUES (?, '10:00', '12:00', ?, ?, ?)",
		id, availableFrom, availableTo, active,
	).Error)
	return id
}

func TestEnsureSelectableInsideWindow(t *testing.T) {
	db := setupDeliveryTestDB(t)
	svc := newDeliveryService(t, db, "10:30")

	id := seedInterval(t, db, "09:00", "18:00", true)

	interval, err := svc.EnsureSelectable(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, interval.ID)
}

func TestEnsureSelectableOutsideWindowNamesTheBounds(t *testing.T) {
	db := setupDeliveryTestDB(t)
	svc := newDeliveryService(t, db, "20:15")

	id := seedInterval(t, db, "09:00", "18:00", true)

	_, err := svc.EnsureSelectable(context.Background(), id)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, err.Error(), "09:00")
	assert.Contains(t, err.Error(), "18:00")
}

func TestEnsureSelectableRejectsInactive(t *testing.T) {
	db := setupDeliveryTestDB(t)
	svc := newDeliveryService(t, db, "10:30")

	id := seedInterval(t, db, "09:00", "18:00", false)

	_, err := svc.EnsureSelectable(context.Background(), id)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
