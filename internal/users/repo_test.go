package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  telegram_id INTEGER NOT NULL UNIQUE,
  username TEXT,
  first_name TEXT NOT NULL,
  last_name TEXT,
  is_admin INTEGER NOT NULL DEFAULT 0,
  is_blocked INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS users").Error)
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryUpsert_insertAndRefresh(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	first, err := repo.Upsert(context.Background(), SyncUserDTO{
		TelegramID: 42,
		FirstName:  "Anna",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), first.TelegramID)
	assert.Equal(t, "Anna", first.FirstName)

	username := "anna_g"
	second, err := repo.Upsert(context.Background(), SyncUserDTO{
		TelegramID: 42,
		Username:   &username,
		FirstName:  "Anna",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Username)
	assert.Equal(t, "anna_g", *second.Username)
}

func TestRepositorySetBlocked(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	user, err := repo.Upsert(context.Background(), SyncUserDTO{TelegramID: 7, FirstName: "Boris"})
	require.NoError(t, err)

	require.NoError(t, repo.SetBlocked(context.Background(), user.ID, true))
	reloaded, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsBlocked)

	require.NoError(t, repo.SetBlocked(context.Background(), user.ID, false))
	reloaded, err = repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsBlocked)
}

func TestRepositoryList_searchAndPagination(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	names := []string{"Anna", "Boris", "Vera"}
	for i, name := range names {
		user, err := repo.Upsert(context.Background(), SyncUserDTO{TelegramID: int64(100 + i), FirstName: name})
		require.NoError(t, err)
		created := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Exec("UPDATE users SET created_at = ? WHERE id = ?", created, user.ID).Error)
	}

	list, err := repo.List(context.Background(), pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, list.Users, 2)
	assert.Equal(t, "Vera", list.Users[0].FirstName)
	assert.NotEmpty(t, list.NextCursor)

	second, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: list.NextCursor}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, second.Users, 1)
	assert.Equal(t, "Anna", second.Users[0].FirstName)
	assert.Empty(t, second.NextCursor)

	search, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{Query: "bor"})
	require.NoError(t, err)
	require.Len(t, search.Users, 1)
	assert.Equal(t, "Boris", search.Users[0].FirstName)
}
