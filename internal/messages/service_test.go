package messages

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox"
)

func setupMessagesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
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
		`CREATE TABLE IF NOT EXISTS support_messages (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  text TEXT NOT NULL,
  is_from_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	}
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS support_messages").Error)
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS users").Error)
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
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

func seedMessageUser(t *testing.T, db *gorm.DB, telegramID int64, blocked bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO users (id, telegram_id, first_name, is_blocked) VALUES (?, ?, 'Anna', ?)",
		id, telegramID, blocked,
	).Error)
	return id
}

func newMessagesService(t *testing.T, db *gorm.DB, emitter *emitterStub) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		MessageRepo: NewRepository(db),
		UserRepo:    users.NewRepository(db),
		Outbox:      emitter,
		DB:          gormTxRunner{db: db},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceSendAndThread(t *testing.T) {
	db := setupMessagesTestDB(t)
	emitter := &emitterStub{}
	svc := newMessagesService(t, db, emitter)
	userID := seedMessageUser(t, db, 42, false)

	sent, err := svc.Send(context.Background(), userID, "  where is my order?  ")
	require.NoError(t, err)
	assert.Equal(t, "where is my order?", sent.Text)
	assert.False(t, sent.IsFromAdmin)

	reply, err := svc.Reply(context.Background(), userID, "on its way")
	require.NoError(t, err)
	assert.True(t, reply.IsFromAdmin)

	thread, err := svc.ListThread(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "where is my order?", thread[0].Text)
	assert.Equal(t, "on its way", thread[1].Text)

	require.Len(t, emitter.events, 2)
	assert.Equal(t, enums.EventSupportMessageSent, emitter.events[0].EventType)
	assert.Equal(t, enums.AggregateUser, emitter.events[0].AggregateType)
}

func TestServiceSend_blockedUser(t *testing.T) {
	db := setupMessagesTestDB(t)
	svc := newMessagesService(t, db, &emitterStub{})
	userID := seedMessageUser(t, db, 43, true)

	_, err := svc.Send(context.Background(), userID, "hello")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))

	// operators can still write into a blocked user's thread
	_, err = svc.Reply(context.Background(), userID, "your account was suspended")
	require.NoError(t, err)
}

func TestServiceSend_emptyText(t *testing.T) {
	db := setupMessagesTestDB(t)
	svc := newMessagesService(t, db, &emitterStub{})
	userID := seedMessageUser(t, db, 44, false)

	_, err := svc.Send(context.Background(), userID, "   ")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestServiceListThreads_latestPerUser(t *testing.T) {
	db := setupMessagesTestDB(t)
	svc := newMessagesService(t, db, &emitterStub{})
	anna := seedMessageUser(t, db, 45, false)
	boris := seedMessageUser(t, db, 46, false)

	_, err := svc.Send(context.Background(), anna, "first from anna")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), boris, "first from boris")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), anna, "second from anna")
	require.NoError(t, err)

	// pin distinct timestamps, sqlite DATETIME has second precision
	require.NoError(t, db.Exec("UPDATE support_messages SET created_at = '2026-01-01 10:00:00' WHERE text = 'first from anna'").Error)
	require.NoError(t, db.Exec("UPDATE support_messages SET created_at = '2026-01-01 10:01:00' WHERE text = 'first from boris'").Error)
	require.NoError(t, db.Exec("UPDATE support_messages SET created_at = '2026-01-01 10:02:00' WHERE text = 'second from anna'").Error)

	inbox, err := svc.ListThreads(context.Background())
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "second from anna", inbox[0].Text)
	assert.Equal(t, "first from boris", inbox[1].Text)
}
