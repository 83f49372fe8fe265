package messages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// MessageDTO is one message in a support thread.
type MessageDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Text        string    `json:"text"`
	IsFromAdmin bool      `json:"is_from_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceParams groups dependencies for the messages service.
type ServiceParams struct {
	MessageRepo *Repository
	UserRepo    *users.Repository
	Outbox      outboxEmitter
	DB          txRunner
	Now         func() time.Time
}

// Service exposes the support chat for customers and the inbox for the back
// office.
type Service interface {
	Send(ctx context.Context, userID uuid.UUID, text string) (MessageDTO, error)
	ListOwn(ctx context.Context, userID uuid.UUID) ([]MessageDTO, error)
	Reply(ctx context.Context, userID uuid.UUID, text string) (MessageDTO, error)
	ListThread(ctx context.Context, userID uuid.UUID) ([]MessageDTO, error)
	ListThreads(ctx context.Context) ([]MessageDTO, error)
}

type service struct {
	messageRepo *Repository
	userRepo    *users.Repository
	outbox      outboxEmitter
	db          txRunner
	now         func() time.Time
}

// NewService builds a messages service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.MessageRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		messageRepo: params.MessageRepo,
		userRepo:    params.UserRepo,
		outbox:      params.Outbox,
		db:          params.DB,
		now:         now,
	}, nil
}

// Send stores a customer message and queues the operator notification in the
// same transaction.
func (s *service) Send(ctx context.Context, userID uuid.UUID, text string) (MessageDTO, error) {
	return s.append(ctx, userID, text, false)
}

// Reply stores an operator message in the user's thread.
func (s *service) Reply(ctx context.Context, userID uuid.UUID, text string) (MessageDTO, error) {
	return s.append(ctx, userID, text, true)
}

func (s *service) append(ctx context.Context, userID uuid.UUID, text string, fromAdmin bool) (MessageDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return MessageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "message text is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MessageDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return MessageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !fromAdmin && user.IsBlocked {
		return MessageDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is blocked")
	}

	message := &models.SupportMessage{
		ID:          uuid.New(),
		UserID:      user.ID,
		Text:        text,
		IsFromAdmin: fromAdmin,
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.messageRepo.WithTx(tx).Create(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSupportMessageSent,
			AggregateType: enums.AggregateUser,
			AggregateID:   user.ID,
			Version:       1,
			OccurredAt:    s.now(),
			Data: payloads.SupportMessageSentEvent{
				MessageID:   message.ID,
				UserID:      user.ID,
				TelegramID:  user.TelegramID,
				IsFromAdmin: fromAdmin,
			},
		})
	})
	if err != nil {
		return MessageDTO{}, err
	}
	return toDTO(message), nil
}

// ListOwn returns the caller's thread oldest first.
func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) ([]MessageDTO, error) {
	return s.ListThread(ctx, userID)
}

// ListThread returns one user's thread oldest first.
func (s *service) ListThread(ctx context.Context, userID uuid.UUID) ([]MessageDTO, error) {
	thread, err := s.messageRepo.ListThread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return toDTOs(thread), nil
}

// ListThreads returns the back-office inbox: the latest message per user.
func (s *service) ListThreads(ctx context.Context) ([]MessageDTO, error) {
	latest, err := s.messageRepo.ListThreads(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list message threads")
	}
	return toDTOs(latest), nil
}

func toDTOs(messages []models.SupportMessage) []MessageDTO {
	result := make([]MessageDTO, 0, len(messages))
	for i := range messages {
		result = append(result, toDTO(&messages[i]))
	}
	return result
}

func toDTO(message *models.SupportMessage) MessageDTO {
	return MessageDTO{
		ID:          message.ID,
		UserID:      message.UserID,
		Text:        message.Text,
		IsFromAdmin: message.IsFromAdmin,
		CreatedAt:   message.CreatedAt,
	}
}
