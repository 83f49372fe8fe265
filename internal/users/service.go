package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	UserRepo *Repository
}

// Service exposes profile sync and admin moderation.
type Service interface {
	Sync(ctx context.Context, dto SyncUserDTO) (UserDTO, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (UserDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserListDTO, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (UserDTO, error)
	SetAdmin(ctx context.Context, id uuid.UUID, admin bool) (UserDTO, error)
}

type service struct {
	userRepo *Repository
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{userRepo: params.UserRepo}, nil
}

// Sync upserts the caller's Telegram profile and returns the stored record.
// Blocked users are rejected so a returning blocked customer cannot refresh
// their way back in.
func (s *service) Sync(ctx context.Context, dto SyncUserDTO) (UserDTO, error) {
	if dto.TelegramID <= 0 {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "telegram id is required")
	}
	if strings.TrimSpace(dto.FirstName) == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
	}
	user, err := s.userRepo.Upsert(ctx, dto)
	if err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync user")
	}
	if user.IsBlocked {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is blocked")
	}
	return ToDTO(user), nil
}

// GetByTelegramID resolves a user for the identity middleware.
func (s *service) GetByTelegramID(ctx context.Context, telegramID int64) (UserDTO, error) {
	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return ToDTO(user), nil
}

// List returns the admin user listing.
func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserListDTO, error) {
	list, err := s.userRepo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return list, nil
}

// SetBlocked blocks or unblocks a user.
func (s *service) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (UserDTO, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return UserDTO{}, err
	}
	if err := s.userRepo.SetBlocked(ctx, id, blocked); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return s.reload(ctx, id)
}

// SetAdmin grants or revokes back-office access.
func (s *service) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) (UserDTO, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return UserDTO{}, err
	}
	if err := s.userRepo.SetAdmin(ctx, id, admin); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return s.reload(ctx, id)
}

func (s *service) ensureExists(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return ToDTO(user), nil
}
