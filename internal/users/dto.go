package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// SyncUserDTO carries the Telegram profile fields upserted on each sync.
type SyncUserDTO struct {
	TelegramID int64
	Username   *string
	FirstName  string
	LastName   *string
}

// UserDTO is the public shape of a user record.
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   *string   `json:"last_name,omitempty"`
	IsAdmin    bool      `json:"is_admin"`
	IsBlocked  bool      `json:"is_blocked"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListFilters narrows the admin user listing.
type ListFilters struct {
	Query       string
	BlockedOnly bool
}

// UserListDTO is one page of the admin user listing.
type UserListDTO struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ToDTO maps the persistence model to the public shape.
func ToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		TelegramID: user.TelegramID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsAdmin:    user.IsAdmin,
		IsBlocked:  user.IsBlocked,
		CreatedAt:  user.CreatedAt,
	}
}
