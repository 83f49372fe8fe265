package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryInterval is a courier time slot. TimeFrom/TimeTo is the window
// shown to the customer; AvailableFrom/AvailableTo bounds when the slot may
// be selected ("HH:MM", may wrap past midnight).
type DeliveryInterval struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TimeFrom      string    `gorm:"column:time_from;not null"`
	TimeTo        string    `gorm:"column:time_to;not null"`
	AvailableFrom string    `gorm:"column:available_from;not null"`
	AvailableTo   string    `gorm:"column:available_to;not null"`
	SortOrder     int       `gorm:"column:sort_order;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
