package models

import "time"

// Setting is a key/value knob editable from the back office.
type Setting struct {
	Key         string    `gorm:"column:key;primaryKey"`
	Value       string    `gorm:"column:value;not null"`
	Description *string   `gorm:"column:description"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
