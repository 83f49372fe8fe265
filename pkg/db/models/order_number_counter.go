package models

// OrderNumberCounter backs the per-day order number sequence. Day is
// "YYYYMMDD"; Value is the last sequence number handed out for that day.
type OrderNumberCounter struct {
	Day   string `gorm:"column:day;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}
