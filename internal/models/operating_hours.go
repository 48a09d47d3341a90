package models

import "time"

// One row per weekday (0 = Sunday), 7 total.
type OperatingHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Weekday int  `gorm:"uniqueIndex" json:"weekday"`
	IsOpen  bool `json:"is_open"`

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
