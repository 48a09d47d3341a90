package models

import "time"

// Catalog entry with a fixed estimated duration and price. Duration and
// price here are defaults only; the booked values are snapshotted onto the
// appointment's service lines at booking time.
type CannedService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code        string  `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Available   bool    `gorm:"default:true" json:"available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
