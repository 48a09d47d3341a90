package models

import "time"

type Vehicle struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer"`

	Make         string `gorm:"size:50" json:"make"`
	Model        string `gorm:"size:50" json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `gorm:"size:20" json:"license_plate"`
	VIN          string `gorm:"size:17" json:"vin"`
	PhotoURL     string `gorm:"size:255" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
