package models

import "time"

// Singleton scheduling configuration. Missing row is a configuration error
// for every scheduling operation.
type CapacitySettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentsPerDay       int `gorm:"default:12" json:"appointments_per_day"`
	AppointmentsPerTimeBlock int `gorm:"default:2" json:"appointments_per_time_block"`
	TimeBlockIntervalMin     int `gorm:"default:30" json:"time_block_interval_min"`
	MinimumNoticeHours       int `gorm:"default:2" json:"minimum_notice_hours"`
	FutureCutoffYears        int `gorm:"default:1" json:"future_cutoff_years"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
