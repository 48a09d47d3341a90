package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// customer-facing confirmation code
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	VehicleID uint    `json:"vehicle_id"`
	Vehicle   Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vehicle"`

	RequestedAt time.Time  `json:"requested_at"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`

	Status   string `gorm:"size:20;default:'pending'" json:"status"`
	Priority string `gorm:"size:20;default:'normal'" json:"priority"`

	Notes string `gorm:"size:255" json:"notes"`

	AssignedToID *uint `json:"assigned_to_id"`
	AssignedTo   *User `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"assigned_to,omitempty"`

	Services []AppointmentService `gorm:"constraint:OnDelete:CASCADE;" json:"services"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service line owned by an appointment. Price is snapshotted at booking time
// so later catalog changes never alter historical appointments.
type AppointmentService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint `gorm:"index" json:"appointment_id"`

	ServiceID uint          `json:"service_id"`
	Service   CannedService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Quantity int     `gorm:"default:1" json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}
