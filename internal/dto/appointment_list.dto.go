package dto

import (
	"time"

	"github.com/garagedesk/shop-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID           uint       `json:"id"`
	Reference    string     `json:"reference"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	CustomerName string     `json:"customer_name"`
	VehiclePlate string     `json:"vehicle_plate"`
	Services     []string   `json:"services"`
}

func AppointmentList(appointments []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		names := make([]string, 0, len(ap.Services))
		for _, line := range ap.Services {
			names = append(names, line.Service.Name)
		}

		out = append(out, AppointmentListDTO{
			ID:           ap.ID,
			Reference:    ap.Reference,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Status:       ap.Status,
			Priority:     ap.Priority,
			CustomerName: ap.Customer.Name,
			VehiclePlate: ap.Vehicle.LicensePlate,
			Services:     names,
		})
	}
	return out
}
