package scheduling

import (
	"context"
	"time"

	"github.com/garagedesk/shop-scheduler/internal/models"
)

// CapacityCheck carries the limits re-verified inside the atomic write.
type CapacityCheck struct {
	DayStart time.Time
	DayEnd   time.Time
	PerDay   int
	PerBlock int
	BlockMin int
}

type Repository interface {
	// -------- Shop / config --------
	GetShop(ctx context.Context) (*models.Shop, error)

	GetOperatingHours(
		ctx context.Context,
		weekday int,
	) (*models.OperatingHours, error)

	GetCapacitySettings(
		ctx context.Context,
	) (*models.CapacitySettings, error)

	// -------- Service catalog --------
	GetServices(
		ctx context.Context,
		ids []uint,
	) ([]models.CannedService, error)

	// -------- Capacity counts --------
	// All counts exclude cancelled and no-show appointments.

	CountContained(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) (int, error)

	CountIntersecting(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) (int, error)

	CountForDay(
		ctx context.Context,
		dayStart time.Time,
		dayEnd time.Time,
	) (int, error)

	// -------- Appointment writes --------

	// CreateAppointment re-runs both capacity counts and inserts the
	// appointment with its service lines in one atomic unit. Returns
	// CapacityExceededError when a limit is hit.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		check CapacityCheck,
	) error

	// RescheduleAppointment moves an appointment's window under the same
	// atomic capacity guarantee, excluding the appointment itself from
	// the counts.
	RescheduleAppointment(
		ctx context.Context,
		ap *models.Appointment,
		newStart time.Time,
		newEnd time.Time,
		check CapacityCheck,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Appointment reads --------

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.Appointment, error)

	// -------- References --------

	GetStaff(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetVehicle(
		ctx context.Context,
		id uint,
	) (*models.Vehicle, error)
}
