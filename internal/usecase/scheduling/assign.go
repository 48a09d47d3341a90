package scheduling

import (
	"context"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

type AssignAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssignAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AssignAppointment {
	return &AssignAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute assigns a staff member to an appointment. Terminal appointments
// (completed, cancelled, no-show) refuse assignment.
func (uc *AssignAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	staffID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, domain.NotFoundError{Resource: "appointment", ID: itoa(appointmentID)}
	}

	if err := domain.CanAssign(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	staff, err := uc.repo.GetStaff(ctx, staffID)
	if err != nil {
		return nil, domain.NotFoundError{Resource: "staff", ID: itoa(staffID)}
	}

	ap.AssignedToID = &staff.ID
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorType: audit.ActorStaff,
		ActorID:   actorID,
		Action:    "appointment_assigned",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata:  map[string]uint{"staff_id": staffID},
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}
