package scheduling

import (
	"context"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
)

// DeleteAppointment is the staff-facing hard delete, allowed only while the
// appointment is still pending or confirmed. Service lines go with the row.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) error {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return domain.NotFoundError{Resource: "appointment", ID: itoa(appointmentID)}
	}

	if err := domain.CanDelete(domain.Status(ap.Status)); err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorType: audit.ActorStaff,
		ActorID:   actorID,
		Action:    "appointment_deleted",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return nil
}
