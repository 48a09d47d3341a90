package scheduling

import (
	"context"
	"time"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
	"github.com/garagedesk/shop-scheduler/internal/timezone"
)

type UpdateAppointmentInput struct {
	Status    *string
	Priority  *string
	Notes     *string
	StartTime *time.Time
	EndTime   *time.Time
}

// UpdateAppointment is the staff-facing patch: any status may be set
// directly, and the booked window may be edited as long as it stays
// well-formed.
type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func(tz string) time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		now:   timezone.NowIn,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, domain.NotFoundError{Resource: "appointment", ID: itoa(appointmentID)}
	}

	shop, err := uc.repo.GetShop(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now(shop.Timezone)

	if in.Status != nil {
		next := domain.Status(*in.Status)
		if !domain.IsValidStatus(next) {
			return nil, domain.ValidationError{Field: "status", Reason: "unknown status"}
		}

		ap.Status = string(next)
		switch next {
		case domain.StatusCancelled:
			ap.CancelledAt = &now
		case domain.StatusCompleted:
			ap.CompletedAt = &now
		}
	}

	if in.Priority != nil {
		p := domain.Priority(*in.Priority)
		if !domain.IsValidPriority(p) {
			return nil, domain.ValidationError{Field: "priority", Reason: "unknown priority"}
		}
		ap.Priority = string(p)
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	if in.StartTime != nil {
		ap.StartTime = in.StartTime
	}
	if in.EndTime != nil {
		ap.EndTime = in.EndTime
	}
	if ap.StartTime != nil && ap.EndTime != nil && !ap.StartTime.Before(*ap.EndTime) {
		return nil, domain.ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorType: audit.ActorStaff,
		ActorID:   actorID,
		Action:    "appointment_updated",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}
