package scheduling

import (
	"context"
	"time"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
	"github.com/garagedesk/shop-scheduler/internal/timezone"
)

type CustomerRescheduleInput struct {
	CustomerID    uint
	AppointmentID uint

	Date string
	Time string
}

// CustomerReschedule moves an owned pending/confirmed appointment to a new
// window, under the same atomic capacity guarantee as a fresh booking. The
// window keeps its original length.
type CustomerReschedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func(tz string) time.Time
}

func NewCustomerReschedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CustomerReschedule {
	return &CustomerReschedule{
		repo:  repo,
		audit: audit,
		now:   timezone.NowIn,
	}
}

func (uc *CustomerReschedule) Execute(
	ctx context.Context,
	in CustomerRescheduleInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, domain.NotFoundError{Resource: "appointment", ID: itoa(in.AppointmentID)}
	}

	if ap.CustomerID != in.CustomerID {
		return nil, domain.AuthorizationError{Reason: "appointment does not belong to the caller"}
	}

	if err := domain.CanCustomerModify(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	shop, err := uc.repo.GetShop(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := uc.repo.GetCapacitySettings(ctx)
	if err != nil {
		return nil, err
	}

	newStart, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(shop.Timezone),
	)
	if err != nil {
		return nil, domain.ValidationError{Field: "date/time", Reason: "must be YYYY-MM-DD and HH:MM"}
	}

	now := uc.now(shop.Timezone)
	if newStart.Before(now.Add(time.Duration(settings.MinimumNoticeHours) * time.Hour)) {
		return nil, domain.ValidationError{
			Field:  "start_time",
			Reason: "below the minimum notice period",
		}
	}
	if newStart.After(now.AddDate(settings.FutureCutoffYears, 0, 0)) {
		return nil, domain.ValidationError{
			Field:  "start_time",
			Reason: "beyond the scheduling cutoff",
		}
	}

	length := domain.RoundUpToBlock(0, settings.TimeBlockIntervalMin)
	if ap.StartTime != nil && ap.EndTime != nil {
		length = ap.EndTime.Sub(*ap.StartTime)
	}
	newEnd := newStart.Add(length)

	within, err := uc.withinOperatingHours(ctx, newStart, newEnd)
	if err != nil {
		return nil, err
	}
	if !within {
		return nil, domain.ValidationError{
			Field:  "start_time",
			Reason: "outside operating hours",
		}
	}

	dayStart, dayEnd := domain.DayBounds(newStart)
	check := domain.CapacityCheck{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		PerDay:   settings.AppointmentsPerDay,
		PerBlock: settings.AppointmentsPerTimeBlock,
		BlockMin: settings.TimeBlockIntervalMin,
	}

	if err := uc.repo.RescheduleAppointment(ctx, ap, newStart, newEnd, check); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorType: audit.ActorCustomer,
		ActorID:   &in.CustomerID,
		Action:    "appointment_rescheduled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}

func (uc *CustomerReschedule) withinOperatingHours(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (bool, error) {

	oh, err := uc.repo.GetOperatingHours(ctx, int(start.Weekday()))
	if err != nil || !oh.IsOpen || oh.OpenTime == "" || oh.CloseTime == "" {
		return false, nil
	}

	dayOpen, err := domain.ParseWallClock(start, oh.OpenTime)
	if err != nil {
		return false, nil
	}
	dayClose, err := domain.ParseWallClock(start, oh.CloseTime)
	if err != nil {
		return false, nil
	}

	return !start.Before(dayOpen) && !end.After(dayClose), nil
}
