package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
	"github.com/garagedesk/shop-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ServiceSelection struct {
	ServiceID uint
	Quantity  int
	Price     *float64
	Notes     string
}

type CreateAppointmentInput struct {
	CustomerID uint
	VehicleID  uint

	Date string
	Time string

	Selections []ServiceSelection

	Priority string
	Notes    string

	ActorType string
	ActorID   *uint
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment validates a booking request end to end and persists the
// appointment with its service lines atomically. The capacity counts are
// re-run inside the store's serializable transaction, so two racing
// bookings can never both take the last spot of a block or a day.
type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func(tz string) time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		now:   timezone.NowIn,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetShop(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := uc.repo.GetCapacitySettings(ctx)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Date / time in the shop timezone
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(shop.Timezone),
	)
	if err != nil {
		return nil, domain.ValidationError{Field: "date/time", Reason: "must be YYYY-MM-DD and HH:MM"}
	}

	now := uc.now(shop.Timezone)

	// --------------------------------------------------
	// Notice and future-cutoff rules
	// --------------------------------------------------
	if start.Before(now.Add(time.Duration(settings.MinimumNoticeHours) * time.Hour)) {
		return nil, domain.ValidationError{
			Field:  "start_time",
			Reason: "below the minimum notice period",
		}
	}
	if start.After(now.AddDate(settings.FutureCutoffYears, 0, 0)) {
		return nil, domain.ValidationError{
			Field:  "start_time",
			Reason: "beyond the scheduling cutoff",
		}
	}

	// --------------------------------------------------
	// Vehicle must belong to the booking customer
	// --------------------------------------------------
	vehicle, err := uc.repo.GetVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, domain.NotFoundError{Resource: "vehicle", ID: itoa(in.VehicleID)}
	}
	if vehicle.CustomerID != in.CustomerID {
		return nil, domain.ValidationError{
			Field:  "vehicle_id",
			Reason: "vehicle does not belong to the customer",
		}
	}

	// --------------------------------------------------
	// Services: all selected must resolve and be available
	// --------------------------------------------------
	if len(in.Selections) == 0 {
		return nil, domain.ValidationError{Field: "services", Reason: "at least one service is required"}
	}

	ids := make([]uint, 0, len(in.Selections))
	for _, sel := range in.Selections {
		ids = append(ids, sel.ServiceID)
	}

	services, err := uc.repo.GetServices(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := assertAllAvailable(ids, services); err != nil {
		return nil, err
	}

	byID := make(map[uint]models.CannedService, len(services))
	totalMin := 0
	for _, s := range services {
		byID[s.ID] = s
		totalMin += s.DurationMin
	}

	end := start.Add(domain.RoundUpToBlock(totalMin, settings.TimeBlockIntervalMin))

	// --------------------------------------------------
	// Operating hours
	// --------------------------------------------------
	within, err := uc.withinOperatingHours(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if !within {
		return nil, domain.ValidationError{
			Field:  "start_time",
			Reason: "outside operating hours",
		}
	}

	// --------------------------------------------------
	// Advisory capacity checks (precise errors before the write)
	// --------------------------------------------------
	dayStart, dayEnd := domain.DayBounds(start)

	dayCount, err := uc.repo.CountForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if dayCount >= settings.AppointmentsPerDay {
		return nil, domain.CapacityExceededError{
			Scope: domain.ScopeDay,
			Limit: settings.AppointmentsPerDay,
		}
	}

	blockCount, err := uc.repo.CountIntersecting(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if blockCount >= settings.AppointmentsPerTimeBlock {
		return nil, domain.CapacityExceededError{
			Scope:        domain.ScopeTimeBlock,
			Limit:        settings.AppointmentsPerTimeBlock,
			BlockMinutes: settings.TimeBlockIntervalMin,
		}
	}

	// --------------------------------------------------
	// Build and persist (capacity re-checked in the same transaction)
	// --------------------------------------------------
	priority := domain.Priority(in.Priority)
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !domain.IsValidPriority(priority) {
		return nil, domain.ValidationError{Field: "priority", Reason: "unknown priority"}
	}

	lines := make([]models.AppointmentService, 0, len(in.Selections))
	for _, sel := range in.Selections {
		svc := byID[sel.ServiceID]

		qty := sel.Quantity
		if qty <= 0 {
			qty = 1
		}

		// price snapshot: catalog price unless the caller overrides
		price := svc.Price
		if sel.Price != nil {
			price = *sel.Price
		}

		lines = append(lines, models.AppointmentService{
			ServiceID: sel.ServiceID,
			Quantity:  qty,
			Price:     price,
			Notes:     sel.Notes,
		})
	}

	ap := &models.Appointment{
		Reference:   uuid.NewString(),
		CustomerID:  in.CustomerID,
		VehicleID:   in.VehicleID,
		RequestedAt: now,
		StartTime:   &start,
		EndTime:     &end,
		Status:      string(domain.InitialStatus()),
		Priority:    string(priority),
		Notes:       in.Notes,
		Services:    lines,
	}

	check := domain.CapacityCheck{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		PerDay:   settings.AppointmentsPerDay,
		PerBlock: settings.AppointmentsPerTimeBlock,
		BlockMin: settings.TimeBlockIntervalMin,
	}

	if err := uc.repo.CreateAppointment(ctx, ap, check); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorType: in.ActorType,
		ActorID:   in.ActorID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}

func (uc *CreateAppointment) withinOperatingHours(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (bool, error) {

	oh, err := uc.repo.GetOperatingHours(ctx, int(start.Weekday()))
	if err != nil {
		return false, nil
	}
	if !oh.IsOpen || oh.OpenTime == "" || oh.CloseTime == "" {
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
