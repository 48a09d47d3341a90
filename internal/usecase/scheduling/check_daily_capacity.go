package scheduling

import (
	"context"
	"time"

	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
)

type CheckDailyCapacity struct {
	repo domain.Repository
}

func NewCheckDailyCapacity(repo domain.Repository) *CheckDailyCapacity {
	return &CheckDailyCapacity{repo: repo}
}

// Execute reports total bookings against the daily limit together with
// per-block usage across the day's operating window.
func (uc *CheckDailyCapacity) Execute(
	ctx context.Context,
	date time.Time,
) (*domain.DayAvailability, error) {

	settings, err := uc.repo.GetCapacitySettings(ctx)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := domain.DayBounds(date)

	total, err := uc.repo.CountForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	out := &domain.DayAvailability{
		Date:             date.Format("2006-01-02"),
		TotalBookings:    total,
		MaxDailyBookings: settings.AppointmentsPerDay,
		IsAvailable:      total < settings.AppointmentsPerDay,
		TimeBlocks:       []domain.BlockUsage{},
	}

	oh, err := uc.repo.GetOperatingHours(ctx, int(date.Weekday()))
	if err != nil || !oh.IsOpen {
		return out, nil
	}

	dayOpen, err := domain.ParseWallClock(date, oh.OpenTime)
	if err != nil {
		return out, nil
	}
	dayClose, err := domain.ParseWallClock(date, oh.CloseTime)
	if err != nil {
		return out, nil
	}

	step := time.Duration(settings.TimeBlockIntervalMin) * time.Minute
	for cur := dayOpen; !cur.Add(step).After(dayClose); cur = cur.Add(step) {
		booked, err := uc.repo.CountIntersecting(ctx, cur, cur.Add(step))
		if err != nil {
			return nil, err
		}
		out.TimeBlocks = append(out.TimeBlocks, domain.BlockUsage{
			BlockStart: cur,
			BlockEnd:   cur.Add(step),
			Bookings:   booked,
		})
	}

	return out, nil
}
