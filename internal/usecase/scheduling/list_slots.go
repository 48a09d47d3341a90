package scheduling

import (
	"context"
	"time"

	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

type ListAvailableSlots struct {
	repo domain.Repository
}

func NewListAvailableSlots(repo domain.Repository) *ListAvailableSlots {
	return &ListAvailableSlots{repo: repo}
}

// Execute walks the day's operating window in time-block steps and emits
// every candidate window with remaining per-block capacity. A closed or
// unconfigured day yields an empty list, not an error.
func (uc *ListAvailableSlots) Execute(
	ctx context.Context,
	date time.Time,
	serviceIDs []uint,
) ([]domain.Slot, error) {

	settings, err := uc.repo.GetCapacitySettings(ctx)
	if err != nil {
		return nil, err
	}

	oh, err := uc.repo.GetOperatingHours(ctx, int(date.Weekday()))
	if err != nil || !oh.IsOpen || oh.OpenTime == "" || oh.CloseTime == "" {
		return []domain.Slot{}, nil
	}

	duration, err := resolveDuration(ctx, uc.repo, serviceIDs, settings)
	if err != nil {
		return nil, err
	}

	dayOpen, err := domain.ParseWallClock(date, oh.OpenTime)
	if err != nil {
		return []domain.Slot{}, nil
	}
	dayClose, err := domain.ParseWallClock(date, oh.CloseTime)
	if err != nil {
		return []domain.Slot{}, nil
	}

	step := time.Duration(settings.TimeBlockIntervalMin) * time.Minute
	perBlock := settings.AppointmentsPerTimeBlock

	slots := []domain.Slot{}
	for cur := dayOpen; !cur.Add(duration).After(dayClose); cur = cur.Add(step) {

		windowStart := cur
		windowEnd := cur.Add(duration)

		booked, err := uc.repo.CountContained(ctx, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}

		remaining := perBlock - booked
		if remaining > 0 {
			slots = append(slots, domain.Slot{
				StartTime:         windowStart,
				EndTime:           windowEnd,
				AvailableCapacity: remaining,
				TotalCapacity:     perBlock,
			})
		}
	}

	return slots, nil
}

// resolveDuration sums the selected services' durations and rounds up to
// whole time blocks. No services means an unscoped/diagnostic visit of one
// block.
func resolveDuration(
	ctx context.Context,
	repo domain.Repository,
	serviceIDs []uint,
	settings *models.CapacitySettings,
) (time.Duration, error) {

	if len(serviceIDs) == 0 {
		return domain.RoundUpToBlock(0, settings.TimeBlockIntervalMin), nil
	}

	services, err := repo.GetServices(ctx, serviceIDs)
	if err != nil {
		return 0, err
	}
	if err := assertAllAvailable(serviceIDs, services); err != nil {
		return 0, err
	}

	total := 0
	for _, s := range services {
		total += s.DurationMin
	}

	return domain.RoundUpToBlock(total, settings.TimeBlockIntervalMin), nil
}

func assertAllAvailable(ids []uint, services []models.CannedService) error {
	byID := make(map[uint]models.CannedService, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	for _, id := range ids {
		s, ok := byID[id]
		if !ok || !s.Available {
			return domain.NotFoundError{Resource: "service", ID: itoa(id)}
		}
	}
	return nil
}
