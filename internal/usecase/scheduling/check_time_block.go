package scheduling

import (
	"context"
	"sort"
	"time"

	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
)

const maxSuggestedAlternatives = 3

type CheckTimeBlock struct {
	repo domain.Repository
}

func NewCheckTimeBlock(repo domain.Repository) *CheckTimeBlock {
	return &CheckTimeBlock{repo: repo}
}

// Execute is the advisory time-block check: it reports current usage of the
// block at date+hm and, when the block is full, suggests nearby free blocks.
func (uc *CheckTimeBlock) Execute(
	ctx context.Context,
	date time.Time,
	hm string,
) (*domain.BlockAvailability, error) {

	settings, err := uc.repo.GetCapacitySettings(ctx)
	if err != nil {
		return nil, err
	}

	blockStart, err := domain.ParseWallClock(date, hm)
	if err != nil {
		return nil, err
	}

	step := time.Duration(settings.TimeBlockIntervalMin) * time.Minute
	blockEnd := blockStart.Add(step)

	booked, err := uc.repo.CountIntersecting(ctx, blockStart, blockEnd)
	if err != nil {
		return nil, err
	}

	out := &domain.BlockAvailability{
		BlockStart:      blockStart,
		BlockEnd:        blockEnd,
		IsAvailable:     booked < settings.AppointmentsPerTimeBlock,
		CurrentBookings: booked,
		MaxCapacity:     settings.AppointmentsPerTimeBlock,
	}

	if !out.IsAvailable {
		alts, err := uc.nearbyFreeBlocks(ctx, date, blockStart, settings.TimeBlockIntervalMin, settings.AppointmentsPerTimeBlock)
		if err != nil {
			return nil, err
		}
		out.Alternatives = alts
	}

	return out, nil
}

// nearbyFreeBlocks scans the day's operating window and returns up to three
// free blocks, closest to the requested block first.
func (uc *CheckTimeBlock) nearbyFreeBlocks(
	ctx context.Context,
	date time.Time,
	target time.Time,
	blockMin int,
	perBlock int,
) ([]domain.Slot, error) {

	oh, err := uc.repo.GetOperatingHours(ctx, int(date.Weekday()))
	if err != nil || !oh.IsOpen {
		return nil, nil
	}

	dayOpen, err := domain.ParseWallClock(date, oh.OpenTime)
	if err != nil {
		return nil, nil
	}
	dayClose, err := domain.ParseWallClock(date, oh.CloseTime)
	if err != nil {
		return nil, nil
	}

	step := time.Duration(blockMin) * time.Minute

	var free []domain.Slot
	for cur := dayOpen; !cur.Add(step).After(dayClose); cur = cur.Add(step) {
		if cur.Equal(target) {
			continue
		}

		booked, err := uc.repo.CountIntersecting(ctx, cur, cur.Add(step))
		if err != nil {
			return nil, err
		}
		if booked < perBlock {
			free = append(free, domain.Slot{
				StartTime:         cur,
				EndTime:           cur.Add(step),
				AvailableCapacity: perBlock - booked,
				TotalCapacity:     perBlock,
			})
		}
	}

	sort.SliceStable(free, func(i, j int) bool {
		di := absDuration(free[i].StartTime.Sub(target))
		dj := absDuration(free[j].StartTime.Sub(target))
		return di < dj
	})

	if len(free) > maxSuggestedAlternatives {
		free = free[:maxSuggestedAlternatives]
	}
	return free, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
