package scheduling

import "time"

// Slot is a candidate bookable window with its remaining capacity.
type Slot struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	AvailableCapacity int       `json:"available_capacity"`
	TotalCapacity     int       `json:"total_capacity"`
}

type BlockAvailability struct {
	BlockStart      time.Time `json:"block_start"`
	BlockEnd        time.Time `json:"block_end"`
	IsAvailable     bool      `json:"is_available"`
	CurrentBookings int       `json:"current_bookings"`
	MaxCapacity     int       `json:"max_capacity"`
	Alternatives    []Slot    `json:"suggested_alternatives,omitempty"`
}

type BlockUsage struct {
	BlockStart time.Time `json:"block_start"`
	BlockEnd   time.Time `json:"block_end"`
	Bookings   int       `json:"bookings"`
}

type DayAvailability struct {
	Date             string       `json:"date"`
	TotalBookings    int          `json:"total_bookings"`
	MaxDailyBookings int          `json:"max_daily_bookings"`
	IsAvailable      bool         `json:"is_available"`
	TimeBlocks       []BlockUsage `json:"time_blocks"`
}

// RoundUpToBlock rounds a service duration up to a whole number of time
// blocks. Zero minutes (unscoped appointment) takes a single block.
func RoundUpToBlock(minutes, blockMin int) time.Duration {
	if blockMin <= 0 {
		blockMin = 30
	}
	if minutes <= 0 {
		minutes = blockMin
	}
	blocks := (minutes + blockMin - 1) / blockMin
	return time.Duration(blocks*blockMin) * time.Minute
}

// DayBounds returns midnight-to-midnight for t in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

// ParseWallClock anchors an "15:04" wall-clock string on the given day.
func ParseWallClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}
