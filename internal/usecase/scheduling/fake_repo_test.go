package scheduling

import (
	"context"
	"sync"
	"time"

	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

// fakeRepo is an in-memory stand-in for the gorm repository. Its
// CreateAppointment and RescheduleAppointment hold the mutex across the
// capacity re-check and the write, mirroring the serializable transaction
// of the real store.
type fakeRepo struct {
	mu sync.Mutex

	shop     *models.Shop
	hours    map[int]*models.OperatingHours
	settings *models.CapacitySettings
	services map[uint]models.CannedService
	staff    map[uint]*models.User
	vehicles map[uint]*models.Vehicle

	nextID       uint
	appointments map[uint]*models.Appointment
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		shop: &models.Shop{ID: 1, Name: "GarageDesk", Timezone: "America/New_York"},
		settings: &models.CapacitySettings{
			ID:                       1,
			AppointmentsPerDay:       12,
			AppointmentsPerTimeBlock: 2,
			TimeBlockIntervalMin:     30,
			MinimumNoticeHours:       2,
			FutureCutoffYears:        1,
		},
		hours:        map[int]*models.OperatingHours{},
		services:     map[uint]models.CannedService{},
		staff:        map[uint]*models.User{},
		vehicles:     map[uint]*models.Vehicle{},
		appointments: map[uint]*models.Appointment{},
	}

	// Mon-Fri 09:00-17:00, weekend closed.
	for wd := 0; wd < 7; wd++ {
		open := wd >= 1 && wd <= 5
		r.hours[wd] = &models.OperatingHours{
			ID:        uint(wd + 1),
			Weekday:   wd,
			IsOpen:    open,
			OpenTime:  "09:00",
			CloseTime: "17:00",
		}
	}

	r.services[1] = models.CannedService{
		ID: 1, Code: "OIL", Name: "Oil change",
		DurationMin: 30, Price: 49.90, Available: true,
	}
	r.services[2] = models.CannedService{
		ID: 2, Code: "BRAKE", Name: "Brake inspection",
		DurationMin: 40, Price: 120.00, Available: true,
	}
	r.services[3] = models.CannedService{
		ID: 3, Code: "RETIRED", Name: "Retired service",
		DurationMin: 60, Price: 80.00, Available: false,
	}

	r.staff[1] = &models.User{ID: 1, Name: "Sam Advisor", Role: "advisor"}
	r.vehicles[1] = &models.Vehicle{ID: 1, CustomerID: 1, Make: "Honda", Model: "Civic"}
	r.vehicles[2] = &models.Vehicle{ID: 2, CustomerID: 2, Make: "Ford", Model: "F-150"}

	return r
}

func (r *fakeRepo) loc() *time.Location {
	loc, err := time.LoadLocation(r.shop.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// seed inserts an appointment directly, bypassing capacity checks.
func (r *fakeRepo) seed(start, end time.Time, status string) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	ap := &models.Appointment{
		ID:         r.nextID,
		Reference:  "seed",
		CustomerID: 1,
		VehicleID:  1,
		StartTime:  &start,
		EndTime:    &end,
		Status:     status,
		Priority:   "normal",
	}
	r.appointments[ap.ID] = ap
	return ap
}

// -------- Shop / config --------

func (r *fakeRepo) GetShop(ctx context.Context) (*models.Shop, error) {
	return r.shop, nil
}

func (r *fakeRepo) GetOperatingHours(ctx context.Context, weekday int) (*models.OperatingHours, error) {
	oh, ok := r.hours[weekday]
	if !ok {
		return nil, domain.NotFoundError{Resource: "operating hours", ID: "?"}
	}
	return oh, nil
}

func (r *fakeRepo) GetCapacitySettings(ctx context.Context) (*models.CapacitySettings, error) {
	if r.settings == nil {
		return nil, domain.ConfigurationError{Missing: "capacity settings"}
	}
	return r.settings, nil
}

// -------- Service catalog --------

func (r *fakeRepo) GetServices(ctx context.Context, ids []uint) ([]models.CannedService, error) {
	out := []models.CannedService{}
	seen := map[uint]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// -------- Capacity counts --------

func active(ap *models.Appointment) bool {
	return domain.IsActive(domain.Status(ap.Status))
}

func (r *fakeRepo) containedLocked(start, end time.Time, excludeID uint) int {
	n := 0
	for _, ap := range r.appointments {
		if ap.ID == excludeID || !active(ap) || ap.StartTime == nil || ap.EndTime == nil {
			continue
		}
		if !ap.StartTime.Before(start) && !ap.EndTime.After(end) {
			n++
		}
	}
	return n
}

func (r *fakeRepo) intersectingLocked(start, end time.Time, excludeID uint) int {
	n := 0
	for _, ap := range r.appointments {
		if ap.ID == excludeID || !active(ap) || ap.StartTime == nil || ap.EndTime == nil {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			n++
		}
	}
	return n
}

func (r *fakeRepo) forDayLocked(dayStart, dayEnd time.Time, excludeID uint) int {
	n := 0
	for _, ap := range r.appointments {
		if ap.ID == excludeID || !active(ap) || ap.StartTime == nil {
			continue
		}
		if !ap.StartTime.Before(dayStart) && ap.StartTime.Before(dayEnd) {
			n++
		}
	}
	return n
}

func (r *fakeRepo) CountContained(ctx context.Context, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.containedLocked(start, end, 0), nil
}

func (r *fakeRepo) CountIntersecting(ctx context.Context, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intersectingLocked(start, end, 0), nil
}

func (r *fakeRepo) CountForDay(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forDayLocked(dayStart, dayEnd, 0), nil
}

// -------- Appointment writes --------

func (r *fakeRepo) assertCapacityLocked(
	start, end time.Time,
	check domain.CapacityCheck,
	excludeID uint,
) error {
	if r.forDayLocked(check.DayStart, check.DayEnd, excludeID) >= check.PerDay {
		return domain.CapacityExceededError{Scope: domain.ScopeDay, Limit: check.PerDay}
	}
	if r.intersectingLocked(start, end, excludeID) >= check.PerBlock {
		return domain.CapacityExceededError{
			Scope:        domain.ScopeTimeBlock,
			Limit:        check.PerBlock,
			BlockMinutes: check.BlockMin,
		}
	}
	return nil
}

func (r *fakeRepo) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	check domain.CapacityCheck,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.assertCapacityLocked(*ap.StartTime, *ap.EndTime, check, 0); err != nil {
		return err
	}

	r.nextID++
	ap.ID = r.nextID
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
	newStart time.Time,
	newEnd time.Time,
	check domain.CapacityCheck,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.assertCapacityLocked(newStart, newEnd, check, ap.ID); err != nil {
		return err
	}

	stored, ok := r.appointments[ap.ID]
	if !ok {
		return domain.NotFoundError{Resource: "appointment", ID: "?"}
	}
	s, e := newStart, newEnd
	stored.StartTime, stored.EndTime = &s, &e
	ap.StartTime, ap.EndTime = &s, &e
	return nil
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[ap.ID]; !ok {
		return domain.NotFoundError{Resource: "appointment", ID: "?"}
	}
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) DeleteAppointment(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return domain.NotFoundError{Resource: "appointment", ID: "?"}
	}
	delete(r.appointments, id)
	return nil
}

// -------- Appointment reads --------

func (r *fakeRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "appointment", ID: "?"}
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if ap.StartTime == nil {
			continue
		}
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if ap.CustomerID == customerID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

// -------- References --------

func (r *fakeRepo) GetStaff(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.staff[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "staff", ID: "?"}
	}
	return u, nil
}

func (r *fakeRepo) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "vehicle", ID: "?"}
	}
	return v, nil
}
