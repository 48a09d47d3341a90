package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
)

func fixedNow(repo *fakeRepo) func(string) time.Time {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, repo.loc())
	return func(string) time.Time { return now }
}

func newCreateUC(repo *fakeRepo) *CreateAppointment {
	uc := NewCreateAppointment(repo, nil)
	uc.now = fixedNow(repo)
	return uc
}

func validInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		CustomerID: 1,
		VehicleID:  1,
		Date:       "2026-09-14",
		Time:       "09:00",
		Selections: []ServiceSelection{
			{ServiceID: 1},
			{ServiceID: 2},
		},
		ActorType: "staff",
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.Status != "pending" {
		t.Fatalf("status = %q, want pending", ap.Status)
	}
	if ap.Reference == "" {
		t.Fatal("reference not generated")
	}
	if ap.Priority != "normal" {
		t.Fatalf("priority = %q, want normal", ap.Priority)
	}

	// 70 minutes of service time rounds up to a 90-minute window.
	if !ap.StartTime.Equal(mondayAt(repo, 9, 0)) {
		t.Fatalf("start = %v", ap.StartTime)
	}
	if !ap.EndTime.Equal(mondayAt(repo, 10, 30)) {
		t.Fatalf("end = %v, want 10:30", ap.EndTime)
	}

	if len(ap.Services) != 2 {
		t.Fatalf("service lines = %d", len(ap.Services))
	}
	for _, line := range ap.Services {
		if line.Quantity != 1 {
			t.Fatalf("quantity defaulted to %d", line.Quantity)
		}
	}
}

func TestCreateAppointment_PriceSnapshotAndOverride(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	override := 39.90
	in := validInput()
	in.Selections = []ServiceSelection{
		{ServiceID: 1, Price: &override, Quantity: 2},
		{ServiceID: 2},
	}

	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	byService := map[uint]float64{}
	for _, line := range ap.Services {
		byService[line.ServiceID] = line.Price
	}
	if byService[1] != 39.90 {
		t.Fatalf("override price = %v", byService[1])
	}
	if byService[2] != 120.00 {
		t.Fatalf("catalog price = %v", byService[2])
	}

	// Later catalog changes must not touch the stored line.
	svc := repo.services[2]
	svc.Price = 999
	repo.services[2] = svc

	reloaded, err := repo.GetAppointment(context.Background(), ap.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	for _, line := range reloaded.Services {
		if line.ServiceID == 2 && line.Price != 120.00 {
			t.Fatalf("snapshot drifted to %v", line.Price)
		}
	}
}

func TestCreateAppointment_NoticeAndCutoff(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	var vErr domain.ValidationError

	// now is 2026-09-10 08:00; a 09:00 start the same day sits inside
	// the 2-hour notice window.
	in := validInput()
	in.Date = "2026-09-10"
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for short notice, got %v", err)
	}

	in = validInput()
	in.Date = "2027-10-01"
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError beyond the cutoff, got %v", err)
	}
}

func TestCreateAppointment_UnknownService(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	in := validInput()
	in.Selections = []ServiceSelection{{ServiceID: 404}}

	var nf domain.NotFoundError
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreateAppointment_NoServicesRejected(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	in := validInput()
	in.Selections = nil

	var vErr domain.ValidationError
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateAppointment_ForeignVehicle(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	in := validInput()
	in.VehicleID = 2 // belongs to customer 2

	var vErr domain.ValidationError
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateAppointment_OutsideOperatingHours(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	var vErr domain.ValidationError

	// Window would run past 17:00.
	in := validInput()
	in.Time = "16:00"
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError past close, got %v", err)
	}

	// Sunday is closed.
	in = validInput()
	in.Date = "2026-09-20"
	if _, err := uc.Execute(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError on a closed day, got %v", err)
	}
}

func TestCreateAppointment_DailyLimit(t *testing.T) {
	repo := newFakeRepo()
	repo.settings.AppointmentsPerDay = 1
	uc := newCreateUC(repo)

	repo.seed(mondayAt(repo, 13, 0), mondayAt(repo, 13, 30), "confirmed")

	_, err := uc.Execute(context.Background(), validInput())
	var capErr domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Scope != domain.ScopeDay {
		t.Fatalf("scope = %q, want day", capErr.Scope)
	}
	if capErr.Limit != 1 {
		t.Fatalf("limit = %d", capErr.Limit)
	}
}

func TestCreateAppointment_BlockLimit(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "pending")
	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")

	_, err := uc.Execute(context.Background(), validInput())
	var capErr domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Scope != domain.ScopeTimeBlock {
		t.Fatalf("scope = %q, want time-block", capErr.Scope)
	}
	if capErr.BlockMinutes != 30 {
		t.Fatalf("block minutes = %d", capErr.BlockMinutes)
	}
}

func TestCreateAppointment_CancelledDoNotBlock(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "cancelled")
	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "no_show")
	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")

	if _, err := uc.Execute(context.Background(), validInput()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

// Racing bookings for the same block must never both take the last spot.
func TestCreateAppointment_ConcurrentBookingsHonorLimits(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validInput())
			errs[i] = err
		}(i)
	}
	wg.Wait()

	created, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		default:
			var capErr domain.CapacityExceededError
			if !errors.As(err, &capErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			rejected++
		}
	}

	if created != 2 {
		t.Fatalf("created = %d, want exactly the per-block limit of 2", created)
	}
	if rejected != attempts-2 {
		t.Fatalf("rejected = %d", rejected)
	}

	n, err := repo.CountIntersecting(
		context.Background(),
		mondayAt(repo, 9, 0),
		mondayAt(repo, 10, 30),
	)
	if err != nil {
		t.Fatalf("CountIntersecting: %v", err)
	}
	if n != 2 {
		t.Fatalf("stored overlapping appointments = %d", n)
	}
}
