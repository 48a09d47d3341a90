package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
)

func TestAssign_SetsStaff(t *testing.T) {
	repo := newFakeRepo()
	uc := NewAssignAppointment(repo, nil)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")

	got, err := uc.Execute(context.Background(), ap.ID, 1, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.AssignedToID == nil || *got.AssignedToID != 1 {
		t.Fatalf("assigned_to = %v", got.AssignedToID)
	}
}

func TestAssign_TerminalStatusRefused(t *testing.T) {
	repo := newFakeRepo()
	uc := NewAssignAppointment(repo, nil)

	var stateErr domain.StateError
	for _, status := range []string{"completed", "cancelled", "no_show"} {
		ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), status)
		_, err := uc.Execute(context.Background(), ap.ID, 1, nil)
		if !errors.As(err, &stateErr) {
			t.Fatalf("%s: expected StateError, got %v", status, err)
		}
	}
}

func TestAssign_UnknownStaff(t *testing.T) {
	repo := newFakeRepo()
	uc := NewAssignAppointment(repo, nil)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "pending")

	var nf domain.NotFoundError
	if _, err := uc.Execute(context.Background(), ap.ID, 77, nil); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdate_StatusTransitionsStampTimes(t *testing.T) {
	repo := newFakeRepo()
	uc := NewUpdateAppointment(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "in_progress")

	completed := "completed"
	got, err := uc.Execute(context.Background(), ap.ID, nil, UpdateAppointmentInput{
		Status: &completed,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != "completed" || got.CompletedAt == nil {
		t.Fatalf("status %q, completed_at %v", got.Status, got.CompletedAt)
	}

	ap2 := repo.seed(mondayAt(repo, 10, 0), mondayAt(repo, 10, 30), "confirmed")
	cancelled := "cancelled"
	got, err = uc.Execute(context.Background(), ap2.ID, nil, UpdateAppointmentInput{
		Status: &cancelled,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.CancelledAt == nil {
		t.Fatal("cancelled_at not stamped")
	}
}

func TestUpdate_RejectsUnknownStatusAndBadWindow(t *testing.T) {
	repo := newFakeRepo()
	uc := NewUpdateAppointment(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "pending")

	var vErr domain.ValidationError

	bogus := "archived"
	_, err := uc.Execute(context.Background(), ap.ID, nil, UpdateAppointmentInput{
		Status: &bogus,
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	badEnd := mondayAt(repo, 8, 0)
	_, err = uc.Execute(context.Background(), ap.ID, nil, UpdateAppointmentInput{
		EndTime: &badEnd,
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for inverted window, got %v", err)
	}
}

func TestDelete_OnlyBeforeWorkStarts(t *testing.T) {
	repo := newFakeRepo()
	uc := NewDeleteAppointment(repo, nil)

	ok := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "pending")
	if err := uc.Execute(context.Background(), ok.ID, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := repo.GetAppointment(context.Background(), ok.ID); err == nil {
		t.Fatal("appointment still present after delete")
	}

	var stateErr domain.StateError
	started := repo.seed(mondayAt(repo, 10, 0), mondayAt(repo, 10, 30), "in_progress")
	if err := uc.Execute(context.Background(), started.ID, nil); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
}

func TestCustomerCancel_KeepsTheRow(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerCancel(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")

	got, err := uc.Execute(context.Background(), 1, ap.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != "cancelled" || got.CancelledAt == nil {
		t.Fatalf("status %q, cancelled_at %v", got.Status, got.CancelledAt)
	}

	// Cancellation is a status change, not a delete.
	stored, err := repo.GetAppointment(context.Background(), ap.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if stored.Status != "cancelled" {
		t.Fatalf("stored status = %q", stored.Status)
	}
}

func TestCustomerCancel_OwnershipCheckedBeforeState(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerCancel(repo, nil)
	uc.now = fixedNow(repo)

	// Terminal AND foreign: the caller must see a 403-shaped error, not
	// a state leak about someone else's appointment.
	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "completed")

	var authz domain.AuthorizationError
	if _, err := uc.Execute(context.Background(), 2, ap.ID); !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestCustomerCancel_TerminalRefused(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerCancel(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "completed")

	var stateErr domain.StateError
	if _, err := uc.Execute(context.Background(), 1, ap.ID); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
}

func TestCustomerReschedule_KeepsWindowLength(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerReschedule(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 10, 30), "confirmed")

	got, err := uc.Execute(context.Background(), CustomerRescheduleInput{
		CustomerID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-09-15",
		Time:          "13:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	tuesday := mondayAt(repo, 13, 0).AddDate(0, 0, 1)
	if !got.StartTime.Equal(tuesday) {
		t.Fatalf("start = %v", got.StartTime)
	}
	if got.EndTime.Sub(*got.StartTime) != 90*time.Minute {
		t.Fatalf("window length changed: %v", got.EndTime.Sub(*got.StartTime))
	}
}

func TestCustomerReschedule_TargetBlockFull(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerReschedule(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")
	repo.seed(mondayAt(repo, 13, 0), mondayAt(repo, 13, 30), "pending")
	repo.seed(mondayAt(repo, 13, 0), mondayAt(repo, 13, 30), "confirmed")

	_, err := uc.Execute(context.Background(), CustomerRescheduleInput{
		CustomerID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-09-14",
		Time:          "13:00",
	})
	var capErr domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Scope != domain.ScopeTimeBlock {
		t.Fatalf("scope = %q", capErr.Scope)
	}
}

func TestCustomerReschedule_ExcludesItselfFromCounts(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerReschedule(repo, nil)
	uc.now = fixedNow(repo)

	// Moving within its own block must not count the appointment
	// against itself.
	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")
	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")

	if _, err := uc.Execute(context.Background(), CustomerRescheduleInput{
		CustomerID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-09-14",
		Time:          "09:00",
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestCustomerReschedule_ForeignAppointment(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCustomerReschedule(repo, nil)
	uc.now = fixedNow(repo)

	ap := repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "pending")

	var authz domain.AuthorizationError
	_, err := uc.Execute(context.Background(), CustomerRescheduleInput{
		CustomerID:    2,
		AppointmentID: ap.ID,
		Date:          "2026-09-15",
		Time:          "09:00",
	})
	if !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}
