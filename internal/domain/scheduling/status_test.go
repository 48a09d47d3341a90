package scheduling

import (
	"strings"
	"testing"
)

func TestStatusValidity(t *testing.T) {
	valid := []Status{
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}
	for _, s := range valid {
		if !IsValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if IsValidStatus(Status("done")) {
		t.Fatal("unknown status accepted")
	}

	if InitialStatus() != StatusPending {
		t.Fatalf("initial status = %q", InitialStatus())
	}
}

func TestIsActiveReleasesCapacity(t *testing.T) {
	if !IsActive(StatusPending) || !IsActive(StatusConfirmed) ||
		!IsActive(StatusInProgress) || !IsActive(StatusCompleted) {
		t.Fatal("live statuses must count against capacity")
	}
	if IsActive(StatusCancelled) || IsActive(StatusNoShow) {
		t.Fatal("cancelled and no-show must release capacity")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if !IsTerminal(s) {
			t.Fatalf("expected %q terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
		if IsTerminal(s) {
			t.Fatalf("expected %q not terminal", s)
		}
	}
}

func TestCanCustomerModify(t *testing.T) {
	if err := CanCustomerModify(StatusPending); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if err := CanCustomerModify(StatusConfirmed); err != nil {
		t.Fatalf("confirmed: %v", err)
	}

	for _, s := range []Status{StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		err := CanCustomerModify(s)
		if err == nil {
			t.Fatalf("expected StateError for %q", s)
		}
		if _, ok := err.(StateError); !ok {
			t.Fatalf("expected StateError, got %T", err)
		}
	}
}

func TestCanAssign(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
		if err := CanAssign(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if err := CanAssign(s); err == nil {
			t.Fatalf("expected StateError for %q", s)
		}
	}
}

func TestCanDelete(t *testing.T) {
	if err := CanDelete(StatusConfirmed); err != nil {
		t.Fatalf("confirmed: %v", err)
	}
	if err := CanDelete(StatusInProgress); err == nil {
		t.Fatal("expected StateError once work has started")
	}
}

func TestCapacityExceededErrorMessages(t *testing.T) {
	day := CapacityExceededError{Scope: ScopeDay, Limit: 12}
	if !strings.Contains(day.Error(), "12") {
		t.Fatalf("day message missing limit: %q", day.Error())
	}

	block := CapacityExceededError{Scope: ScopeTimeBlock, Limit: 2, BlockMinutes: 30}
	msg := block.Error()
	if !strings.Contains(msg, "2") || !strings.Contains(msg, "30") {
		t.Fatalf("block message missing limit or interval: %q", msg)
	}
}
