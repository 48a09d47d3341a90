package scheduling

import (
	"context"
	"testing"
)

func TestCheckTimeBlock_OpenBlock(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckTimeBlock(repo)

	repo.seed(mondayAt(repo, 13, 0), mondayAt(repo, 13, 30), "confirmed")

	out, err := uc.Execute(context.Background(), mondayAt(repo, 0, 0), "13:00")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !out.IsAvailable {
		t.Fatal("block with one booking should be available")
	}
	if out.CurrentBookings != 1 || out.MaxCapacity != 2 {
		t.Fatalf("usage = %d/%d", out.CurrentBookings, out.MaxCapacity)
	}
	if len(out.Alternatives) != 0 {
		t.Fatal("no alternatives expected while the block is open")
	}
	if !out.BlockStart.Equal(mondayAt(repo, 13, 0)) || !out.BlockEnd.Equal(mondayAt(repo, 13, 30)) {
		t.Fatalf("block bounds = %v .. %v", out.BlockStart, out.BlockEnd)
	}
}

func TestCheckTimeBlock_FullBlockSuggestsNearest(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckTimeBlock(repo)

	repo.seed(mondayAt(repo, 13, 0), mondayAt(repo, 13, 30), "pending")
	repo.seed(mondayAt(repo, 13, 0), mondayAt(repo, 13, 30), "confirmed")

	out, err := uc.Execute(context.Background(), mondayAt(repo, 0, 0), "13:00")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.IsAvailable {
		t.Fatal("full block reported available")
	}
	if len(out.Alternatives) != 3 {
		t.Fatalf("alternatives = %d, want 3", len(out.Alternatives))
	}
	// Adjacent blocks come first.
	first := out.Alternatives[0].StartTime
	if !first.Equal(mondayAt(repo, 12, 30)) && !first.Equal(mondayAt(repo, 13, 30)) {
		t.Fatalf("nearest alternative starts at %v", first)
	}
	for _, alt := range out.Alternatives {
		if alt.StartTime.Equal(mondayAt(repo, 13, 0)) {
			t.Fatal("full target block suggested as its own alternative")
		}
		if alt.AvailableCapacity < 1 {
			t.Fatalf("suggested a full block: %+v", alt)
		}
	}
}

func TestCheckDailyCapacity_CountsAndBlocks(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCheckDailyCapacity(repo)

	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")
	repo.seed(mondayAt(repo, 14, 0), mondayAt(repo, 14, 30), "pending")
	repo.seed(mondayAt(repo, 15, 0), mondayAt(repo, 15, 30), "cancelled")

	out, err := uc.Execute(context.Background(), mondayAt(repo, 0, 0))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.Date != "2026-09-14" {
		t.Fatalf("date = %q", out.Date)
	}
	if out.TotalBookings != 2 {
		t.Fatalf("total = %d, want 2 (cancelled excluded)", out.TotalBookings)
	}
	if !out.IsAvailable || out.MaxDailyBookings != 12 {
		t.Fatalf("availability = %v against %d", out.IsAvailable, out.MaxDailyBookings)
	}

	// 09:00-17:00 in 30-minute blocks.
	if len(out.TimeBlocks) != 16 {
		t.Fatalf("blocks = %d, want 16", len(out.TimeBlocks))
	}
	for _, b := range out.TimeBlocks {
		want := 0
		if b.BlockStart.Equal(mondayAt(repo, 9, 0)) || b.BlockStart.Equal(mondayAt(repo, 14, 0)) {
			want = 1
		}
		if b.Bookings != want {
			t.Fatalf("block %v bookings = %d, want %d", b.BlockStart, b.Bookings, want)
		}
	}
}

func TestCheckDailyCapacity_FullDay(t *testing.T) {
	repo := newFakeRepo()
	repo.settings.AppointmentsPerDay = 2
	uc := NewCheckDailyCapacity(repo)

	repo.seed(mondayAt(repo, 9, 0), mondayAt(repo, 9, 30), "confirmed")
	repo.seed(mondayAt(repo, 10, 0), mondayAt(repo, 10, 30), "confirmed")

	out, err := uc.Execute(context.Background(), mondayAt(repo, 0, 0))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.IsAvailable {
		t.Fatal("day at its limit reported available")
	}
}
