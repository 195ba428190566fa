package model

import (
	"testing"
	"time"
)

func TestParseClock_ComparableAcrossDays(t *testing.T) {
	a, err := ParseClock("08:30")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	b, err := ParseClock("17:00")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if !a.Before(b) {
		t.Fatal("08:30 should sort before 17:00")
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
	if _, err := ParseClock("8h30"); err == nil {
		t.Fatal("expected error for malformed clock")
	}
}

func TestAt(t *testing.T) {
	got, err := At("2025-06-10", "14:30", time.UTC)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	want := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if _, err := At("2025-13-01", "14:30", time.UTC); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestWeekdayKey(t *testing.T) {
	if got := WeekdayKey(time.Tuesday); got != "tuesday" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := WeekdayKey(time.Sunday); got != "sunday" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestStatus_ValidAndTerminal(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("agendado").Valid() {
		t.Error("unknown status should not be valid")
	}
	for _, s := range []Status{StatusCompleted, StatusNoShow, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusAvailable, StatusPendingHold, StatusConfirmed, StatusReminded} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
