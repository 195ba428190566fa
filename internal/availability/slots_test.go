package availability

import (
	"slices"
	"testing"

	"github.com/agendavel/agendavel/internal/model"
)

// 2025-06-10 is a Tuesday.
const tuesday = "2025-06-10"

var weekHours = model.BusinessHours{
	"monday":    {Start: "08:00", End: "18:00"},
	"tuesday":   {Start: "08:00", End: "18:00"},
	"wednesday": {Start: "08:00", End: "18:00"},
	"thursday":  {Start: "08:00", End: "18:00"},
	"friday":    {Start: "08:00", End: "18:00"},
	"saturday":  {Start: "09:00", End: "13:00"},
	"sunday":    nil,
}

func TestGenerateAvailableSlots_FullOpenDay(t *testing.T) {
	slots := GenerateAvailableSlots(tuesday, 60, weekHours, nil, nil, "d1")
	if len(slots) != 20 {
		t.Fatalf("expected 20 slots for a 10h day with 60min service, got %d", len(slots))
	}
	if slots[0] != "08:00" {
		t.Fatalf("expected first slot 08:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "17:00" {
		t.Fatalf("expected last slot 17:00, got %s", slots[len(slots)-1])
	}
	if !slices.IsSorted(slots) {
		t.Fatal("slots should be in ascending order")
	}
}

func TestGenerateAvailableSlots_NeverPastClose(t *testing.T) {
	// 90-minute service: the last fitting start is 16:30.
	slots := GenerateAvailableSlots(tuesday, 90, weekHours, nil, nil, "d1")
	if len(slots) == 0 {
		t.Fatal("expected slots for a 90min service")
	}
	if last := slots[len(slots)-1]; last != "16:30" {
		t.Fatalf("expected last slot 16:30, got %s", last)
	}
	if slices.Contains(slots, "17:00") {
		t.Fatal("slot ending past close must not be offered")
	}
}

func TestGenerateAvailableSlots_HolidayIsEmpty(t *testing.T) {
	slots := GenerateAvailableSlots(tuesday, 60, weekHours, []string{tuesday}, nil, "d1")
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a holiday, got %d", len(slots))
	}
}

func TestGenerateAvailableSlots_ClosedWeekdayIsEmpty(t *testing.T) {
	// 2025-06-08 is a Sunday, closed in weekHours.
	slots := GenerateAvailableSlots("2025-06-08", 60, weekHours, nil, nil, "d1")
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a closed weekday, got %d", len(slots))
	}
}

func TestGenerateAvailableSlots_SkipsBookedWindows(t *testing.T) {
	booked := []model.Appointment{
		{ID: "a1", ProfessionalID: "d1", Date: tuesday, StartTime: "09:00", EndTime: "10:00", Status: model.StatusConfirmed},
	}

	slots := GenerateAvailableSlots(tuesday, 60, weekHours, nil, booked, "d1")
	if !slices.Contains(slots, "08:00") {
		t.Fatal("08:00 ends exactly at the booking start and should be offered")
	}
	for _, blocked := range []string{"08:30", "09:00", "09:30"} {
		if slices.Contains(slots, blocked) {
			t.Fatalf("slot %s overlaps the booking and should be skipped", blocked)
		}
	}
	if !slices.Contains(slots, "10:00") {
		t.Fatal("10:00 starts exactly at the booking end and should be offered")
	}
}

func TestGenerateAvailableSlots_CancelledAndNoShowFreeSlots(t *testing.T) {
	booked := []model.Appointment{
		{ID: "a1", ProfessionalID: "d1", Date: tuesday, StartTime: "09:00", EndTime: "10:00", Status: model.StatusCancelled},
		{ID: "a2", ProfessionalID: "d1", Date: tuesday, StartTime: "11:00", EndTime: "12:00", Status: model.StatusNoShow},
	}

	slots := GenerateAvailableSlots(tuesday, 60, weekHours, nil, booked, "d1")
	if !slices.Contains(slots, "09:00") || !slices.Contains(slots, "11:00") {
		t.Fatalf("cancelled and no_show windows should be bookable again, got %v", slots)
	}
}

func TestGenerateAvailableSlots_OtherProfessionalIgnored(t *testing.T) {
	booked := []model.Appointment{
		{ID: "a1", ProfessionalID: "d2", Date: tuesday, StartTime: "09:00", EndTime: "10:00", Status: model.StatusConfirmed},
	}
	slots := GenerateAvailableSlots(tuesday, 60, weekHours, nil, booked, "d1")
	if !slices.Contains(slots, "09:00") {
		t.Fatal("another professional's booking should not block d1")
	}
}

func TestGenerateAvailableSlots_InvalidInputs(t *testing.T) {
	if got := GenerateAvailableSlots(tuesday, 0, weekHours, nil, nil, "d1"); got != nil {
		t.Fatalf("zero duration should yield nil, got %v", got)
	}
	if got := GenerateAvailableSlots("not-a-date", 60, weekHours, nil, nil, "d1"); got != nil {
		t.Fatalf("invalid date should yield nil, got %v", got)
	}
}

func TestSuggestSlots_AdjacentFirst(t *testing.T) {
	booked := []model.Appointment{
		{ID: "a1", ProfessionalID: "d1", Date: tuesday, StartTime: "09:00", EndTime: "10:00", Status: model.StatusConfirmed},
	}
	available := []string{"08:00", "10:00", "10:30", "11:00", "11:30", "12:00"}

	suggested := SuggestSlots(available, booked, tuesday, "d1")
	if len(suggested) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(suggested))
	}
	if suggested[0] != "10:00" {
		t.Fatalf("slot adjacent to the booking should come first, got %s", suggested[0])
	}
}

func TestSuggestSlots_NoBookingsCapsAtFive(t *testing.T) {
	available := []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30"}
	suggested := SuggestSlots(available, nil, tuesday, "d1")
	if len(suggested) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(suggested))
	}
	if suggested[0] != "08:00" {
		t.Fatalf("expected plain order without bookings, got %s first", suggested[0])
	}
}
