package conflict

import (
	"strings"
	"testing"

	"github.com/agendavel/agendavel/internal/model"
)

func existing(id, patientID, professionalID, date, start, end string, status model.Status) model.Appointment {
	return model.Appointment{
		ID:             id,
		PatientID:      patientID,
		ProfessionalID: professionalID,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Status:         status,
	}
}

func TestPatient_OverlapBlocks(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "14:00", "15:00", model.StatusConfirmed),
	}

	res := Patient("p1", "2025-06-10", "14:30", "15:30", apts, "")
	if res.Valid {
		t.Fatal("expected overlapping booking to be rejected")
	}
	if res.Conflicting == nil || res.Conflicting.ID != "a1" {
		t.Fatalf("expected conflicting appointment a1, got %+v", res.Conflicting)
	}
	if !strings.Contains(res.Error, "14:00") {
		t.Fatalf("error should name the existing start time, got %q", res.Error)
	}
}

func TestPatient_BackToBackDoesNotConflict(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "14:00", "15:00", model.StatusConfirmed),
	}

	if res := Patient("p1", "2025-06-10", "15:00", "16:00", apts, ""); !res.Valid {
		t.Fatalf("adjacent window should not conflict: %s", res.Error)
	}
	if res := Patient("p1", "2025-06-10", "13:00", "14:00", apts, ""); !res.Valid {
		t.Fatalf("adjacent window should not conflict: %s", res.Error)
	}
}

func TestPatient_CancelledDoesNotBlock(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "14:00", "15:00", model.StatusCancelled),
	}
	if res := Patient("p1", "2025-06-10", "14:00", "15:00", apts, ""); !res.Valid {
		t.Fatalf("cancelled appointment should not block: %s", res.Error)
	}
}

func TestPatient_NoShowStillBlocks(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "14:00", "15:00", model.StatusNoShow),
	}
	if res := Patient("p1", "2025-06-10", "14:00", "15:00", apts, ""); res.Valid {
		t.Fatal("no_show appointment should still block booking")
	}
}

func TestPatient_ExcludeIDSkipsSelf(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "14:00", "15:00", model.StatusConfirmed),
	}
	if res := Patient("p1", "2025-06-10", "14:00", "15:00", apts, "a1"); !res.Valid {
		t.Fatalf("excluded appointment should not conflict with itself: %s", res.Error)
	}
}

func TestPatient_OtherDateOrPatientIgnored(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-11", "14:00", "15:00", model.StatusConfirmed),
		existing("a2", "p2", "d1", "2025-06-10", "14:00", "15:00", model.StatusConfirmed),
	}
	if res := Patient("p1", "2025-06-10", "14:00", "15:00", apts, ""); !res.Valid {
		t.Fatalf("unrelated appointments should not block: %s", res.Error)
	}
}

func TestProfessional_OverlapBlocks(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "09:00", "10:00", model.StatusPendingHold),
	}
	res := Professional("d1", "2025-06-10", "09:30", "10:30", apts, "")
	if res.Valid {
		t.Fatal("expected overlapping booking to be rejected")
	}
}

func TestHasSlotConflict_NoShowFreesSlot(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "14:00", "15:00", model.StatusNoShow),
	}
	if HasSlotConflict("2025-06-10", "14:00", "15:00", "d1", apts, "") {
		t.Fatal("no_show should free the slot for regeneration")
	}

	apts[0].Status = model.StatusConfirmed
	if !HasSlotConflict("2025-06-10", "14:00", "15:00", "d1", apts, "") {
		t.Fatal("confirmed appointment should occupy the slot")
	}
}

func TestClocksOverlap_UnparseableIsNonBlocking(t *testing.T) {
	apts := []model.Appointment{
		existing("a1", "p1", "d1", "2025-06-10", "bogus", "15:00", model.StatusConfirmed),
	}
	if res := Patient("p1", "2025-06-10", "14:00", "15:00", apts, ""); !res.Valid {
		t.Fatalf("unparseable stored time should not block: %s", res.Error)
	}
}
