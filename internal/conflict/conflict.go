// Package conflict implements time-window conflict detection for one
// participant (patient or professional) on a given calendar day.
package conflict

import (
	"fmt"

	"github.com/agendavel/agendavel/internal/model"
)

// Result reports the outcome of a conflict check. When Valid is false,
// Conflicting points at the first appointment found occupying the window.
type Result struct {
	Valid       bool
	Conflicting *model.Appointment
	Error       string
}

func ok() Result { return Result{Valid: true} }

// Patient checks whether the patient already holds an appointment
// overlapping [start, end) on date. Cancelled appointments never block;
// no-shows still do.
func Patient(patientID, date, start, end string, appointments []model.Appointment, excludeID string) Result {
	for i := range appointments {
		apt := &appointments[i]
		if apt.ID == excludeID {
			continue
		}
		if apt.Status == model.StatusCancelled {
			continue
		}
		if apt.PatientID != patientID || apt.Date != date {
			continue
		}
		if clocksOverlap(start, end, apt.StartTime, apt.EndTime) {
			return Result{
				Valid:       false,
				Conflicting: apt,
				Error:       fmt.Sprintf("Conflito: o paciente já possui agendamento às %s nesta data", apt.StartTime),
			}
		}
	}
	return ok()
}

// Professional checks whether the professional already holds an appointment
// overlapping [start, end) on date. Same blocking rules as Patient.
func Professional(professionalID, date, start, end string, appointments []model.Appointment, excludeID string) Result {
	for i := range appointments {
		apt := &appointments[i]
		if apt.ID == excludeID {
			continue
		}
		if apt.Status == model.StatusCancelled {
			continue
		}
		if apt.ProfessionalID != professionalID || apt.Date != date {
			continue
		}
		if clocksOverlap(start, end, apt.StartTime, apt.EndTime) {
			return Result{
				Valid:       false,
				Conflicting: apt,
				Error:       fmt.Sprintf("Conflito: o profissional já possui agendamento às %s", apt.StartTime),
			}
		}
	}
	return ok()
}

// HasSlotConflict is the professional-scoped check used by slot generation.
// Unlike Professional it also treats no_show as freeing the slot.
func HasSlotConflict(date, start, end, professionalID string, appointments []model.Appointment, excludeID string) bool {
	for i := range appointments {
		apt := &appointments[i]
		if apt.ID == excludeID {
			continue
		}
		if apt.Date != date || apt.ProfessionalID != professionalID {
			continue
		}
		if apt.Status == model.StatusCancelled || apt.Status == model.StatusNoShow {
			continue
		}
		if clocksOverlap(start, end, apt.StartTime, apt.EndTime) {
			return true
		}
	}
	return false
}

// clocksOverlap tests half-open overlap of two HH:mm windows on the same
// day: start1 < end2 && end1 > start2. Back-to-back windows do not overlap.
// Unparseable stored times are treated as non-blocking.
func clocksOverlap(start1, end1, start2, end2 string) bool {
	s1, err := model.ParseClock(start1)
	if err != nil {
		return false
	}
	e1, err := model.ParseClock(end1)
	if err != nil {
		return false
	}
	s2, err := model.ParseClock(start2)
	if err != nil {
		return false
	}
	e2, err := model.ParseClock(end2)
	if err != nil {
		return false
	}
	return s1.Before(e2) && e1.After(s2)
}
