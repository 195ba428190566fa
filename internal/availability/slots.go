// Package availability derives bookable start times for a day from
// business hours, holidays, service duration and existing appointments.
package availability

import (
	"slices"
	"time"

	"github.com/agendavel/agendavel/internal/conflict"
	"github.com/agendavel/agendavel/internal/model"
)

// slotStep is the walk granularity. Fixed at 30 minutes to match the
// calendar grid; services whose duration is not a multiple of 30 may
// under-pack the day.
const slotStep = 30 * time.Minute

// GenerateAvailableSlots returns ascending HH:mm start times on date where
// a booking of serviceDuration minutes fits inside the business-hours
// window without conflicting with the professional's existing appointments.
// Holidays and closed weekdays yield no slots. Deterministic for the same
// inputs.
func GenerateAvailableSlots(
	date string,
	serviceDurationMinutes int,
	hours model.BusinessHours,
	holidays []string,
	existing []model.Appointment,
	professionalID string,
) []string {
	if serviceDurationMinutes <= 0 {
		return nil
	}
	if slices.Contains(holidays, date) {
		return nil
	}

	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return nil
	}
	window := hours[model.WeekdayKey(day.Weekday())]
	if window == nil {
		return nil
	}

	winStart, err := model.ParseClock(window.Start)
	if err != nil {
		return nil
	}
	winEnd, err := model.ParseClock(window.End)
	if err != nil {
		return nil
	}

	duration := time.Duration(serviceDurationMinutes) * time.Minute
	var slots []string
	for cur := winStart; cur.Before(winEnd); cur = cur.Add(slotStep) {
		slotEnd := cur.Add(duration)
		if slotEnd.After(winEnd) {
			continue
		}
		start := cur.Format(model.ClockLayout)
		end := slotEnd.Format(model.ClockLayout)
		if !conflict.HasSlotConflict(date, start, end, professionalID, existing, "") {
			slots = append(slots, start)
		}
	}
	return slots
}

// SuggestSlots orders up to five available slots so that ones adjacent to
// existing bookings come first, keeping the day packed.
func SuggestSlots(available []string, existing []model.Appointment, date, professionalID string) []string {
	var dayAppointments []model.Appointment
	for _, apt := range existing {
		if apt.Date != date || apt.ProfessionalID != professionalID {
			continue
		}
		if apt.Status == model.StatusCancelled || apt.Status == model.StatusNoShow {
			continue
		}
		dayAppointments = append(dayAppointments, apt)
	}
	slices.SortFunc(dayAppointments, func(a, b model.Appointment) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		}
		return 0
	})

	if len(dayAppointments) == 0 {
		if len(available) > 5 {
			return available[:5]
		}
		return available
	}

	var suggested []string
	for _, apt := range dayAppointments {
		if slices.Contains(available, apt.EndTime) && !slices.Contains(suggested, apt.EndTime) {
			suggested = append(suggested, apt.EndTime)
		}
	}
	for _, slot := range available {
		if !slices.Contains(suggested, slot) {
			suggested = append(suggested, slot)
		}
		if len(suggested) >= 5 {
			break
		}
	}
	if len(suggested) > 5 {
		suggested = suggested[:5]
	}
	return suggested
}
