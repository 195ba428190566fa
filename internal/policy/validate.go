// Package policy enforces the per-business booking rules: minimum lead
// time, rescheduling deadline, business-hours fit and the no-show grace
// period. All checks are pure predicates over an injected now.
package policy

import (
	"fmt"
	"slices"
	"time"

	"github.com/agendavel/agendavel/internal/model"
)

type Result struct {
	Valid bool
	Error string
}

func ok() Result { return Result{Valid: true} }

func invalid(format string, args ...any) Result {
	return Result{Valid: false, Error: fmt.Sprintf(format, args...)}
}

// ValidateLeadTime fails when the requested start is earlier than
// now + policy.LeadTimeMinutes.
func ValidateLeadTime(date, startTime string, pol model.Policy, now time.Time) Result {
	start, err := model.At(date, startTime, now.Location())
	if err != nil {
		return invalid("Data ou horário inválido")
	}
	minimum := now.Add(time.Duration(pol.LeadTimeMinutes) * time.Minute)
	if start.Before(minimum) {
		return invalid("É necessário agendar com pelo menos %g horas de antecedência", float64(pol.LeadTimeMinutes)/60)
	}
	return ok()
}

// ValidateRescheduling fails when now is past the rescheduling deadline
// (appointment start minus policy.ReschedulingHoursBefore).
func ValidateRescheduling(currentDate, currentStartTime string, pol model.Policy, now time.Time) Result {
	start, err := model.At(currentDate, currentStartTime, now.Location())
	if err != nil {
		return invalid("Data ou horário inválido")
	}
	deadline := start.Add(-time.Duration(pol.ReschedulingHoursBefore) * time.Hour)
	if now.After(deadline) {
		return invalid("Reagendamento deve ser feito com pelo menos %d horas de antecedência", pol.ReschedulingHoursBefore)
	}
	return ok()
}

// ValidateBusinessHours fails on holidays, closed weekdays and windows
// outside the day's opening hours.
func ValidateBusinessHours(date, startTime, endTime string, hours model.BusinessHours, holidays []string) Result {
	if slices.Contains(holidays, date) {
		return invalid("Não há atendimento em feriados")
	}

	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return invalid("Data inválida")
	}
	window := hours[model.WeekdayKey(day.Weekday())]
	if window == nil {
		return invalid("Não há atendimento neste dia da semana")
	}

	start, err := model.ParseClock(startTime)
	if err != nil {
		return invalid("Horário inválido")
	}
	end, err := model.ParseClock(endTime)
	if err != nil {
		return invalid("Horário inválido")
	}
	winStart, err := model.ParseClock(window.Start)
	if err != nil {
		return invalid("Horário comercial mal configurado")
	}
	winEnd, err := model.ParseClock(window.End)
	if err != nil {
		return invalid("Horário comercial mal configurado")
	}

	if start.Before(winStart) || end.After(winEnd) {
		return invalid("Horário comercial: %s às %s", window.Start, window.End)
	}
	return ok()
}

// ShouldMarkNoShow reports whether the grace period after the appointment
// start has elapsed.
func ShouldMarkNoShow(date, startTime string, pol model.Policy, now time.Time) bool {
	start, err := model.At(date, startTime, now.Location())
	if err != nil {
		return false
	}
	threshold := start.Add(time.Duration(pol.NoShowDelayMinutes) * time.Minute)
	return now.After(threshold)
}
