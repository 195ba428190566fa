// Package metrics derives reporting aggregates from the appointment
// collection.
package metrics

import (
	"time"

	"github.com/agendavel/agendavel/internal/model"
)

type Summary struct {
	TotalAppointments       int     `json:"total_appointments"`
	ConfirmedAppointments   int     `json:"confirmed_appointments"`
	NoShows                 int     `json:"no_shows"`
	Cancellations           int     `json:"cancellations"`
	UtilizationRate         float64 `json:"utilization_rate"`           // percent
	AverageConfirmationTime float64 `json:"average_confirmation_time"` // minutes
}

func isConfirmedish(s model.Status) bool {
	return s == model.StatusConfirmed || s == model.StatusReminded || s == model.StatusCompleted
}

func Calculate(appointments []model.Appointment) Summary {
	var out Summary
	out.TotalAppointments = len(appointments)

	var completed int
	var confirmationMinutes float64
	for _, apt := range appointments {
		switch {
		case isConfirmedish(apt.Status):
			out.ConfirmedAppointments++
		case apt.Status == model.StatusNoShow:
			out.NoShows++
		case apt.Status == model.StatusCancelled:
			out.Cancellations++
		}
		if apt.Status == model.StatusCompleted {
			completed++
		}
		if isConfirmedish(apt.Status) {
			created, errC := time.Parse(time.RFC3339, apt.CreatedAt)
			updated, errU := time.Parse(time.RFC3339, apt.UpdatedAt)
			if errC == nil && errU == nil {
				confirmationMinutes += updated.Sub(created).Minutes()
			}
		}
	}

	if out.TotalAppointments > 0 {
		out.UtilizationRate = float64(completed) / float64(out.TotalAppointments) * 100
	}
	if out.ConfirmedAppointments > 0 {
		out.AverageConfirmationTime = confirmationMinutes / float64(out.ConfirmedAppointments)
	}
	return out
}

// NoShowRate is no-shows over finished appointments (completed + no-show),
// in percent.
func NoShowRate(appointments []model.Appointment) float64 {
	var noShows, eligible int
	for _, apt := range appointments {
		switch apt.Status {
		case model.StatusNoShow:
			noShows++
			eligible++
		case model.StatusCompleted:
			eligible++
		}
	}
	if eligible == 0 {
		return 0
	}
	return float64(noShows) / float64(eligible) * 100
}

// ConfirmationRate is confirmed over confirmed-plus-pending, in percent.
func ConfirmationRate(appointments []model.Appointment) float64 {
	var pending, confirmed int
	for _, apt := range appointments {
		if apt.Status == model.StatusPendingHold {
			pending++
		}
		if isConfirmedish(apt.Status) {
			confirmed++
		}
	}
	total := pending + confirmed
	if total == 0 {
		return 0
	}
	return float64(confirmed) / float64(total) * 100
}

// GroupByDay buckets appointments by calendar day.
func GroupByDay(appointments []model.Appointment) map[string][]model.Appointment {
	out := make(map[string][]model.Appointment)
	for _, apt := range appointments {
		out[apt.Date] = append(out[apt.Date], apt)
	}
	return out
}
