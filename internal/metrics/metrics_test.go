package metrics

import (
	"testing"

	"github.com/agendavel/agendavel/internal/model"
)

func withStatus(statuses ...model.Status) []model.Appointment {
	out := make([]model.Appointment, len(statuses))
	for i, s := range statuses {
		out[i] = model.Appointment{ID: string(rune('a' + i)), Date: "2025-06-10", Status: s}
	}
	return out
}

func TestCalculate(t *testing.T) {
	apts := withStatus(
		model.StatusConfirmed,
		model.StatusReminded,
		model.StatusCompleted,
		model.StatusNoShow,
		model.StatusCancelled,
		model.StatusPendingHold,
	)

	sum := Calculate(apts)
	if sum.TotalAppointments != 6 {
		t.Fatalf("total: got %d", sum.TotalAppointments)
	}
	if sum.ConfirmedAppointments != 3 {
		t.Fatalf("confirmed: got %d", sum.ConfirmedAppointments)
	}
	if sum.NoShows != 1 || sum.Cancellations != 1 {
		t.Fatalf("no-shows %d, cancellations %d", sum.NoShows, sum.Cancellations)
	}
	// 1 completed of 6 total.
	if sum.UtilizationRate < 16.6 || sum.UtilizationRate > 16.7 {
		t.Fatalf("utilization: got %f", sum.UtilizationRate)
	}
}

func TestCalculate_Empty(t *testing.T) {
	sum := Calculate(nil)
	if sum.TotalAppointments != 0 || sum.UtilizationRate != 0 || sum.AverageConfirmationTime != 0 {
		t.Fatalf("empty input should yield zero summary: %+v", sum)
	}
}

func TestNoShowRate(t *testing.T) {
	apts := withStatus(model.StatusCompleted, model.StatusCompleted, model.StatusCompleted, model.StatusNoShow)
	if got := NoShowRate(apts); got != 25 {
		t.Fatalf("expected 25%%, got %f", got)
	}
	// Pending and confirmed are not finished, so they never dilute the rate.
	apts = withStatus(model.StatusPendingHold, model.StatusConfirmed)
	if got := NoShowRate(apts); got != 0 {
		t.Fatalf("expected 0%% with no finished appointments, got %f", got)
	}
}

func TestConfirmationRate(t *testing.T) {
	apts := withStatus(model.StatusPendingHold, model.StatusConfirmed, model.StatusReminded, model.StatusCompleted)
	if got := ConfirmationRate(apts); got != 75 {
		t.Fatalf("expected 75%%, got %f", got)
	}
	if got := ConfirmationRate(nil); got != 0 {
		t.Fatalf("expected 0%% for empty input, got %f", got)
	}
}

func TestGroupByDay(t *testing.T) {
	apts := []model.Appointment{
		{ID: "a1", Date: "2025-06-10"},
		{ID: "a2", Date: "2025-06-10"},
		{ID: "a3", Date: "2025-06-11"},
	}
	grouped := GroupByDay(apts)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 days, got %d", len(grouped))
	}
	if len(grouped["2025-06-10"]) != 2 {
		t.Fatalf("expected 2 on 2025-06-10, got %d", len(grouped["2025-06-10"]))
	}
}
