package lifecycle

import (
	"testing"

	"github.com/agendavel/agendavel/internal/model"
)

func TestCanTransition_Legal(t *testing.T) {
	cases := []struct {
		from, to model.Status
	}{
		{model.StatusAvailable, model.StatusPendingHold},
		{model.StatusPendingHold, model.StatusConfirmed},
		{model.StatusPendingHold, model.StatusAvailable},
		{model.StatusPendingHold, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusReminded},
		{model.StatusConfirmed, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusNoShow},
		{model.StatusConfirmed, model.StatusCompleted},
		{model.StatusReminded, model.StatusCompleted},
		{model.StatusReminded, model.StatusNoShow},
		{model.StatusReminded, model.StatusCancelled},
	}
	for _, c := range cases {
		if !CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be legal", c.from, c.to)
		}
	}
}

func TestCanTransition_Illegal(t *testing.T) {
	cases := []struct {
		from, to model.Status
	}{
		{model.StatusAvailable, model.StatusConfirmed},
		{model.StatusAvailable, model.StatusCompleted},
		{model.StatusPendingHold, model.StatusCompleted},
		{model.StatusPendingHold, model.StatusNoShow},
		{model.StatusConfirmed, model.StatusAvailable},
		{model.StatusConfirmed, model.StatusPendingHold},
		{model.StatusReminded, model.StatusConfirmed},
		{model.StatusReminded, model.StatusAvailable},
	}
	for _, c := range cases {
		if CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be illegal", c.from, c.to)
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []model.Status{model.StatusCompleted, model.StatusNoShow, model.StatusCancelled} {
		for _, to := range model.AllStatuses {
			if CanTransition(from, to) {
				t.Errorf("terminal state %s allows transition to %s", from, to)
			}
		}
	}
}

func TestTransition_FailSoft(t *testing.T) {
	got := Transition(nil, model.StatusCompleted, model.StatusConfirmed)
	if got != model.StatusCompleted {
		t.Fatalf("illegal request should keep current status, got %s", got)
	}

	got = Transition(nil, model.StatusPendingHold, model.StatusConfirmed)
	if got != model.StatusConfirmed {
		t.Fatalf("legal request should return requested status, got %s", got)
	}

	got = Transition(nil, model.StatusConfirmed, model.StatusConfirmed)
	if got != model.StatusConfirmed {
		t.Fatalf("self transition should be a no-op keep, got %s", got)
	}
}
