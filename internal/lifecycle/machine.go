package lifecycle

import (
	"log/slog"

	"github.com/agendavel/agendavel/internal/model"
)

// validTransitions is the exhaustive legal-transition table. Terminal
// states map to an empty list.
var validTransitions = map[model.Status][]model.Status{
	model.StatusAvailable:   {model.StatusPendingHold},
	model.StatusPendingHold: {model.StatusConfirmed, model.StatusAvailable, model.StatusCancelled},
	model.StatusConfirmed:   {model.StatusReminded, model.StatusCancelled, model.StatusNoShow, model.StatusCompleted},
	model.StatusReminded:    {model.StatusCompleted, model.StatusNoShow, model.StatusCancelled},
	model.StatusCompleted:   {},
	model.StatusNoShow:      {},
	model.StatusCancelled:   {},
}

func CanTransition(from, to model.Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns requested when the transition is legal, otherwise the
// current status unchanged. Illegal requests are not errors: double-clicks
// and racing sweeps are expected, so they are logged at warn level and
// dropped. Callers must use the returned status, not the requested one.
func Transition(logger *slog.Logger, current, requested model.Status) model.Status {
	if CanTransition(current, requested) {
		return requested
	}
	if logger != nil {
		logger.Warn("invalid status transition ignored", "from", current, "to", requested)
	}
	return current
}
