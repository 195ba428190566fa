package handlers

import (
	"net/http"

	"github.com/agendavel/agendavel/internal/metrics"
)

type reportsResponse struct {
	Summary          metrics.Summary `json:"summary"`
	NoShowRate       float64         `json:"no_show_rate"`
	ConfirmationRate float64         `json:"confirmation_rate"`
}

func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	appointments := h.manager.Appointments()
	writeJSON(w, http.StatusOK, reportsResponse{
		Summary:          metrics.Calculate(appointments),
		NoShowRate:       metrics.NoShowRate(appointments),
		ConfirmationRate: metrics.ConfirmationRate(appointments),
	})
}
