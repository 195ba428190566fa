package handlers

import (
	"net/http"
	"strings"

	"github.com/agendavel/agendavel/internal/messages"
)

func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	patientID := strings.TrimSpace(r.URL.Query().Get("patient_id"))
	if patientID == "" {
		http.Error(w, "patient_id required", http.StatusBadRequest)
		return
	}

	msgs := h.log.ByPatient(patientID)
	if msgs == nil {
		msgs = []messages.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": h.log.UnreadCount()})
}
