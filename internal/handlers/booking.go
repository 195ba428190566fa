// Package handlers exposes the appointment engine over HTTP. The booking
// flow owns validation: policy and conflict checks run here, before the
// lifecycle manager is asked to mutate anything.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agendavel/agendavel/internal/availability"
	"github.com/agendavel/agendavel/internal/conflict"
	"github.com/agendavel/agendavel/internal/lifecycle"
	"github.com/agendavel/agendavel/internal/messages"
	"github.com/agendavel/agendavel/internal/model"
	"github.com/agendavel/agendavel/internal/policy"
	"github.com/agendavel/agendavel/internal/profile"
	"github.com/agendavel/agendavel/internal/registry"
)

type Handler struct {
	manager  *lifecycle.Manager
	registry *registry.Registry
	log      *messages.Log
	profile  profile.Profile
	logger   *slog.Logger
}

func New(manager *lifecycle.Manager, reg *registry.Registry, log *messages.Log, prof profile.Profile, logger *slog.Logger) *Handler {
	return &Handler{
		manager:  manager,
		registry: reg,
		log:      log,
		profile:  prof,
		logger:   logger,
	}
}

type validationResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeInvalid(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, validationResponse{Valid: false, Error: msg})
}

type createRequest struct {
	PatientID      string `json:"patient_id"`
	ProfessionalID string `json:"professional_id"`
	ServiceID      string `json:"service_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.ProfessionalID = strings.TrimSpace(req.ProfessionalID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)

	if req.PatientID == "" || req.ProfessionalID == "" || req.ServiceID == "" || req.Date == "" || req.StartTime == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	initial := model.StatusPendingHold
	if req.Status != "" {
		initial = model.Status(req.Status)
		if initial != model.StatusPendingHold && initial != model.StatusConfirmed {
			http.Error(w, "status must be reservado_pendente or confirmado", http.StatusBadRequest)
			return
		}
	}

	if _, ok := h.registry.Patient(req.PatientID); !ok {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if _, ok := h.registry.Professional(req.ProfessionalID); !ok {
		http.Error(w, "professional not found", http.StatusNotFound)
		return
	}
	svc, ok := h.profile.Service(req.ServiceID)
	if !ok {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	endTime, err := addMinutes(req.StartTime, svc.DurationMinutes)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}

	now := h.manager.Now()
	pol := h.manager.Policy()
	if res := policy.ValidateLeadTime(req.Date, req.StartTime, pol, now); !res.Valid {
		writeInvalid(w, http.StatusUnprocessableEntity, res.Error)
		return
	}
	if res := policy.ValidateBusinessHours(req.Date, req.StartTime, endTime, h.profile.BusinessHours, h.profile.Holidays); !res.Valid {
		writeInvalid(w, http.StatusUnprocessableEntity, res.Error)
		return
	}

	appointments := h.manager.Appointments()
	if res := conflict.Patient(req.PatientID, req.Date, req.StartTime, endTime, appointments, ""); !res.Valid {
		writeInvalid(w, http.StatusConflict, res.Error)
		return
	}
	if res := conflict.Professional(req.ProfessionalID, req.Date, req.StartTime, endTime, appointments, ""); !res.Valid {
		writeInvalid(w, http.StatusConflict, res.Error)
		return
	}

	apt, err := h.manager.Create(r.Context(), lifecycle.CreateInput{
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        endTime,
		Status:         initial,
		Notes:          req.Notes,
	})
	if err != nil {
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}

	if apt.Status == model.StatusConfirmed {
		h.notify(r, apt, "confirm", messages.KindConfirmation)
	}
	writeJSON(w, http.StatusCreated, apt)
}

type statusChangeRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type statusChangeResponse struct {
	AppointmentID string       `json:"appointment_id"`
	Status        model.Status `json:"status"`
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, model.StatusConfirmed, "confirm", messages.KindConfirmation)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, model.StatusCancelled, "cancel", messages.KindCancellation)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, model.StatusCompleted, "csat", messages.KindCSAT)
}

func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, model.StatusNoShow, "noshow", messages.KindChat)
}

// changeStatus applies a requested transition and reports the status that
// actually resulted. An illegal request is not an HTTP error: the state
// machine keeps the current status and the caller sees it in the response.
func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, target model.Status, templateKind string, msgKind messages.Kind) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req statusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id required", http.StatusBadRequest)
		return
	}

	before, found := h.manager.Get(req.AppointmentID)
	if !found {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}

	apt, err := h.manager.UpdateStatus(r.Context(), req.AppointmentID, target)
	if err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}

	if apt.Status == target && before.Status != target {
		h.notify(r, apt, templateKind, msgKind)
	}
	writeJSON(w, http.StatusOK, statusChangeResponse{AppointmentID: apt.ID, Status: apt.Status})
}

type rescheduleRequest struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
}

func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)
	if req.AppointmentID == "" || req.Date == "" || req.StartTime == "" {
		http.Error(w, "appointment_id, date and start_time required", http.StatusBadRequest)
		return
	}

	apt, found := h.manager.Get(req.AppointmentID)
	if !found {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if apt.Status.Terminal() {
		http.Error(w, "appointment cannot be rescheduled", http.StatusConflict)
		return
	}

	svc, ok := h.profile.Service(apt.ServiceID)
	if !ok {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	endTime, err := addMinutes(req.StartTime, svc.DurationMinutes)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}

	now := h.manager.Now()
	pol := h.manager.Policy()
	if res := policy.ValidateRescheduling(apt.Date, apt.StartTime, pol, now); !res.Valid {
		writeInvalid(w, http.StatusUnprocessableEntity, res.Error)
		return
	}
	if res := policy.ValidateBusinessHours(req.Date, req.StartTime, endTime, h.profile.BusinessHours, h.profile.Holidays); !res.Valid {
		writeInvalid(w, http.StatusUnprocessableEntity, res.Error)
		return
	}

	appointments := h.manager.Appointments()
	if res := conflict.Patient(apt.PatientID, req.Date, req.StartTime, endTime, appointments, apt.ID); !res.Valid {
		writeInvalid(w, http.StatusConflict, res.Error)
		return
	}
	if res := conflict.Professional(apt.ProfessionalID, req.Date, req.StartTime, endTime, appointments, apt.ID); !res.Valid {
		writeInvalid(w, http.StatusConflict, res.Error)
		return
	}

	updated, err := h.manager.Reschedule(r.Context(), apt.ID, req.Date, req.StartTime, endTime)
	if err != nil {
		http.Error(w, "failed to reschedule appointment", http.StatusInternalServerError)
		return
	}

	h.notify(r, updated, "reschedule", messages.KindRescheduling)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var appointments []model.Appointment
	switch {
	case r.URL.Query().Get("date") != "":
		appointments = h.manager.ByDate(strings.TrimSpace(r.URL.Query().Get("date")))
	case r.URL.Query().Get("status") != "":
		status := model.Status(strings.TrimSpace(r.URL.Query().Get("status")))
		if !status.Valid() {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		appointments = h.manager.ByStatus(status)
	default:
		appointments = h.manager.Appointments()
	}

	if appointments == nil {
		appointments = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appointments)
}

type slotsResponse struct {
	Date           string   `json:"date"`
	ServiceID      string   `json:"service_id"`
	ProfessionalID string   `json:"professional_id"`
	Slots          []string `json:"slots"`
	Suggested      []string `json:"suggested"`
}

func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	professionalID := strings.TrimSpace(r.URL.Query().Get("professional_id"))
	if date == "" || serviceID == "" || professionalID == "" {
		http.Error(w, "date, service_id and professional_id are required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	svc, ok := h.profile.Service(serviceID)
	if !ok {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	appointments := h.manager.Appointments()
	slots := availability.GenerateAvailableSlots(date, svc.DurationMinutes, h.profile.BusinessHours, h.profile.Holidays, appointments, professionalID)
	suggested := availability.SuggestSlots(slots, appointments, date, professionalID)

	if slots == nil {
		slots = []string{}
	}
	if suggested == nil {
		suggested = []string{}
	}
	writeJSON(w, http.StatusOK, slotsResponse{
		Date:           date,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Slots:          slots,
		Suggested:      suggested,
	})
}

// notify renders and records the outbound message for a booking event.
// Failures are logged and swallowed: messaging is derived output, never a
// reason to fail the booking mutation that already happened.
func (h *Handler) notify(r *http.Request, apt model.Appointment, templateKind string, msgKind messages.Kind) {
	patient, ok := h.registry.Patient(apt.PatientID)
	if !ok {
		h.logger.Error("notification aborted: patient not found", "appointment_id", apt.ID, "patient_id", apt.PatientID)
		return
	}
	professional, ok := h.registry.Professional(apt.ProfessionalID)
	if !ok {
		h.logger.Error("notification aborted: professional not found", "appointment_id", apt.ID, "professional_id", apt.ProfessionalID)
		return
	}
	var service *model.Service
	if svc, ok := h.profile.Service(apt.ServiceID); ok {
		service = &svc
	}

	msgCtx, err := messages.NewContext(patient, apt, professional, service)
	if err != nil {
		h.logger.Error("notification aborted: inconsistent reference data", "appointment_id", apt.ID, "err", err)
		return
	}
	content := messages.RandomMessage(templateKind, msgCtx)
	if content == "" {
		return
	}

	h.log.Add(r.Context(), messages.Message{
		PatientID:     apt.PatientID,
		AppointmentID: apt.ID,
		Direction:     messages.DirectionOutbound,
		Content:       content,
		Read:          true,
		Kind:          msgKind,
	})
}

func addMinutes(hhmm string, minutes int) (string, error) {
	t, err := model.ParseClock(hhmm)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(model.ClockLayout), nil
}
