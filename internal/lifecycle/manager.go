// Package lifecycle owns the appointment collection: creation, status
// mutation through the state machine, rescheduling and the periodic
// time-based sweeps (reservation TTL expiry and no-show detection).
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agendavel/agendavel/internal/model"
	"github.com/agendavel/agendavel/internal/policy"
)

// CollectionStore persists the whole appointment collection. The contract
// is load-full-array / replace-full-array; there is no partial update.
type CollectionStore interface {
	LoadAppointments(ctx context.Context) ([]model.Appointment, error)
	SaveAppointments(ctx context.Context, appointments []model.Appointment) error
}

// EventSink receives best-effort domain events. Implementations must not
// block the caller.
type EventSink interface {
	Publish(ctx context.Context, eventType, aggregateID string, payload map[string]any)
}

var ErrNotFound = errors.New("appointment not found")

// Manager is the only writer of the appointment collection. All other
// components read it or receive it as a parameter.
type Manager struct {
	mu           sync.Mutex
	appointments []model.Appointment

	store  CollectionStore
	events EventSink
	policy model.Policy
	logger *slog.Logger
	now    func() time.Time
}

type ManagerConfig struct {
	Store  CollectionStore // optional; nil keeps the collection in memory only
	Events EventSink       // optional
	Policy model.Policy
	Logger *slog.Logger
	Now    func() time.Time // optional; defaults to wall clock
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		store:  cfg.Store,
		events: cfg.Events,
		policy: cfg.Policy,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
}

// Load replaces the in-memory collection with the persisted one.
func (m *Manager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	appointments, err := m.store.LoadAppointments(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.appointments = appointments
	m.mu.Unlock()
	return nil
}

// Appointments returns a copy of the collection.
func (m *Manager) Appointments() []model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Appointment, len(m.appointments))
	copy(out, m.appointments)
	return out
}

func (m *Manager) Get(id string) (model.Appointment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, apt := range m.appointments {
		if apt.ID == id {
			return apt, true
		}
	}
	return model.Appointment{}, false
}

func (m *Manager) ByDate(date string) []model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Appointment
	for _, apt := range m.appointments {
		if apt.Date == date {
			out = append(out, apt)
		}
	}
	return out
}

func (m *Manager) ByStatus(status model.Status) []model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Appointment
	for _, apt := range m.appointments {
		if apt.Status == status {
			out = append(out, apt)
		}
	}
	return out
}

type CreateInput struct {
	PatientID      string
	ProfessionalID string
	ServiceID      string
	Date           string
	StartTime      string
	EndTime        string
	Status         model.Status // defaults to reservado_pendente
	Notes          string
}

// Create appends a new appointment. Conflict and policy validation are the
// caller's responsibility (the booking flow runs them first); Create only
// enforces structural invariants. A pending hold gets its TTL here.
func (m *Manager) Create(ctx context.Context, in CreateInput) (model.Appointment, error) {
	if in.Status == "" {
		in.Status = model.StatusPendingHold
	}
	if !in.Status.Valid() {
		return model.Appointment{}, fmt.Errorf("unknown status %q", in.Status)
	}
	start, err := model.ParseClock(in.StartTime)
	if err != nil {
		return model.Appointment{}, err
	}
	end, err := model.ParseClock(in.EndTime)
	if err != nil {
		return model.Appointment{}, err
	}
	if !start.Before(end) {
		return model.Appointment{}, fmt.Errorf("start_time %s must be before end_time %s", in.StartTime, in.EndTime)
	}
	if _, err := model.At(in.Date, in.StartTime, time.UTC); err != nil {
		return model.Appointment{}, err
	}

	now := m.now()
	apt := model.Appointment{
		ID:             uuid.NewString(),
		PatientID:      in.PatientID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         in.Status,
		Notes:          in.Notes,
		CreatedAt:      now.UTC().Format(time.RFC3339),
		UpdatedAt:      now.UTC().Format(time.RFC3339),
	}
	if apt.Status == model.StatusPendingHold {
		ttl := time.Duration(m.policy.ReservationTTLMinutes) * time.Minute
		apt.ReservedUntil = now.Add(ttl).UTC().Format(time.RFC3339)
	}

	m.mu.Lock()
	m.appointments = append(m.appointments, apt)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.publish(ctx, "agenda.appointment.created.v1", apt.ID, map[string]any{
		"appointment_id":  apt.ID,
		"patient_id":      apt.PatientID,
		"professional_id": apt.ProfessionalID,
		"service_id":      apt.ServiceID,
		"date":            apt.Date,
		"start_time":      apt.StartTime,
		"end_time":        apt.EndTime,
		"status":          string(apt.Status),
	})
	return apt, nil
}

// UpdateStatus pushes the appointment through the state machine. Illegal
// requests leave the appointment untouched (fail soft); the returned
// appointment carries the status that actually applies.
func (m *Manager) UpdateStatus(ctx context.Context, id string, requested model.Status) (model.Appointment, error) {
	if !requested.Valid() {
		return model.Appointment{}, fmt.Errorf("unknown status %q", requested)
	}

	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return model.Appointment{}, ErrNotFound
	}
	apt := &m.appointments[idx]
	previous := apt.Status
	next := Transition(m.logger, previous, requested)
	changed := next != previous
	if changed {
		apt.Status = next
		if next != model.StatusPendingHold {
			apt.ReservedUntil = ""
		}
		apt.UpdatedAt = m.now().UTC().Format(time.RFC3339)
		m.persistLocked(ctx)
	}
	result := *apt
	m.mu.Unlock()

	if changed {
		m.publish(ctx, "agenda.appointment.status_changed.v1", result.ID, map[string]any{
			"appointment_id": result.ID,
			"from":           string(previous),
			"to":             string(next),
			"date":           result.Date,
			"start_time":     result.StartTime,
		})
	}
	return result, nil
}

func (m *Manager) Cancel(ctx context.Context, id string) (model.Appointment, error) {
	return m.UpdateStatus(ctx, id, model.StatusCancelled)
}

// Reschedule overwrites the temporal fields. Like Create, it trusts the
// caller to have validated the new window first.
func (m *Manager) Reschedule(ctx context.Context, id, newDate, newStartTime, newEndTime string) (model.Appointment, error) {
	start, err := model.ParseClock(newStartTime)
	if err != nil {
		return model.Appointment{}, err
	}
	end, err := model.ParseClock(newEndTime)
	if err != nil {
		return model.Appointment{}, err
	}
	if !start.Before(end) {
		return model.Appointment{}, fmt.Errorf("start_time %s must be before end_time %s", newStartTime, newEndTime)
	}
	if _, err := model.At(newDate, newStartTime, time.UTC); err != nil {
		return model.Appointment{}, err
	}

	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return model.Appointment{}, ErrNotFound
	}
	apt := &m.appointments[idx]
	apt.Date = newDate
	apt.StartTime = newStartTime
	apt.EndTime = newEndTime
	apt.UpdatedAt = m.now().UTC().Format(time.RFC3339)
	m.persistLocked(ctx)
	result := *apt
	m.mu.Unlock()

	m.publish(ctx, "agenda.appointment.rescheduled.v1", result.ID, map[string]any{
		"appointment_id": result.ID,
		"date":           result.Date,
		"start_time":     result.StartTime,
		"end_time":       result.EndTime,
	})
	return result, nil
}

type ReminderKind string

const (
	ReminderD1 ReminderKind = "d1"
	ReminderH3 ReminderKind = "h3"
)

// MarkReminderSent flips the reminder flag for id. Flags are monotonic;
// marking twice is a no-op.
func (m *Manager) MarkReminderSent(ctx context.Context, id string, kind ReminderKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	apt := &m.appointments[idx]
	switch kind {
	case ReminderD1:
		if apt.ReminderD1Sent {
			return nil
		}
		apt.ReminderD1Sent = true
	case ReminderH3:
		if apt.ReminderH3Sent {
			return nil
		}
		apt.ReminderH3Sent = true
	default:
		return fmt.Errorf("unknown reminder kind %q", kind)
	}
	apt.UpdatedAt = m.now().UTC().Format(time.RFC3339)
	m.persistLocked(ctx)
	return nil
}

// SweepExpiredReservations releases pending holds whose TTL has elapsed.
// Idempotent: a second pass with no time elapsed changes nothing.
func (m *Manager) SweepExpiredReservations(ctx context.Context) int {
	now := m.now()

	m.mu.Lock()
	var released []model.Appointment
	for i := range m.appointments {
		apt := &m.appointments[i]
		if apt.Status != model.StatusPendingHold || apt.ReservedUntil == "" {
			continue
		}
		reservedUntil, err := time.Parse(time.RFC3339, apt.ReservedUntil)
		if err != nil {
			m.logger.Warn("unparseable reserved_until, releasing hold", "appointment_id", apt.ID, "reserved_until", apt.ReservedUntil)
		} else if !now.After(reservedUntil) {
			continue
		}
		apt.Status = Transition(m.logger, apt.Status, model.StatusAvailable)
		apt.ReservedUntil = ""
		apt.UpdatedAt = now.UTC().Format(time.RFC3339)
		released = append(released, *apt)
	}
	if len(released) > 0 {
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	for _, apt := range released {
		m.publish(ctx, "agenda.reservation.expired.v1", apt.ID, map[string]any{
			"appointment_id": apt.ID,
			"date":           apt.Date,
			"start_time":     apt.StartTime,
		})
	}
	return len(released)
}

// SweepNoShows marks confirmed or reminded appointments as no_show once
// the grace period after their start has elapsed. Idempotent: no_show is
// terminal, so swept entries never match again.
func (m *Manager) SweepNoShows(ctx context.Context) int {
	now := m.now()

	m.mu.Lock()
	var marked []model.Appointment
	for i := range m.appointments {
		apt := &m.appointments[i]
		if apt.Status != model.StatusConfirmed && apt.Status != model.StatusReminded {
			continue
		}
		if !policy.ShouldMarkNoShow(apt.Date, apt.StartTime, m.policy, now) {
			continue
		}
		apt.Status = Transition(m.logger, apt.Status, model.StatusNoShow)
		apt.UpdatedAt = now.UTC().Format(time.RFC3339)
		marked = append(marked, *apt)
	}
	if len(marked) > 0 {
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	for _, apt := range marked {
		m.publish(ctx, "agenda.appointment.no_show.v1", apt.ID, map[string]any{
			"appointment_id": apt.ID,
			"date":           apt.Date,
			"start_time":     apt.StartTime,
		})
	}
	return len(marked)
}

// Policy returns the booking rules the manager was configured with.
func (m *Manager) Policy() model.Policy { return m.policy }

// Now exposes the injected clock so collaborators share one time source.
func (m *Manager) Now() time.Time { return m.now() }

func (m *Manager) indexLocked(id string) int {
	for i := range m.appointments {
		if m.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection through the store. Persistence
// failures are logged, never propagated: the in-memory collection stays
// authoritative for the session.
func (m *Manager) persistLocked(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveAppointments(ctx, m.appointments); err != nil {
		m.logger.Error("failed to persist appointments", "err", err)
	}
}

func (m *Manager) publish(ctx context.Context, eventType, aggregateID string, payload map[string]any) {
	if m.events == nil {
		return
	}
	m.events.Publish(ctx, eventType, aggregateID, payload)
}
