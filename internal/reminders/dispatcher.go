// Package reminders dispatches the D-1 and H-3 appointment reminders.
// Reminder flags are monotonic and every message is built through the
// consistency-checked context in the messages package, so a reference-data
// mismatch aborts the send instead of producing a cross-patient message.
package reminders

import (
	"context"
	"log/slog"
	"time"

	"github.com/agendavel/agendavel/internal/lifecycle"
	"github.com/agendavel/agendavel/internal/messages"
	"github.com/agendavel/agendavel/internal/model"
	"github.com/agendavel/agendavel/internal/profile"
	"github.com/agendavel/agendavel/internal/registry"
)

// d1SendHour: the day-before reminder goes out from 18:00 local time.
const d1SendHour = 18

const h3Window = 3 * time.Hour

type Dispatcher struct {
	manager  *lifecycle.Manager
	registry *registry.Registry
	log      *messages.Log
	profile  profile.Profile
	events   lifecycle.EventSink // optional
	logger   *slog.Logger
	now      func() time.Time
}

type DispatcherConfig struct {
	Manager  *lifecycle.Manager
	Registry *registry.Registry
	Log      *messages.Log
	Profile  profile.Profile
	Events   lifecycle.EventSink
	Logger   *slog.Logger
	Now      func() time.Time
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Dispatcher{
		manager:  cfg.Manager,
		registry: cfg.Registry,
		log:      cfg.Log,
		profile:  cfg.Profile,
		events:   cfg.Events,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

// CheckReminders scans the collection once and sends whatever reminders
// are due. Returns the number of messages sent.
func (d *Dispatcher) CheckReminders(ctx context.Context) int {
	now := d.now()
	sent := 0

	for _, apt := range d.manager.Appointments() {
		if apt.Status != model.StatusConfirmed && apt.Status != model.StatusReminded {
			continue
		}
		start, err := model.At(apt.Date, apt.StartTime, now.Location())
		if err != nil {
			d.logger.Warn("skipping reminder for unparseable appointment", "appointment_id", apt.ID, "err", err)
			continue
		}

		// D-1: evening before the appointment.
		if !apt.ReminderD1Sent && isTomorrow(start, now) && now.Hour() >= d1SendHour {
			if d.send(ctx, apt, "reminderD1") {
				if err := d.manager.MarkReminderSent(ctx, apt.ID, lifecycle.ReminderD1); err != nil {
					d.logger.Error("failed to mark D-1 reminder sent", "appointment_id", apt.ID, "err", err)
				}
				sent++
			}
		}

		// H-3: inside the final three hours, only while still confirmado.
		if !apt.ReminderH3Sent && apt.Status == model.StatusConfirmed {
			threeBefore := start.Add(-h3Window)
			if !now.Before(threeBefore) && now.Before(start) {
				if d.send(ctx, apt, "reminderH3") {
					if _, err := d.manager.UpdateStatus(ctx, apt.ID, model.StatusReminded); err != nil {
						d.logger.Error("failed to mark appointment reminded", "appointment_id", apt.ID, "err", err)
					}
					if err := d.manager.MarkReminderSent(ctx, apt.ID, lifecycle.ReminderH3); err != nil {
						d.logger.Error("failed to mark H-3 reminder sent", "appointment_id", apt.ID, "err", err)
					}
					sent++
				}
			}
		}
	}
	return sent
}

// send renders and records one reminder message. Missing reference data or
// a patient/appointment mismatch aborts without mutating anything.
func (d *Dispatcher) send(ctx context.Context, apt model.Appointment, kind string) bool {
	patient, ok := d.registry.Patient(apt.PatientID)
	if !ok {
		d.logger.Error("reminder aborted: patient not found", "appointment_id", apt.ID, "patient_id", apt.PatientID)
		return false
	}
	professional, ok := d.registry.Professional(apt.ProfessionalID)
	if !ok {
		d.logger.Error("reminder aborted: professional not found", "appointment_id", apt.ID, "professional_id", apt.ProfessionalID)
		return false
	}

	var service *model.Service
	if svc, ok := d.profile.Service(apt.ServiceID); ok {
		service = &svc
	}

	msgCtx, err := messages.NewContext(patient, apt, professional, service)
	if err != nil {
		d.logger.Error("reminder aborted: inconsistent reference data", "appointment_id", apt.ID, "err", err)
		return false
	}

	content := messages.RandomMessage(kind, msgCtx)
	if content == "" {
		d.logger.Error("no template for reminder kind", "kind", kind)
		return false
	}

	d.log.Add(ctx, messages.Message{
		PatientID:     apt.PatientID,
		AppointmentID: apt.ID,
		Direction:     messages.DirectionOutbound,
		Content:       content,
		Read:          true,
		Kind:          messages.KindReminder,
	})

	if d.events != nil {
		d.events.Publish(ctx, "agenda.reminder.sent.v1", apt.ID, map[string]any{
			"appointment_id": apt.ID,
			"patient_id":     apt.PatientID,
			"kind":           kind,
			"date":           apt.Date,
			"start_time":     apt.StartTime,
		})
	}
	return true
}

func isTomorrow(t, now time.Time) bool {
	tomorrow := now.AddDate(0, 0, 1)
	return t.Year() == tomorrow.Year() && t.Month() == tomorrow.Month() && t.Day() == tomorrow.Day()
}
