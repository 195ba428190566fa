package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/agendavel/agendavel/internal/lifecycle"
	"github.com/agendavel/agendavel/internal/messages"
	"github.com/agendavel/agendavel/internal/model"
	"github.com/agendavel/agendavel/internal/profile"
	"github.com/agendavel/agendavel/internal/registry"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time  { return c.now }
func (c *testClock) Set(t time.Time) { c.now = t }

type fixture struct {
	manager *lifecycle.Manager
	log     *messages.Log
	clock   *testClock
	d       *Dispatcher
}

func newFixture(t *testing.T, start time.Time, withPatient bool) *fixture {
	t.Helper()
	clock := &testClock{now: start}

	manager := lifecycle.NewManager(lifecycle.ManagerConfig{
		Policy: model.Policy{LeadTimeMinutes: 120, ReschedulingHoursBefore: 24, NoShowDelayMinutes: 10, ReservationTTLMinutes: 10},
		Now:    clock.Now,
	})
	log := messages.NewLog(messages.LogConfig{Now: clock.Now})

	var patients []model.Patient
	if withPatient {
		patients = []model.Patient{{ID: "p1", Name: "Maria Silva", Phone: "5511999990001"}}
	}
	reg := registry.New(patients, []model.Professional{{ID: "d1", Name: "Ana Clara Souza"}}, nil)

	prof := profile.Profile{
		ID:       "test",
		Services: []model.Service{{ID: "consulta", Name: "Consulta", DurationMinutes: 30}},
	}

	d := NewDispatcher(DispatcherConfig{
		Manager:  manager,
		Registry: reg,
		Log:      log,
		Profile:  prof,
		Now:      clock.Now,
	})
	return &fixture{manager: manager, log: log, clock: clock, d: d}
}

func (f *fixture) createConfirmed(t *testing.T, date, start, end string) model.Appointment {
	t.Helper()
	apt, err := f.manager.Create(context.Background(), lifecycle.CreateInput{
		PatientID:      "p1",
		ProfessionalID: "d1",
		ServiceID:      "consulta",
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Status:         model.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return apt
}

func TestCheckReminders_DayBefore(t *testing.T) {
	f := newFixture(t, time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC), true)
	apt := f.createConfirmed(t, "2025-06-11", "14:00", "14:30")

	if sent := f.d.CheckReminders(context.Background()); sent != 1 {
		t.Fatalf("expected 1 reminder, got %d", sent)
	}
	got, _ := f.manager.Get(apt.ID)
	if !got.ReminderD1Sent {
		t.Fatal("reminder_d1_sent flag not set")
	}
	if got.Status != model.StatusConfirmed {
		t.Fatalf("D-1 reminder must not change status, got %s", got.Status)
	}
	if msgs := f.log.ByPatient("p1"); len(msgs) != 1 || msgs[0].Kind != messages.KindReminder {
		t.Fatalf("expected one reminder message, got %+v", msgs)
	}

	// Flag is monotonic; the next pass sends nothing.
	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("expected 0 on repeat pass, got %d", sent)
	}
}

func TestCheckReminders_DayBeforeWaitsForEvening(t *testing.T) {
	f := newFixture(t, time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC), true)
	f.createConfirmed(t, "2025-06-11", "14:00", "14:30")

	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("D-1 reminder before 18:00 should not be sent, got %d", sent)
	}
}

func TestCheckReminders_ThreeHoursBefore(t *testing.T) {
	f := newFixture(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), true)
	apt := f.createConfirmed(t, "2025-06-10", "14:00", "14:30")

	if sent := f.d.CheckReminders(context.Background()); sent != 1 {
		t.Fatalf("expected 1 reminder, got %d", sent)
	}
	got, _ := f.manager.Get(apt.ID)
	if got.Status != model.StatusReminded {
		t.Fatalf("H-3 reminder should transition to lembrado, got %s", got.Status)
	}
	if !got.ReminderH3Sent {
		t.Fatal("reminder_h3_sent flag not set")
	}
	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("expected 0 on repeat pass, got %d", sent)
	}
}

func TestCheckReminders_OutsideWindow(t *testing.T) {
	f := newFixture(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), true)
	f.createConfirmed(t, "2025-06-10", "14:00", "14:30")

	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("more than 3h ahead should send nothing, got %d", sent)
	}

	// Past the start the reminder is pointless.
	f.clock.Set(time.Date(2025, 6, 10, 14, 1, 0, 0, time.UTC))
	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("after the start nothing should be sent, got %d", sent)
	}
}

func TestCheckReminders_MissingPatientAborts(t *testing.T) {
	f := newFixture(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), false)
	apt := f.createConfirmed(t, "2025-06-10", "14:00", "14:30")

	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("missing patient should abort the send, got %d", sent)
	}
	got, _ := f.manager.Get(apt.ID)
	if got.ReminderH3Sent || got.Status != model.StatusConfirmed {
		t.Fatalf("aborted send must not mutate the appointment: %+v", got)
	}
	if msgs := f.log.ByPatient("p1"); len(msgs) != 0 {
		t.Fatalf("no message should be recorded, got %d", len(msgs))
	}
}

func TestCheckReminders_SkipsNonConfirmed(t *testing.T) {
	f := newFixture(t, time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC), true)
	if _, err := f.manager.Create(context.Background(), lifecycle.CreateInput{
		PatientID: "p1", ProfessionalID: "d1", ServiceID: "consulta",
		Date: "2025-06-11", StartTime: "14:00", EndTime: "14:30",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if sent := f.d.CheckReminders(context.Background()); sent != 0 {
		t.Fatalf("pending hold should not receive reminders, got %d", sent)
	}
}
