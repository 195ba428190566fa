package storage

import (
	"context"
	"sync"

	"github.com/agendavel/agendavel/internal/messages"
	"github.com/agendavel/agendavel/internal/model"
)

// MemoryStore is the fallback when Redis is unavailable and the store used
// by tests. Data lives for the process lifetime only.
type MemoryStore struct {
	mu           sync.Mutex
	appointments []model.Appointment
	messages     []messages.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadAppointments(context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

func (s *MemoryStore) SaveAppointments(_ context.Context, appointments []model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = make([]model.Appointment, len(appointments))
	copy(s.appointments, appointments)
	return nil
}

func (s *MemoryStore) LoadMessages(context.Context) ([]messages.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]messages.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *MemoryStore) SaveMessages(_ context.Context, msgs []messages.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]messages.Message, len(msgs))
	copy(s.messages, msgs)
	return nil
}
