package messages

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persister stores the whole message log; same full-array contract as the
// appointment store.
type Persister interface {
	LoadMessages(ctx context.Context) ([]Message, error)
	SaveMessages(ctx context.Context, msgs []Message) error
}

// Log is the in-memory message collection with write-through persistence.
type Log struct {
	mu       sync.Mutex
	messages []Message

	store  Persister
	logger *slog.Logger
	now    func() time.Time
}

type LogConfig struct {
	Store  Persister // optional
	Logger *slog.Logger
	Now    func() time.Time
}

func NewLog(cfg LogConfig) *Log {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Log{store: cfg.Store, logger: cfg.Logger, now: cfg.Now}
}

func (l *Log) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	msgs, err := l.store.LoadMessages(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.messages = msgs
	l.mu.Unlock()
	return nil
}

// Add assigns id and timestamp and appends the message.
func (l *Log) Add(ctx context.Context, msg Message) Message {
	msg.ID = uuid.NewString()
	msg.Timestamp = l.now().UTC().Format(time.RFC3339)

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	if l.store != nil {
		if err := l.store.SaveMessages(ctx, l.messages); err != nil {
			l.logger.Error("failed to persist messages", "err", err)
		}
	}
	l.mu.Unlock()
	return msg
}

func (l *Log) ByPatient(patientID string) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Message
	for _, msg := range l.messages {
		if msg.PatientID == patientID {
			out = append(out, msg)
		}
	}
	return out
}

// UnreadCount counts unread inbound messages.
func (l *Log) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, msg := range l.messages {
		if !msg.Read && msg.Direction == DirectionInbound {
			n++
		}
	}
	return n
}
