// Package storage persists the engine's collections as opaque JSON arrays
// under application-chosen keys. The contract is get/set of the full
// array; no partial-update protocol exists.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/agendavel/agendavel/internal/messages"
	"github.com/agendavel/agendavel/internal/model"
)

// RedisStore keeps each collection in a single Redis string value.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "agendavel"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) LoadAppointments(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := s.load(ctx, s.prefix+":appointments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisStore) SaveAppointments(ctx context.Context, appointments []model.Appointment) error {
	return s.save(ctx, s.prefix+":appointments", appointments)
}

func (s *RedisStore) LoadMessages(ctx context.Context) ([]messages.Message, error) {
	var out []messages.Message
	if err := s.load(ctx, s.prefix+":messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisStore) SaveMessages(ctx context.Context, msgs []messages.Message) error {
	return s.save(ctx, s.prefix+":messages", msgs)
}

func (s *RedisStore) load(ctx context.Context, key string, dest any) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
