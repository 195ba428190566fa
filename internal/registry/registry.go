// Package registry holds the immutable patient and professional reference
// data, loaded once at startup.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/agendavel/agendavel/internal/model"
)

type Registry struct {
	patients      []model.Patient
	professionals []model.Professional
}

// New builds a registry, dropping patients whose normalized phone number
// duplicates an earlier entry.
func New(patients []model.Patient, professionals []model.Professional, logger *slog.Logger) *Registry {
	seen := make(map[string]struct{}, len(patients))
	var unique []model.Patient
	for _, p := range patients {
		phone := NormalizePhone(p.Phone)
		if _, dup := seen[phone]; dup {
			if logger != nil {
				logger.Warn("duplicate patient dropped", "patient_id", p.ID, "phone", phone)
			}
			continue
		}
		seen[phone] = struct{}{}
		unique = append(unique, p)
	}
	return &Registry{patients: unique, professionals: professionals}
}

type seedFile struct {
	Patients      []model.Patient      `json:"patients"`
	Professionals []model.Professional `json:"professionals"`
}

// LoadFile reads reference data from a JSON seed file.
func LoadFile(path string, logger *slog.Logger) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(seed.Patients, seed.Professionals, logger), nil
}

func (r *Registry) Patients() []model.Patient {
	out := make([]model.Patient, len(r.patients))
	copy(out, r.patients)
	return out
}

func (r *Registry) Professionals() []model.Professional {
	out := make([]model.Professional, len(r.professionals))
	copy(out, r.professionals)
	return out
}

func (r *Registry) Patient(id string) (model.Patient, bool) {
	for _, p := range r.patients {
		if p.ID == id {
			return p, true
		}
	}
	return model.Patient{}, false
}

func (r *Registry) Professional(id string) (model.Professional, bool) {
	for _, p := range r.professionals {
		if p.ID == id {
			return p, true
		}
	}
	return model.Professional{}, false
}

// NormalizePhone strips every non-digit rune, the dedup key for patients.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
