// Package profile carries the built-in business profiles: services,
// booking policy, business hours and holidays. Selected once at startup;
// the engine treats the active profile as read-only configuration.
package profile

import (
	"fmt"

	"github.com/agendavel/agendavel/internal/model"
)

type Profile struct {
	ID            string
	Name          string
	Description   string
	Services      []model.Service
	Policy        model.Policy
	BusinessHours model.BusinessHours
	Holidays      []string // YYYY-MM-DD
}

func (p Profile) Service(id string) (model.Service, bool) {
	for _, svc := range p.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return model.Service{}, false
}

var defaultPolicy = model.Policy{
	LeadTimeMinutes:         120,
	ReschedulingHoursBefore: 24,
	NoShowDelayMinutes:      10,
	ReservationTTLMinutes:   10,
}

var profiles = map[string]Profile{
	"odonto": {
		ID:          "odonto",
		Name:        "Clínica Odontológica",
		Description: "Consultório odontológico especializado",
		Services: []model.Service{
			{ID: "limpeza", Name: "Limpeza", DurationMinutes: 60, Price: 150},
			{ID: "consulta", Name: "Consulta", DurationMinutes: 30, Price: 80},
			{ID: "canal", Name: "Canal", DurationMinutes: 90, Price: 400},
			{ID: "extracao", Name: "Extração", DurationMinutes: 45, Price: 200},
			{ID: "clareamento", Name: "Clareamento", DurationMinutes: 60, Price: 600},
		},
		Policy: defaultPolicy,
		BusinessHours: model.BusinessHours{
			"monday":    {Start: "08:00", End: "18:00"},
			"tuesday":   {Start: "08:00", End: "18:00"},
			"wednesday": {Start: "08:00", End: "18:00"},
			"thursday":  {Start: "08:00", End: "18:00"},
			"friday":    {Start: "08:00", End: "18:00"},
			"saturday":  {Start: "09:00", End: "13:00"},
			"sunday":    nil,
		},
		Holidays: []string{"2025-12-25", "2025-01-01"},
	},
	"barbearia": {
		ID:          "barbearia",
		Name:        "Barbearia Classic",
		Description: "Estilo e tradição em cada corte",
		Services: []model.Service{
			{ID: "corte", Name: "Corte Simples", DurationMinutes: 30, Price: 40},
			{ID: "corte-barba", Name: "Corte + Barba", DurationMinutes: 45, Price: 60},
			{ID: "barba", Name: "Barba", DurationMinutes: 20, Price: 25},
			{ID: "pigmentacao", Name: "Pigmentação", DurationMinutes: 40, Price: 80},
			{ID: "sobrancelha", Name: "Sobrancelha", DurationMinutes: 15, Price: 20},
		},
		Policy: defaultPolicy,
		BusinessHours: model.BusinessHours{
			"monday":    nil,
			"tuesday":   {Start: "09:00", End: "20:00"},
			"wednesday": {Start: "09:00", End: "20:00"},
			"thursday":  {Start: "09:00", End: "20:00"},
			"friday":    {Start: "09:00", End: "21:00"},
			"saturday":  {Start: "09:00", End: "19:00"},
			"sunday":    {Start: "09:00", End: "14:00"},
		},
	},
	"pilates": {
		ID:          "pilates",
		Name:        "Studio Pilates Zen",
		Description: "Bem-estar e equilíbrio",
		Services: []model.Service{
			{ID: "pilates-solo", Name: "Pilates Solo", DurationMinutes: 60, Price: 80},
			{ID: "pilates-duo", Name: "Pilates Dupla", DurationMinutes: 60, Price: 120},
			{ID: "mat-pilates", Name: "Mat Pilates", DurationMinutes: 50, Price: 70},
			{ID: "avaliacao", Name: "Avaliação Física", DurationMinutes: 40, Price: 100},
			{ID: "alongamento", Name: "Alongamento", DurationMinutes: 30, Price: 50},
		},
		Policy: defaultPolicy,
		BusinessHours: model.BusinessHours{
			"monday":    {Start: "07:00", End: "20:00"},
			"tuesday":   {Start: "07:00", End: "20:00"},
			"wednesday": {Start: "07:00", End: "20:00"},
			"thursday":  {Start: "07:00", End: "20:00"},
			"friday":    {Start: "07:00", End: "20:00"},
			"saturday":  {Start: "08:00", End: "13:00"},
			"sunday":    nil,
		},
		Holidays: []string{"2025-12-25", "2025-01-01"},
	},
}

func Get(id string) (Profile, error) {
	p, ok := profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("unknown business profile %q", id)
	}
	return p, nil
}

func IDs() []string {
	return []string{"odonto", "barbearia", "pilates"}
}
