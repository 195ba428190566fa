package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/agendavel/agendavel/internal/model"
)

// NewContext builds the placeholder map for one patient/appointment pair.
// It refuses to build a context when the patient does not match the
// appointment's patient reference: a mismatch here would leak one
// patient's booking details into another's message.
func NewContext(patient model.Patient, apt model.Appointment, professional model.Professional, service *model.Service) (map[string]string, error) {
	if patient.ID != apt.PatientID {
		return nil, fmt.Errorf("patient %s does not match appointment patient %s", patient.ID, apt.PatientID)
	}

	serviceName := "consulta"
	if service != nil && service.Name != "" {
		serviceName = service.Name
	}

	date := apt.Date
	if day, err := time.Parse(model.DateLayout, apt.Date); err == nil {
		date = day.Format("02/01/2006")
	}

	return map[string]string{
		"nome":         firstName(patient.Name),
		"servico":      serviceName,
		"profissional": shortName(professional.Name),
		"hora":         apt.StartTime,
		"data":         date,
	}, nil
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full
	}
	return parts[0]
}

func shortName(full string) string {
	parts := strings.Fields(full)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " ")
}
