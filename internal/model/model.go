package model

// Status is the appointment lifecycle state. The wire values are the
// Portuguese status names used by the product.
type Status string

const (
	StatusAvailable   Status = "disponivel"
	StatusPendingHold Status = "reservado_pendente"
	StatusConfirmed   Status = "confirmado"
	StatusReminded    Status = "lembrado"
	StatusCompleted   Status = "concluido"
	StatusNoShow      Status = "no_show"
	StatusCancelled   Status = "cancelado"
)

// AllStatuses lists every lifecycle state, in no particular order.
var AllStatuses = []Status{
	StatusAvailable,
	StatusPendingHold,
	StatusConfirmed,
	StatusReminded,
	StatusCompleted,
	StatusNoShow,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusNoShow || s == StatusCancelled
}

// Appointment is a single booking slot. Date is a calendar day (YYYY-MM-DD);
// StartTime/EndTime are local clock times (HH:mm) at minute precision.
type Appointment struct {
	ID             string `json:"id"`
	PatientID      string `json:"patient_id"`
	ProfessionalID string `json:"professional_id"`
	ServiceID      string `json:"service_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Status         Status `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	// ReservedUntil is set only while Status is reservado_pendente and
	// carries the TTL expiry instant (RFC 3339).
	ReservedUntil  string `json:"reserved_until,omitempty"`
	ReminderD1Sent bool   `json:"reminder_d1_sent,omitempty"`
	ReminderH3Sent bool   `json:"reminder_h3_sent,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type Professional struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

type Patient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Gender      string `json:"gender,omitempty"` // "M" or "F"
	Consent     bool   `json:"consent"`
	ConsentDate string `json:"consent_date,omitempty"`
}

type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price,omitempty"`
}

// Policy holds the per-business booking rules.
type Policy struct {
	LeadTimeMinutes         int `json:"lead_time_minutes"`
	ReschedulingHoursBefore int `json:"rescheduling_hours_before"`
	NoShowDelayMinutes      int `json:"no_show_delay_minutes"`
	ReservationTTLMinutes   int `json:"reservation_ttl_minutes"`
}

// DayWindow is an open interval of business hours within one day.
type DayWindow struct {
	Start string `json:"start"` // HH:mm
	End   string `json:"end"`   // HH:mm
}

// BusinessHours maps lowercase English weekday names ("monday"...) to a
// window; a missing or nil entry means closed that day.
type BusinessHours map[string]*DayWindow
