// Package messages holds the WhatsApp-style message log and the template
// rendering used by reminders and booking notifications. Only content
// generation lives here; actual delivery is out of scope.
package messages

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Kind string

const (
	KindInvite       Kind = "invite"
	KindConfirmation Kind = "confirmation"
	KindReminder     Kind = "reminder"
	KindCSAT         Kind = "csat"
	KindCancellation Kind = "cancellation"
	KindRescheduling Kind = "rescheduling"
	KindChat         Kind = "chat"
)

type Message struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	Direction     Direction `json:"direction"`
	Content       string    `json:"content"`
	Timestamp     string    `json:"timestamp"`
	Read          bool      `json:"read"`
	Kind          Kind      `json:"type"`
}
