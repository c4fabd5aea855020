package events

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий, они же routing key в exchange
const (
	TypeAppointmentCreated       = "appointment.created"
	TypeAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent событие жизненного цикла турна
type AppointmentEvent struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	OccurredAt    time.Time  `json:"occurredAt"`
	AppointmentID int64      `json:"appointmentId"`
	PatientID     uuid.UUID  `json:"patientId"`
	SpecialistID  uuid.UUID  `json:"specialistId"`
	SpecialtyID   int64      `json:"specialtyId"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	ChangedBy     *uuid.UUID `json:"changedBy,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}
