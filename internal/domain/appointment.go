package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// AppointmentStatus status of an appointment request (значения совпадают с хранимыми)
type AppointmentStatus string

const (
	StatusPending      AppointmentStatus = "pendiente"
	StatusConfirmed    AppointmentStatus = "confirmado"
	StatusRejected     AppointmentStatus = "rechazado"
	StatusCancelled    AppointmentStatus = "cancelado"
	StatusReprogrammed AppointmentStatus = "reprogramado"
)

// allowedTransitions жизненный цикл турна
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:      {StatusConfirmed, StatusRejected, StatusCancelled, StatusReprogrammed},
	StatusConfirmed:    {StatusCancelled, StatusReprogrammed},
	StatusReprogrammed: {StatusConfirmed, StatusRejected, StatusCancelled},
}

// IsValid true для известного статуса
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusReprogrammed:
		return true
	}
	return false
}

// IsTerminal true для финальных статусов
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo проверяет переход next из текущего статуса
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AppointmentDraft a booking request assembled at confirmation time
type AppointmentDraft struct {
	PatientID    uuid.UUID
	SpecialistID uuid.UUID
	SpecialtyID  int64
	Date         time.Time
	Time         types.TimeString
	WeekdayCode  int
	Month        int
	Year         int
}

// NewAppointmentDraft собирает черновик; день недели, месяц и год выводятся из даты
func NewAppointmentDraft(patientID, specialistID uuid.UUID, specialtyID int64, date time.Time, at types.TimeString) AppointmentDraft {
	return AppointmentDraft{
		PatientID:    patientID,
		SpecialistID: specialistID,
		SpecialtyID:  specialtyID,
		Date:         date,
		Time:         at,
		WeekdayCode:  WeekdayCodeOf(date),
		Month:        int(date.Month()),
		Year:         date.Year(),
	}
}

// Appointment a persisted appointment request
type Appointment struct {
	ID           int64
	PatientID    uuid.UUID
	SpecialistID uuid.UUID
	SpecialtyID  int64
	Date         time.Time
	Time         types.TimeString
	WeekdayCode  int
	Month        int
	Year         int
	Status       AppointmentStatus

	// Денормализованные поля для списков, заполняются при чтении
	PatientName    string
	SpecialistName string
	SpecialtyName  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies a place in the specialist's day
func (a *Appointment) IsActive() bool {
	return !a.Status.IsTerminal()
}

// CanBeCancelled returns true if the patient may still cancel
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled returns true if staff may move the appointment
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status.CanTransitionTo(StatusReprogrammed)
}

// StatusChange audit row written on every status change
type StatusChange struct {
	ID            int64
	AppointmentID int64
	NewStatus     AppointmentStatus
	ChangedBy     uuid.UUID
	ChangedAt     time.Time

	ChangedByName string // заполняется при чтении
}

// AppointmentsTab вкладки экрана управления турнами
type AppointmentsTab string

const (
	TabAll          AppointmentsTab = "todos"
	TabPending      AppointmentsTab = "pendientes"
	TabConfirmed    AppointmentsTab = "confirmados"
	TabRejected     AppointmentsTab = "rechazados"
	TabReprogrammed AppointmentsTab = "reprogramados"
)

// Statuses статусы, отображаемые во вкладке; nil означает все
func (t AppointmentsTab) Statuses() ([]AppointmentStatus, bool) {
	switch t {
	case TabAll, "":
		return nil, true
	case TabPending:
		return []AppointmentStatus{StatusPending}, true
	case TabConfirmed:
		return []AppointmentStatus{StatusConfirmed}, true
	case TabRejected:
		// отклоненные и отмененные показываются вместе
		return []AppointmentStatus{StatusRejected, StatusCancelled}, true
	case TabReprogrammed:
		return []AppointmentStatus{StatusReprogrammed}, true
	}
	return nil, false
}

// AppointmentsFilter фильтр списка турнов
type AppointmentsFilter struct {
	Statuses     []AppointmentStatus // пусто = все статусы
	PatientID    *uuid.UUID
	SpecialistID *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
	ForUpdate    bool // блокировать строки (только внутри транзакции)
}

// StatusLogSort поле сортировки журнала изменений
type StatusLogSort string

const (
	SortByAppointment StatusLogSort = "id_turno"
	SortByStatus      StatusLogSort = "estado_nuevo"
	SortByChangedBy   StatusLogSort = "cambiado_por"
	SortByChangedAt   StatusLogSort = "cambiado_en"
)

// IsValid true для поддерживаемого поля сортировки
func (s StatusLogSort) IsValid() bool {
	switch s {
	case SortByAppointment, SortByStatus, SortByChangedBy, SortByChangedAt:
		return true
	}
	return false
}
