package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidTab возвращается при неизвестной вкладке
	ErrInvalidTab = errors.New("invalid appointments tab")

	// ErrInvalidSort возвращается при неизвестном поле сортировки
	ErrInvalidSort = errors.New("invalid sort field")
)

// Request модели

// CancelRequest запрос пациента на отмену турна
type CancelRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest запрос персонала на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RescheduleRequest запрос персонала на перенос турна
type RescheduleRequest struct {
	Date         time.Time        `json:"date"`
	Time         types.TimeString `json:"time"`
	SpecialistID *uuid.UUID       `json:"specialistId,omitempty"` // nil = прежний специалист
	SpecialtyID  *int64           `json:"specialtyId,omitempty"`  // nil = прежняя специальность
}

// ListRequest фильтр списка турнов для персонала
type ListRequest struct {
	Tab          string
	SpecialistID *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	statuses, ok := domain.AppointmentsTab(strings.ToLower(r.Tab)).Statuses()
	if !ok {
		return domain.AppointmentsFilter{}, ErrInvalidTab
	}
	return domain.AppointmentsFilter{
		Statuses:     statuses,
		SpecialistID: r.SpecialistID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}, nil
}

// StatusLogRequest параметры журнала изменений
type StatusLogRequest struct {
	Sort  string
	Order string
}

// ToDomainSort разбирает сортировку; по умолчанию cambiado_en по убыванию
func (r *StatusLogRequest) ToDomainSort() (domain.StatusLogSort, bool, error) {
	sort := domain.SortByChangedAt
	if r.Sort != "" {
		sort = domain.StatusLogSort(r.Sort)
		if !sort.IsValid() {
			return "", false, ErrInvalidSort
		}
	}
	switch strings.ToLower(r.Order) {
	case "", "desc":
		return sort, true, nil
	case "asc":
		return sort, false, nil
	}
	return "", false, ErrInvalidSort
}

// ToDomainStatus конвертирует строку в статус
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Response модели

// AppointmentResponse турн
type AppointmentResponse struct {
	ID             int64     `json:"id"`
	PatientID      uuid.UUID `json:"patientId"`
	PatientName    string    `json:"patientName,omitempty"`
	SpecialistID   uuid.UUID `json:"specialistId"`
	SpecialistName string    `json:"specialistName,omitempty"`
	SpecialtyID    int64     `json:"specialtyId"`
	SpecialtyName  string    `json:"specialtyName,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Weekday        string    `json:"weekday"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	Status         string    `json:"status"`
	CanBeCancelled bool      `json:"canBeCancelled"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AppointmentListResponse список турнов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// StatusChangeResponse запись журнала изменений
type StatusChangeResponse struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointmentId"`
	NewStatus     string    `json:"newStatus"`
	ChangedBy     uuid.UUID `json:"changedBy"`
	ChangedByName string    `json:"changedByName"`
	ChangedAt     time.Time `json:"changedAt"`
}

// StatusLogResponse журнал изменений
type StatusLogResponse struct {
	Changes []StatusChangeResponse `json:"changes"`
	Total   int                    `json:"total"`
}

// FromDomainAppointment конвертирует турн в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	weekday, _ := domain.WeekdayNameFromCode(a.WeekdayCode)
	return &AppointmentResponse{
		ID:             a.ID,
		PatientID:      a.PatientID,
		PatientName:    a.PatientName,
		SpecialistID:   a.SpecialistID,
		SpecialistName: a.SpecialistName,
		SpecialtyID:    a.SpecialtyID,
		SpecialtyName:  a.SpecialtyName,
		Date:           a.Date.Format(domain.DateFormat),
		Time:           a.Time.String(),
		Weekday:        string(weekday),
		Month:          a.Month,
		Year:           a.Year,
		Status:         string(a.Status),
		CanBeCancelled: a.CanBeCancelled(),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список турнов
func FromDomainAppointmentList(items []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(items)),
		Total:        len(items),
	}
	for _, a := range items {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// FromDomainStatusLog конвертирует журнал изменений
func FromDomainStatusLog(changes []*domain.StatusChange) *StatusLogResponse {
	resp := &StatusLogResponse{
		Changes: make([]StatusChangeResponse, 0, len(changes)),
		Total:   len(changes),
	}
	for _, c := range changes {
		resp.Changes = append(resp.Changes, StatusChangeResponse{
			ID:            c.ID,
			AppointmentID: c.AppointmentID,
			NewStatus:     string(c.NewStatus),
			ChangedBy:     c.ChangedBy,
			ChangedByName: c.ChangedByName,
			ChangedAt:     c.ChangedAt,
		})
	}
	return resp
}
