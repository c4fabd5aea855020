package confirm_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
	createAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
)

// ConfirmBookingRequest HTTP request model; тело необязательно
type ConfirmBookingRequest struct {
	DialogID    *uuid.UUID `json:"dialogId,omitempty"`
	SpecialtyID *int64     `json:"specialtyId,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64     `json:"id"`
	PatientID      uuid.UUID `json:"patientId"`
	PatientName    string    `json:"patientName"`
	SpecialistID   uuid.UUID `json:"specialistId"`
	SpecialistName string    `json:"specialistName"`
	SpecialtyID    int64     `json:"specialtyId"`
	SpecialtyName  string    `json:"specialtyName"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Weekday        string    `json:"weekday"`
	TimeRange      string    `json:"timeRange"`
	Status         string    `json:"status"`
	CreatedAt      string    `json:"createdAt"`
}

// ToSessionRequest конвертирует HTTP запрос в модель сессии
func (r *ConfirmBookingRequest) ToSessionRequest() booking.ConfirmRequest {
	return booking.ConfirmRequest{
		DialogID:    r.DialogID,
		SpecialtyID: r.SpecialtyID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	weekday, _ := domain.WeekdayNameFromCode(resp.WeekdayCode)
	return &AppointmentResponse{
		ID:             resp.ID,
		PatientID:      resp.PatientID,
		PatientName:    resp.PatientName,
		SpecialistID:   resp.SpecialistID,
		SpecialistName: resp.SpecialistName,
		SpecialtyID:    resp.SpecialtyID,
		SpecialtyName:  resp.SpecialtyName,
		Date:           resp.Date.Format(domain.DateFormat),
		Time:           resp.Time.String(),
		Weekday:        string(weekday),
		TimeRange:      resp.TimeRange,
		Status:         string(resp.Status),
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
