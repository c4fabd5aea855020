package reschedule_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date         string     `json:"date" validate:"required"` // "2026-12-14"
	Time         string     `json:"time" validate:"required"` // "08:00"
	SpecialistID *uuid.UUID `json:"specialistId,omitempty"`
	SpecialtyID  *int64     `json:"specialtyId,omitempty" validate:"omitempty,gt=0"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом даты и времени)
func (r *RescheduleRequest) ToServiceRequest() (*models.RescheduleRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	at, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &models.RescheduleRequest{
		Date:         date,
		Time:         at,
		SpecialistID: r.SpecialistID,
		SpecialtyID:  r.SpecialtyID,
	}, nil
}
