package list_appointments

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(tab, specialistIDStr, fromStr, toStr string) (*models.ListRequest, error) {
	req := &models.ListRequest{Tab: tab}

	// Парсим specialistId если указан
	if specialistIDStr != "" {
		specialistID, err := uuid.Parse(specialistIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid specialistId: %w", err)
		}
		req.SpecialistID = &specialistID
	}

	// Парсим диапазон дат если указан
	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.StartDate = &from
	}
	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		req.EndDate = &to
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("to %s is before from %s", toStr, fromStr)
	}

	return req, nil
}
