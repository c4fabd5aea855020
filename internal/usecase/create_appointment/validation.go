package create_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest проверяет обязательные поля запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.IdentityID == uuid.Nil {
		return ErrNotAuthenticated
	}
	if req.SpecialistID == uuid.Nil {
		return fmt.Errorf("%w: specialist is required", ErrInvalidInput)
	}
	if req.SpecialtyID != nil && *req.SpecialtyID <= 0 {
		return fmt.Errorf("%w: specialty id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.Time.IsZero() {
		if err := req.Time.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

// normalizeDate переносит календарную дату в часовой пояс клиники без сдвига дня
func normalizeDate(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// validateDate дата не может быть раньше сегодняшней
func validateDate(date, now time.Time) error {
	now = now.In(date.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	if date.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	return nil
}

// resolveSpecialty выбирает специальность турна.
// Запрошенная специальность должна принадлежать специалисту; без запроса берется
// единственная специальность специалиста.
func resolveSpecialty(requested *int64, specialties []domain.Specialty) (domain.Specialty, error) {
	if requested != nil {
		for _, s := range specialties {
			if s.ID == *requested {
				return s, nil
			}
		}
		return domain.Specialty{}, ErrSpecialtyMismatch
	}
	if len(specialties) == 1 {
		return specialties[0], nil
	}
	return domain.Specialty{}, ErrSpecialtyRequired
}

// hasFreeSpot проверяет вместимость дня; Capacity = 0 означает без ограничения
func hasFreeSpot(entry *domain.WeeklyScheduleEntry, booked int) bool {
	if !entry.HasCapacityLimit() {
		return true
	}
	return booked < entry.Capacity
}
