package get_month_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Request модель запроса доступности специалиста на месяц
type Request struct {
	SpecialistID uuid.UUID
	Year         int
	Month        time.Month
}

// Response модель ответа с доступностью по дням
type Response struct {
	SpecialistID      uuid.UUID
	SpecialistName    string
	Year              int
	Month             time.Month
	Title             string // "Diciembre 2026"
	FirstWeekdayIndex int    // 0 = воскресенье
	Days              []domain.DayAvailability
}
