package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request запрос на создание турна
type Request struct {
	IdentityID   uuid.UUID        // ID пользователя провайдера аутентификации
	SpecialistID uuid.UUID        // ID специалиста
	SpecialtyID  *int64           // ID специальности (опционально, см. resolveSpecialty)
	Date         time.Time        // Дата приема (без времени)
	Time         types.TimeString // Начало приема; пусто = начало по расписанию
}

// Response модель ответа с созданным турном
type Response struct {
	ID           int64
	PatientID    uuid.UUID
	SpecialistID uuid.UUID
	SpecialtyID  int64
	Date         time.Time
	Time         types.TimeString
	WeekdayCode  int
	Month        int
	Year         int
	Status       domain.AppointmentStatus

	// Денормализованные данные
	PatientName    string
	SpecialistName string
	SpecialtyName  string
	TimeRange      string // "08:00 - 12:00"

	CreatedAt time.Time
	UpdatedAt time.Time
}
