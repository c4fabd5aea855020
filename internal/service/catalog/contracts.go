package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// SpecialistRepository интерфейс репозитория специалистов и специальностей
type SpecialistRepository interface {
	List(ctx context.Context, specialtyID *int64) ([]domain.Specialist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Specialist, error)
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListSpecialtiesBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.Specialty, error)
}

// ScheduleRepository интерфейс репозитория недельных расписаний
type ScheduleRepository interface {
	GetBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.WeeklyScheduleEntry, error)
}

// Cache интерфейс JSON-кэша справочников
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
