package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
)

// Catalog источник справочников для селекторов и календаря
type Catalog interface {
	Specialties(ctx context.Context) ([]domain.Specialty, error)
	Specialists(ctx context.Context, specialtyID *int64) ([]domain.Specialist, error)
	WeeklySchedule(ctx context.Context, specialistID uuid.UUID) ([]domain.WeeklyScheduleEntry, error)
}

// AppointmentCreator use case создания турна
type AppointmentCreator interface {
	Execute(ctx context.Context, req *create_appointment.Request) (*create_appointment.Response, error)
}

// Metrics интерфейс метрик сессий
type Metrics interface {
	SetActiveSessions(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
