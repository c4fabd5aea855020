package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/events"
)

// AppointmentRepository интерфейс репозитория турнов
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Reschedule(ctx context.Context, id int64, draft domain.AppointmentDraft) error
	InsertStatusChange(ctx context.Context, change domain.StatusChange) (*domain.StatusChange, error)
	ListStatusChanges(ctx context.Context, sort domain.StatusLogSort, descending bool) ([]*domain.StatusChange, error)
}

// PatientRepository интерфейс репозитория пациентов (проверка роли персонала)
type PatientRepository interface {
	HasRole(ctx context.Context, id uuid.UUID, role string) (bool, error)
}

// SpecialistRepository интерфейс репозитория специалистов
type SpecialistRepository interface {
	ListSpecialtiesBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.Specialty, error)
}

// EventPublisher интерфейс публикации событий турнов
type EventPublisher interface {
	Publish(ctx context.Context, event events.AppointmentEvent) error
}

// Metrics интерфейс метрик смены статусов
type Metrics interface {
	StatusChanged(status string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
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
