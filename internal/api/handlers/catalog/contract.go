package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

type CatalogService interface {
	Specialties(ctx context.Context) ([]domain.Specialty, error)
	Specialists(ctx context.Context, specialtyID *int64) ([]domain.Specialist, error)
	Specialist(ctx context.Context, id uuid.UUID) (*domain.Specialist, error)
	WeeklySchedule(ctx context.Context, specialistID uuid.UUID) ([]domain.WeeklyScheduleEntry, error)
	SpecialistSpecialties(ctx context.Context, specialistID uuid.UUID) ([]domain.Specialty, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
