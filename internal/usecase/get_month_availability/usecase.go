package get_month_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/calendar"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	specialistRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/specialist"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

// UseCase use case получения доступности специалиста по дням месяца
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	specialistRepo  SpecialistRepository
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	specialistRepo SpecialistRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		specialistRepo:  specialistRepo,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.SpecialistID == uuid.Nil {
		return nil, fmt.Errorf("%w: specialist is required", ErrInvalidInput)
	}
	if req.Month < time.January || req.Month > time.December || req.Year < 1 {
		return nil, fmt.Errorf("%w: month %d-%02d", ErrInvalidInput, req.Year, req.Month)
	}

	uc.logger.Info("GetMonthAvailability: specialist=%s, month=%d-%02d", req.SpecialistID, req.Year, req.Month)

	// 2. Специалист
	specialist, err := uc.specialistRepo.GetByID(ctx, req.SpecialistID)
	if err != nil {
		if errors.Is(err, specialistRepo.ErrSpecialistNotFound) {
			uc.logger.Warn("GetMonthAvailability: specialist id=%s not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("GetMonthAvailability: failed to get specialist %s: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}

	// 3. Недельное расписание
	entries, err := uc.scheduleRepo.GetBySpecialist(ctx, req.SpecialistID)
	if err != nil {
		uc.logger.Error("GetMonthAvailability: failed to get schedule of %s: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 4. Календарь месяца с расписанием специалиста
	now := uc.timeProvider.Now().In(uc.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.location)

	cal := calendar.NewManager(today, uc.logger)
	cal.ShowMonth(req.Year, req.Month)
	cal.ApplyWeeklySchedule(entries)
	layout := cal.GenerateCalendarDays()

	// 5. Активные турны месяца
	first := layout.Date(1, uc.location)
	last := layout.Date(layout.LastDay, uc.location)
	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		Statuses:     domain.ActiveStatuses,
		SpecialistID: ptr.Ptr(req.SpecialistID),
		StartDate:    ptr.Ptr(first),
		EndDate:      ptr.Ptr(last),
	})
	if err != nil {
		uc.logger.Error("GetMonthAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Доступность по дням
	days := buildDays(cal, layout, entries, today, countByDate(appointments))

	uc.logger.Info("GetMonthAvailability: specialist=%s, %d entries, %d active appointments",
		req.SpecialistID, len(entries), len(appointments))

	return &Response{
		SpecialistID:      specialist.ID,
		SpecialistName:    specialist.FullName(),
		Year:              layout.Year,
		Month:             layout.Month,
		Title:             layout.Title,
		FirstWeekdayIndex: layout.FirstWeekdayIndex,
		Days:              days,
	}, nil
}
