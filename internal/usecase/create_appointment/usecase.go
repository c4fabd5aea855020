package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/events"
	patientRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/patient"
	scheduleRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/schedule"
	specialistRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/specialist"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

// UseCase use case для создания турна из подтвержденного диалога
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	specialistRepo  SpecialistRepository
	patientRepo     PatientRepository
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	specialistRepo SpecialistRepository,
	patientRepo PatientRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
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
		patientRepo:     patientRepo,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		logger:          logger,
	}
}

// Execute выполняет use case создания турна.
// Проверка вместимости и вставка идут в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.BookingFailed(failureReason(err))
		}
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.AppointmentCreated()
	}
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	date := normalizeDate(req.Date, uc.location)
	uc.logger.Info("CreateAppointment: identity=%s, specialist=%s, specialty=%v, date=%s, time=%s",
		req.IdentityID, req.SpecialistID, req.SpecialtyID, date.Format(domain.DateFormat), req.Time)

	// 2. Дата не в прошлом
	if err := validateDate(date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Пациент по идентичности
	patient, err := uc.patientRepo.GetByID(ctx, req.IdentityID)
	if err != nil {
		if errors.Is(err, patientRepo.ErrPatientNotFound) {
			uc.logger.Warn("CreateAppointment: no patient record for identity=%s", req.IdentityID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get patient %s: %v", req.IdentityID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// 4. Специалист и специальность
	specialist, err := uc.specialistRepo.GetByID(ctx, req.SpecialistID)
	if err != nil {
		if errors.Is(err, specialistRepo.ErrSpecialistNotFound) {
			uc.logger.Warn("CreateAppointment: specialist id=%s not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get specialist %s: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}

	specialties, err := uc.specialistRepo.ListSpecialtiesBySpecialist(ctx, req.SpecialistID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get specialties of %s: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialties: %v", ErrInternal, err)
	}

	specialty, err := resolveSpecialty(req.SpecialtyID, specialties)
	if err != nil {
		uc.logger.Warn("CreateAppointment: specialty resolution failed for specialist=%s, requested=%v: %v",
			req.SpecialistID, req.SpecialtyID, err)
		return nil, err
	}

	var (
		created *domain.Appointment
		entry   *domain.WeeklyScheduleEntry
	)

	// 5. Операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Запись расписания на день недели даты
		weekday := domain.WeekdayCodeOf(date)
		entry, err = uc.scheduleRepo.GetForWeekday(txCtx, req.SpecialistID, weekday)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleEntryNotFound) {
				uc.logger.Warn("CreateAppointment: specialist=%s has no schedule for weekday=%d", req.SpecialistID, weekday)
				return ErrNoScheduleForWeekday
			}
			uc.logger.Error("CreateAppointment: failed to get schedule entry: %v", err)
			return fmt.Errorf("%w: failed to get schedule entry: %v", ErrInternal, err)
		}

		if !req.Time.IsZero() && req.Time.Minutes() != entry.StartTime.Minutes() {
			uc.logger.Warn("CreateAppointment: time=%s does not match schedule start=%s", req.Time, entry.StartTime)
			return ErrTimeMismatch
		}
		at := entry.StartTime

		// 5.2. Активные турны специалиста на дату с блокировкой (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			Statuses:     domain.ActiveStatuses,
			SpecialistID: ptr.Ptr(req.SpecialistID),
			StartDate:    ptr.Ptr(date),
			EndDate:      ptr.Ptr(date),
			ForUpdate:    true,
		}
		booked, err := uc.appointmentRepo.List(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 5.3. Проверяем вместимость дня
		if !hasFreeSpot(entry, len(booked)) {
			uc.logger.Warn("CreateAppointment: day is full, %d/%d spots taken", len(booked), entry.Capacity)
			return ErrSlotFull
		}

		// 5.4. Сохраняем черновик как pendiente
		draft := domain.NewAppointmentDraft(patient.ID, specialist.ID, specialty.ID, date, at)
		created, err = uc.appointmentRepo.Create(txCtx, draft)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	// 6. Событие публикуется после коммита, ошибка только логируется
	uc.publishCreated(ctx, created)

	return &Response{
		ID:             created.ID,
		PatientID:      created.PatientID,
		SpecialistID:   created.SpecialistID,
		SpecialtyID:    created.SpecialtyID,
		Date:           created.Date,
		Time:           created.Time,
		WeekdayCode:    created.WeekdayCode,
		Month:          created.Month,
		Year:           created.Year,
		Status:         created.Status,
		PatientName:    patient.FullName(),
		SpecialistName: specialist.FullName(),
		SpecialtyName:  specialty.Name,
		TimeRange:      entry.TimeRange(),
		CreatedAt:      created.CreatedAt,
		UpdatedAt:      created.UpdatedAt,
	}, nil
}

func (uc *UseCase) publishCreated(ctx context.Context, a *domain.Appointment) {
	if uc.publisher == nil {
		return
	}
	event := events.AppointmentEvent{
		ID:            uuid.New(),
		Type:          events.TypeAppointmentCreated,
		OccurredAt:    uc.timeProvider.Now(),
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		SpecialistID:  a.SpecialistID,
		SpecialtyID:   a.SpecialtyID,
		Date:          a.Date.Format(domain.DateFormat),
		Time:          a.Time.String(),
		Status:        string(a.Status),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for appointment id=%d: %v", a.ID, err)
	}
}

// failureReason метка метрики неудачного бронирования
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrTimeMismatch):
		return "invalid_input"
	case errors.Is(err, ErrPatientNotFound):
		return "patient_not_found"
	case errors.Is(err, ErrSpecialistNotFound):
		return "specialist_not_found"
	case errors.Is(err, ErrSpecialtyMismatch), errors.Is(err, ErrSpecialtyRequired):
		return "specialty"
	case errors.Is(err, ErrNoScheduleForWeekday):
		return "no_schedule"
	case errors.Is(err, ErrSlotFull):
		return "slot_full"
	default:
		return "internal"
	}
}
