package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Service сервис жизненного цикла турнов: просмотр, отмена пациентом,
// смена статуса и перенос персоналом, журнал изменений
type Service struct {
	appointmentRepo AppointmentRepository
	patientRepo     PatientRepository
	specialistRepo  SpecialistRepository
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса турнов. publisher и metrics могут быть nil.
func NewService(
	appointmentRepo AppointmentRepository,
	patientRepo PatientRepository,
	specialistRepo SpecialistRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		specialistRepo:  specialistRepo,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		logger:          logger,
	}
}

// GetByID получает турн по ID.
// Доступно пациенту-владельцу и персоналу администрации.
func (s *Service) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%s", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appointment.PatientID != userID {
		if err := s.checkAdminAccess(ctx, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%s to appointment id=%d", userID, id)
			return nil, err
		}
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListForPatient турны пациента, опционально с фильтром по статусу
func (s *Service) ListForPatient(ctx context.Context, userID uuid.UUID, status *string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForPatient: fetching appointments for user=%s, status=%v", userID, status)

	filter := domain.AppointmentsFilter{PatientID: &userID}
	if status != nil {
		domainStatus, err := models.ToDomainStatus(*status)
		if err != nil {
			s.logger.Warn("ListForPatient: invalid status=%s for user=%s", *status, userID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Statuses = []domain.AppointmentStatus{domainStatus}
	}

	items, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListForPatient: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: ListForPatient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForPatient: successfully fetched %d appointments for user=%s", len(items), userID)
	return models.FromDomainAppointmentList(items), nil
}

// List турны для экрана администрации с вкладками по статусам
func (s *Service) List(ctx context.Context, userID uuid.UUID, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments tab=%q by user=%s", req.Tab, userID)

	if err := s.checkAdminAccess(ctx, userID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(items))
	return models.FromDomainAppointmentList(items), nil
}

// Cancel отменяет турн по запросу пациента-владельца
func (s *Service) Cancel(ctx context.Context, id int64, userID uuid.UUID, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%s", id, userID)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if appointment.PatientID != userID {
			s.logger.Warn("Cancel: user=%s is not the owner of appointment id=%d", userID, id)
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.changeStatus(txCtx, "Cancel", appointment, domain.StatusCancelled, userID); err != nil {
			return err
		}
		cancelled = appointment
		return nil
	})
	if err != nil {
		return err
	}

	s.afterStatusChange(ctx, cancelled, userID, req.Reason)
	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// UpdateStatus меняет статус турна. Доступно только персоналу администрации.
// Перенос выполняется через Reschedule.
func (s *Service) UpdateStatus(ctx context.Context, id int64, userID uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%s", id, req.Status, userID)

	if err := s.checkAdminAccess(ctx, userID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if newStatus == domain.StatusReprogrammed {
		return fmt.Errorf("%w: use reschedule to reprogram an appointment", ErrInvalidTransition)
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d",
				appointment.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
		}

		if err := s.changeStatus(txCtx, "UpdateStatus", appointment, newStatus, userID); err != nil {
			return err
		}
		updated = appointment
		return nil
	})
	if err != nil {
		return err
	}

	s.afterStatusChange(ctx, updated, userID, "")
	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return nil
}

// Reschedule переносит турн на другую дату (и, опционально, к другому специалисту).
// Статус становится reprogramado. Доступно только персоналу администрации.
func (s *Service) Reschedule(ctx context.Context, id int64, userID uuid.UUID, req *models.RescheduleRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reschedule: moving appointment id=%d to %s %s by user=%s",
		id, req.Date.Format(domain.DateFormat), req.Time, userID)

	if err := s.checkAdminAccess(ctx, userID); err != nil {
		return nil, err
	}

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	at, err := types.NewTimeStringFromString(string(req.Time))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, s.location)
	now := s.timeProvider.Now().In(s.location)
	if date.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)) {
		s.logger.Warn("Reschedule: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	var rescheduled *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Текущее состояние турна
		appointment, err := s.getAppointment(txCtx, "Reschedule", id)
		if err != nil {
			return err
		}
		if !appointment.CanBeRescheduled() {
			s.logger.Warn("Reschedule: appointment id=%d cannot be rescheduled, status=%s", id, appointment.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, domain.StatusReprogrammed)
		}

		// 3. Новый специалист и специальность
		specialistID := appointment.SpecialistID
		if req.SpecialistID != nil {
			specialistID = *req.SpecialistID
		}
		specialtyID := appointment.SpecialtyID
		if req.SpecialtyID != nil {
			specialtyID = *req.SpecialtyID
		}
		if specialistID != appointment.SpecialistID || specialtyID != appointment.SpecialtyID {
			if err := s.checkSpecialty(txCtx, specialistID, specialtyID); err != nil {
				return err
			}
		}

		// 4. Переносим и пишем журнал
		draft := domain.NewAppointmentDraft(appointment.PatientID, specialistID, specialtyID, date, at)
		if err := s.appointmentRepo.Reschedule(txCtx, id, draft); err != nil {
			return s.mapRepoError("Reschedule", id, err)
		}
		if _, err := s.appointmentRepo.InsertStatusChange(txCtx, domain.StatusChange{
			AppointmentID: id,
			NewStatus:     domain.StatusReprogrammed,
			ChangedBy:     userID,
		}); err != nil {
			s.logger.Error("Reschedule: failed to log status change for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Reschedule - status log: %v", ErrInternal, err)
		}

		rescheduled, err = s.getAppointment(txCtx, "Reschedule", id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, rescheduled, userID, "")
	s.logger.Info("Reschedule: successfully rescheduled appointment id=%d", id)
	return models.FromDomainAppointment(rescheduled), nil
}

// StatusLog журнал изменений статусов. Доступно только персоналу администрации.
func (s *Service) StatusLog(ctx context.Context, userID uuid.UUID, req *models.StatusLogRequest) (*models.StatusLogResponse, error) {
	s.logger.Info("StatusLog: fetching status log sort=%q order=%q by user=%s", req.Sort, req.Order, userID)

	if err := s.checkAdminAccess(ctx, userID); err != nil {
		return nil, err
	}

	sort, descending, err := req.ToDomainSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var changes []*domain.StatusChange
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		changes, err = s.appointmentRepo.ListStatusChanges(txCtx, sort, descending)
		return err
	})
	if err != nil {
		s.logger.Error("StatusLog: repository error: %v", err)
		return nil, fmt.Errorf("%w: StatusLog - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStatusLog(changes), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(op, id, err)
	}
	return appointment, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// changeStatus обновляет статус и пишет строку журнала; вызывается внутри транзакции
func (s *Service) changeStatus(ctx context.Context, op string, appointment *domain.Appointment, status domain.AppointmentStatus, userID uuid.UUID) error {
	if err := s.appointmentRepo.UpdateStatus(ctx, appointment.ID, status); err != nil {
		return s.mapRepoError(op, appointment.ID, err)
	}
	if _, err := s.appointmentRepo.InsertStatusChange(ctx, domain.StatusChange{
		AppointmentID: appointment.ID,
		NewStatus:     status,
		ChangedBy:     userID,
	}); err != nil {
		s.logger.Error("%s: failed to log status change for appointment id=%d: %v", op, appointment.ID, err)
		return fmt.Errorf("%w: %s - status log: %v", ErrInternal, op, err)
	}
	appointment.Status = status
	return nil
}

// afterStatusChange метрика и событие после коммита
func (s *Service) afterStatusChange(ctx context.Context, a *domain.Appointment, userID uuid.UUID, reason string) {
	if s.metrics != nil {
		s.metrics.StatusChanged(string(a.Status))
	}
	if s.publisher == nil {
		return
	}
	event := events.AppointmentEvent{
		ID:            uuid.New(),
		Type:          events.TypeAppointmentStatusChanged,
		OccurredAt:    s.timeProvider.Now(),
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		SpecialistID:  a.SpecialistID,
		SpecialtyID:   a.SpecialtyID,
		Date:          a.Date.Format(domain.DateFormat),
		Time:          a.Time.String(),
		Status:        string(a.Status),
		ChangedBy:     &userID,
		Reason:        reason,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("afterStatusChange: failed to publish event for appointment id=%d: %v", a.ID, err)
	}
}

func (s *Service) checkSpecialty(ctx context.Context, specialistID uuid.UUID, specialtyID int64) error {
	specialties, err := s.specialistRepo.ListSpecialtiesBySpecialist(ctx, specialistID)
	if err != nil {
		s.logger.Error("checkSpecialty: failed to get specialties of %s: %v", specialistID, err)
		return fmt.Errorf("%w: checkSpecialty - repository error: %v", ErrInternal, err)
	}
	for _, sp := range specialties {
		if sp.ID == specialtyID {
			return nil
		}
	}
	s.logger.Warn("checkSpecialty: specialist=%s does not practice specialty=%d", specialistID, specialtyID)
	return ErrSpecialtyMismatch
}

// checkAdminAccess проверяет, что пользователь входит в персонал администрации
func (s *Service) checkAdminAccess(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.patientRepo.HasRole(ctx, userID, domain.RoleAdministration)
	if err != nil {
		s.logger.Error("checkAdminAccess: failed to check role of user=%s: %v", userID, err)
		return fmt.Errorf("%w: checkAdminAccess - repository error: %v", ErrInternal, err)
	}
	if !ok {
		s.logger.Warn("checkAdminAccess: user=%s is not administration staff", userID)
		return ErrAccessDenied
	}
	return nil
}
