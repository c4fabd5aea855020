package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	specialistRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/specialist"
)

const (
	keySpecialties          = "specialties"
	keySpecialists          = "specialists:all"
	keySpecialistsBySpecial = "specialists:specialty:"
	keySchedule             = "schedule:"
	keySpecialistSpecialty  = "specialist-specialties:"
)

// Service справочники клиники: специальности, специалисты и их недельные расписания.
// Если задан кэш, чтение идет через него; ошибки кэша только логируются.
type Service struct {
	specialistRepo SpecialistRepository
	scheduleRepo   ScheduleRepository
	cache          Cache
	logger         Logger
}

// NewService создает новый экземпляр сервиса справочников. cache может быть nil.
func NewService(
	specialistRepo SpecialistRepository,
	scheduleRepo ScheduleRepository,
	cache Cache,
	logger Logger,
) *Service {
	return &Service{
		specialistRepo: specialistRepo,
		scheduleRepo:   scheduleRepo,
		cache:          cache,
		logger:         logger,
	}
}

// Specialties список всех специальностей
func (s *Service) Specialties(ctx context.Context) ([]domain.Specialty, error) {
	var cached []domain.Specialty
	if s.fromCache(ctx, keySpecialties, &cached) {
		return cached, nil
	}

	specialties, err := s.specialistRepo.ListSpecialties(ctx)
	if err != nil {
		s.logger.Error("Specialties: repository error: %v", err)
		return nil, fmt.Errorf("%w: Specialties - repository error: %v", ErrInternal, err)
	}

	s.toCache(ctx, keySpecialties, specialties)
	return specialties, nil
}

// Specialists список специалистов; со specialtyID только практикующие эту специальность.
// Специальность без специалистов дает пустой список.
func (s *Service) Specialists(ctx context.Context, specialtyID *int64) ([]domain.Specialist, error) {
	key := keySpecialists
	if specialtyID != nil {
		key = keySpecialistsBySpecial + strconv.FormatInt(*specialtyID, 10)
	}

	var cached []domain.Specialist
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	specialists, err := s.specialistRepo.List(ctx, specialtyID)
	if err != nil {
		s.logger.Error("Specialists: repository error, specialty=%v: %v", specialtyID, err)
		return nil, fmt.Errorf("%w: Specialists - repository error: %v", ErrInternal, err)
	}

	s.toCache(ctx, key, specialists)
	return specialists, nil
}

// Specialist получает специалиста по ID
func (s *Service) Specialist(ctx context.Context, id uuid.UUID) (*domain.Specialist, error) {
	specialist, err := s.specialistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, specialistRepo.ErrSpecialistNotFound) {
			return nil, ErrSpecialistNotFound
		}
		s.logger.Error("Specialist: repository error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Specialist - repository error: %v", ErrInternal, err)
	}
	return specialist, nil
}

// WeeklySchedule недельное расписание специалиста.
// Специалист без расписания дает пустой список, а не ошибку.
func (s *Service) WeeklySchedule(ctx context.Context, specialistID uuid.UUID) ([]domain.WeeklyScheduleEntry, error) {
	key := keySchedule + specialistID.String()

	var cached []domain.WeeklyScheduleEntry
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	entries, err := s.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil {
		s.logger.Error("WeeklySchedule: repository error for specialist=%s: %v", specialistID, err)
		return nil, fmt.Errorf("%w: WeeklySchedule - repository error: %v", ErrInternal, err)
	}

	s.toCache(ctx, key, entries)
	return entries, nil
}

// SpecialistSpecialties специальности, которые практикует специалист
func (s *Service) SpecialistSpecialties(ctx context.Context, specialistID uuid.UUID) ([]domain.Specialty, error) {
	key := keySpecialistSpecialty + specialistID.String()

	var cached []domain.Specialty
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	specialties, err := s.specialistRepo.ListSpecialtiesBySpecialist(ctx, specialistID)
	if err != nil {
		s.logger.Error("SpecialistSpecialties: repository error for specialist=%s: %v", specialistID, err)
		return nil, fmt.Errorf("%w: SpecialistSpecialties - repository error: %v", ErrInternal, err)
	}

	s.toCache(ctx, key, specialties)
	return specialties, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.logger.Warn("Catalog: cache read failed, key=%s: %v", key, err)
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		s.logger.Warn("Catalog: cache write failed, key=%s: %v", key, err)
	}
}
