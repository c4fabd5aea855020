package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/calendar"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
)

// Session серверная сторона виджета записи: селекторы специалиста и специальности,
// календарь и не более одного диалога подтверждения.
// Загрузки выполняются без блокировки, результат применяется целиком после успешного ответа.
type Session struct {
	id    uuid.UUID
	owner uuid.UUID

	catalog  Catalog
	creator  AppointmentCreator
	clock    TimeProvider
	loc      *time.Location
	policy   Reentrancy
	logger   Logger
	ttl      time.Duration
	lastSeen time.Time

	mu           sync.Mutex
	cal          *calendar.Manager
	specialistID *uuid.UUID
	specialtyID  *int64
	specialists  []domain.Specialist
	specialties  []domain.Specialty
	dialog       *Dialog

	updating   bool   // политика reject
	token      uint64 // политика latest
	inFlight   int
	confirming bool
}

// SessionDeps зависимости сессии
type SessionDeps struct {
	Catalog  Catalog
	Creator  AppointmentCreator
	Clock    TimeProvider
	Location *time.Location
	Policy   Reentrancy
	TTL      time.Duration
	Logger   Logger
}

// NewSession создает сессию пользователя owner; календарь показывает текущий месяц
func NewSession(owner uuid.UUID, deps SessionDeps) *Session {
	if deps.Clock == nil {
		deps.Clock = &RealTimeProvider{}
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Policy == "" {
		deps.Policy = ReentrancyReject
	}
	now := deps.Clock.Now().In(deps.Location)
	return &Session{
		id:       uuid.New(),
		owner:    owner,
		catalog:  deps.Catalog,
		creator:  deps.Creator,
		clock:    deps.Clock,
		loc:      deps.Location,
		policy:   deps.Policy,
		logger:   deps.Logger,
		ttl:      deps.TTL,
		lastSeen: now,
		cal:      calendar.NewManager(now, deps.Logger),
	}
}

// ID идентификатор сессии
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Owner пользователь, создавший сессию
func (s *Session) Owner() uuid.UUID {
	return s.owner
}

func (s *Session) today() time.Time {
	now := s.clock.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// begin регистрирует загрузку по смене селектора и возвращает ее токен
func (s *Session) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == ReentrancyReject && s.updating {
		return 0, ErrUpdateInProgress
	}
	s.updating = true
	s.token++
	s.inFlight++
	return s.token, nil
}

// finish снимает отметку загрузки и, если результат актуален, применяет apply под блокировкой
func (s *Session) finish(token uint64, loadErr error, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight--
	s.updating = s.inFlight > 0

	if loadErr != nil {
		return fmt.Errorf("%w: %v", ErrInternal, loadErr)
	}
	if s.policy == ReentrancyLatest && token != s.token {
		return ErrSuperseded
	}
	apply()
	return nil
}

// Init загружает список специальностей и полный список специалистов
func (s *Session) Init(ctx context.Context) error {
	token, err := s.begin()
	if err != nil {
		return err
	}

	specialties, specialists, err := s.loadUnfiltered(ctx)
	return s.finish(token, err, func() {
		s.specialties = specialties
		s.specialists = specialists
	})
}

func (s *Session) loadUnfiltered(ctx context.Context) ([]domain.Specialty, []domain.Specialist, error) {
	specialties, err := s.catalog.Specialties(ctx)
	if err != nil {
		return nil, nil, err
	}
	specialists, err := s.catalog.Specialists(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return specialties, specialists, nil
}

// SelectSpecialist обрабатывает смену селектора специалиста; nil означает сброс
func (s *Session) SelectSpecialist(ctx context.Context, specialistID *uuid.UUID) error {
	token, err := s.begin()
	if err != nil {
		s.logger.Warn("SelectSpecialist: session=%s, change ignored: %v", s.id, err)
		return err
	}

	if specialistID == nil {
		s.logger.Info("SelectSpecialist: session=%s, specialist cleared", s.id)
		specialties, specialists, err := s.loadUnfiltered(ctx)
		return s.finish(token, err, func() {
			s.specialistID = nil
			s.specialtyID = nil
			s.specialties = specialties
			s.specialists = specialists
			s.resetCalendarLocked()
		})
	}

	id := *specialistID
	s.logger.Info("SelectSpecialist: session=%s, specialist=%s", s.id, id)
	entries, err := s.catalog.WeeklySchedule(ctx, id)
	return s.finish(token, err, func() {
		// специальность сбрасывается без вызова ее обработчика
		s.specialtyID = nil
		s.specialistID = &id
		s.cal.ClearSelection()
		s.dialog = nil
		s.cal.ApplyWeeklySchedule(entries)
		s.logger.Debug("SelectSpecialist: session=%s, available weekdays %v", s.id, domain.AvailableWeekdayNames(entries))
	})
}

// SelectSpecialty обрабатывает смену селектора специальности; nil означает сброс
func (s *Session) SelectSpecialty(ctx context.Context, specialtyID *int64) error {
	token, err := s.begin()
	if err != nil {
		s.logger.Warn("SelectSpecialty: session=%s, change ignored: %v", s.id, err)
		return err
	}

	var filter *int64
	if specialtyID != nil {
		v := *specialtyID
		filter = &v
	}
	s.logger.Info("SelectSpecialty: session=%s, specialty=%v", s.id, filter)

	specialists, err := s.catalog.Specialists(ctx, filter)
	return s.finish(token, err, func() {
		s.specialistID = nil
		s.specialtyID = filter
		s.specialists = specialists
		// расписание неизвестно, пока не выбран специалист
		s.resetCalendarLocked()
	})
}

func (s *Session) resetCalendarLocked() {
	s.cal.ClearAvailability()
	s.cal.ClearSelection()
	s.dialog = nil
}

// NextMonth переключает календарь на следующий месяц
func (s *Session) NextMonth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cal.AdvanceMonth()
}

// PrevMonth переключает календарь на предыдущий месяц
func (s *Session) PrevMonth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cal.RetreatMonth()
}

// Render строит сетку отображаемого месяца
func (s *Session) Render() CalendarView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

func (s *Session) renderLocked() CalendarView {
	layout := s.cal.GenerateCalendarDays()
	today := s.today()
	selected, hasSelected := s.cal.SelectedDate()

	view := CalendarView{
		Year:              layout.Year,
		Month:             layout.Month,
		Title:             layout.Title,
		FirstWeekdayIndex: layout.FirstWeekdayIndex,
		Days:              make([]DayCell, 0, layout.LastDay),
	}
	for day := 1; day <= layout.LastDay; day++ {
		date := layout.Date(day, s.loc)
		disabled := date.Before(today) || !s.cal.IsDayAvailable(date)
		view.Days = append(view.Days, DayCell{
			Day:        day,
			Date:       date,
			Weekday:    s.cal.WeekdayName(date),
			Today:      date.Equal(today),
			Disabled:   disabled,
			Selectable: !disabled,
			Selected:   hasSelected && date.Equal(selected),
		})
	}
	return view
}

// SelectDay выбирает день и открывает диалог подтверждения для записи расписания на его день недели.
// Недоступный день не меняет ни выбор, ни диалог.
func (s *Session) SelectDay(date time.Time) (*Dialog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	year, month := s.cal.DisplayedMonth()
	if day.Year() != year || day.Month() != month || day.Before(s.today()) || !s.cal.IsDayAvailable(day) {
		s.logger.Warn("SelectDay: session=%s, %s is not selectable", s.id, day.Format(domain.DateFormat))
		return nil, ErrDayNotSelectable
	}

	// новый выбор заменяет открытый диалог
	s.dialog = nil
	s.cal.SelectDate(day)

	entries, ok := s.cal.WeeklySchedule()
	if !ok {
		s.logger.Error("SelectDay: session=%s, %s available but no schedule loaded", s.id, day.Format(domain.DateFormat))
		s.cal.ClearSelection()
		return nil, ErrNoScheduleLoaded
	}
	entry, ok := domain.FindEntryForWeekday(entries, domain.WeekdayCodeOf(day))
	if !ok {
		s.logger.Error("SelectDay: session=%s, no schedule entry for %s (%s)", s.id, day.Format(domain.DateFormat), s.cal.WeekdayName(day))
		s.cal.ClearSelection()
		return nil, ErrNoScheduleForWeekday
	}

	dialog := &Dialog{
		ID:        uuid.New(),
		Date:      day,
		Weekday:   s.cal.WeekdayName(day),
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		TimeRange: entry.TimeRange(),
		Capacity:  entry.Capacity,
	}
	if s.specialistID != nil {
		dialog.SpecialistID = *s.specialistID
		dialog.SpecialistName = s.specialistNameLocked(*s.specialistID)
	}
	s.dialog = dialog

	cp := *dialog
	return &cp, nil
}

func (s *Session) specialistNameLocked(id uuid.UUID) string {
	for _, sp := range s.specialists {
		if sp.ID == id {
			return sp.FullName()
		}
	}
	return ""
}

// CloseDialog закрывает диалог подтверждения
func (s *Session) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = nil
}

// ConfirmBooking создает турн по открытому диалогу от имени identity.
// При успехе диалог закрывается, при любой ошибке остается открытым.
func (s *Session) ConfirmBooking(ctx context.Context, identity uuid.UUID, req ConfirmRequest) (*create_appointment.Response, error) {
	s.mu.Lock()
	if s.confirming {
		s.mu.Unlock()
		return nil, ErrUpdateInProgress
	}
	if s.dialog == nil {
		s.mu.Unlock()
		return nil, ErrNoDialog
	}
	if req.DialogID != nil && *req.DialogID != s.dialog.ID {
		s.mu.Unlock()
		return nil, ErrDialogMismatch
	}
	dialog := *s.dialog
	s.confirming = true
	s.mu.Unlock()

	s.logger.Info("ConfirmBooking: session=%s, dialog=%s, specialist=%s, date=%s",
		s.id, dialog.ID, dialog.SpecialistID, dialog.Date.Format(domain.DateFormat))

	resp, err := s.creator.Execute(ctx, &create_appointment.Request{
		IdentityID:   identity,
		SpecialistID: dialog.SpecialistID,
		SpecialtyID:  req.SpecialtyID,
		Date:         dialog.Date,
		Time:         dialog.StartTime,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirming = false
	if err != nil {
		s.logger.Warn("ConfirmBooking: session=%s, booking failed: %v", s.id, err)
		return nil, err
	}
	if s.dialog != nil && s.dialog.ID == dialog.ID {
		s.dialog = nil
	}
	s.logger.Info("ConfirmBooking: session=%s, appointment id=%d created", s.id, resp.ID)
	return resp, nil
}

// View снимок сессии
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.cal.Snapshot()
	view := SessionView{
		ID:                s.id,
		Specialists:       append([]domain.Specialist(nil), s.specialists...),
		Specialties:       append([]domain.Specialty(nil), s.specialties...),
		AvailableWeekdays: state.AvailableWeekdays,
		Calendar:          s.renderLocked(),
		Updating:          s.updating,
		ExpiresAt:         s.lastSeen.Add(s.ttl),
	}
	if s.specialistID != nil {
		id := *s.specialistID
		view.SelectedSpecialist = &id
	}
	if s.specialtyID != nil {
		id := *s.specialtyID
		view.SelectedSpecialty = &id
	}
	if s.dialog != nil {
		d := *s.dialog
		view.Dialog = &d
	}
	return view
}

// touch продлевает жизнь сессии; вызывается реестром
func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttl > 0 && now.Sub(s.lastSeen) > s.ttl
}
