package calendar

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Manager хранит состояние календаря: отображаемый месяц, доступные дни недели,
// выбранную дату и недельное расписание активного специалиста.
// Не выполняет I/O и не потокобезопасен: доступ сериализует владелец (сессия бронирования).
type Manager struct {
	loc       *time.Location
	displayed time.Time // всегда первое число месяца, 00:00

	available map[domain.WeekdayName]struct{} // nil = набор не задан
	schedule  []domain.WeeklyScheduleEntry    // nil = расписание не загружено
	selected  *time.Time

	logger Logger
}

// NewManager создает календарь, отображающий месяц даты now
func NewManager(now time.Time, logger Logger) *Manager {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Manager{
		loc:       now.Location(),
		displayed: firstOfMonth(now),
		logger:    logger,
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Location часовой пояс календаря
func (m *Manager) Location() *time.Location {
	return m.loc
}

// SetAvailableWeekdays полностью заменяет набор доступных дней недели.
// Неизвестные названия отбрасываются.
func (m *Manager) SetAvailableWeekdays(names []domain.WeekdayName) {
	set := make(map[domain.WeekdayName]struct{}, len(names))
	for _, name := range names {
		if !name.IsValid() {
			m.logger.Debug("calendar: ignoring unknown weekday name %q", name)
			continue
		}
		set[name] = struct{}{}
	}
	m.available = set
}

// SetWeeklySchedule полностью заменяет недельное расписание (без слияния)
func (m *Manager) SetWeeklySchedule(entries []domain.WeeklyScheduleEntry) {
	if entries == nil {
		m.schedule = nil
		return
	}
	m.schedule = append(make([]domain.WeeklyScheduleEntry, 0, len(entries)), entries...)
}

// WeeklySchedule возвращает копию расписания; false, если расписание не загружено
func (m *Manager) WeeklySchedule() ([]domain.WeeklyScheduleEntry, bool) {
	if m.schedule == nil {
		return nil, false
	}
	return append([]domain.WeeklyScheduleEntry(nil), m.schedule...), true
}

// ApplyWeeklySchedule задает расписание и выведенный из него набор дней недели за один шаг
func (m *Manager) ApplyWeeklySchedule(entries []domain.WeeklyScheduleEntry) {
	if entries == nil {
		entries = []domain.WeeklyScheduleEntry{}
	}
	m.SetWeeklySchedule(entries)
	m.SetAvailableWeekdays(domain.AvailableWeekdayNames(entries))
}

// ClearAvailability сбрасывает расписание и набор дней: все дни становятся недоступны
func (m *Manager) ClearAvailability() {
	m.schedule = nil
	m.available = nil
}

// IsDayAvailable true, если день недели даты входит в набор доступных.
// Пока набор не задан, возвращает false.
func (m *Manager) IsDayAvailable(date time.Time) bool {
	if len(m.available) == 0 {
		m.logger.Debug("calendar: no available weekdays configured, %s unavailable", date.Format(domain.DateFormat))
		return false
	}
	name := m.WeekdayName(date)
	_, ok := m.available[name]
	m.logger.Debug("calendar: %s (%s) available=%t", date.Format(domain.DateFormat), name, ok)
	return ok
}

// WeekdayName название дня недели даты
func (m *Manager) WeekdayName(date time.Time) domain.WeekdayName {
	return domain.WeekdayNameOf(date)
}

// AdvanceMonth переключает на следующий месяц
func (m *Manager) AdvanceMonth() {
	m.displayed = m.displayed.AddDate(0, 1, 0)
}

// RetreatMonth переключает на предыдущий месяц
func (m *Manager) RetreatMonth() {
	m.displayed = m.displayed.AddDate(0, -1, 0)
}

// ShowMonth переключает отображаемый месяц напрямую
func (m *Manager) ShowMonth(year int, month time.Month) {
	m.displayed = time.Date(year, month, 1, 0, 0, 0, 0, m.loc)
}

// DisplayedMonth отображаемые год и месяц
func (m *Manager) DisplayedMonth() (int, time.Month) {
	return m.displayed.Year(), m.displayed.Month()
}

// SelectDate запоминает выбранную дату без проверки доступности
func (m *Manager) SelectDate(date time.Time) {
	d := truncateToDay(date)
	m.selected = &d
}

// SelectedDate выбранная дата; false, если ничего не выбрано
func (m *Manager) SelectedDate() (time.Time, bool) {
	if m.selected == nil {
		return time.Time{}, false
	}
	return *m.selected, true
}

// ClearSelection сбрасывает выбранную дату
func (m *Manager) ClearSelection() {
	m.selected = nil
}

// GenerateCalendarDays вычисляет раскладку отображаемого месяца
func (m *Manager) GenerateCalendarDays() MonthLayout {
	first := m.displayed
	last := first.AddDate(0, 1, -1)
	return MonthLayout{
		Year:              first.Year(),
		Month:             first.Month(),
		FirstWeekdayIndex: int(first.Weekday()),
		LastDay:           last.Day(),
		Title:             domain.MonthName(first.Month()) + " " + first.Format("2006"),
	}
}

// Snapshot копия текущего состояния
func (m *Manager) Snapshot() State {
	state := State{
		Year:  m.displayed.Year(),
		Month: m.displayed.Month(),
	}
	if m.available != nil {
		state.AvailableWeekdays = make([]domain.WeekdayName, 0, len(m.available))
		// порядок таблицы, а не порядок map
		for i := 0; i < 7; i++ {
			name, _ := domain.WeekdayNameFromIndex(i)
			if _, ok := m.available[name]; ok {
				state.AvailableWeekdays = append(state.AvailableWeekdays, name)
			}
		}
	}
	if m.selected != nil {
		d := *m.selected
		state.SelectedDate = &d
	}
	if schedule, ok := m.WeeklySchedule(); ok {
		state.WeeklySchedule = schedule
	}
	return state
}
