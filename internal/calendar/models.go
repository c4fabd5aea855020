package calendar

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// MonthLayout данные для построения сетки месяца
type MonthLayout struct {
	Year              int
	Month             time.Month
	FirstWeekdayIndex int // 0 = воскресенье, количество пустых ячеек перед первым числом
	LastDay           int
	Title             string // "Octubre 2026"
}

// Date дата дня месяца в часовом поясе календаря
func (l MonthLayout) Date(day int, loc *time.Location) time.Time {
	return time.Date(l.Year, l.Month, day, 0, 0, 0, 0, loc)
}

// State неизменяемый снимок состояния календаря
type State struct {
	Year              int
	Month             time.Month
	AvailableWeekdays []domain.WeekdayName // nil, если набор не задан
	SelectedDate      *time.Time
	WeeklySchedule    []domain.WeeklyScheduleEntry // nil, если расписание не загружено
}
