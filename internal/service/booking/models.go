package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Reentrancy политика обработки смены селектора, пока предыдущая загрузка не завершена
type Reentrancy string

const (
	// ReentrancyReject отклоняет новую смену, пока выполняется предыдущая
	ReentrancyReject Reentrancy = "reject"
	// ReentrancyLatest применяет только результат последней смены
	ReentrancyLatest Reentrancy = "latest"
)

// DayCell ячейка дня в сетке месяца.
// Disabled и Selectable взаимоисключающие; Today не влияет на доступность.
type DayCell struct {
	Day        int
	Date       time.Time
	Weekday    domain.WeekdayName
	Today      bool
	Disabled   bool
	Selectable bool
	Selected   bool
}

// CalendarView сетка отображаемого месяца
type CalendarView struct {
	Year              int
	Month             time.Month
	Title             string
	FirstWeekdayIndex int
	Days              []DayCell
}

// Dialog диалог подтверждения выбранного дня
type Dialog struct {
	ID             uuid.UUID
	Date           time.Time
	Weekday        domain.WeekdayName
	SpecialistID   uuid.UUID
	SpecialistName string
	StartTime      types.TimeString
	EndTime        types.TimeString
	TimeRange      string // "08:00 - 12:00"
	Capacity       int
}

// ConfirmRequest подтверждение диалога
type ConfirmRequest struct {
	DialogID    *uuid.UUID // nil = текущий диалог
	SpecialtyID *int64
}

// SessionView снимок сессии для отрисовки
type SessionView struct {
	ID                 uuid.UUID
	SelectedSpecialist *uuid.UUID
	SelectedSpecialty  *int64
	Specialists        []domain.Specialist
	Specialties        []domain.Specialty
	AvailableWeekdays  []domain.WeekdayName
	Calendar           CalendarView
	Dialog             *Dialog
	Updating           bool
	ExpiresAt          time.Time
}
