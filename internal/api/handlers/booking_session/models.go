package booking_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/catalog/models"
)

// Направления переключения месяца
const (
	DirectionNext = "next"
	DirectionPrev = "prev"
)

// SelectSpecialistRequest HTTP request model; null сбрасывает выбор
type SelectSpecialistRequest struct {
	SpecialistID *uuid.UUID `json:"specialistId"`
}

// SelectSpecialtyRequest HTTP request model; null сбрасывает выбор
type SelectSpecialtyRequest struct {
	SpecialtyID *int64 `json:"specialtyId"`
}

// ChangeMonthRequest HTTP request model
type ChangeMonthRequest struct {
	Direction string `json:"direction" validate:"oneof=next prev"`
}

// SelectDayRequest HTTP request model
type SelectDayRequest struct {
	Date string `json:"date" validate:"required"` // "2026-12-07"
}

// SessionResponse состояние виджета записи
type SessionResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	SelectedSpecialistID *uuid.UUID                  `json:"selectedSpecialistId"`
	SelectedSpecialtyID  *int64                      `json:"selectedSpecialtyId"`
	Specialties          []models.SpecialtyResponse  `json:"specialties"`
	Specialists          []models.SpecialistResponse `json:"specialists"`
	AvailableWeekdays    []string                    `json:"availableWeekdays"`
	Calendar             CalendarResponse            `json:"calendar"`
	Dialog               *DialogResponse             `json:"dialog"`
	Updating             bool                        `json:"updating"`
	ExpiresAt            time.Time                   `json:"expiresAt"`
}

// CalendarResponse сетка месяца
type CalendarResponse struct {
	Month             string            `json:"month"` // "2026-12"
	Title             string            `json:"title"` // "Diciembre 2026"
	FirstWeekdayIndex int               `json:"firstWeekdayIndex"`
	Days              []DayCellResponse `json:"days"`
}

// DayCellResponse ячейка дня
type DayCellResponse struct {
	Day        int    `json:"day"`
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	Today      bool   `json:"today"`
	Disabled   bool   `json:"disabled"`
	Selectable bool   `json:"selectable"`
	Selected   bool   `json:"selected"`
}

// DialogResponse диалог подтверждения
type DialogResponse struct {
	ID             uuid.UUID `json:"id"`
	Date           string    `json:"date"`
	Weekday        string    `json:"weekday"`
	SpecialistID   uuid.UUID `json:"specialistId"`
	SpecialistName string    `json:"specialistName"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	TimeRange      string    `json:"timeRange"`
	Capacity       int       `json:"capacity"`
}

// FromSessionView конвертирует снимок сессии в HTTP response
func FromSessionView(v booking.SessionView) *SessionResponse {
	weekdays := make([]string, 0, len(v.AvailableWeekdays))
	for _, w := range v.AvailableWeekdays {
		weekdays = append(weekdays, string(w))
	}

	return &SessionResponse{
		ID:                   v.ID,
		SelectedSpecialistID: v.SelectedSpecialist,
		SelectedSpecialtyID:  v.SelectedSpecialty,
		Specialties:          models.FromDomainSpecialties(v.Specialties),
		Specialists:          models.FromDomainSpecialists(v.Specialists),
		AvailableWeekdays:    weekdays,
		Calendar:             FromCalendarView(v.Calendar),
		Dialog:               FromDialog(v.Dialog),
		Updating:             v.Updating,
		ExpiresAt:            v.ExpiresAt,
	}
}

// FromCalendarView конвертирует сетку месяца
func FromCalendarView(c booking.CalendarView) CalendarResponse {
	days := make([]DayCellResponse, len(c.Days))
	for i, d := range c.Days {
		days[i] = DayCellResponse{
			Day:        d.Day,
			Date:       d.Date.Format(domain.DateFormat),
			Weekday:    string(d.Weekday),
			Today:      d.Today,
			Disabled:   d.Disabled,
			Selectable: d.Selectable,
			Selected:   d.Selected,
		}
	}
	return CalendarResponse{
		Month:             time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC).Format(domain.MonthFormat),
		Title:             c.Title,
		FirstWeekdayIndex: c.FirstWeekdayIndex,
		Days:              days,
	}
}

// FromDialog конвертирует диалог; nil для закрытого диалога
func FromDialog(d *booking.Dialog) *DialogResponse {
	if d == nil {
		return nil
	}
	return &DialogResponse{
		ID:             d.ID,
		Date:           d.Date.Format(domain.DateFormat),
		Weekday:        string(d.Weekday),
		SpecialistID:   d.SpecialistID,
		SpecialistName: d.SpecialistName,
		StartTime:      d.StartTime.String(),
		EndTime:        d.EndTime.String(),
		TimeRange:      d.TimeRange,
		Capacity:       d.Capacity,
	}
}
