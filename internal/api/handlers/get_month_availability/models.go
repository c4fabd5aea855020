package get_month_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	getMonthAvailability "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_month_availability"
)

// MonthAvailabilityResponse HTTP response model
type MonthAvailabilityResponse struct {
	SpecialistID      uuid.UUID         `json:"specialistId"`
	SpecialistName    string            `json:"specialistName"`
	Month             string            `json:"month"` // "2026-12"
	Title             string            `json:"title"` // "Diciembre 2026"
	FirstWeekdayIndex int               `json:"firstWeekdayIndex"`
	Days              []DayAvailability `json:"days"`
}

// DayAvailability модель дня месяца
type DayAvailability struct {
	Date           string  `json:"date"`
	Weekday        string  `json:"weekday"`
	Available      bool    `json:"available"`
	StartTime      *string `json:"startTime,omitempty"`
	EndTime        *string `json:"endTime,omitempty"`
	Capacity       *int    `json:"capacity,omitempty"` // 0 = без ограничения
	Booked         int     `json:"booked"`
	RemainingSpots *int    `json:"remainingSpots,omitempty"` // отсутствует при неограниченной вместимости
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(specialistIDStr, monthStr string) (*getMonthAvailability.Request, error) {
	specialistID, err := uuid.Parse(specialistIDStr)
	if err != nil {
		return nil, err
	}

	month, err := time.Parse(domain.MonthFormat, monthStr)
	if err != nil {
		return nil, err
	}

	return &getMonthAvailability.Request{
		SpecialistID: specialistID,
		Year:         month.Year(),
		Month:        month.Month(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthAvailability.Response) *MonthAvailabilityResponse {
	days := make([]DayAvailability, len(resp.Days))
	for i := range resp.Days {
		d := &resp.Days[i]
		day := DayAvailability{
			Date:      d.Date.Format(domain.DateFormat),
			Weekday:   string(d.Weekday),
			Available: d.Available,
			Booked:    d.Booked,
		}
		if d.Entry != nil {
			start, end, capacity := d.Entry.StartTime.String(), d.Entry.EndTime.String(), d.Entry.Capacity
			day.StartTime, day.EndTime, day.Capacity = &start, &end, &capacity
			if remaining := d.RemainingSpots(); remaining >= 0 {
				day.RemainingSpots = &remaining
			}
		}
		days[i] = day
	}

	return &MonthAvailabilityResponse{
		SpecialistID:      resp.SpecialistID,
		SpecialistName:    resp.SpecialistName,
		Month:             time.Date(resp.Year, resp.Month, 1, 0, 0, 0, 0, time.UTC).Format(domain.MonthFormat),
		Title:             resp.Title,
		FirstWeekdayIndex: resp.FirstWeekdayIndex,
		Days:              days,
	}
}
