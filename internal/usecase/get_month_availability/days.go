package get_month_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/calendar"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// buildDays вычисляет доступность каждого дня отображаемого месяца.
// День доступен, если он не раньше today и календарь считает его день недели рабочим.
func buildDays(
	cal *calendar.Manager,
	layout calendar.MonthLayout,
	entries []domain.WeeklyScheduleEntry,
	today time.Time,
	booked map[string]int,
) []domain.DayAvailability {
	days := make([]domain.DayAvailability, 0, layout.LastDay)
	for day := 1; day <= layout.LastDay; day++ {
		date := layout.Date(day, cal.Location())
		item := domain.DayAvailability{
			Date:    date,
			Weekday: cal.WeekdayName(date),
		}

		if !date.Before(today) && cal.IsDayAvailable(date) {
			if entry, ok := domain.FindEntryForWeekday(entries, domain.WeekdayCodeOf(date)); ok {
				item.Available = true
				item.Entry = &entry
				item.Booked = booked[date.Format(domain.DateFormat)]
			}
		}

		days = append(days, item)
	}
	return days
}

// countByDate количество активных турнов по датам
func countByDate(appointments []*domain.Appointment) map[string]int {
	counts := make(map[string]int, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		counts[a.Date.Format(domain.DateFormat)]++
	}
	return counts
}
