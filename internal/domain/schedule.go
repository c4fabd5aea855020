package domain

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// WeeklyScheduleEntry one row of a specialist's weekly availability
type WeeklyScheduleEntry struct {
	ID           int64
	SpecialistID uuid.UUID
	Weekday      int // 1 = понедельник ... 7 = воскресенье
	StartTime    types.TimeString
	EndTime      types.TimeString
	Capacity     int // 0 = без ограничения
}

// TimeRange текст интервала для диалога подтверждения: "08:00 - 12:00"
func (e WeeklyScheduleEntry) TimeRange() string {
	return fmt.Sprintf("%s - %s", e.StartTime, e.EndTime)
}

// WeekdayName название дня недели записи
func (e WeeklyScheduleEntry) WeekdayName() (WeekdayName, error) {
	return WeekdayNameFromCode(e.Weekday)
}

// HasCapacityLimit true, если количество турнов в день ограничено
func (e WeeklyScheduleEntry) HasCapacityLimit() bool {
	return e.Capacity > 0
}

// FindEntryForWeekday возвращает первую запись для кода дня недели
func FindEntryForWeekday(entries []WeeklyScheduleEntry, code int) (WeeklyScheduleEntry, bool) {
	for _, e := range entries {
		if e.Weekday == code {
			return e, true
		}
	}
	return WeeklyScheduleEntry{}, false
}

// AvailableWeekdayNames набор дней недели, в которые специалист принимает.
// Записи с некорректным кодом пропускаются.
func AvailableWeekdayNames(entries []WeeklyScheduleEntry) []WeekdayName {
	seen := make(map[WeekdayName]struct{}, len(entries))
	names := make([]WeekdayName, 0, len(entries))
	for _, e := range entries {
		name, err := WeekdayNameFromCode(e.Weekday)
		if err != nil {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
