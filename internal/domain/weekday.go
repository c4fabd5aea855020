package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWeekdayCode код дня недели вне диапазона 1..7
var ErrInvalidWeekdayCode = errors.New("domain: invalid weekday code")

// WeekdayName название дня недели на испанском, как оно хранится и показывается пациенту
type WeekdayName string

const (
	Domingo   WeekdayName = "Domingo"
	Lunes     WeekdayName = "Lunes"
	Martes    WeekdayName = "Martes"
	Miercoles WeekdayName = "Miércoles"
	Jueves    WeekdayName = "Jueves"
	Viernes   WeekdayName = "Viernes"
	Sabado    WeekdayName = "Sábado"
)

// weekdayNames индексируется time.Weekday (0 = воскресенье)
var weekdayNames = [7]WeekdayName{Domingo, Lunes, Martes, Miercoles, Jueves, Viernes, Sabado}

// monthNames для заголовка календаря, индекс time.Month-1
var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// WeekdayNameOf возвращает название дня недели для даты
func WeekdayNameOf(date time.Time) WeekdayName {
	return weekdayNames[date.Weekday()]
}

// WeekdayNameFromIndex название по индексу 0..6 (0 = воскресенье)
func WeekdayNameFromIndex(index int) (WeekdayName, bool) {
	if index < 0 || index >= len(weekdayNames) {
		return "", false
	}
	return weekdayNames[index], true
}

// WeekdayCodeOf код дня недели в формате хранения: 1 = понедельник ... 7 = воскресенье
func WeekdayCodeOf(date time.Time) int {
	return WeekdayCodeFromIndex(int(date.Weekday()))
}

// WeekdayCodeFromIndex переводит индекс 0..6 (0 = воскресенье) в код 1..7
func WeekdayCodeFromIndex(index int) int {
	if index == 0 {
		return 7
	}
	return index
}

// WeekdayNameFromCode название для кода 1..7
func WeekdayNameFromCode(code int) (WeekdayName, error) {
	if code < MinWeekdayCode || code > MaxWeekdayCode {
		return "", fmt.Errorf("%w: %d", ErrInvalidWeekdayCode, code)
	}
	return weekdayNames[code%7], nil
}

// WeekdayCodeFromName обратное преобразование названия в код 1..7
func WeekdayCodeFromName(name WeekdayName) (int, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return WeekdayCodeFromIndex(i), true
		}
	}
	return 0, false
}

// IsValid true для одного из семи известных названий
func (n WeekdayName) IsValid() bool {
	_, ok := WeekdayCodeFromName(n)
	return ok
}

// MonthName название месяца на испанском
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}
