package domain

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MinWeekdayCode              = 1
	MaxWeekdayCode              = 7
)

// RoleAdministration роль персонала, управляющего турнами
const RoleAdministration = "administracion"

// ActiveStatuses статусы, занимающие место в расписании специалиста.
// Используются при проверке вместимости дня.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusReprogrammed,
}

// InactiveStatuses финальные статусы, не занимающие место
var InactiveStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCancelled,
}
