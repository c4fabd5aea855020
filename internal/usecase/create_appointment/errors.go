package create_appointment

import "errors"

var (
	// ErrNotAuthenticated возвращается, когда запрос пришел без идентичности пользователя
	ErrNotAuthenticated = errors.New("create_appointment: not authenticated")

	// ErrPatientNotFound возвращается, когда для идентичности нет записи пациента
	ErrPatientNotFound = errors.New("create_appointment: patient not found")

	// ErrSpecialistNotFound возвращается, когда специалист не найден
	ErrSpecialistNotFound = errors.New("create_appointment: specialist not found")

	// ErrSpecialtyMismatch возвращается, когда специалист не практикует запрошенную специальность
	ErrSpecialtyMismatch = errors.New("create_appointment: specialist does not practice this specialty")

	// ErrSpecialtyRequired возвращается, когда специальность не указана и не выводится однозначно
	ErrSpecialtyRequired = errors.New("create_appointment: specialty is required")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrNoScheduleForWeekday возвращается, когда специалист не принимает в этот день недели
	ErrNoScheduleForWeekday = errors.New("create_appointment: no schedule for weekday")

	// ErrTimeMismatch возвращается, когда время не совпадает с началом приема в расписании
	ErrTimeMismatch = errors.New("create_appointment: time does not match schedule")

	// ErrSlotFull возвращается, когда все места на день заняты
	ErrSlotFull = errors.New("create_appointment: no spots left for this day")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
