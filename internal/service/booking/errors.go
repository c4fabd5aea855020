package booking

import "errors"

var (
	// ErrUpdateInProgress возвращается, когда другая смена селектора или подтверждение еще выполняется
	ErrUpdateInProgress = errors.New("booking: update in progress")

	// ErrSuperseded возвращается загрузке, результат которой вытеснен более поздним выбором
	ErrSuperseded = errors.New("booking: superseded by a later selection")

	// ErrDayNotSelectable возвращается при выборе прошедшего или недоступного дня
	ErrDayNotSelectable = errors.New("booking: day is not selectable")

	// ErrNoScheduleLoaded возвращается, когда расписание специалиста не загружено
	ErrNoScheduleLoaded = errors.New("booking: no weekly schedule loaded")

	// ErrNoScheduleForWeekday возвращается, когда в расписании нет записи на день недели даты
	ErrNoScheduleForWeekday = errors.New("booking: no schedule entry for weekday")

	// ErrNoDialog возвращается при подтверждении без открытого диалога
	ErrNoDialog = errors.New("booking: no open confirmation dialog")

	// ErrDialogMismatch возвращается, когда подтверждается уже замененный диалог
	ErrDialogMismatch = errors.New("booking: confirmation dialog was replaced")

	// ErrSessionNotFound возвращается, когда сессия не найдена, истекла или принадлежит другому пользователю
	ErrSessionNotFound = errors.New("booking: session not found")

	// ErrInternal возвращается при ошибках загрузки справочников
	ErrInternal = errors.New("booking: internal error")
)
