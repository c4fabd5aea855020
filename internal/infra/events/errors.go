package events

import "errors"

var (
	// ErrConnect ошибка подключения к брокеру
	ErrConnect = errors.New("events: failed to connect to broker")

	// ErrPublish ошибка публикации события
	ErrPublish = errors.New("events: failed to publish event")

	// ErrClosed публикация после Close
	ErrClosed = errors.New("events: publisher is closed")
)
