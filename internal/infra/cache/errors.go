package cache

import "errors"

var (
	// ErrGet ошибка чтения из redis
	ErrGet = errors.New("cache: failed to get value")

	// ErrSet ошибка записи в redis
	ErrSet = errors.New("cache: failed to set value")

	// ErrDelete ошибка удаления из redis
	ErrDelete = errors.New("cache: failed to delete value")

	// ErrCodec ошибка сериализации значения
	ErrCodec = errors.New("cache: failed to encode or decode value")
)
