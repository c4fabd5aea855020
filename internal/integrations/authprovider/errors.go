package authprovider

import "errors"

var (
	// ErrUnauthenticated возвращается, когда токен отсутствует, просрочен или не принят провайдером
	ErrUnauthenticated = errors.New("authprovider: unauthenticated")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("authprovider client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("authprovider client: invalid response")
)
