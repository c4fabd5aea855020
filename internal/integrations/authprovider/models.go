package authprovider

import "github.com/google/uuid"

// Identity аутентифицированный пользователь провайдера
type Identity struct {
	ID    uuid.UUID
	Email string
}

// userResponse ответ GET /auth/v1/user
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Aud   string `json:"aud"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}
