package booking_session

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
)

type SessionRegistry interface {
	Create(ctx context.Context, owner uuid.UUID) (*booking.Session, error)
	Get(id, owner uuid.UUID) (*booking.Session, error)
	Delete(id, owner uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
