package confirm_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
)

type SessionRegistry interface {
	Get(id, owner uuid.UUID) (*booking.Session, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
