package cancel_appointment

import (
	"strings"

	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model; тело необязательно
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelRequest {
	reason := ""
	if r.Reason != nil {
		reason = strings.TrimSpace(*r.Reason)
	}
	return &models.CancelRequest{Reason: reason}
}
