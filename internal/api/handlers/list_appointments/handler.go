package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
)

const (
	msgMissingIdentity = "usuario no autenticado"
	msgInvalidParams   = "parámetros de consulta inválidos"
	msgForbidden       = "acceso restringido al personal de administración"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments
// Query params: tab (todos|pendientes|confirmados|rechazados|reprogramados), specialistId, from, to
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/appointments - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		query.Get("tab"),
		query.Get("specialistId"),
		query.Get("from"),
		query.Get("to"),
	)
	if err != nil {
		h.logger.Warn("GET /admin/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит роль администрации
	result, err := h.service.List(r.Context(), userID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /admin/appointments - Access denied: user_id=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /admin/appointments - Invalid filter: tab=%q, error=%v", serviceReq.Tab, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /admin/appointments - Failed to list appointments: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/appointments - Appointments retrieved: tab=%q, count=%d", serviceReq.Tab, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
