package get_status_log

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

const (
	msgMissingIdentity = "usuario no autenticado"
	msgInvalidSort     = "orden inválido"
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

// Handle GET /api/v1/admin/status-log?sort=cambiado_en&order=desc
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/status-log - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	req := &models.StatusLogRequest{
		Sort:  r.URL.Query().Get("sort"),
		Order: r.URL.Query().Get("order"),
	}

	result, err := h.service.StatusLog(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /admin/status-log - Invalid sort: sort=%q, order=%q", req.Sort, req.Order)
			handlers.RespondBadRequest(w, msgInvalidSort)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /admin/status-log - Access denied: user_id=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /admin/status-log - Failed to get status log: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/status-log - Status log retrieved: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
