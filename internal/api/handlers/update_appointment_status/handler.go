package update_appointment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "ID de turno inválido"
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgInvalidStatus        = "estado de turno inválido"
	msgInvalidTransition    = "el turno no admite este cambio de estado"
	msgNotFound             = "turno no encontrado"
	msgMissingIdentity      = "usuario no autenticado"
	msgForbidden            = "acceso restringido al personal de administración"
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

// Handle PATCH /api/v1/admin/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	// Сервис сам проверит роль администрации
	if err := h.service.UpdateStatus(r.Context(), appointmentID, userID, req.ToServiceRequest()); err != nil {
		h.respondError(w, appointmentID, userID.String(), req.Status, err)
		return
	}

	// Возвращаем актуальное состояние турна
	appointment, err := h.service.GetByID(r.Context(), appointmentID, userID)
	if err != nil {
		h.logger.Error("PATCH /admin/appointments/{id}/status - Failed to reload appointment: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/appointments/{id}/status - Status updated: appointment_id=%d, status=%s, user_id=%s",
		appointmentID, appointment.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID int64, userID, status string, err error) {
	switch {
	case errors.Is(err, appointments.ErrInvalidInput):
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid status: appointment_id=%d, status=%q", appointmentID, status)
		handlers.RespondBadRequest(w, msgInvalidStatus)

	case errors.Is(err, appointments.ErrInvalidTransition):
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Transition not allowed: appointment_id=%d, status=%q, error=%v",
			appointmentID, status, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, appointments.ErrAppointmentNotFound):
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Appointment not found: appointment_id=%d", appointmentID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, appointments.ErrAccessDenied):
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Access denied: user_id=%s", userID)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("PATCH /admin/appointments/{id}/status - Failed to update status: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
