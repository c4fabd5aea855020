package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	msgInvalidAppointmentID = "ID de turno inválido"
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgInvalidDateFormat    = "formato de fecha inválido, se espera AAAA-MM-DD"
	msgInvalidTimeFormat    = "formato de hora inválido, se espera HH:MM"
	msgInvalidInput         = "datos de reprogramación inválidos"
	msgPastDate             = "no se puede reprogramar a una fecha pasada"
	msgSpecialtyMismatch    = "el especialista no atiende esa especialidad"
	msgInvalidTransition    = "el turno ya no puede reprogramarse"
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

// Handle PUT /api/v1/admin/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Failed to parse request: %v", err)
		if errors.Is(err, types.ErrInvalidTimeString) {
			handlers.RespondBadRequest(w, msgInvalidTimeFormat)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDateFormat)
		}
		return
	}

	result, err := h.service.Reschedule(r.Context(), appointmentID, userID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, appointments.ErrInvalidDate):
			h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Past date: appointment_id=%d, date=%s", appointmentID, req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, appointments.ErrSpecialtyMismatch):
			h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Specialty mismatch: appointment_id=%d, specialist_id=%v, specialty_id=%v",
				appointmentID, req.SpecialistID, req.SpecialtyID)
			handlers.RespondBadRequest(w, msgSpecialtyMismatch)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Transition not allowed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PUT /admin/appointments/{id}/reschedule - Access denied: user_id=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /admin/appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/appointments/{id}/reschedule - Appointment rescheduled: appointment_id=%d, date=%s, time=%s",
		appointmentID, result.Date, result.Time)
	handlers.RespondJSON(w, http.StatusOK, result)
}
