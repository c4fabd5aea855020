package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
	createAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
)

const (
	msgMissingIdentity    = "usuario no autenticado"
	msgInvalidSessionID   = "ID de sesión inválido"
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgSessionNotFound    = "sesión de reserva no encontrada o vencida"
	msgNoDialog           = "no hay un día seleccionado para confirmar"
	msgDialogMismatch     = "el diálogo fue reemplazado por una selección más reciente"
	msgInProgress         = "la confirmación anterior todavía está en curso"
	msgPatientNotFound    = "no existe un paciente asociado al usuario"
	msgSpecialistNotFound = "especialista no encontrado"
	msgSpecialtyMismatch  = "el especialista no atiende esa especialidad"
	msgSpecialtyRequired  = "debe indicar la especialidad del turno"
	msgInvalidDate        = "no se puede reservar un turno en una fecha pasada"
	msgNoSchedule         = "el especialista no atiende ese día de la semana"
	msgTimeMismatch       = "el horario no coincide con el horario de atención"
	msgSlotFull           = "no quedan turnos disponibles para ese día"
	msgInvalidInput       = "datos del turno inválidos"
)

type Handler struct {
	registry SessionRegistry
	logger   Logger
}

func NewHandler(registry SessionRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// Handle POST /api/v1/booking/sessions/{sessionId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/sessions/{id}/confirm - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/confirm - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req ConfirmBookingRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.registry.Get(sessionID, userID)
	if err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/confirm - Session not found: session_id=%s, user_id=%s", sessionID, userID)
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	// Создаем турн; при ошибке диалог остается открытым
	result, err := session.ConfirmBooking(r.Context(), userID, req.ToSessionRequest())
	if err != nil {
		h.respondError(w, sessionID, userID, err)
		return
	}

	h.logger.Info("POST /booking/sessions/{id}/confirm - Appointment created: appointment_id=%d, session_id=%s, user_id=%s",
		result.ID, sessionID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, sessionID, userID uuid.UUID, err error) {
	const route = "POST /booking/sessions/{id}/confirm"

	type mapping struct {
		target  error
		status  int
		message string
	}
	known := []mapping{
		{booking.ErrNoDialog, http.StatusNotFound, msgNoDialog},
		{booking.ErrDialogMismatch, http.StatusConflict, msgDialogMismatch},
		{booking.ErrUpdateInProgress, http.StatusConflict, msgInProgress},
		{createAppointment.ErrNotAuthenticated, http.StatusUnauthorized, msgMissingIdentity},
		{createAppointment.ErrPatientNotFound, http.StatusNotFound, msgPatientNotFound},
		{createAppointment.ErrSpecialistNotFound, http.StatusNotFound, msgSpecialistNotFound},
		{createAppointment.ErrSpecialtyMismatch, http.StatusBadRequest, msgSpecialtyMismatch},
		{createAppointment.ErrSpecialtyRequired, http.StatusBadRequest, msgSpecialtyRequired},
		{createAppointment.ErrInvalidDate, http.StatusBadRequest, msgInvalidDate},
		{createAppointment.ErrNoScheduleForWeekday, http.StatusNotFound, msgNoSchedule},
		{createAppointment.ErrTimeMismatch, http.StatusBadRequest, msgTimeMismatch},
		{createAppointment.ErrSlotFull, http.StatusConflict, msgSlotFull},
		{createAppointment.ErrInvalidInput, http.StatusBadRequest, msgInvalidInput},
	}

	for _, m := range known {
		if errors.Is(err, m.target) {
			h.logger.Warn("%s - Booking rejected: session_id=%s, user_id=%s, error=%v", route, sessionID, userID, err)
			handlers.RespondError(w, m.status, m.message)
			return
		}
	}

	h.logger.Error("%s - Failed to create appointment: session_id=%s, user_id=%s, error=%v", route, sessionID, userID, err)
	handlers.RespondInternalError(w)
}
