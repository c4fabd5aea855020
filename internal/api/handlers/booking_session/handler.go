package booking_session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
)

const (
	msgMissingIdentity    = "usuario no autenticado"
	msgInvalidSessionID   = "ID de sesión inválido"
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidDirection   = "dirección inválida, se espera next o prev"
	msgInvalidDate        = "formato de fecha inválido, se espera AAAA-MM-DD"
	msgSessionNotFound    = "sesión de reserva no encontrada o vencida"
	msgUpdateInProgress   = "hay una actualización en curso, intente nuevamente"
	msgSuperseded         = "la selección fue reemplazada por una más reciente"
	msgDayNotSelectable   = "el día seleccionado no está disponible"
	msgNoSchedule         = "el especialista no tiene horario para ese día"
	msgLoadFailed         = "no se pudieron cargar los datos, la selección anterior se mantiene"
)

// Handler операции виджета записи: селекторы, календарь и диалог подтверждения
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

// Create POST /api/v1/booking/sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/sessions - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	session, err := h.registry.Create(r.Context(), userID)
	if err != nil {
		h.respondError(w, "POST /booking/sessions", err)
		return
	}

	h.logger.Info("POST /booking/sessions - Session created: session_id=%s, user_id=%s", session.ID(), userID)
	handlers.RespondJSON(w, http.StatusCreated, FromSessionView(session.View()))
}

// Get GET /api/v1/booking/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "GET /booking/sessions/{id}")
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromSessionView(session.View()))
}

// Delete DELETE /api/v1/booking/sessions/{sessionId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /booking/sessions/{id}"

	sessionID, userID, ok := h.ids(w, r, route)
	if !ok {
		return
	}

	if err := h.registry.Delete(sessionID, userID); err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Session deleted: session_id=%s", route, sessionID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// SelectSpecialist PUT /api/v1/booking/sessions/{sessionId}/specialist
func (h *Handler) SelectSpecialist(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /booking/sessions/{id}/specialist"

	session, ok := h.session(w, r, route)
	if !ok {
		return
	}

	var req SelectSpecialistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := session.SelectSpecialist(r.Context(), req.SpecialistID); err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Specialist selected: session_id=%s, specialist_id=%v", route, session.ID(), req.SpecialistID)
	handlers.RespondJSON(w, http.StatusOK, FromSessionView(session.View()))
}

// SelectSpecialty PUT /api/v1/booking/sessions/{sessionId}/specialty
func (h *Handler) SelectSpecialty(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /booking/sessions/{id}/specialty"

	session, ok := h.session(w, r, route)
	if !ok {
		return
	}

	var req SelectSpecialtyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := session.SelectSpecialty(r.Context(), req.SpecialtyID); err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Specialty selected: session_id=%s, specialty_id=%v", route, session.ID(), req.SpecialtyID)
	handlers.RespondJSON(w, http.StatusOK, FromSessionView(session.View()))
}

// ChangeMonth POST /api/v1/booking/sessions/{sessionId}/month
func (h *Handler) ChangeMonth(w http.ResponseWriter, r *http.Request) {
	const route = "POST /booking/sessions/{id}/month"

	session, ok := h.session(w, r, route)
	if !ok {
		return
	}

	var req ChangeMonthRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("%s - Invalid direction: %q", route, req.Direction)
		handlers.RespondBadRequest(w, msgInvalidDirection)
		return
	}

	if req.Direction == DirectionNext {
		session.NextMonth()
	} else {
		session.PrevMonth()
	}

	handlers.RespondJSON(w, http.StatusOK, FromSessionView(session.View()))
}

// SelectDay POST /api/v1/booking/sessions/{sessionId}/day
func (h *Handler) SelectDay(w http.ResponseWriter, r *http.Request) {
	const route = "POST /booking/sessions/{id}/day"

	session, ok := h.session(w, r, route)
	if !ok {
		return
	}

	var req SelectDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.ValidateStruct(req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("%s - Invalid date: %q", route, req.Date)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	dialog, err := session.SelectDay(date)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Dialog opened: session_id=%s, dialog_id=%s, date=%s", route, session.ID(), dialog.ID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, FromDialog(dialog))
}

// CloseDialog DELETE /api/v1/booking/sessions/{sessionId}/dialog
func (h *Handler) CloseDialog(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "DELETE /booking/sessions/{id}/dialog")
	if !ok {
		return
	}
	session.CloseDialog()
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// ids извлекает ID сессии из URL и ID пользователя из контекста
func (h *Handler) ids(w http.ResponseWriter, r *http.Request, route string) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing identity", route)
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("%s - Invalid session ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return uuid.Nil, uuid.Nil, false
	}
	return sessionID, userID, true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, route string) (*booking.Session, bool) {
	sessionID, userID, ok := h.ids(w, r, route)
	if !ok {
		return nil, false
	}

	session, err := h.registry.Get(sessionID, userID)
	if err != nil {
		h.respondError(w, route, err)
		return nil, false
	}
	return session, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found", route)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, booking.ErrUpdateInProgress):
		h.logger.Warn("%s - Update in progress", route)
		handlers.RespondConflict(w, msgUpdateInProgress)

	case errors.Is(err, booking.ErrSuperseded):
		h.logger.Warn("%s - Result superseded by a later selection", route)
		handlers.RespondConflict(w, msgSuperseded)

	case errors.Is(err, booking.ErrDayNotSelectable):
		h.logger.Warn("%s - Day not selectable", route)
		handlers.RespondBadRequest(w, msgDayNotSelectable)

	case errors.Is(err, booking.ErrNoScheduleLoaded), errors.Is(err, booking.ErrNoScheduleForWeekday):
		h.logger.Warn("%s - No schedule: %v", route, err)
		handlers.RespondNotFound(w, msgNoSchedule)

	case errors.Is(err, booking.ErrInternal):
		h.logger.Error("%s - Failed to load catalog data: %v", route, err)
		handlers.RespondError(w, http.StatusInternalServerError, msgLoadFailed)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
