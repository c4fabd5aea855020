package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	catalogService "github.com/m04kA/SMC-ClinicBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/catalog/models"
)

const (
	msgInvalidSpecialtyID  = "ID de especialidad inválido"
	msgInvalidSpecialistID = "ID de especialista inválido"
	msgSpecialistNotFound  = "especialista no encontrado"
)

// Handler справочники для селекторов виджета записи
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Specialties GET /api/v1/specialties
func (h *Handler) Specialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.service.Specialties(r.Context())
	if err != nil {
		h.logger.Error("GET /specialties - Failed to get specialties: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /specialties - Specialties retrieved: count=%d", len(specialties))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSpecialties(specialties))
}

// Specialists GET /api/v1/specialists?specialtyId=3
func (h *Handler) Specialists(w http.ResponseWriter, r *http.Request) {
	var specialtyID *int64
	if s := r.URL.Query().Get("specialtyId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /specialists - Invalid specialty ID: %q", s)
			handlers.RespondBadRequest(w, msgInvalidSpecialtyID)
			return
		}
		specialtyID = &id
	}

	specialists, err := h.service.Specialists(r.Context(), specialtyID)
	if err != nil {
		h.logger.Error("GET /specialists - Failed to get specialists: specialty_id=%v, error=%v", specialtyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /specialists - Specialists retrieved: count=%d", len(specialists))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSpecialists(specialists))
}

// Schedule GET /api/v1/specialists/{specialistId}/schedule
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	specialistID, ok := h.specialistID(w, r, "GET /specialists/{id}/schedule")
	if !ok {
		return
	}

	entries, err := h.service.WeeklySchedule(r.Context(), specialistID)
	if err != nil {
		h.logger.Error("GET /specialists/{id}/schedule - Failed to get schedule: specialist_id=%s, error=%v", specialistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /specialists/{id}/schedule - Schedule retrieved: specialist_id=%s, entries=%d", specialistID, len(entries))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSchedule(specialistID, entries))
}

// SpecialistSpecialties GET /api/v1/specialists/{specialistId}/specialties
func (h *Handler) SpecialistSpecialties(w http.ResponseWriter, r *http.Request) {
	specialistID, ok := h.specialistID(w, r, "GET /specialists/{id}/specialties")
	if !ok {
		return
	}

	specialties, err := h.service.SpecialistSpecialties(r.Context(), specialistID)
	if err != nil {
		h.logger.Error("GET /specialists/{id}/specialties - Failed to get specialties: specialist_id=%s, error=%v", specialistID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSpecialties(specialties))
}

// specialistID разбирает {specialistId} и проверяет, что специалист существует
func (h *Handler) specialistID(w http.ResponseWriter, r *http.Request, route string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["specialistId"])
	if err != nil {
		h.logger.Warn("%s - Invalid specialist ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return uuid.Nil, false
	}

	if _, err := h.service.Specialist(r.Context(), id); err != nil {
		if errors.Is(err, catalogService.ErrSpecialistNotFound) {
			h.logger.Warn("%s - Specialist not found: specialist_id=%s", route, id)
			handlers.RespondNotFound(w, msgSpecialistNotFound)
			return uuid.Nil, false
		}
		h.logger.Error("%s - Failed to get specialist: specialist_id=%s, error=%v", route, id, err)
		handlers.RespondInternalError(w)
		return uuid.Nil, false
	}
	return id, true
}
