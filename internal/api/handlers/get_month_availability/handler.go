package get_month_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	getMonthAvailability "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_month_availability"
)

const (
	msgInvalidParams      = "parámetros inválidos: se espera un especialista válido y month=AAAA-MM"
	msgSpecialistNotFound = "especialista no encontrado"
)

type Handler struct {
	useCase GetMonthAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/specialists/{specialistId}/availability
// Query params: month (required, YYYY-MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	specialistIDStr := mux.Vars(r)["specialistId"]
	monthStr := r.URL.Query().Get("month")

	req, err := ToUseCaseRequest(specialistIDStr, monthStr)
	if err != nil {
		h.logger.Warn("GET /specialists/{id}/availability - Invalid parameters: specialist_id=%q, month=%q, error=%v",
			specialistIDStr, monthStr, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getMonthAvailability.ErrSpecialistNotFound):
			h.logger.Warn("GET /specialists/{id}/availability - Specialist not found: specialist_id=%s", req.SpecialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, getMonthAvailability.ErrInvalidInput):
			h.logger.Warn("GET /specialists/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /specialists/{id}/availability - Failed to get availability: specialist_id=%s, error=%v",
				req.SpecialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /specialists/{id}/availability - Availability retrieved: specialist_id=%s, month=%s",
		req.SpecialistID, monthStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
