package get_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.AppointmentResponse
	err  error
}

func (f *fakeService) GetByID(context.Context, int64, uuid.UUID) (*models.AppointmentResponse, error) {
	return f.resp, f.err
}

func TestHandle(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		id       string
		identity bool
		svc      *fakeService
		want     int
	}{
		{name: "ok", id: "7", identity: true, svc: &fakeService{resp: &models.AppointmentResponse{ID: 7}}, want: http.StatusOK},
		{name: "invalid id", id: "abc", identity: true, svc: &fakeService{}, want: http.StatusBadRequest},
		{name: "no identity", id: "7", svc: &fakeService{}, want: http.StatusUnauthorized},
		{name: "not found", id: "7", identity: true, svc: &fakeService{err: appointments.ErrAppointmentNotFound}, want: http.StatusNotFound},
		{name: "foreign appointment", id: "7", identity: true, svc: &fakeService{err: appointments.ErrAccessDenied}, want: http.StatusForbidden},
		{name: "internal", id: "7", identity: true, svc: &fakeService{err: appointments.ErrInternal}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.svc, logger.NewNop())
			r := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+tt.id, nil)
			r = mux.SetURLVars(r, map[string]string{"appointmentId": tt.id})
			if tt.identity {
				r = r.WithContext(middleware.WithIdentity(r.Context(), userID))
			}
			rec := httptest.NewRecorder()

			h.Handle(rec, r)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
