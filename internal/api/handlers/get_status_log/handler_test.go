package get_status_log

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

type fakeService struct {
	got *models.StatusLogRequest
	err error
}

func (f *fakeService) StatusLog(_ context.Context, _ uuid.UUID, req *models.StatusLogRequest) (*models.StatusLogResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.StatusLogResponse{Changes: []models.StatusChangeResponse{}}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "ok", want: http.StatusOK},
		{name: "invalid sort", err: appointments.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "not staff", err: appointments.ErrAccessDenied, want: http.StatusForbidden},
		{name: "internal", err: appointments.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.NewNop())

			r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/status-log?sort=id_turno&order=asc", nil)
			r = r.WithContext(middleware.WithIdentity(r.Context(), uuid.New()))
			rec := httptest.NewRecorder()

			h.Handle(rec, r)

			assert.Equal(t, tt.want, rec.Code)
			require.NotNil(t, svc.got)
			assert.Equal(t, "id_turno", svc.got.Sort)
			assert.Equal(t, "asc", svc.got.Order)
		})
	}
}
