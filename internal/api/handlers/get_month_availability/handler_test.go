package get_month_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	getMonthAvailability "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_month_availability"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type fakeUseCase struct {
	got  *getMonthAvailability.Request
	resp *getMonthAvailability.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getMonthAvailability.Request) (*getMonthAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRequest(specialistID, query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/specialists/"+specialistID+"/availability"+query, nil)
	return mux.SetURLVars(r, map[string]string{"specialistId": specialistID})
}

func TestHandle_Success(t *testing.T) {
	specialistID := uuid.New()
	entry := &domain.WeeklyScheduleEntry{
		Weekday:   1,
		StartTime: types.MustTimeString("08:00"),
		EndTime:   types.MustTimeString("12:00"),
		Capacity:  4,
	}
	uc := &fakeUseCase{resp: &getMonthAvailability.Response{
		SpecialistID:      specialistID,
		SpecialistName:    "Ana Gómez",
		Year:              2026,
		Month:             time.December,
		Title:             "Diciembre 2026",
		FirstWeekdayIndex: 2,
		Days: []domain.DayAvailability{
			{Date: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), Weekday: domain.Martes},
			{Date: time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC), Weekday: domain.Lunes, Available: true, Entry: entry, Booked: 1},
		},
	}}
	h := NewHandler(uc, logger.NewNop())
	rec := httptest.NewRecorder()

	h.Handle(rec, newRequest(specialistID.String(), "?month=2026-12"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2026, uc.got.Year)
	assert.Equal(t, time.December, uc.got.Month)

	var body MonthAvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-12", body.Month)
	assert.Equal(t, "Diciembre 2026", body.Title)
	require.Len(t, body.Days, 2)
	assert.False(t, body.Days[0].Available)
	assert.Nil(t, body.Days[0].StartTime)
	assert.True(t, body.Days[1].Available)
	assert.Equal(t, "08:00", *body.Days[1].StartTime)
	assert.Equal(t, 3, *body.Days[1].RemainingSpots)
}

func TestHandle_Errors(t *testing.T) {
	valid := uuid.New().String()
	tests := []struct {
		name         string
		specialistID string
		query        string
		err          error
		want         int
	}{
		{name: "missing month", specialistID: valid, want: http.StatusBadRequest},
		{name: "bad month", specialistID: valid, query: "?month=2026-13", want: http.StatusBadRequest},
		{name: "bad specialist", specialistID: "42", query: "?month=2026-12", want: http.StatusBadRequest},
		{name: "not found", specialistID: valid, query: "?month=2026-12", err: getMonthAvailability.ErrSpecialistNotFound, want: http.StatusNotFound},
		{name: "internal", specialistID: valid, query: "?month=2026-12", err: getMonthAvailability.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, newRequest(tt.specialistID, tt.query))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
