package booking_session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type fakeCatalog struct {
	specialist  domain.Specialist
	scheduleErr error
}

func (f *fakeCatalog) Specialties(context.Context) ([]domain.Specialty, error) {
	return []domain.Specialty{{ID: 1, Name: "Cardiología"}}, nil
}

func (f *fakeCatalog) Specialists(context.Context, *int64) ([]domain.Specialist, error) {
	return []domain.Specialist{f.specialist}, nil
}

func (f *fakeCatalog) WeeklySchedule(_ context.Context, id uuid.UUID) ([]domain.WeeklyScheduleEntry, error) {
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	return []domain.WeeklyScheduleEntry{{
		ID:           1,
		SpecialistID: id,
		Weekday:      1,
		StartTime:    types.MustTimeString("08:00"),
		EndTime:      types.MustTimeString("12:00"),
		Capacity:     4,
	}}, nil
}

type testEnv struct {
	router   *mux.Router
	catalog  *fakeCatalog
	registry *booking.Registry
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	catalog := &fakeCatalog{specialist: domain.Specialist{ID: uuid.New(), FirstName: "Ana", LastName: "Gómez"}}
	registry := booking.NewRegistry(booking.SessionDeps{
		Catalog:  catalog,
		Clock:    &fixedClock{now: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)},
		Location: time.UTC,
		TTL:      30 * time.Minute,
		Logger:   logger.NewNop(),
	}, nil)
	h := NewHandler(registry, logger.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/booking/sessions", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/booking/sessions/{sessionId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/booking/sessions/{sessionId}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/booking/sessions/{sessionId}/specialist", h.SelectSpecialist).Methods(http.MethodPut)
	r.HandleFunc("/booking/sessions/{sessionId}/specialty", h.SelectSpecialty).Methods(http.MethodPut)
	r.HandleFunc("/booking/sessions/{sessionId}/month", h.ChangeMonth).Methods(http.MethodPost)
	r.HandleFunc("/booking/sessions/{sessionId}/day", h.SelectDay).Methods(http.MethodPost)
	r.HandleFunc("/booking/sessions/{sessionId}/dialog", h.CloseDialog).Methods(http.MethodDelete)

	return &testEnv{router: r, catalog: catalog, registry: registry}
}

func (e *testEnv) do(user uuid.UUID, method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r = r.WithContext(middleware.WithIdentity(r.Context(), user))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var s SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func dayCell(t *testing.T, s SessionResponse, day int) DayCellResponse {
	t.Helper()
	require.GreaterOrEqual(t, len(s.Calendar.Days), day)
	return s.Calendar.Days[day-1]
}

func TestBookingFlow(t *testing.T) {
	env := newEnv(t)
	user := uuid.New()

	// 1. Создание сессии: справочники загружены, дни недоступны
	rec := env.do(user, http.MethodPost, "/booking/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	s := decodeSession(t, rec)
	base := "/booking/sessions/" + s.ID.String()

	assert.Len(t, s.Specialties, 1)
	assert.Len(t, s.Specialists, 1)
	assert.Equal(t, "2026-10", s.Calendar.Month)
	assert.Equal(t, "Octubre 2026", s.Calendar.Title)
	assert.True(t, dayCell(t, s, 19).Disabled)
	assert.True(t, dayCell(t, s, 18).Today)
	assert.Nil(t, s.Dialog)

	// 2. Выбор специалиста открывает понедельники
	body := `{"specialistId":"` + env.catalog.specialist.ID.String() + `"}`
	rec = env.do(user, http.MethodPut, base+"/specialist", body)
	require.Equal(t, http.StatusOK, rec.Code)
	s = decodeSession(t, rec)
	assert.Equal(t, []string{"Lunes"}, s.AvailableWeekdays)
	assert.True(t, dayCell(t, s, 19).Selectable)
	assert.True(t, dayCell(t, s, 12).Disabled, "past Monday")
	assert.True(t, dayCell(t, s, 20).Disabled, "Tuesday")

	// 3. Выбор дня открывает диалог
	rec = env.do(user, http.MethodPost, base+"/day", `{"date":"2026-10-19"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var dialog DialogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dialog))
	assert.Equal(t, "Lunes", dialog.Weekday)
	assert.Equal(t, "08:00 - 12:00", dialog.TimeRange)
	assert.Equal(t, "Ana Gómez", dialog.SpecialistName)

	// 4. Недоступный день не трогает диалог
	rec = env.do(user, http.MethodPost, base+"/day", `{"date":"2026-10-20"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	s = decodeSession(t, env.do(user, http.MethodGet, base, ""))
	require.NotNil(t, s.Dialog)
	assert.Equal(t, dialog.ID, s.Dialog.ID)
	assert.True(t, dayCell(t, s, 19).Selected)

	// 5. Закрытие диалога
	rec = env.do(user, http.MethodDelete, base+"/dialog", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	s = decodeSession(t, env.do(user, http.MethodGet, base, ""))
	assert.Nil(t, s.Dialog)

	// 6. Переключение месяца
	rec = env.do(user, http.MethodPost, base+"/month", `{"direction":"next"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-11", decodeSession(t, rec).Calendar.Month)

	rec = env.do(user, http.MethodPost, base+"/month", `{"direction":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 7. Удаление
	rec = env.do(user, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(user, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSession_ForeignOwner(t *testing.T) {
	env := newEnv(t)

	s := decodeSession(t, env.do(uuid.New(), http.MethodPost, "/booking/sessions", ""))

	rec := env.do(uuid.New(), http.MethodGet, "/booking/sessions/"+s.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(uuid.New(), http.MethodDelete, "/booking/sessions/"+s.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, env.registry.Len())
}

func TestSelectSpecialist_LoadFailureKeepsState(t *testing.T) {
	env := newEnv(t)
	user := uuid.New()

	s := decodeSession(t, env.do(user, http.MethodPost, "/booking/sessions", ""))
	base := "/booking/sessions/" + s.ID.String()

	env.catalog.scheduleErr = errors.New("db down")
	body := `{"specialistId":"` + env.catalog.specialist.ID.String() + `"}`
	rec := env.do(user, http.MethodPut, base+"/specialist", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	s = decodeSession(t, env.do(user, http.MethodGet, base, ""))
	assert.Nil(t, s.SelectedSpecialistID)
	assert.Len(t, s.Specialists, 1)
	assert.False(t, s.Updating)
}

func TestSelectSpecialty_Clear(t *testing.T) {
	env := newEnv(t)
	user := uuid.New()

	s := decodeSession(t, env.do(user, http.MethodPost, "/booking/sessions", ""))
	base := "/booking/sessions/" + s.ID.String()

	rec := env.do(user, http.MethodPut, base+"/specialty", `{"specialtyId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	s = decodeSession(t, rec)
	require.NotNil(t, s.SelectedSpecialtyID)
	assert.Equal(t, int64(1), *s.SelectedSpecialtyID)

	rec = env.do(user, http.MethodPut, base+"/specialty", `{"specialtyId":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeSession(t, rec).SelectedSpecialtyID)
}

func TestHandler_BadInput(t *testing.T) {
	env := newEnv(t)
	user := uuid.New()

	rec := env.do(user, http.MethodGet, "/booking/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s := decodeSession(t, env.do(user, http.MethodPost, "/booking/sessions", ""))
	base := "/booking/sessions/" + s.ID.String()

	rec = env.do(user, http.MethodPost, base+"/day", `{"date":"19/10/2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(user, http.MethodPut, base+"/specialist", `{"specialistId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_MissingIdentity(t *testing.T) {
	env := newEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/booking/sessions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
