package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	calls []observed
}

func (f *fakeRecorder) ObserveHTTPRequest(_, method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(rec, "clinic-booking"))
	r.HandleFunc("/api/v1/appointments/{appointmentId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, observed{
		method: http.MethodGet,
		route:  "/api/v1/appointments/{appointmentId}",
		status: http.StatusNotFound,
	}, rec.calls[0])
}

func TestMetricsMiddleware_DefaultStatus(t *testing.T) {
	rec := &fakeRecorder{}
	h := MetricsMiddleware(rec, "clinic-booking")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, http.StatusOK, rec.calls[0].status)
	assert.Equal(t, "unknown", rec.calls[0].route)
}
