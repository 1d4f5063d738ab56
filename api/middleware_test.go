package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/logging"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/patients", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/patients", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	rr := httptest.NewRecorder()
	api.RequestID(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	h := api.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/patients", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func TestReadOnly(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		method  string
		path    string
		want    int
	}{
		{"disabled allows writes", false, "POST", "/api/patients", http.StatusOK},
		{"get passes", true, "GET", "/api/patients", http.StatusOK},
		{"options passes", true, "OPTIONS", "/api/patients", http.StatusOK},
		{"post blocked", true, "POST", "/api/patients", http.StatusMethodNotAllowed},
		{"patch blocked", true, "PATCH", "/api/patients/5fc51f58c72ff10004dca382", http.StatusMethodNotAllowed},
		{"delete blocked", true, "DELETE", "/api/doctors/5fc51f58c72ff10004dca382", http.StatusMethodNotAllowed},
		{"probe passes", true, "POST", "/ready", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			api.ReadOnly(tt.enabled)(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusMethodNotAllowed {
				assert.JSONEq(t, `{"error":"read_only_mode","details":"writes are disabled"}`, rr.Body.String())
			}
		})
	}
}

func TestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := api.TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestTimeoutMiddlewareDisabled(t *testing.T) {
	var ok bool
	h := api.TimeoutMiddleware(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.False(t, ok)
}

func TestWithQueryTimeout(t *testing.T) {
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) api.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	api.Chain(http.HandlerFunc(okHandler), mark("a"), mark("b"), mark("c")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)
	r.HandleFunc("/api/things/{thing_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods("GET")

	before := testutil.ToFloat64(api.RequestsTotal.WithLabelValues("GET", "/api/things/{thing_id}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/things/5fc51f58c72ff10004dca382", nil))
	after := testutil.ToFloat64(api.RequestsTotal.WithLabelValues("GET", "/api/things/{thing_id}", "418"))

	assert.Equal(t, before+1, after)
}

func TestAccessLogKeepsStatus(t *testing.T) {
	h := api.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/patients", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
}
