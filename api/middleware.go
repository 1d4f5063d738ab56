package api

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/linesmerrill/hospital-api/config"
	"github.com/linesmerrill/hospital-api/logging"
)

// RequestIDHeader carries the correlation id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID accepts the caller's correlation id or generates one, stores it in
// the request context and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// AccessLog writes one line when a request arrives and one when it completes
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logging.RequestID(r.Context())
		log := logging.FromContext(r.Context())
		log.Infof("-> %s %s %s", id, r.Method, r.URL.Path)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		log.Infof("<- %s %s %s %d", id, r.Method, r.URL.Path, rw.statusCode)
	})
}

// Recovery turns a panic into a logged, generic 500
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.FromContext(r.Context()).Errorw("request panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

var probePaths = map[string]bool{
	"/health":     true,
	"/api/health": true,
	"/ready":      true,
}

// ReadOnly rejects every write method with 405 when enabled
func ReadOnly(enabled bool) Middleware {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			config.WriteError(w, http.StatusMethodNotAllowed, "read_only_mode", "writes are disabled")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
