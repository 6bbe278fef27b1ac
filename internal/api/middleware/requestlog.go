// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request with its status, duration and the
// action derived from the route. The request-scoped logger is stored in the
// request context for handlers and the tool registry.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().Str("request_id", chimw.GetReqID(r.Context())).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(recorder, r)

			evt := reqLogger.Info()
			if recorder.statusCode >= http.StatusInternalServerError {
				evt = reqLogger.Error()
			}
			evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("action", actionFromRequest(r.Method, r.URL.Path)).
				Int("status_code", recorder.statusCode).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("http request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Flush keeps streaming responses working through the recorder.
func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func actionFromRequest(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 3 || segments[0] != "api" || segments[1] != "v1" {
		return strings.ToLower(method) + "_request"
	}

	switch entity := segments[2]; {
	case entity == "tools" && len(segments) == 3:
		return "list_tools"
	case entity == "tools" && method == http.MethodPost:
		return "call_tool"
	case entity == "resources" && len(segments) == 3:
		return "list_resources"
	case entity == "resources" && segments[len(segments)-1] == "read":
		return "read_resource"
	case entity == "stats":
		return "get_stats"
	default:
		return strings.ToLower(method) + "_" + entity
	}
}
