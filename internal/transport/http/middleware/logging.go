package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger emits one structured line per request. It runs after Auth so
// the authenticated user id, when present, is part of the record.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"durationMs", time.Since(start).Milliseconds(),
			"requestId", GetRequestID(r.Context()),
		}
		if user, ok := GetUser(r.Context()); ok {
			attrs = append(attrs, "userId", user.UserID)
		}

		if recorder.status >= 500 {
			slog.Error("request", attrs...)
			return
		}
		slog.Info("request", attrs...)
	})
}
