package middleware

import (
	"net/http"

	"leavetrack/internal/transport/http/api"
)

// BodyLimit caps write-request bodies. A declared Content-Length over the
// cap is rejected up front with the envelope shape clients already parse;
// chunked or lying clients are stopped by MaxBytesReader at read time.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
				if r.ContentLength > maxBytes {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body exceeds the allowed size.", GetRequestID(r.Context()))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
