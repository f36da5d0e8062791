package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leavetrack/internal/domain/auth"
)

const testSecret = "test-secret"

func bearerRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", RoleName: role}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthAttachesUserContext(t *testing.T) {
	var got auth.UserContext
	var ok bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), bearerRequest(t, auth.RoleManager))

	if !ok {
		t.Fatal("user context missing")
	}
	if got.UserID != "u1" || got.RoleName != auth.RoleManager {
		t.Fatalf("unexpected user context: %+v", got)
	}
}

func TestAuthPassesThroughAnonymously(t *testing.T) {
	for name, header := range map[string]string{
		"no header":     "",
		"not bearer":    "Basic abc",
		"garbage token": "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			var ok bool
			handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok = GetUser(r.Context())
			}))
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if ok {
				t.Fatal("anonymous request should carry no user context")
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := Auth(testSecret)(RequirePermission(auth.PermLeaveApprove)(next))

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"anonymous", httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnauthorized},
		{"employee forbidden", bearerRequest(t, auth.RoleEmployee), http.StatusForbidden},
		{"manager allowed", bearerRequest(t, auth.RoleManager), http.StatusNoContent},
		{"admin allowed", bearerRequest(t, auth.RoleAdmin), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, tt.req)
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("request id not generated")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatal("request id not echoed in response header")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	handler.ServeHTTP(rec, req)
	if seen != "given" {
		t.Fatalf("supplied request id not honored: %s", seen)
	}
}
