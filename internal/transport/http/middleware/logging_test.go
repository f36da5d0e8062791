package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leavetrack/internal/domain/auth"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggerIncludesUserID(t *testing.T) {
	buf := captureLogs(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leave", nil)
	ctx := context.WithValue(req.Context(), ctxKeyUser, auth.UserContext{UserID: "u-42", RoleName: auth.RoleEmployee})
	handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["userId"] != "u-42" {
		t.Fatalf("userId = %v", entry["userId"])
	}
	if entry["status"] != float64(http.StatusNoContent) {
		t.Fatalf("status = %v", entry["status"])
	}
	if entry["method"] != http.MethodGet {
		t.Fatalf("method = %v", entry["method"])
	}
}

func TestLoggerAnonymousAndErrorLevel(t *testing.T) {
	buf := captureLogs(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if _, present := entry["userId"]; present {
		t.Fatal("anonymous request should not carry a userId")
	}
	if entry["level"] != "ERROR" {
		t.Fatalf("level = %v", entry["level"])
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave", strings.NewReader("far too many bytes"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payload_too_large") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestBodyLimitIgnoresReads(t *testing.T) {
	called := false
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leave", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("GET should pass through untouched")
	}
}
