package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSecurityHeaders_RecordResponse(t *testing.T) {
	rec, err := runMiddleware(t, SecurityHeaders(), "/api/v1/records/abc", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"content": "主诉：发热三天。"})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"X-XSS-Protection", "0"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
		{"Referrer-Policy", "no-referrer"},
		{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
		{"Cache-Control", "no-store"},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.want {
			t.Errorf("header %s: got %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestSecurityHeaders_DoesNotBlockRequest(t *testing.T) {
	called := false
	rec, err := runMiddleware(t, SecurityHeaders(), "/api/v1/qc/run", func(c echo.Context) error {
		called = true
		return c.String(http.StatusCreated, "created")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestSecurityHeaders_SetOnErrorResponses(t *testing.T) {
	rec, err := runMiddleware(t, SecurityHeaders(), "/api/v1/records/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	})
	if err == nil {
		t.Fatal("expected error from handler")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", httpErr.Code)
	}

	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected Cache-Control on error responses")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options on error responses")
	}
}
