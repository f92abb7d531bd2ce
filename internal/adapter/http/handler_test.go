package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type healthBody struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks"`
}

func callHealth(t *testing.T, h *Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return rec, body
}

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	start := time.Now().UTC()
	rec, body := callHealth(t, NewHandler(map[string]Check{
		"db": func(context.Context) error { return nil },
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}
	if body.Status != "ok" || body.Checks["db"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}

	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	now := time.Now().UTC()
	if parsed.Before(start.Add(-2*time.Second)) || parsed.After(now.Add(2*time.Second)) {
		t.Fatalf("time not within expected window: parsed=%v start=%v now=%v", parsed, start, now)
	}
}

func TestHealth_DegradedWhenACheckFails(t *testing.T) {
	rec, body := callHealth(t, NewHandler(map[string]Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" || body.Checks["redis"] != "connection refused" || body.Checks["db"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealth_NoChecks(t *testing.T) {
	rec, body := callHealth(t, NewHandler(nil))
	if rec.Code != http.StatusOK || body.Status != "ok" || len(body.Checks) != 0 {
		t.Fatalf("unexpected: %d %+v", rec.Code, body)
	}
}
