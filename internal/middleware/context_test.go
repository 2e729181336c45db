package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"registration-payment-relay/internal/logger"

	"github.com/labstack/echo/v4"
)

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestID(), RequestLogger(base))
	e.GET("/", func(c echo.Context) error {
		logger.FromContext(c.Request().Context(), nil).Info("inside handler")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "req-123" {
		t.Fatalf("response request id = %q", got)
	}
	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Fatalf("log line lacks request id: %s", buf.String())
	}
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if id := rec.Header().Get(echo.HeaderXRequestID); len(id) != 36 {
		t.Fatalf("generated request id = %q, want a uuid", id)
	}
}

func TestAccessLogRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestID(), AccessLog(base))
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	if !strings.Contains(out, "status=404") || !strings.Contains(out, "uri=/missing") {
		t.Fatalf("access log = %s", out)
	}
}
