package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_JSONInReleaseMode(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	l.WithUserID("u-1").LogBookingCreated(context.Background(), "b-1", "s-1", "u-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Booking Created", entry["msg"])
	assert.Equal(t, "b-1", entry["booking_id"])
	assert.Equal(t, "u-1", entry["user_id"])
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestErrorWithContext(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	l.ErrorWithContext(context.Background(), "queue failed", errors.New("broker down"), map[string]interface{}{"user_id": "u-1"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "queue failed", entries[0]["msg"])
	assert.Equal(t, "broker down", entries[0]["error"])
	assert.Equal(t, "u-1", entries[0]["user_id"])
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(RequestLogger(NewWithWriter(&buf, "info")))
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db unreachable"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "HTTP Request", entries[0]["msg"])
	assert.Equal(t, "req-42", entries[0]["request_id"])

	buf.Reset()
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)

	entries = decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "HTTP Error", entries[1]["msg"])
	assert.Equal(t, "db unreachable", entries[1]["error"])
	assert.Equal(t, generated, entries[1]["request_id"])
}

func TestLogSlowQuery(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	NewWithWriter(&buf, "warn").LogSlowQuery(context.Background(), "SELECT 1", 2*time.Second)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Slow Database Query", entries[0]["msg"])
	assert.Equal(t, "SELECT 1", entries[0]["query"])
}
