package secevent_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecooverlay/server/pkg/secevent"
)

func TestLogger_Log(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := secevent.NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Log(t.Context(), secevent.Event{
		IP:       "203.0.113.7",
		UserID:   "user_123",
		Action:   "get",
		Resource: "/api/product/012345678905",
		Method:   "GET",
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "security event", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "203.0.113.7", record["ip"])
	assert.Equal(t, "user_123", record["user_id"])
	assert.NotEmpty(t, record["event_id"], "missing id is filled in")
	assert.NotEmpty(t, record["event_time"])
}

func TestLogger_SuspiciousEscalates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := secevent.NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Log(t.Context(), secevent.Event{
		IP:         "203.0.113.7",
		Action:     secevent.ActionBlocked,
		Resource:   "/../../etc/passwd",
		Method:     "GET",
		Suspicious: true,
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "security alert", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, true, record["suspicious"])
}

func TestLogger_AsyncDeliversEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := secevent.NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)), secevent.WithAsync(16))

	for range 5 {
		logger.Log(t.Context(), secevent.Event{
			IP: "203.0.113.7", Action: "get", Resource: "/api/health", Method: "GET",
		})
	}
	logger.Close()

	lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
	assert.Equal(t, 5, lines)
}

func TestLogger_AsyncFullBufferDropsInsteadOfBlocking(t *testing.T) {
	t.Parallel()

	// A handler that blocks forever would wedge a synchronous logger. With
	// a full async buffer Log must return immediately.
	block := make(chan struct{})
	defer close(block)
	logger := secevent.NewLogger(slog.New(slog.NewJSONHandler(blockingWriter{block}, nil)), secevent.WithAsync(1))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			logger.Log(t.Context(), secevent.Event{Action: "get"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked the caller")
	}
}

type blockingWriter struct {
	block chan struct{}
}

func (w blockingWriter) Write(p []byte) (int, error) {
	<-w.block
	return len(p), nil
}
