package secevent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger emits security events to a structured log. All methods are
// goroutine-safe.
type Logger struct {
	log *slog.Logger

	buffer    chan Event
	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a Logger.
type Option func(*Logger)

// WithAsync buffers events through a channel drained by a single worker.
// When the buffer is full new events are dropped; the request path is never
// blocked on logging.
func WithAsync(bufferSize int) Option {
	return func(l *Logger) {
		if bufferSize > 0 {
			l.buffer = make(chan Event, bufferSize)
		}
	}
}

// NewLogger creates a security-event logger over the given slog handler.
func NewLogger(log *slog.Logger, opts ...Option) *Logger {
	if log == nil {
		log = slog.Default()
	}

	l := &Logger{
		log:  log,
		done: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.buffer != nil {
		go l.drain()
	} else {
		close(l.done)
	}

	return l
}

// Log records the event. Best effort: it never returns an error and any
// panic from the underlying handler is swallowed.
func (l *Logger) Log(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	if l.buffer != nil {
		select {
		case l.buffer <- event:
		default:
			// Full buffer: drop rather than block the pipeline.
		}
		return
	}

	l.emit(event)
}

func (l *Logger) drain() {
	defer close(l.done)
	for event := range l.buffer {
		l.emit(event)
	}
}

func (l *Logger) emit(event Event) {
	defer func() {
		_ = recover()
	}()

	attrs := []any{
		slog.String("event_id", event.ID),
		slog.Time("event_time", event.Time),
		slog.String("ip", event.IP),
		slog.String("action", event.Action),
		slog.String("resource", event.Resource),
		slog.String("method", event.Method),
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status_code", event.StatusCode))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	if event.Suspicious {
		attrs = append(attrs, slog.Bool("suspicious", true))
		l.log.Error("security alert", attrs...)
		return
	}

	l.log.Info("security event", attrs...)
}

// Close flushes buffered events and stops the worker. Safe to call
// multiple times; only meaningful in async mode.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		if l.buffer != nil {
			close(l.buffer)
		}
	})
	<-l.done
}
