package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/standup-notifier/internal/logging"
	"github.com/example/standup-notifier/internal/notify"
	"github.com/example/standup-notifier/internal/persistence"
	"github.com/example/standup-notifier/internal/zoom"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and typed errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnsupportedEvent):
		return "unsupported_event"
	case errors.Is(err, persistence.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, persistence.ErrNotFound):
		return "not_found"
	case errors.Is(err, persistence.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, notify.ErrDelivery):
		return "delivery_failed"
	case errors.Is(err, zoom.ErrInvalidJSON):
		return "invalid_json"
	}

	var fieldErr *zoom.FieldError
	if errors.As(err, &fieldErr) {
		return "missing_field"
	}

	return "unexpected"
}
