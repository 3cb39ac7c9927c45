package log

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"finance/internal/core"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to the
// slog default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: ComponentApp}
}

// ErrorType classifies err into one of the ErrorType constants.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, core.ErrWriteRejected):
		return ErrorTypeConflict
	case errors.Is(err, core.ErrStorageUnavailable):
		return ErrorTypeDatabase
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	}
	return ErrorTypeInternal
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPEnd logs a finished request; 4xx at warn, 5xx at error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 500 {
		level = slog.LevelError
	} else if statusCode >= 400 {
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP)

	sl.logger.WithComponent(ComponentHTTP).Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogEntryCreated logs a committed ledger write.
func (sl *StructuredLogger) LogEntryCreated(ctx context.Context, kind string, id, userID int64, amount string) {
	fields := NewFields().
		WithEntry(kind, id).
		WithUser(userID).
		WithOperation(OpCreate)
	if amount != "" {
		fields.WithAmount(amount)
	}
	sl.logger.WithComponent(ComponentLedger).InfoContext(ctx, "Ledger entry created", fields.ToSlice()...)
}

// LogError logs err with its classified type.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields.
		WithError(err).
		WithErrorType(ErrorType(err)).
		WithOperation(operation)
	sl.logger.WithComponent(component).ErrorContext(ctx, msg, fields.ToSlice()...)
}
