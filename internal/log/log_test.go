package log

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance/internal/core"
)

func newBufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Level: level, Component: ComponentLedger, Output: &buf}), &buf
}

func TestLogger_TagsComponent(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	logger.Info("hello", FieldUserID, 7)
	logger.WithComponent(ComponentWorker).Warn("careful")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "user_id=7") {
		t.Errorf("missing ledger fields in %q", out)
	}
	if !strings.Contains(out, "component=worker") {
		t.Errorf("missing worker component in %q", out)
	}
	if strings.Count(out, "component=worker") != 1 {
		t.Errorf("component tagged more than once: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record emitted at info level: %q", out)
	}
}

func TestNew_Defaults(t *testing.T) {
	l := New(Config{})
	if l.Component() != ComponentApp {
		t.Errorf("expected default component %q, got %q", ComponentApp, l.Component())
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	logger, _ := newBufferLogger(slog.LevelInfo)
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected the stored logger")
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.ErrNegativeAmount, ErrorTypeValidation},
		{fmt.Errorf("get user: %w", core.ErrNotFound), ErrorTypeNotFound},
		{core.ErrWriteRejected, ErrorTypeConflict},
		{core.ErrStorageUnavailable, ErrorTypeDatabase},
		{context.DeadlineExceeded, ErrorTypeTimeout},
		{errors.New("boom"), ErrorTypeInternal},
	}
	for _, tt := range tests {
		if got := ErrorType(tt.err); got != tt.want {
			t.Errorf("ErrorType(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStructuredLogger(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	sl := NewStructuredLogger(logger)
	ctx := context.Background()

	sl.LogEntryCreated(ctx, "expense", 3, 1, "800.00")
	sl.LogHTTPEnd(ctx, httptest.NewRequest(http.MethodGet, "/api/users/1?x=1", nil), 503, 12, "10.0.0.1")
	sl.LogError(ctx, "save failed", core.ErrWriteRejected, ComponentStorage, OpCreate, nil)

	out := buf.String()
	for _, want := range []string{
		"entry_kind=expense", "amount=800.00",
		"level=ERROR", "status_code=503", "success=false",
		"error_type=conflict_error", "component=storage",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
