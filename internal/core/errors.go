package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every ledger backend and service. Callers match
// with errors.Is; concrete causes are wrapped with %w.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWriteRejected      = errors.New("write rejected")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
)

var (
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrNegativeAmount   = fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	ErrEmptyTitle       = fmt.Errorf("%w: empty title", ErrInvalidInput)
	ErrEmptyType        = fmt.Errorf("%w: empty type", ErrInvalidInput)
	ErrEmptyName        = fmt.Errorf("%w: empty name", ErrInvalidInput)
	ErrEmptyMessage     = fmt.Errorf("%w: empty message", ErrInvalidInput)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email", ErrInvalidInput)
	ErrInvalidCategory  = fmt.Errorf("%w: unknown expense category", ErrInvalidInput)
	ErrInvalidGoalType  = fmt.Errorf("%w: unknown goal type", ErrInvalidInput)
	ErrInvalidEntryKind = fmt.Errorf("%w: unknown entry kind", ErrInvalidInput)
	ErrInvalidUser      = fmt.Errorf("%w: invalid user id", ErrInvalidInput)
)
