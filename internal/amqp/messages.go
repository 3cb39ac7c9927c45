package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finance/internal/core"
)

// Ledger operations carried by events.
const (
	OpCreated   = "created"
	OpDeleted   = "deleted"
	OpCompleted = "completed"
	OpRead      = "read"
)

// LedgerEvent announces a committed ledger mutation. It carries only ids;
// consumers read current state from the store.
type LedgerEvent struct {
	ID        string         `json:"id"`
	Kind      core.EntryKind `json:"kind"`
	Op        string         `json:"op"`
	EntryID   int64          `json:"entry_id"`
	UserID    int64          `json:"user_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewLedgerEvent stamps a new event with a random id and the current time.
func NewLedgerEvent(kind core.EntryKind, op string, entryID, userID int64) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Op:        op,
		EntryID:   entryID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// Type is the dotted event name, e.g. "goal.completed".
func (e *LedgerEvent) Type() string {
	return string(e.Kind) + "." + e.Op
}

// ToJSON converts the message to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and sanity-checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if _, err := core.ParseEntryKind(string(e.Kind)); err != nil {
		return nil, err
	}
	if e.Op == "" || e.EntryID <= 0 {
		return nil, fmt.Errorf("incomplete ledger event %q", e.ID)
	}
	return &e, nil
}
