package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"finance/internal/core"
)

// mapError wraps driver errors into the core taxonomy. Constraint
// violations (unique email, missing user) become core.ErrWriteRejected.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) && sqErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%s: %w: %v", op, core.ErrWriteRejected, err)
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %v", op, core.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
