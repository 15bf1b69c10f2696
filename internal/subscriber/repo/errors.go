package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUnavailable marks failures to reach the store at all.
	ErrUnavailable = errors.New("store unavailable")
	// ErrConflict marks writes rejected by a table constraint.
	ErrConflict = errors.New("store constraint violation")
)

// wrapError tags driver errors with ErrUnavailable or ErrConflict where the
// cause is recognisable. The original error stays in the chain.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if kind := classify(err); kind != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

func classify(err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		// connection_exception, insufficient_resources, operator_intervention
		case "08", "53", "57":
			return ErrUnavailable
		case "23":
			return ErrConflict
		}
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return ErrUnavailable
		case sqlite3.ErrConstraint:
			return ErrConflict
		}
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrUnavailable
	}
	return nil
}
