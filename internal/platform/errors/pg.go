package errors

import (
	"context"
	stderrs "errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgClass is how one SQLSTATE is treated by the quota store
type pgClass struct {
	code  ErrorCode
	retry bool // contention; the consume loop tries again
	down  bool // server not accepting work; reads may fail open
}

var pgStates = map[string]pgClass{
	"23505": {code: ErrorCodeDuplicateKey},
	"23503": {code: ErrorCodeInvalidArgument},
	"23502": {code: ErrorCodeValidation},
	"23514": {code: ErrorCodeValidation},
	"22001": {code: ErrorCodeInvalidArgument},
	"22P02": {code: ErrorCodeInvalidArgument},
	"40001": {code: ErrorCodeDB, retry: true},
	"40P01": {code: ErrorCodeDB, retry: true},
	"55P03": {code: ErrorCodeDB, retry: true},
	"25006": {code: ErrorCodeDB},
	"57P03": {code: ErrorCodeUnavailable, down: true},
}

// driver text for failures that surface without a SQLSTATE, mostly on commit
var pgRetryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// FromPostgres wraps a driver error under msg with the code its SQLSTATE maps to
// anything that is not a server error becomes ErrorCodeDB
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if pe, ok := pgError(err); ok {
		if c, known := pgStates[pe.Code]; known {
			code = c.code
		}
	}
	return Wrap(err, code, msg)
}

func pgRetryable(err error) bool {
	if pe, ok := pgError(err); ok {
		return pgStates[pe.Code].retry
	}
	text := strings.ToLower(Root(err).Error())
	for _, s := range pgRetryText {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// pgUnreachable is true when the statement never got a verdict from the server
func pgUnreachable(err error) bool {
	if pe, ok := pgError(err); ok {
		return pgStates[pe.Code].down
	}
	var connErr *pgconn.ConnectError
	if stderrs.As(err, &connErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	if stderrs.As(err, &netErr) {
		return true
	}
	return stderrs.Is(err, context.DeadlineExceeded)
}
