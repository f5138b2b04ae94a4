package timeclock

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

func isDuplicateActiveSession(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "active_sessions")
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "active_sessions")
}
