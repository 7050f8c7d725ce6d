package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

// translate maps driver errors onto the rowstore error kinds.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return rowstore.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &rowstore.Error{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}

	var (
		connErr *pgconn.ConnectError
		netErr  net.Error
	)

	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded),
		pgconn.Timeout(err):
		return &rowstore.ConnectivityError{Err: err}
	}

	return err
}
