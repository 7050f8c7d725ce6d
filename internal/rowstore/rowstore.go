// Package rowstore defines the boundary to the hosted relational backend.
// A Backend reads and writes rows of named tables as JSON; implementations
// translate their own failures into *Error (the backend rejected the call)
// or *ConnectivityError (the backend could not be reached).
package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Table names of the backend schema.
const (
	TableBanks       = "bancos"
	TableCards       = "tarjetas_credito"
	TableExpenses    = "gastos"
	TableSavings     = "ahorros"
	TableInvestments = "inversiones"
	TableDebts       = "deudas"
	TableGoals       = "objetivos_mensuales"
	TableCategories  = "categorias"
)

// Row is a set of column values to write. The id column is never part of
// an insert or update row.
type Row map[string]any

// Filter restricts a listing to rows where Column equals Value.
type Filter struct {
	Column string
	Value  any
}

type Query struct {
	OrderBy   string
	Ascending bool
	// Limit caps the number of rows; zero means no limit.
	Limit   int
	Filters []Filter
}

type Backend interface {
	List(ctx context.Context, table string, q Query) ([]json.RawMessage, error)
	Insert(ctx context.Context, table string, row Row) (json.RawMessage, error)
	Update(ctx context.Context, table, id string, row Row) (json.RawMessage, error)
	Delete(ctx context.Context, table, id string) error
}

// ErrNotFound is returned by Update when no row has the given id.
var ErrNotFound = errors.New("row not found")

// Error is a rejection reported by the backend. All parts the backend sent
// are kept together.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Message)

	if b.Len() == 0 {
		fmt.Fprintf(&b, "backend error (status %d)", e.Status)
	}

	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}

	if e.Details != "" {
		b.WriteString(" - " + e.Details)
	}

	if e.Hint != "" {
		b.WriteString(" [hint: " + e.Hint + "]")
	}

	return b.String()
}

// ConnectivityError reports that the backend could not be reached.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "backend unreachable: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// IsConnectivity reports whether err is, or wraps, a *ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// AsError returns the backend rejection wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}

	return nil, false
}
