// Package rowstoretest provides an in-memory rowstore.Backend for tests.
package rowstoretest

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

// Call records one request made to the backend.
type Call struct {
	Method string
	Table  string
	Query  rowstore.Query
}

// Backend keeps rows per table in insertion order. Ids are random UUIDs and
// created_at advances one second per insert so ordering is deterministic.
// It is safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	tables   map[string][]map[string]any
	clock    time.Time
	failures map[string]error
	calls    []Call
}

func New() *Backend {
	return &Backend{
		tables:   make(map[string][]map[string]any),
		clock:    time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
		failures: make(map[string]error),
	}
}

// Fail makes every later call of method on table return err. An empty table
// matches all tables; a nil err clears the failure.
func (b *Backend) Fail(method, table string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := method + " " + table
	if err == nil {
		delete(b.failures, key)
		return
	}

	b.failures[key] = err
}

// Seed stores rows as if they had been inserted.
func (b *Backend) Seed(table string, rows ...rowstore.Row) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range rows {
		if _, err := b.insert(table, r); err != nil {
			panic(err)
		}
	}
}

// Rows returns a copy of the stored rows of table.
func (b *Backend) Rows(table string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]map[string]any, len(b.tables[table]))
	for i, r := range b.tables[table] {
		out[i] = maps.Clone(r)
	}

	return out
}

// Calls returns the requests made so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.calls)
}

func (b *Backend) List(_ context.Context, table string, q rowstore.Query) ([]json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("List", table, q); err != nil {
		return nil, err
	}

	var rows []map[string]any

	for _, r := range b.tables[table] {
		if matches(r, q.Filters) {
			rows = append(rows, r)
		}
	}

	if q.OrderBy != "" {
		slices.SortStableFunc(rows, func(x, y map[string]any) int {
			c := compare(x[q.OrderBy], y[q.OrderBy])
			if !q.Ascending {
				c = -c
			}

			return c
		})
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	out := make([]json.RawMessage, 0, len(rows))

	for _, r := range rows {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}

		out = append(out, raw)
	}

	return out, nil
}

func (b *Backend) Insert(_ context.Context, table string, row rowstore.Row) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("Insert", table, rowstore.Query{}); err != nil {
		return nil, err
	}

	stored, err := b.insert(table, row)
	if err != nil {
		return nil, err
	}

	return json.Marshal(stored)
}

func (b *Backend) Update(_ context.Context, table, id string, row rowstore.Row) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("Update", table, rowstore.Query{}); err != nil {
		return nil, err
	}

	values, err := plain(row)
	if err != nil {
		return nil, err
	}

	for _, r := range b.tables[table] {
		if r["id"] != id {
			continue
		}

		maps.Copy(r, values)
		r["id"] = id

		return json.Marshal(r)
	}

	return nil, rowstore.ErrNotFound
}

func (b *Backend) Delete(_ context.Context, table, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("Delete", table, rowstore.Query{}); err != nil {
		return err
	}

	b.tables[table] = slices.DeleteFunc(b.tables[table], func(r map[string]any) bool {
		return r["id"] == id
	})

	return nil
}

func (b *Backend) record(method, table string, q rowstore.Query) error {
	b.calls = append(b.calls, Call{Method: method, Table: table, Query: q})

	if err, ok := b.failures[method+" "+table]; ok {
		return err
	}

	if err, ok := b.failures[method+" "]; ok {
		return err
	}

	return nil
}

func (b *Backend) insert(table string, row rowstore.Row) (map[string]any, error) {
	values, err := plain(row)
	if err != nil {
		return nil, err
	}

	if _, ok := values["id"]; !ok {
		values["id"] = uuid.NewString()
	}

	if _, ok := values["created_at"]; !ok {
		b.clock = b.clock.Add(time.Second)
		values["created_at"] = b.clock.Format(time.RFC3339)
	}

	b.tables[table] = append(b.tables[table], values)

	return values, nil
}

// plain converts row values to their JSON form, the way a real backend
// would store them.
func plain(row rowstore.Row) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}

	values := make(map[string]any, len(row))
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}

	return values, nil
}

func matches(r map[string]any, filters []rowstore.Filter) bool {
	for _, f := range filters {
		if fmt.Sprint(r[f.Column]) != fmt.Sprint(f.Value) {
			return false
		}
	}

	return true
}

func compare(x, y any) int {
	switch xv := x.(type) {
	case float64:
		if yv, ok := y.(float64); ok {
			return cmp.Compare(xv, yv)
		}
	case string:
		if yv, ok := y.(string); ok {
			return cmp.Compare(xv, yv)
		}
	}

	return cmp.Compare(fmt.Sprint(x), fmt.Sprint(y))
}
