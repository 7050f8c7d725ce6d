package postgres

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func buildSelect(table string, q rowstore.Query) (string, []any, error) {
	var (
		b    strings.Builder
		args []any
	)

	fmt.Fprintf(&b, "SELECT to_jsonb(r) FROM %s r", ident(table))

	for i, f := range q.Filters {
		v, err := bind(f.Value)
		if err != nil {
			return "", nil, fmt.Errorf("binding %s: %w", f.Column, err)
		}

		args = append(args, v)

		keyword := " AND"
		if i == 0 {
			keyword = " WHERE"
		}

		fmt.Fprintf(&b, "%s r.%s = $%d", keyword, ident(f.Column), len(args))
	}

	if q.OrderBy != "" {
		dir := "DESC"
		if q.Ascending {
			dir = "ASC"
		}

		fmt.Fprintf(&b, " ORDER BY r.%s %s", ident(q.OrderBy), dir)
	}

	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	return b.String(), args, nil
}

func buildInsert(table string, row rowstore.Row) (string, []any, error) {
	if len(row) == 0 {
		return fmt.Sprintf("INSERT INTO %s AS r DEFAULT VALUES RETURNING to_jsonb(r)", ident(table)), nil, nil
	}

	columns, args, err := columnsOf(row)
	if err != nil {
		return "", nil, err
	}

	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))

	for i, c := range columns {
		names[i] = ident(c)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s AS r (%s) VALUES (%s) RETURNING to_jsonb(r)",
		ident(table), strings.Join(names, ", "), strings.Join(placeholders, ", "))

	return query, args, nil
}

func buildUpdate(table, id string, row rowstore.Row) (string, []any, error) {
	if len(row) == 0 {
		return "", nil, fmt.Errorf("updating %s: no columns to set", table)
	}

	columns, args, err := columnsOf(row)
	if err != nil {
		return "", nil, err
	}

	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
	}

	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s AS r SET %s WHERE r.id = $%d RETURNING to_jsonb(r)",
		ident(table), strings.Join(sets, ", "), len(args))

	return query, args, nil
}

func buildDelete(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1", ident(table))
}

// columnsOf returns the row's columns in a stable order with their bound values.
func columnsOf(row rowstore.Row) ([]string, []any, error) {
	columns := make([]string, 0, len(row))
	for c := range row {
		columns = append(columns, c)
	}

	slices.Sort(columns)

	args := make([]any, len(columns))

	for i, c := range columns {
		v, err := bind(row[c])
		if err != nil {
			return nil, nil, fmt.Errorf("binding %s: %w", c, err)
		}

		args[i] = v
	}

	return columns, args, nil
}

// bind reduces a row value to a plain driver value. Nil pointers become
// NULL, Valuers are resolved and named string types lose their name.
func bind(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}

		rv = rv.Elem()
		v = rv.Interface()
	}

	if valuer, ok := v.(driver.Valuer); ok {
		return valuer.Value()
	}

	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}

	return v, nil
}
