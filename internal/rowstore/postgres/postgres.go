// Package postgres implements rowstore.Backend directly on a Postgres
// database through the pgx driver. Rows are returned as the JSON rendering
// of the table row, the same shape the REST backend produces.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

//go:embed schema.sql
var schema string

// Open connects to the database at connStr and verifies the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", translate(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// ConnString fills in key as the password of rawURL unless one is set.
func ConnString(rawURL, key string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing database url: %w", err)
	}

	if _, ok := u.User.Password(); ok || key == "" {
		return u.String(), nil
	}

	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}

	u.User = url.UserPassword(user, key)

	return u.String(), nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates missing tables. Existing tables are left untouched.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", translate(err))
	}

	return nil
}

func (s *Store) List(ctx context.Context, table string, q rowstore.Query) ([]json.RawMessage, error) {
	query, args, err := buildSelect(table, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []json.RawMessage{}

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}

		result = append(result, json.RawMessage(raw))
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	return result, nil
}

func (s *Store) Insert(ctx context.Context, table string, row rowstore.Row) (json.RawMessage, error) {
	query, args, err := buildInsert(table, row)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return nil, translate(err)
	}

	return raw, nil
}

func (s *Store) Update(ctx context.Context, table, id string, row rowstore.Row) (json.RawMessage, error) {
	query, args, err := buildUpdate(table, id, row)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return nil, translate(err)
	}

	return raw, nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if _, err := s.db.ExecContext(ctx, buildDelete(table), id); err != nil {
		return translate(err)
	}

	return nil
}
