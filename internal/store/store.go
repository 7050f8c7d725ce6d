// Package store is the remote store adapter: it maps finance records onto
// backend rows and back, and keeps backend errors intact for the caller.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

type Store struct {
	backend rowstore.Backend
	now     func() time.Time
}

func New(backend rowstore.Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

var (
	byNameAsc     = rowstore.Query{OrderBy: "nombre", Ascending: true}
	byCreatedDesc = rowstore.Query{OrderBy: "created_at"}
)

// Ping reads a single expense row to check that the backend is reachable.
// Any failure is reported as a connectivity error.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.backend.List(ctx, rowstore.TableExpenses, rowstore.Query{Limit: 1})
	if err == nil {
		return nil
	}

	if rowstore.IsConnectivity(err) {
		return err
	}

	return &rowstore.ConnectivityError{Err: err}
}

// Banks

func (s *Store) ListBanks(ctx context.Context) ([]*finance.Bank, error) {
	banks, err := list[finance.Bank](ctx, s.backend, rowstore.TableBanks, byNameAsc)
	if err != nil {
		return nil, fmt.Errorf("listing banks: %w", err)
	}

	return banks, nil
}

func (s *Store) CreateBank(ctx context.Context, b *finance.Bank) (*finance.Bank, error) {
	created, err := insert[finance.Bank](ctx, s.backend, rowstore.TableBanks, bankRow(b))
	if err != nil {
		return nil, fmt.Errorf("creating bank: %w", err)
	}

	return created, nil
}

func (s *Store) UpdateBank(ctx context.Context, b *finance.Bank) (*finance.Bank, error) {
	row := bankRow(b)
	row["updated_at"] = s.now().UTC()

	updated, err := update[finance.Bank](ctx, s.backend, rowstore.TableBanks, b.ID, row)
	if err != nil {
		return nil, fmt.Errorf("updating bank %s: %w", b.ID, err)
	}

	return updated, nil
}

func (s *Store) DeleteBank(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, rowstore.TableBanks, id); err != nil {
		return fmt.Errorf("deleting bank %s: %w", id, err)
	}

	return nil
}

// Cards

func (s *Store) ListCards(ctx context.Context) ([]*finance.Card, error) {
	cards, err := list[finance.Card](ctx, s.backend, rowstore.TableCards, byNameAsc)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}

	return cards, nil
}

func (s *Store) CreateCard(ctx context.Context, c *finance.Card) (*finance.Card, error) {
	created, err := insert[finance.Card](ctx, s.backend, rowstore.TableCards, cardRow(c))
	if err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	return created, nil
}

func (s *Store) UpdateCard(ctx context.Context, c *finance.Card) (*finance.Card, error) {
	row := cardRow(c)
	row["updated_at"] = s.now().UTC()

	updated, err := update[finance.Card](ctx, s.backend, rowstore.TableCards, c.ID, row)
	if err != nil {
		return nil, fmt.Errorf("updating card %s: %w", c.ID, err)
	}

	return updated, nil
}

func (s *Store) DeleteCard(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, rowstore.TableCards, id); err != nil {
		return fmt.Errorf("deleting card %s: %w", id, err)
	}

	return nil
}

// Transactional records

func (s *Store) ListExpenses(ctx context.Context) ([]*finance.Expense, error) {
	expenses, err := list[finance.Expense](ctx, s.backend, rowstore.TableExpenses, byCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return expenses, nil
}

// CreateExpense checks connectivity first and fails fast when the backend
// is unreachable.
func (s *Store) CreateExpense(ctx context.Context, e *finance.Expense) (*finance.Expense, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	created, err := insert[finance.Expense](ctx, s.backend, rowstore.TableExpenses, expenseRow(e))
	if err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	return created, nil
}

func (s *Store) ListSavings(ctx context.Context) ([]*finance.Saving, error) {
	savings, err := list[finance.Saving](ctx, s.backend, rowstore.TableSavings, byCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("listing savings: %w", err)
	}

	return savings, nil
}

func (s *Store) CreateSaving(ctx context.Context, sv *finance.Saving) (*finance.Saving, error) {
	created, err := insert[finance.Saving](ctx, s.backend, rowstore.TableSavings, savingRow(sv))
	if err != nil {
		return nil, fmt.Errorf("creating saving: %w", err)
	}

	return created, nil
}

func (s *Store) ListInvestments(ctx context.Context) ([]*finance.Investment, error) {
	investments, err := list[finance.Investment](ctx, s.backend, rowstore.TableInvestments, byCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}

	return investments, nil
}

func (s *Store) CreateInvestment(ctx context.Context, i *finance.Investment) (*finance.Investment, error) {
	created, err := insert[finance.Investment](ctx, s.backend, rowstore.TableInvestments, investmentRow(i))
	if err != nil {
		return nil, fmt.Errorf("creating investment: %w", err)
	}

	return created, nil
}

func (s *Store) ListDebts(ctx context.Context) ([]*finance.Debt, error) {
	debts, err := list[finance.Debt](ctx, s.backend, rowstore.TableDebts, byCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("listing debts: %w", err)
	}

	return debts, nil
}

func (s *Store) CreateDebt(ctx context.Context, d *finance.Debt) (*finance.Debt, error) {
	created, err := insert[finance.Debt](ctx, s.backend, rowstore.TableDebts, debtRow(d))
	if err != nil {
		return nil, fmt.Errorf("creating debt: %w", err)
	}

	return created, nil
}

// Goals

// ListGoals returns the goals of one month, oldest first.
func (s *Store) ListGoals(ctx context.Context, month, year int) ([]*finance.Goal, error) {
	q := rowstore.Query{
		OrderBy:   "created_at",
		Ascending: true,
		Filters: []rowstore.Filter{
			{Column: "mes", Value: month},
			{Column: "anio", Value: year},
		},
	}

	goals, err := list[finance.Goal](ctx, s.backend, rowstore.TableGoals, q)
	if err != nil {
		return nil, fmt.Errorf("listing goals for %d-%02d: %w", year, month, err)
	}

	return goals, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *finance.Goal) (*finance.Goal, error) {
	created, err := insert[finance.Goal](ctx, s.backend, rowstore.TableGoals, goalRow(g))
	if err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return created, nil
}

// UpdateGoalProgress writes only the progress and completed columns of g.
func (s *Store) UpdateGoalProgress(ctx context.Context, g *finance.Goal) (*finance.Goal, error) {
	row := rowstore.Row{
		"progreso":   g.Progress,
		"completado": g.Completed,
	}

	updated, err := update[finance.Goal](ctx, s.backend, rowstore.TableGoals, g.ID, row)
	if err != nil {
		return nil, fmt.Errorf("updating goal progress %s: %w", g.ID, err)
	}

	return updated, nil
}

// Categories

func (s *Store) ListCategories(ctx context.Context) ([]*finance.Category, error) {
	categories, err := list[finance.Category](ctx, s.backend, rowstore.TableCategories, byNameAsc)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return categories, nil
}

// Row decoding

type normalizer interface {
	Normalize()
}

func decode[T any](raw json.RawMessage) (*T, error) {
	rec := new(T)
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}

	if n, ok := any(rec).(normalizer); ok {
		n.Normalize()
	}

	return rec, nil
}

func list[T any](ctx context.Context, b rowstore.Backend, table string, q rowstore.Query) ([]*T, error) {
	rows, err := b.List(ctx, table, q)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(rows))

	for _, raw := range rows {
		rec, err := decode[T](raw)
		if err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	return out, nil
}

func insert[T any](ctx context.Context, b rowstore.Backend, table string, row rowstore.Row) (*T, error) {
	raw, err := b.Insert(ctx, table, row)
	if err != nil {
		return nil, err
	}

	return decode[T](raw)
}

func update[T any](ctx context.Context, b rowstore.Backend, table, id string, row rowstore.Row) (*T, error) {
	raw, err := b.Update(ctx, table, id, row)
	if err != nil {
		return nil, err
	}

	return decode[T](raw)
}
