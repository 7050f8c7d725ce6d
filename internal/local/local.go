// Package local keeps every record in memory. It is the legacy storage
// mode: ids are generated on the client and nothing survives a restart.
package local

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

// Store holds records in insertion order. It does not check references
// between records. Records are copied in and out. It is safe for
// concurrent use.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	banks       []*finance.Bank
	cards       []*finance.Card
	expenses    []*finance.Expense
	savings     []*finance.Saving
	investments []*finance.Investment
	debts       []*finance.Debt
	goals       []*finance.Goal
}

func New() *Store {
	return &Store{now: time.Now}
}

// WithClock replaces the clock used for created and updated timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

// ListCategories returns nothing; categories live only in the positional
// list kept by the caller.
func (s *Store) ListCategories(context.Context) ([]*finance.Category, error) {
	return nil, nil
}

func (s *Store) ListBanks(context.Context) ([]*finance.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.banks), nil
}

func (s *Store) CreateBank(_ context.Context, b *finance.Bank) (*finance.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(b)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	s.banks = append(s.banks, rec)

	return clone(rec), nil
}

func (s *Store) UpdateBank(_ context.Context, b *finance.Bank) (*finance.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.banks, b.ID)
	if i < 0 {
		return nil, fmt.Errorf("updating bank %s: %w", b.ID, rowstore.ErrNotFound)
	}

	rec := clone(b)
	rec.CreatedAt, rec.UpdatedAt = s.banks[i].CreatedAt, s.stamp()
	s.banks[i] = rec

	return clone(rec), nil
}

func (s *Store) DeleteBank(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.banks = remove(s.banks, id)

	return nil
}

func (s *Store) ListCards(context.Context) ([]*finance.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.cards), nil
}

func (s *Store) CreateCard(_ context.Context, c *finance.Card) (*finance.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(c)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	s.cards = append(s.cards, rec)

	return clone(rec), nil
}

func (s *Store) UpdateCard(_ context.Context, c *finance.Card) (*finance.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.cards, c.ID)
	if i < 0 {
		return nil, fmt.Errorf("updating card %s: %w", c.ID, rowstore.ErrNotFound)
	}

	rec := clone(c)
	rec.CreatedAt, rec.UpdatedAt = s.cards[i].CreatedAt, s.stamp()
	s.cards[i] = rec

	return clone(rec), nil
}

func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = remove(s.cards, id)

	return nil
}

// Transactional records are listed newest first.

func (s *Store) ListExpenses(context.Context) ([]*finance.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.expenses), nil
}

func (s *Store) CreateExpense(_ context.Context, e *finance.Expense) (*finance.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(e)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	s.expenses = append(s.expenses, rec)

	return clone(rec), nil
}

func (s *Store) ListSavings(context.Context) ([]*finance.Saving, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.savings), nil
}

func (s *Store) CreateSaving(_ context.Context, sv *finance.Saving) (*finance.Saving, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(sv)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	s.savings = append(s.savings, rec)

	return clone(rec), nil
}

func (s *Store) ListInvestments(context.Context) ([]*finance.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.investments), nil
}

func (s *Store) CreateInvestment(_ context.Context, i *finance.Investment) (*finance.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(i)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	s.investments = append(s.investments, rec)

	return clone(rec), nil
}

func (s *Store) ListDebts(context.Context) ([]*finance.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.debts), nil
}

func (s *Store) CreateDebt(_ context.Context, d *finance.Debt) (*finance.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(d)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	s.debts = append(s.debts, rec)

	return clone(rec), nil
}

func (s *Store) ListGoals(_ context.Context, month, year int) ([]*finance.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := []*finance.Goal{}

	for _, g := range s.goals {
		if g.Month == month && g.Year == year {
			goals = append(goals, clone(g))
		}
	}

	return goals, nil
}

func (s *Store) CreateGoal(_ context.Context, g *finance.Goal) (*finance.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(g)
	rec.ID, rec.CreatedAt = uuid.NewString(), s.stamp()
	rec.Normalize()
	s.goals = append(s.goals, rec)

	return clone(rec), nil
}

// UpdateGoalProgress stores the progress of g on the goal with the same id;
// the other fields of the stored goal are kept.
func (s *Store) UpdateGoalProgress(_ context.Context, g *finance.Goal) (*finance.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.goals, g.ID)
	if i < 0 {
		return nil, fmt.Errorf("updating goal progress %s: %w", g.ID, rowstore.ErrNotFound)
	}

	s.goals[i].SetProgress(g.Progress)

	return clone(s.goals[i]), nil
}

func (s *Store) stamp() *time.Time {
	return new(s.now().UTC())
}

func clone[T any](p *T) *T {
	c := *p
	return &c
}

func cloneAll[T any](items []*T) []*T {
	out := make([]*T, len(items))
	for i, p := range items {
		out[i] = clone(p)
	}

	return out
}

func newestFirst[T any](items []*T) []*T {
	out := cloneAll(items)
	slices.Reverse(out)

	return out
}

func indexOf[T finance.Record](items []T, id string) int {
	return slices.IndexFunc(items, func(r T) bool { return r.RecordID() == id })
}

func remove[T finance.Record](items []T, id string) []T {
	return slices.DeleteFunc(items, func(r T) bool { return r.RecordID() == id })
}
