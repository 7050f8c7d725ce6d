// Package ledger owns the lists shown to the user. Every operation runs the
// same pipeline: validate the form, write through the Repository, reconcile
// the confirmed result into the lists and emit exactly one notification.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Ping(ctx context.Context) error

	ListBanks(ctx context.Context) ([]*finance.Bank, error)
	CreateBank(ctx context.Context, b *finance.Bank) (*finance.Bank, error)
	UpdateBank(ctx context.Context, b *finance.Bank) (*finance.Bank, error)
	DeleteBank(ctx context.Context, id string) error

	ListCards(ctx context.Context) ([]*finance.Card, error)
	CreateCard(ctx context.Context, c *finance.Card) (*finance.Card, error)
	UpdateCard(ctx context.Context, c *finance.Card) (*finance.Card, error)
	DeleteCard(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]*finance.Expense, error)
	CreateExpense(ctx context.Context, e *finance.Expense) (*finance.Expense, error)

	ListSavings(ctx context.Context) ([]*finance.Saving, error)
	CreateSaving(ctx context.Context, s *finance.Saving) (*finance.Saving, error)

	ListInvestments(ctx context.Context) ([]*finance.Investment, error)
	CreateInvestment(ctx context.Context, i *finance.Investment) (*finance.Investment, error)

	ListDebts(ctx context.Context) ([]*finance.Debt, error)
	CreateDebt(ctx context.Context, d *finance.Debt) (*finance.Debt, error)

	ListGoals(ctx context.Context, month, year int) ([]*finance.Goal, error)
	CreateGoal(ctx context.Context, g *finance.Goal) (*finance.Goal, error)
	UpdateGoalProgress(ctx context.Context, g *finance.Goal) (*finance.Goal, error)

	ListCategories(ctx context.Context) ([]*finance.Category, error)
}

// State is a snapshot of the lists. Transactional lists are newest first;
// goals belong to GoalMonth of GoalYear.
type State struct {
	Banks       []*finance.Bank
	Cards       []*finance.Card
	Expenses    []*finance.Expense
	Savings     []*finance.Saving
	Investments []*finance.Investment
	Debts       []*finance.Debt
	Goals       []*finance.Goal
	Categories  []string
	GoalMonth   int
	GoalYear    int
}

type Service struct {
	repo      Repository
	notifier  Notifier
	validator *form.Validator
	now       func() time.Time

	mu         sync.Mutex
	state      State
	categories *local.Categories
}

type Option func(*Service)

// WithClock sets the clock used for form defaults, the goal month and
// summaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.validator.WithClock(now)
	}
}

func NewService(repo Repository, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		notifier:   notifier,
		validator:  form.New(),
		now:        time.Now,
		categories: local.NewCategories(finance.DefaultCategories),
	}

	for _, opt := range opts {
		opt(s)
	}

	now := s.now()
	s.state.GoalMonth, s.state.GoalYear = int(now.Month()), now.Year()

	return s
}

// Snapshot returns a copy of the current lists.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Banks:       cloneAll(s.state.Banks),
		Cards:       cloneAll(s.state.Cards),
		Expenses:    cloneAll(s.state.Expenses),
		Savings:     cloneAll(s.state.Savings),
		Investments: cloneAll(s.state.Investments),
		Debts:       cloneAll(s.state.Debts),
		Goals:       cloneAll(s.state.Goals),
		Categories:  s.categories.Names(),
		GoalMonth:   s.state.GoalMonth,
		GoalYear:    s.state.GoalYear,
	}
}

// Reload fetches every list. On failure the previous lists are kept.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	month, year := s.state.GoalMonth, s.state.GoalYear
	s.mu.Unlock()

	var (
		next State
		err  error
	)

	next.GoalMonth, next.GoalYear = month, year

	if next.Banks, err = s.repo.ListBanks(ctx); err != nil {
		return s.loadFailed(ctx, err)
	}

	if next.Cards, err = s.repo.ListCards(ctx); err != nil {
		return s.loadFailed(ctx, err)
	}

	if next.Expenses, err = s.repo.ListExpenses(ctx); err != nil {
		return s.loadFailed(ctx, err)
	}

	if next.Savings, err = s.repo.ListSavings(ctx); err != nil {
		return s.loadFailed(ctx, err)
	}

	if next.Investments, err = s.repo.ListInvestments(ctx); err != nil {
		return s.loadFailed(ctx, err)
	}

	if next.Debts, err = s.repo.ListDebts(ctx); err != nil {
		return s.loadFailed(ctx, err)
	}

	if next.Goals, err = s.repo.ListGoals(ctx, month, year); err != nil {
		return s.loadFailed(ctx, err)
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return s.loadFailed(ctx, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = next

	if len(categories) > 0 {
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = c.Name
		}

		s.categories.Reset(names)
	}

	return nil
}

func (s *Service) loadFailed(ctx context.Context, err error) error {
	logFailure(ctx, "loading data", err)
	s.notify(LevelError, "Error al cargar los datos")

	return err
}

// LoadGoals switches the goal list to another month.
func (s *Service) LoadGoals(ctx context.Context, month, year int) ([]*finance.Goal, error) {
	if month < 1 || month > 12 {
		return nil, s.invalid(ctx, finance.NewValidationError("mes", `El campo "Mes" debe estar entre 1 y 12`))
	}

	goals, err := s.repo.ListGoals(ctx, month, year)
	if err != nil {
		logFailure(ctx, "loading goals", err)
		s.notify(LevelError, "Error al cargar los objetivos")

		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Goals = goals
	s.state.GoalMonth, s.state.GoalYear = month, year

	return cloneAll(goals), nil
}

// Ping checks that the backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		logFailure(ctx, "checking connection", err)
		s.notify(LevelError, msgUnreachable)

		return err
	}

	s.notify(LevelSuccess, "Conexión exitosa con la base de datos")

	return nil
}

// Summary aggregates the current lists.
func (s *Service) Summary() finance.Summary {
	state := s.Snapshot()

	return finance.Summarize(s.now(), state.Expenses, state.Savings, state.Investments, state.Debts)
}

func (s *Service) notify(level Level, msg string) {
	s.notifier.Notify(Notification{Level: level, Message: msg})
}

// invalid reports a validation failure. It is not a fault and is logged at
// debug level only.
func (s *Service) invalid(ctx context.Context, err error) error {
	logging.FromContext(ctx).Debug("invalid input", "error", err)
	s.notify(LevelError, describe(err))

	return err
}

// missing reports a record that is not in the loaded state. No backend call
// was made, so it is logged as a warning.
func (s *Service) missing(ctx context.Context, prefix string, err error, args ...any) error {
	logging.FromContext(ctx).Warn("record not loaded", append([]any{"op", prefix, "error", err}, args...)...)
	s.notify(LevelError, prefix+": "+describe(err))

	return err
}

// failed reports a failed write with the user-facing prefix.
func (s *Service) failed(ctx context.Context, prefix string, err error) error {
	logFailure(ctx, prefix, err)
	s.notify(LevelError, prefix+": "+describe(err))

	return err
}

func logFailure(ctx context.Context, op string, err error) {
	attrs := []any{"op", op, "error", err}

	if be, ok := rowstore.AsError(err); ok {
		attrs = append(attrs, "code", be.Code, "details", be.Details, "hint", be.Hint)
	}

	if rowstore.IsConnectivity(err) {
		attrs = append(attrs, "connectivity", true)
	}

	logging.FromContext(ctx).Error("backend operation failed", attrs...)
}

func cloneAll[T any](items []*T) []*T {
	if items == nil {
		return nil
	}

	out := make([]*T, len(items))
	for i, p := range items {
		c := *p
		out[i] = &c
	}

	return out
}
