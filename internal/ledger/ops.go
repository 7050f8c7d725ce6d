package ledger

import (
	"context"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/reconcile"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

// outcome holds the user-facing texts of one operation.
type outcome struct {
	success string
	failure string
}

var (
	bankCreated       = outcome{"Banco agregado exitosamente", "Error al guardar el banco"}
	bankUpdated       = outcome{"Banco actualizado exitosamente", "Error al actualizar el banco"}
	bankDeleted       = outcome{"Banco eliminado exitosamente", "Error al eliminar el banco"}
	cardCreated       = outcome{"Tarjeta agregada exitosamente", "Error al guardar la tarjeta"}
	cardUpdated       = outcome{"Tarjeta actualizada exitosamente", "Error al actualizar la tarjeta"}
	cardDeleted       = outcome{"Tarjeta eliminada exitosamente", "Error al eliminar la tarjeta"}
	expenseCreated    = outcome{"Gasto agregado exitosamente", "Error al guardar el gasto"}
	savingCreated     = outcome{"Ahorro agregado exitosamente", "Error al guardar el ahorro"}
	investmentCreated = outcome{"Inversión agregada exitosamente", "Error al guardar la inversión"}
	debtCreated       = outcome{"Deuda agregada exitosamente", "Error al guardar la deuda"}
	goalCreated       = outcome{"Objetivo agregado exitosamente", "Error al guardar el objetivo"}
	goalProgressSaved = outcome{"Progreso actualizado exitosamente", "Error al actualizar el progreso"}
)

// create validates f, writes the record and reconciles it into the list
// selected by pick.
func create[F any, T finance.Record](
	ctx context.Context,
	s *Service,
	f F,
	validate func(F) (T, error),
	write func(context.Context, T) (T, error),
	pick func(*State) *[]T,
	at reconcile.Placement,
	texts outcome,
) (T, error) {
	var zero T

	rec, err := validate(f)
	if err != nil {
		return zero, s.invalid(ctx, err)
	}

	saved, err := write(ctx, rec)

	s.mu.Lock()
	list := pick(&s.state)
	*list, err = reconcile.Created(*list, saved, err, at)
	s.mu.Unlock()

	if err != nil {
		return zero, s.failed(ctx, texts.failure, err)
	}

	s.notify(LevelSuccess, texts.success)

	return saved, nil
}

func update[T finance.Record](
	ctx context.Context,
	s *Service,
	rec T,
	write func(context.Context, T) (T, error),
	pick func(*State) *[]T,
	texts outcome,
) (T, error) {
	var zero T

	saved, err := write(ctx, rec)

	s.mu.Lock()
	list := pick(&s.state)
	*list, err = reconcile.Updated(*list, saved, err)
	s.mu.Unlock()

	if err != nil {
		return zero, s.failed(ctx, texts.failure, err)
	}

	s.notify(LevelSuccess, texts.success)

	return saved, nil
}

func remove[T finance.Record](
	ctx context.Context,
	s *Service,
	id string,
	write func(context.Context, string) error,
	pick func(*State) *[]T,
	texts outcome,
) error {
	err := write(ctx, id)

	s.mu.Lock()
	list := pick(&s.state)
	*list, err = reconcile.Deleted(*list, id, err)
	s.mu.Unlock()

	if err != nil {
		return s.failed(ctx, texts.failure, err)
	}

	s.notify(LevelSuccess, texts.success)

	return nil
}

func banks(st *State) *[]*finance.Bank             { return &st.Banks }
func cards(st *State) *[]*finance.Card             { return &st.Cards }
func expenses(st *State) *[]*finance.Expense       { return &st.Expenses }
func savings(st *State) *[]*finance.Saving         { return &st.Savings }
func investments(st *State) *[]*finance.Investment { return &st.Investments }
func debts(st *State) *[]*finance.Debt             { return &st.Debts }
func goals(st *State) *[]*finance.Goal             { return &st.Goals }

// Banks and cards are reference records: new ones go to the end of the list.

func (s *Service) AddBank(ctx context.Context, f form.BankForm) (*finance.Bank, error) {
	return create(ctx, s, f, s.validator.Bank, s.repo.CreateBank, banks, reconcile.Append, bankCreated)
}

// EditBank replaces the bank with the given id by the validated form.
func (s *Service) EditBank(ctx context.Context, id string, f form.BankForm) (*finance.Bank, error) {
	b, err := s.validator.Bank(f)
	if err != nil {
		return nil, s.invalid(ctx, err)
	}

	b.ID = id

	return update(ctx, s, b, s.repo.UpdateBank, banks, bankUpdated)
}

// RemoveBank deletes a bank. Cards and records pointing to it are kept.
func (s *Service) RemoveBank(ctx context.Context, id string) error {
	return remove(ctx, s, id, s.repo.DeleteBank, banks, bankDeleted)
}

func (s *Service) AddCard(ctx context.Context, f form.CardForm) (*finance.Card, error) {
	return create(ctx, s, f, s.validator.Card, s.repo.CreateCard, cards, reconcile.Append, cardCreated)
}

func (s *Service) EditCard(ctx context.Context, id string, f form.CardForm) (*finance.Card, error) {
	c, err := s.validator.Card(f)
	if err != nil {
		return nil, s.invalid(ctx, err)
	}

	c.ID = id

	return update(ctx, s, c, s.repo.UpdateCard, cards, cardUpdated)
}

func (s *Service) RemoveCard(ctx context.Context, id string) error {
	return remove(ctx, s, id, s.repo.DeleteCard, cards, cardDeleted)
}

// Transactional records are listed newest first.

func (s *Service) AddExpense(ctx context.Context, f form.ExpenseForm) (*finance.Expense, error) {
	return create(ctx, s, f, s.validator.Expense, s.repo.CreateExpense, expenses, reconcile.Prepend, expenseCreated)
}

func (s *Service) AddSaving(ctx context.Context, f form.SavingForm) (*finance.Saving, error) {
	return create(ctx, s, f, s.validator.Saving, s.repo.CreateSaving, savings, reconcile.Prepend, savingCreated)
}

func (s *Service) AddInvestment(ctx context.Context, f form.InvestmentForm) (*finance.Investment, error) {
	return create(ctx, s, f, s.validator.Investment, s.repo.CreateInvestment, investments, reconcile.Prepend, investmentCreated)
}

func (s *Service) AddDebt(ctx context.Context, f form.DebtForm) (*finance.Debt, error) {
	return create(ctx, s, f, s.validator.Debt, s.repo.CreateDebt, debts, reconcile.Prepend, debtCreated)
}

// AddGoal creates a goal. It joins the goal list only when it belongs to
// the month being shown.
func (s *Service) AddGoal(ctx context.Context, f form.GoalForm) (*finance.Goal, error) {
	g, err := s.validator.Goal(f)
	if err != nil {
		return nil, s.invalid(ctx, err)
	}

	saved, err := s.repo.CreateGoal(ctx, g)
	if err != nil {
		return nil, s.failed(ctx, goalCreated.failure, err)
	}

	s.mu.Lock()
	if saved.Month == s.state.GoalMonth && saved.Year == s.state.GoalYear {
		s.state.Goals, _ = reconcile.Created(s.state.Goals, saved, nil, reconcile.Append)
	}
	s.mu.Unlock()

	s.notify(LevelSuccess, goalCreated.success)

	return saved, nil
}

// UpdateGoalProgress records new progress on a goal of the month being
// shown. The completed flag is recomputed from the goal's target.
func (s *Service) UpdateGoalProgress(ctx context.Context, id, progress string) (*finance.Goal, error) {
	p, err := s.validator.Progress(progress)
	if err != nil {
		return nil, s.invalid(ctx, err)
	}

	s.mu.Lock()
	var g *finance.Goal

	for _, cur := range s.state.Goals {
		if cur.ID == id {
			c := *cur
			g = &c

			break
		}
	}
	s.mu.Unlock()

	if g == nil {
		return nil, s.missing(ctx, goalProgressSaved.failure, rowstore.ErrNotFound, "goal_id", id)
	}

	g.SetProgress(p)

	return update(ctx, s, g, s.repo.UpdateGoalProgress, goals, goalProgressSaved)
}

// Categories are kept in a positional list on the client in every mode.

func (s *Service) AddCategory(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	added, err := s.categories.Add(name)
	s.mu.Unlock()

	if err != nil {
		return "", s.invalid(ctx, err)
	}

	s.notify(LevelSuccess, "Categoría agregada exitosamente")

	return added, nil
}

func (s *Service) RenameCategory(ctx context.Context, index int, name string) (string, error) {
	s.mu.Lock()
	renamed, err := s.categories.Rename(index, name)
	s.mu.Unlock()

	if err != nil {
		return "", s.invalid(ctx, err)
	}

	s.notify(LevelSuccess, "Categoría actualizada exitosamente")

	return renamed, nil
}

func (s *Service) RemoveCategory(ctx context.Context, index int) (string, error) {
	s.mu.Lock()
	removed, err := s.categories.Remove(index)
	s.mu.Unlock()

	if err != nil {
		return "", s.invalid(ctx, err)
	}

	s.notify(LevelSuccess, "Categoría eliminada exitosamente")

	return removed, nil
}
