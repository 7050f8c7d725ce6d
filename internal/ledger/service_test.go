package ledger_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

var fixedNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu  sync.Mutex
	got []ledger.Notification
}

func (r *recorder) Notify(n ledger.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.got = append(r.got, n)
}

func (r *recorder) all() []ledger.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]ledger.Notification(nil), r.got...)
}

func (r *recorder) last() ledger.Notification {
	all := r.all()
	if len(all) == 0 {
		return ledger.Notification{}
	}

	return all[len(all)-1]
}

func newService(t *testing.T) (*ledger.Service, *ledger.MockRepository, *recorder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	rec := &recorder{}

	svc := ledger.NewService(repo, rec, ledger.WithClock(func() time.Time { return fixedNow }))

	return svc, repo, rec
}

// expectReload makes the next Reload return the given banks and cards and
// empty lists otherwise.
func expectReload(m *ledger.MockRepository, banks []*finance.Bank, cards []*finance.Card) {
	m.EXPECT().ListBanks(gomock.Any()).Return(banks, nil)
	m.EXPECT().ListCards(gomock.Any()).Return(cards, nil)
	m.EXPECT().ListExpenses(gomock.Any()).Return(nil, nil)
	m.EXPECT().ListSavings(gomock.Any()).Return(nil, nil)
	m.EXPECT().ListInvestments(gomock.Any()).Return(nil, nil)
	m.EXPECT().ListDebts(gomock.Any()).Return(nil, nil)
	m.EXPECT().ListGoals(gomock.Any(), 3, 2024).Return(nil, nil)
	m.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)
}

func bank(id, name string) *finance.Bank {
	return &finance.Bank{ID: id, Name: name, Kind: finance.AccountDebit}
}

func TestService_AddBank(t *testing.T) {
	type testCase struct {
		name      string
		form      form.BankForm
		setupMock func(m *ledger.MockRepository)
		wantErr   bool
		wantBanks []string
		wantNote  ledger.Notification
	}

	tests := []testCase{
		{
			name: "Success",
			form: form.BankForm{Name: "C", Kind: "debito"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateBank(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *finance.Bank) (*finance.Bank, error) {
						assert.Empty(t, b.ID)
						assert.True(t, *b.AllowsTransfers)

						saved := *b
						saved.ID = "c"

						return &saved, nil
					})
			},
			wantBanks: []string{"A", "B", "C"},
			wantNote:  ledger.Notification{Level: ledger.LevelSuccess, Message: "Banco agregado exitosamente"},
		},
		{
			name: "BackendRejects",
			form: form.BankForm{Name: "C", Kind: "debito"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateBank(gomock.Any(), gomock.Any()).
					Return(nil, &rowstore.Error{Code: "23505", Message: "duplicate key", Details: "Key (nombre) exists", Hint: "rename"})
			},
			wantErr:   true,
			wantBanks: []string{"A", "B"},
			wantNote: ledger.Notification{
				Level:   ledger.LevelError,
				Message: "Error al guardar el banco: duplicate key (23505) - Key (nombre) exists [hint: rename]",
			},
		},
		{
			name: "Unreachable",
			form: form.BankForm{Name: "C", Kind: "debito"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateBank(gomock.Any(), gomock.Any()).
					Return(nil, &rowstore.ConnectivityError{Err: errors.New("dial tcp: i/o timeout")})
			},
			wantErr:   true,
			wantBanks: []string{"A", "B"},
			wantNote: ledger.Notification{
				Level:   ledger.LevelError,
				Message: "Error al guardar el banco: No se pudo conectar con la base de datos",
			},
		},
		{
			name:      "Invalid",
			form:      form.BankForm{Name: "  ", Kind: "debito"},
			wantErr:   true,
			wantBanks: []string{"A", "B"},
			wantNote:  ledger.Notification{Level: ledger.LevelError, Message: `El campo "Nombre" es obligatorio`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, rec := newService(t)

			expectReload(repo, []*finance.Bank{bank("a", "A"), bank("b", "B")}, nil)
			require.NoError(t, svc.Reload(context.Background()))

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := svc.AddBank(context.Background(), tt.form)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "c", got.ID)
			}

			var names []string
			for _, b := range svc.Snapshot().Banks {
				names = append(names, b.Name)
			}

			assert.Equal(t, tt.wantBanks, names)
			assert.Equal(t, []ledger.Notification{tt.wantNote}, rec.all())
		})
	}
}

func TestService_AddCard_InvalidNeverReachesBackend(t *testing.T) {
	svc, _, rec := newService(t)

	_, err := svc.AddCard(context.Background(), form.CardForm{
		Name:       "Test Card",
		BankID:     "bank-1",
		Limit:      "1000",
		ClosingDay: "32",
		PaymentDay: "5",
	})

	require.True(t, finance.IsValidation(err))
	assert.Equal(t, ledger.LevelError, rec.last().Level)
	assert.Empty(t, svc.Snapshot().Cards)
	assert.Len(t, rec.all(), 1)
}

func TestService_EditCard(t *testing.T) {
	svc, repo, rec := newService(t)

	a := &finance.Card{ID: "a", Name: "A", BankID: "bank-1", Limit: decimal.NewFromInt(100), ClosingDay: 1, PaymentDay: 5}
	b := &finance.Card{ID: "b", Name: "B", BankID: "bank-1", Limit: decimal.NewFromInt(100), ClosingDay: 1, PaymentDay: 5}

	expectReload(repo, nil, []*finance.Card{a, b})
	require.NoError(t, svc.Reload(context.Background()))

	repo.EXPECT().
		UpdateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *finance.Card) (*finance.Card, error) {
			assert.Equal(t, "b", c.ID)
			return c, nil
		})

	updated, err := svc.EditCard(context.Background(), "b", form.CardForm{
		Name: "B'", BankID: "bank-1", Limit: "200", ClosingDay: "10", PaymentDay: "20",
	})
	require.NoError(t, err)
	assert.Equal(t, "B'", updated.Name)

	cards := svc.Snapshot().Cards
	require.Len(t, cards, 2)
	assert.Equal(t, "A", cards[0].Name)
	assert.Equal(t, "B'", cards[1].Name)
	assert.Equal(t, 10, cards[1].ClosingDay)
	assert.Equal(t, "Tarjeta actualizada exitosamente", rec.last().Message)
}

func TestService_RemoveBank(t *testing.T) {
	svc, repo, rec := newService(t)

	expectReload(repo, []*finance.Bank{bank("a", "A"), bank("b", "B")}, nil)
	require.NoError(t, svc.Reload(context.Background()))

	repo.EXPECT().DeleteBank(gomock.Any(), "a").Return(nil)
	require.NoError(t, svc.RemoveBank(context.Background(), "a"))

	repo.EXPECT().DeleteBank(gomock.Any(), "b").Return(errors.New("boom"))
	require.Error(t, svc.RemoveBank(context.Background(), "b"))

	banks := svc.Snapshot().Banks
	require.Len(t, banks, 1)
	assert.Equal(t, "b", banks[0].ID)

	notes := rec.all()
	require.Len(t, notes, 2)
	assert.Equal(t, ledger.LevelSuccess, notes[0].Level)
	assert.Equal(t, "Error al eliminar el banco: boom", notes[1].Message)
}

func TestService_AddExpense_Prepends(t *testing.T) {
	svc, repo, _ := newService(t)

	for _, id := range []string{"e1", "e2"} {
		repo.EXPECT().
			CreateExpense(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *finance.Expense) (*finance.Expense, error) {
				saved := *e
				saved.ID = id

				return &saved, nil
			})

		_, err := svc.AddExpense(context.Background(), form.ExpenseForm{
			Description: "Coffee", Amount: "4.50", Category: "Alimentación", Method: "efectivo",
		})
		require.NoError(t, err)
	}

	expenses := svc.Snapshot().Expenses
	require.Len(t, expenses, 2)
	assert.Equal(t, "e2", expenses[0].ID)
	assert.Equal(t, "e1", expenses[1].ID)
	assert.Equal(t, "2024-03-10", expenses[0].Date.String())
}

func TestService_Reload_FailureKeepsState(t *testing.T) {
	svc, repo, rec := newService(t)

	expectReload(repo, []*finance.Bank{bank("a", "A")}, nil)
	require.NoError(t, svc.Reload(context.Background()))

	repo.EXPECT().ListBanks(gomock.Any()).Return([]*finance.Bank{}, nil)
	repo.EXPECT().ListCards(gomock.Any()).Return(nil, &rowstore.ConnectivityError{Err: errors.New("refused")})

	err := svc.Reload(context.Background())
	require.Error(t, err)

	assert.Len(t, svc.Snapshot().Banks, 1)
	assert.Equal(t, []ledger.Notification{{Level: ledger.LevelError, Message: "Error al cargar los datos"}}, rec.all())
}

func TestService_Reload_Categories(t *testing.T) {
	svc, repo, _ := newService(t)

	assert.Equal(t, finance.DefaultCategories, svc.Snapshot().Categories)

	repo.EXPECT().ListBanks(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListCards(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListExpenses(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListSavings(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListInvestments(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListDebts(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListGoals(gomock.Any(), 3, 2024).Return(nil, nil)
	repo.EXPECT().ListCategories(gomock.Any()).Return([]*finance.Category{{Name: "Hogar"}, {Name: "Ocio"}}, nil)

	require.NoError(t, svc.Reload(context.Background()))
	assert.Equal(t, []string{"Hogar", "Ocio"}, svc.Snapshot().Categories)
}

func TestService_Goals(t *testing.T) {
	svc, repo, rec := newService(t)

	repo.EXPECT().
		CreateGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *finance.Goal) (*finance.Goal, error) {
			saved := *g
			saved.ID = "g-" + g.Description

			return &saved, nil
		}).
		Times(2)

	_, err := svc.AddGoal(context.Background(), form.GoalForm{Kind: "ahorro", Description: "now", Target: "100"})
	require.NoError(t, err)

	_, err = svc.AddGoal(context.Background(), form.GoalForm{Month: "4", Kind: "ahorro", Description: "later", Target: "100"})
	require.NoError(t, err)

	goals := svc.Snapshot().Goals
	require.Len(t, goals, 1, "only goals of the shown month are listed")
	assert.Equal(t, "g-now", goals[0].ID)

	repo.EXPECT().
		UpdateGoalProgress(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *finance.Goal) (*finance.Goal, error) {
			assert.True(t, g.Completed)
			assert.Equal(t, "150", g.Progress.String())

			return g, nil
		})

	updated, err := svc.UpdateGoalProgress(context.Background(), "g-now", "150")
	require.NoError(t, err)
	assert.Equal(t, finance.CompletedLabel, updated.Status().Label())
	assert.True(t, svc.Snapshot().Goals[0].Completed)

	_, err = svc.UpdateGoalProgress(context.Background(), "g-now", "-1")
	assert.True(t, finance.IsValidation(err))

	_, err = svc.UpdateGoalProgress(context.Background(), "unknown", "10")
	assert.ErrorIs(t, err, rowstore.ErrNotFound)

	assert.Len(t, rec.all(), 5)
}

func TestService_UpdateGoalProgress_NotLoaded(t *testing.T) {
	svc, _, rec := newService(t)

	var logs bytes.Buffer
	ctx := logging.ToContext(context.Background(), logging.New(&logs, "debug"))

	_, err := svc.UpdateGoalProgress(ctx, "unknown", "10")
	require.ErrorIs(t, err, rowstore.ErrNotFound)

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "goal_id=unknown")
	assert.NotContains(t, logs.String(), "level=ERROR")

	require.Len(t, rec.all(), 1)
	assert.Equal(t, ledger.LevelError, rec.all()[0].Level)
}

func TestService_LoadGoals(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().ListGoals(gomock.Any(), 5, 2024).Return([]*finance.Goal{{ID: "g1", Month: 5, Year: 2024}}, nil)

	goals, err := svc.LoadGoals(context.Background(), 5, 2024)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	state := svc.Snapshot()
	assert.Equal(t, 5, state.GoalMonth)
	assert.Equal(t, 2024, state.GoalYear)

	_, err = svc.LoadGoals(context.Background(), 13, 2024)
	assert.True(t, finance.IsValidation(err))
}

func TestService_Categories(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()

	_, err := svc.AddCategory(ctx, "Mascotas")
	require.NoError(t, err)

	_, err = svc.AddCategory(ctx, "Mascotas")
	assert.True(t, finance.IsValidation(err))

	_, err = svc.RenameCategory(ctx, 0, "Comida")
	require.NoError(t, err)

	removed, err := svc.RemoveCategory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Transporte", removed)

	_, err = svc.RemoveCategory(ctx, 99)
	assert.Error(t, err)

	names := svc.Snapshot().Categories
	assert.Equal(t, "Comida", names[0])
	assert.Equal(t, "Mascotas", names[len(names)-1])
	assert.NotContains(t, names, "Transporte")

	notes := rec.all()
	require.Len(t, notes, 5)
	assert.Equal(t, "La categoría ya existe", notes[1].Message)
	assert.Equal(t, "La categoría no existe", notes[4].Message)
}

func TestService_Ping(t *testing.T) {
	svc, repo, rec := newService(t)

	repo.EXPECT().Ping(gomock.Any()).Return(nil)
	require.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, ledger.LevelSuccess, rec.last().Level)

	repo.EXPECT().Ping(gomock.Any()).Return(&rowstore.ConnectivityError{Err: errors.New("refused")})
	require.Error(t, svc.Ping(context.Background()))
	assert.Equal(t, ledger.Notification{Level: ledger.LevelError, Message: "No se pudo conectar con la base de datos"}, rec.last())
}

func TestService_SnapshotIsCopy(t *testing.T) {
	svc, repo, _ := newService(t)

	expectReload(repo, []*finance.Bank{bank("a", "A")}, nil)
	require.NoError(t, svc.Reload(context.Background()))

	snap := svc.Snapshot()
	snap.Banks[0].Name = "changed"
	snap.Categories[0] = "changed"

	again := svc.Snapshot()
	assert.Equal(t, "A", again.Banks[0].Name)
	assert.Equal(t, "Alimentación", again.Categories[0])
}
