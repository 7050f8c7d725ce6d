package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/export"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/importer"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
)

func clock() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) }

func newLedger(t *testing.T) *ledger.Service {
	t.Helper()

	svc := ledger.NewService(local.New().WithClock(clock), ledger.Discard, ledger.WithClock(clock))
	require.NoError(t, svc.Reload(context.Background()))

	return svc
}

// seed fills a ledger with one record of each kind and two expenses.
func seed(t *testing.T, svc *ledger.Service) {
	t.Helper()

	ctx := context.Background()

	bank, err := svc.AddBank(ctx, form.BankForm{Name: "Banco Nación", Kind: "debito", LastDigits: "7890"})
	require.NoError(t, err)

	card, err := svc.AddCard(ctx, form.CardForm{
		Name: "Visa", BankID: bank.ID, Limit: "1000", ClosingDay: "15", PaymentDay: "5",
	})
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, form.ExpenseForm{
		Description: "Alquiler", Amount: "800", Category: "Vivienda", Date: "2024-03-01",
		Method: "transferencia", BankID: bank.ID,
	})
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, form.ExpenseForm{
		Description: "Café", Amount: "4.5", Category: "Alimentación", Date: "2024-03-09",
		Method: "tarjeta", CardID: card.ID,
	})
	require.NoError(t, err)

	_, err = svc.AddSaving(ctx, form.SavingForm{
		Description: "Fondo", Amount: "100", Kind: "semanal", Method: "efectivo", Date: "2024-03-02", Target: "500",
	})
	require.NoError(t, err)

	_, err = svc.AddInvestment(ctx, form.InvestmentForm{
		Description: "Acciones", Amount: "200", Kind: "acciones", Method: "efectivo",
		ExpectedReturn: "7.5", Date: "2024-03-03",
	})
	require.NoError(t, err)

	_, err = svc.AddDebt(ctx, form.DebtForm{Description: "Préstamo", Amount: "1500", DueDate: "2024-12-31"})
	require.NoError(t, err)

	_, err = svc.AddGoal(ctx, form.GoalForm{
		Month: "3", Year: "2024", Kind: "gasto", Description: "Gastar menos", Target: "300", Progress: "120",
	})
	require.NoError(t, err)

	_, err = svc.AddCategory(ctx, "Mascotas")
	require.NoError(t, err)
}

func TestWriteJSON_ImportsBack(t *testing.T) {
	src := newLedger(t)
	seed(t, src)

	var buf bytes.Buffer
	require.NoError(t, export.NewService(src).WriteJSON(&buf))

	dst := newLedger(t)

	res, err := importer.NewService(dst).Import(context.Background(), &buf)
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 1, res.Categories)

	want, got := src.Snapshot(), dst.Snapshot()

	require.Len(t, got.Banks, 1)
	assert.Equal(t, want.Banks[0].Name, got.Banks[0].Name)
	assert.Equal(t, want.Banks[0].Kind, got.Banks[0].Kind)
	assert.Equal(t, want.Banks[0].LastDigits, got.Banks[0].LastDigits)
	assert.Equal(t, want.Banks[0].AllowsTransfers, got.Banks[0].AllowsTransfers)

	require.Len(t, got.Cards, 1)
	assert.Equal(t, got.Banks[0].ID, got.Cards[0].BankID)
	assert.True(t, want.Cards[0].Limit.Equal(got.Cards[0].Limit))

	require.Len(t, got.Expenses, 2)

	for i := range want.Expenses {
		assert.Equal(t, want.Expenses[i].Description, got.Expenses[i].Description)
		assert.True(t, want.Expenses[i].Amount.Equal(got.Expenses[i].Amount))
		assert.Equal(t, want.Expenses[i].Date, got.Expenses[i].Date)
		assert.Equal(t, want.Expenses[i].Method, got.Expenses[i].Method)
	}

	require.NotNil(t, got.Expenses[0].CardID)
	assert.Equal(t, got.Cards[0].ID, *got.Expenses[0].CardID)
	require.NotNil(t, got.Expenses[1].BankID)
	assert.Equal(t, got.Banks[0].ID, *got.Expenses[1].BankID)

	require.Len(t, got.Savings, 1)
	assert.Equal(t, want.Savings[0].Kind, got.Savings[0].Kind)
	require.NotNil(t, got.Savings[0].Target)
	assert.True(t, want.Savings[0].Target.Equal(*got.Savings[0].Target))

	require.Len(t, got.Investments, 1)
	require.NotNil(t, got.Investments[0].ExpectedReturn)
	assert.True(t, want.Investments[0].ExpectedReturn.Equal(*got.Investments[0].ExpectedReturn))

	require.Len(t, got.Debts, 1)
	assert.Equal(t, want.Debts[0].DueDate, got.Debts[0].DueDate)
	assert.Nil(t, got.Debts[0].Interest)

	require.Len(t, got.Goals, 1)
	assert.Equal(t, want.Goals[0].Kind, got.Goals[0].Kind)
	assert.True(t, want.Goals[0].Progress.Equal(got.Goals[0].Progress))

	assert.Equal(t, want.Categories, got.Categories)
}

func TestWriteJSON_EmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewService(newLedger(t)).WriteJSON(&buf))

	assert.Contains(t, buf.String(), `"gastos": []`)
	assert.Contains(t, buf.String(), `"Alimentación"`)
}

func TestWriteExpensesCSV(t *testing.T) {
	svc := newLedger(t)
	seed(t, svc)

	var buf bytes.Buffer
	require.NoError(t, export.NewService(svc).WriteExpensesCSV(&buf))

	r := csv.NewReader(&buf)
	r.Comma = ';'

	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"fecha", "descripcion", "categoria", "precio", "tipo_pago", "tarjeta", "banco"},
		{"2024-03-09", "Café", "Alimentación", "4.50", "tarjeta", "Visa", ""},
		{"2024-03-01", "Alquiler", "Vivienda", "800.00", "transferencia", "", "Banco Nación"},
	}, rows)
}

func TestFileName(t *testing.T) {
	svc := export.NewService(newLedger(t)).WithClock(clock)

	assert.Equal(t, "controlfin_20240310.json", svc.FileName(".json"))
	assert.Equal(t, "controlfin_20240310.csv", svc.FileName(".csv"))
}
