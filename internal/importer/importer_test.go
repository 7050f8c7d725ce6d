package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/encoding"
	"github.com/MrJamesThe3rd/controlfin/internal/finance"
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

const legacySnapshot = `{
  "bancos": [
    {"id": "b1", "nombre": "Banco Nación", "tipo": "ahorro", "numeroCuenta": "001234567890"}
  ],
  "tarjetas": [
    {"id": "t1", "nombre": "Visa", "bancoId": "b1", "limite": 1000, "fechaCorte": 15, "fechaPago": 5},
    {"id": "t2", "nombre": "Master", "banco": "Galicia", "limite": "500", "fecha_cierre": 20, "fecha_pago": 10}
  ],
  "gastos": [
    {"id": "g1", "descripcion": "Café", "cantidad": 4.50, "categoria": "Alimentación",
     "fecha": "2024-03-09", "tipoPago": "tarjeta", "tarjetaId": "t1"},
    {"id": "g2", "descripcion": "Alquiler", "precio": 800, "categoria": "Vivienda",
     "fecha": "2024-03-01T10:00:00Z", "tipo_pago": "transferencia", "banco_id": "b1"},
    {"id": "g3", "descripcion": "", "cantidad": 10, "categoria": "Otros", "tipoPago": "efectivo"}
  ],
  "ahorros": [
    {"id": "a1", "descripcion": "Fondo", "cantidad": 100, "tipo": "efectivo", "fecha": "2024-03-02"}
  ],
  "inversiones": [
    {"id": "i1", "descripcion": "Acciones", "cantidad": 200, "tipo": "acciones",
     "tipoPago": "efectivo", "retornoEsperado": 7.5, "fecha": "2024-03-03"}
  ],
  "deudas": [
    {"id": "d1", "descripcion": "Préstamo", "cantidad": 1500, "fechaVencimiento": "2024-12-31", "interes": null}
  ],
  "objetivos": [
    {"id": "o1", "descripcion": "Ahorrar", "cantidad": 100, "mes": 3, "año": 2024, "progreso": 150}
  ],
  "categorias": ["Alimentación", "Mascotas", {"nombre": "Viajes"}, "mascotas"]
}`

func TestImport(t *testing.T) {
	ctx := context.Background()
	svc := newLedger(t)

	res, err := importer.NewService(svc).Import(ctx, strings.NewReader(legacySnapshot))
	require.NoError(t, err)

	assert.Equal(t, encoding.UTF8, res.Charset)
	assert.Equal(t, 2, res.Banks)
	assert.Equal(t, 2, res.Cards)
	assert.Equal(t, 2, res.Expenses)
	assert.Equal(t, 1, res.Savings)
	assert.Equal(t, 1, res.Investments)
	assert.Equal(t, 1, res.Debts)
	assert.Equal(t, 1, res.Goals)
	assert.Equal(t, 2, res.Categories)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "gasto", res.Failures[0].Kind)
	assert.Equal(t, "g3", res.Failures[0].LegacyID)
	assert.True(t, finance.IsValidation(res.Failures[0].Err))

	state := svc.Snapshot()

	require.Len(t, state.Banks, 2)
	nacion, galicia := state.Banks[0], state.Banks[1]
	assert.Equal(t, "Banco Nación", nacion.Name)
	assert.Equal(t, finance.AccountDebit, nacion.Kind)
	require.NotNil(t, nacion.LastDigits)
	assert.Equal(t, "7890", *nacion.LastDigits)
	assert.Equal(t, "Galicia", galicia.Name)
	assert.Equal(t, finance.AccountCredit, galicia.Kind)

	require.Len(t, state.Cards, 2)
	assert.Equal(t, nacion.ID, state.Cards[0].BankID)
	assert.Equal(t, 15, state.Cards[0].ClosingDay)
	assert.Equal(t, galicia.ID, state.Cards[1].BankID)
	assert.Equal(t, 20, state.Cards[1].ClosingDay)

	// Newest first.
	require.Len(t, state.Expenses, 2)
	rent, coffee := state.Expenses[0], state.Expenses[1]
	assert.Equal(t, "Café", coffee.Description)
	assert.True(t, decimal.RequireFromString("4.5").Equal(coffee.Amount))
	require.NotNil(t, coffee.CardID)
	assert.Equal(t, state.Cards[0].ID, *coffee.CardID)
	require.NotNil(t, rent.BankID)
	assert.Equal(t, nacion.ID, *rent.BankID)
	assert.Equal(t, finance.NewDate(2024, time.March, 1), rent.Date)

	require.Len(t, state.Savings, 1)
	assert.Equal(t, finance.MethodCash, state.Savings[0].Method)
	assert.Equal(t, finance.SavingMonthly, state.Savings[0].Kind)

	require.Len(t, state.Investments, 1)
	require.NotNil(t, state.Investments[0].ExpectedReturn)
	assert.True(t, decimal.RequireFromString("7.5").Equal(*state.Investments[0].ExpectedReturn))

	require.Len(t, state.Debts, 1)
	assert.Nil(t, state.Debts[0].Interest)

	require.Len(t, state.Goals, 1)
	assert.Equal(t, finance.GoalSaving, state.Goals[0].Kind)
	assert.True(t, state.Goals[0].Completed)

	assert.Contains(t, state.Categories, "Mascotas")
	assert.Contains(t, state.Categories, "Viajes")
	assert.NotContains(t, state.Categories, "mascotas")
}

func TestImport_Windows1252(t *testing.T) {
	svc := newLedger(t)

	// {"categorias":["Peluquería"]} with í as the single byte 0xED.
	input := append([]byte(`{"categorias":["Peluquer`), 0xED, 'a', '"', ']', '}')

	res, err := importer.NewService(svc).Import(context.Background(), bytes.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Categories)
	assert.Contains(t, svc.Snapshot().Categories, "Peluquería")
}

func TestImport_UnreadableSnapshot(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "NotJSON", input: "bancos: []"},
		{name: "NonScalarField", input: `{"gastos":[{"descripcion":["Café"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newLedger(t)

			res, err := importer.NewService(svc).Import(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Empty(t, svc.Snapshot().Expenses)
		})
	}
}

func TestImport_CardWithoutBank(t *testing.T) {
	svc := newLedger(t)

	res, err := importer.NewService(svc).Import(context.Background(), strings.NewReader(
		`{"tarjetas":[{"id":"t9","nombre":"Huérfana","limite":100,"fechaCorte":1,"fechaPago":2}]}`,
	))
	require.NoError(t, err)

	assert.Zero(t, res.Cards)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "tarjeta", res.Failures[0].Kind)
	assert.Equal(t, "t9", res.Failures[0].LegacyID)
	assert.Empty(t, svc.Snapshot().Banks)
}

func TestImportExpenses(t *testing.T) {
	ctx := context.Background()
	svc := newLedger(t)

	bank, err := svc.AddBank(ctx, form.BankForm{Name: "Banco Nación", Kind: "debito"})
	require.NoError(t, err)

	card, err := svc.AddCard(ctx, form.CardForm{
		Name: "Visa", BankID: bank.ID, Limit: "1000", ClosingDay: "15", PaymentDay: "5",
	})
	require.NoError(t, err)

	sheet := `fecha;descripcion;categoria;precio;tipo_pago;tarjeta;banco
2024-03-01;Alquiler;Vivienda;800.00;transferencia;;banco nación
2024-03-05;Cena;Alimentación;30.00;tarjeta;Amex;
2024-03-09;Café;Alimentación;4.50;tarjeta;Visa;
2024-03-10;Nada;Otros;0;efectivo;;
`

	res, err := importer.NewService(svc).ImportExpenses(ctx, strings.NewReader(sheet))
	require.NoError(t, err)

	assert.Equal(t, "controlfin", res.Format)
	assert.Equal(t, 2, res.Expenses)

	require.Len(t, res.Failures, 2)
	assert.Equal(t, "3", res.Failures[0].LegacyID)
	assert.True(t, finance.IsValidation(res.Failures[0].Err))
	assert.Contains(t, res.Failures[0].Err.Error(), "Amex")
	assert.Equal(t, "5", res.Failures[1].LegacyID)

	state := svc.Snapshot()
	require.Len(t, state.Expenses, 2)

	coffee, rent := state.Expenses[0], state.Expenses[1]
	require.NotNil(t, coffee.CardID)
	assert.Equal(t, card.ID, *coffee.CardID)
	require.NotNil(t, rent.BankID)
	assert.Equal(t, bank.ID, *rent.BankID)
}

func TestImportExpenses_UnknownFormat(t *testing.T) {
	res, err := importer.NewService(newLedger(t)).ImportExpenses(context.Background(), strings.NewReader("a;b\n1;2\n"))
	require.Error(t, err)
	assert.Nil(t, res)
}
