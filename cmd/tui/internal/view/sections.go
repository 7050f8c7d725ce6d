package view

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

const datePlaceholder = "AAAA-MM-DD, vacío para hoy"

func ExpensesSection(svc *ledger.Service) Section {
	return Section{
		Title: "Gastos",
		Columns: []table.Column{
			{Title: "Fecha", Width: 12},
			{Title: "Descripción", Width: 28},
			{Title: "Categoría", Width: 16},
			{Title: "Pago", Width: 14},
			{Title: "Monto", Width: 12},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, 0, len(st.Expenses))
			for _, e := range st.Expenses {
				rows = append(rows, table.Row{
					FormatDate(e.Date),
					e.Description,
					e.Category,
					string(e.Method),
					FormatAmount(e.Amount),
				})
			}

			return rows
		},
		Add: func(st ledger.State) (*huh.Form, Submit) {
			f := &form.ExpenseForm{Method: string(finance.MethodCash)}
			if len(st.Categories) > 0 {
				f.Category = st.Categories[0]
			}

			fm := newForm(
				huh.NewGroup(
					huh.NewInput().Title("Descripción").Value(&f.Description),
					huh.NewInput().Title("Monto").Value(&f.Amount),
					huh.NewSelect[string]().Title("Categoría").Options(huh.NewOptions(st.Categories...)...).Value(&f.Category),
					huh.NewInput().Title("Fecha").Placeholder(datePlaceholder).Value(&f.Date),
					methodSelect(&f.Method, finance.MethodCash, finance.MethodCard, finance.MethodTransfer),
				),
				huh.NewGroup(cardSelect(st, &f.CardID)).WithHideFunc(func() bool {
					return f.Method != string(finance.MethodCard)
				}),
				huh.NewGroup(bankSelect(st, &f.BankID)).WithHideFunc(func() bool {
					return f.Method != string(finance.MethodTransfer)
				}),
			)

			return fm, func(ctx context.Context) error {
				_, err := svc.AddExpense(ctx, *f)
				return err
			}
		},
	}
}

func SavingsSection(svc *ledger.Service) Section {
	return Section{
		Title: "Ahorros",
		Columns: []table.Column{
			{Title: "Fecha", Width: 12},
			{Title: "Descripción", Width: 28},
			{Title: "Tipo", Width: 10},
			{Title: "Pago", Width: 14},
			{Title: "Monto", Width: 12},
			{Title: "Meta", Width: 12},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, 0, len(st.Savings))
			for _, s := range st.Savings {
				rows = append(rows, table.Row{
					FormatDate(s.Date),
					s.Description,
					string(s.Kind),
					string(s.Method),
					FormatAmount(s.Amount),
					FormatOptionalAmount(s.Target),
				})
			}

			return rows
		},
		Add: func(st ledger.State) (*huh.Form, Submit) {
			f := &form.SavingForm{Kind: string(finance.SavingMonthly), Method: string(finance.MethodCash)}

			fm := newForm(
				huh.NewGroup(
					huh.NewInput().Title("Descripción").Value(&f.Description),
					huh.NewInput().Title("Monto").Value(&f.Amount),
					huh.NewSelect[string]().Title("Tipo de ahorro").Options(
						huh.NewOption("Diario", string(finance.SavingDaily)),
						huh.NewOption("Semanal", string(finance.SavingWeekly)),
						huh.NewOption("Mensual", string(finance.SavingMonthly)),
						huh.NewOption("Anual", string(finance.SavingAnnual)),
					).Value(&f.Kind),
					methodSelect(&f.Method, finance.MethodCash, finance.MethodTransfer),
					huh.NewInput().Title("Fecha").Placeholder(datePlaceholder).Value(&f.Date),
					huh.NewInput().Title("Meta").Placeholder("opcional").Value(&f.Target),
				),
				huh.NewGroup(bankSelect(st, &f.BankID)).WithHideFunc(func() bool {
					return f.Method != string(finance.MethodTransfer)
				}),
			)

			return fm, func(ctx context.Context) error {
				_, err := svc.AddSaving(ctx, *f)
				return err
			}
		},
	}
}

func InvestmentsSection(svc *ledger.Service) Section {
	return Section{
		Title: "Inversiones",
		Columns: []table.Column{
			{Title: "Fecha", Width: 12},
			{Title: "Descripción", Width: 26},
			{Title: "Tipo", Width: 14},
			{Title: "Pago", Width: 14},
			{Title: "Monto", Width: 12},
			{Title: "Retorno %", Width: 10},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, 0, len(st.Investments))
			for _, i := range st.Investments {
				ret := "-"
				if i.ExpectedReturn != nil {
					ret = i.ExpectedReturn.String()
				}

				rows = append(rows, table.Row{
					FormatDate(i.Date),
					i.Description,
					string(i.Kind),
					string(i.Method),
					FormatAmount(i.Amount),
					ret,
				})
			}

			return rows
		},
		Add: func(st ledger.State) (*huh.Form, Submit) {
			f := &form.InvestmentForm{Kind: string(finance.InvestmentStocks), Method: string(finance.MethodCash)}

			fm := newForm(
				huh.NewGroup(
					huh.NewInput().Title("Descripción").Value(&f.Description),
					huh.NewInput().Title("Monto").Value(&f.Amount),
					huh.NewSelect[string]().Title("Tipo de inversión").Options(
						huh.NewOption("Acciones", string(finance.InvestmentStocks)),
						huh.NewOption("Bonos", string(finance.InvestmentBonds)),
						huh.NewOption("Fondos", string(finance.InvestmentFunds)),
						huh.NewOption("Criptomonedas", string(finance.InvestmentCrypto)),
						huh.NewOption("Bienes raíces", string(finance.InvestmentRealEstate)),
						huh.NewOption("Otros", string(finance.InvestmentOther)),
					).Value(&f.Kind),
					methodSelect(&f.Method, finance.MethodCash, finance.MethodCard, finance.MethodTransfer),
					huh.NewInput().Title("Retorno esperado (%)").Placeholder("opcional").Value(&f.ExpectedReturn),
					huh.NewInput().Title("Fecha").Placeholder(datePlaceholder).Value(&f.Date),
				),
				huh.NewGroup(cardSelect(st, &f.CardID)).WithHideFunc(func() bool {
					return f.Method != string(finance.MethodCard)
				}),
				huh.NewGroup(bankSelect(st, &f.BankID)).WithHideFunc(func() bool {
					return f.Method != string(finance.MethodTransfer)
				}),
			)

			return fm, func(ctx context.Context) error {
				_, err := svc.AddInvestment(ctx, *f)
				return err
			}
		},
	}
}

func DebtsSection(svc *ledger.Service) Section {
	return Section{
		Title: "Deudas",
		Columns: []table.Column{
			{Title: "Vencimiento", Width: 12},
			{Title: "Descripción", Width: 30},
			{Title: "Monto", Width: 12},
			{Title: "Interés %", Width: 10},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, 0, len(st.Debts))
			for _, d := range st.Debts {
				interest := "-"
				if d.Interest != nil {
					interest = d.Interest.String()
				}

				rows = append(rows, table.Row{
					FormatDate(d.DueDate),
					d.Description,
					FormatAmount(d.Amount),
					interest,
				})
			}

			return rows
		},
		Add: func(ledger.State) (*huh.Form, Submit) {
			f := &form.DebtForm{}

			fm := newForm(
				huh.NewGroup(
					huh.NewInput().Title("Descripción").Value(&f.Description),
					huh.NewInput().Title("Monto").Value(&f.Amount),
					huh.NewInput().Title("Fecha de vencimiento").Placeholder("AAAA-MM-DD").Value(&f.DueDate),
					huh.NewInput().Title("Interés (%)").Placeholder("opcional").Value(&f.Interest),
				),
			)

			return fm, func(ctx context.Context) error {
				_, err := svc.AddDebt(ctx, *f)
				return err
			}
		},
	}
}

func BanksSection(svc *ledger.Service) Section {
	return Section{
		Title: "Bancos",
		Columns: []table.Column{
			{Title: "Nombre", Width: 26},
			{Title: "Tipo", Width: 10},
			{Title: "Últimos dígitos", Width: 16},
			{Title: "Transferencias", Width: 14},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, 0, len(st.Banks))
			for _, b := range st.Banks {
				transfers := "-"
				if b.AllowsTransfers != nil {
					transfers = yesNo(*b.AllowsTransfers)
				}

				rows = append(rows, table.Row{b.Name, string(b.Kind), orDash(b.LastDigits), transfers})
			}

			return rows
		},
		IDs: func(st ledger.State) []string {
			return ids(st.Banks)
		},
		Add: func(ledger.State) (*huh.Form, Submit) {
			f := &form.BankForm{Kind: string(finance.AccountDebit)}

			return bankForm(f), func(ctx context.Context) error {
				_, err := svc.AddBank(ctx, *f)
				return err
			}
		},
		Edit: func(st ledger.State, index int) (*huh.Form, Submit) {
			b := st.Banks[index]
			f := &form.BankForm{
				Name:       b.Name,
				Kind:       string(b.Kind),
				LastDigits: deref(b.LastDigits),
			}

			if b.AllowsTransfers != nil {
				f.AllowsTransfers = strconv.FormatBool(*b.AllowsTransfers)
			}

			return bankForm(f), func(ctx context.Context) error {
				_, err := svc.EditBank(ctx, b.ID, *f)
				return err
			}
		},
		Delete: svc.RemoveBank,
	}
}

func bankForm(f *form.BankForm) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Nombre").Value(&f.Name),
			huh.NewSelect[string]().Title("Tipo").Options(
				huh.NewOption("Débito", string(finance.AccountDebit)),
				huh.NewOption("Crédito", string(finance.AccountCredit)),
			).Value(&f.Kind),
			huh.NewInput().Title("Últimos 4 dígitos").Placeholder("opcional").Value(&f.LastDigits),
			huh.NewSelect[string]().Title("Permite transferencias").Options(
				huh.NewOption("Según el tipo", ""),
				huh.NewOption("Sí", "true"),
				huh.NewOption("No", "false"),
			).Value(&f.AllowsTransfers),
		),
	)
}

func CardsSection(svc *ledger.Service) Section {
	return Section{
		Title: "Tarjetas",
		Columns: []table.Column{
			{Title: "Nombre", Width: 20},
			{Title: "Banco", Width: 20},
			{Title: "Límite", Width: 12},
			{Title: "Cierre", Width: 7},
			{Title: "Pago", Width: 7},
			{Title: "Saldo", Width: 12},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, 0, len(st.Cards))
			for _, c := range st.Cards {
				rows = append(rows, table.Row{
					c.Name,
					bankName(st, c.BankID),
					FormatAmount(c.Limit),
					strconv.Itoa(c.ClosingDay),
					strconv.Itoa(c.PaymentDay),
					FormatAmount(c.Balance),
				})
			}

			return rows
		},
		IDs: func(st ledger.State) []string {
			return ids(st.Cards)
		},
		Add: func(st ledger.State) (*huh.Form, Submit) {
			f := &form.CardForm{}
			if len(st.Banks) > 0 {
				f.BankID = st.Banks[0].ID
			}

			return cardForm(st, f), func(ctx context.Context) error {
				_, err := svc.AddCard(ctx, *f)
				return err
			}
		},
		Edit: func(st ledger.State, index int) (*huh.Form, Submit) {
			c := st.Cards[index]
			f := &form.CardForm{
				Name:       c.Name,
				BankID:     c.BankID,
				Limit:      c.Limit.String(),
				ClosingDay: strconv.Itoa(c.ClosingDay),
				PaymentDay: strconv.Itoa(c.PaymentDay),
				Balance:    c.Balance.String(),
				LastDigits: deref(c.LastDigits),
			}

			return cardForm(st, f), func(ctx context.Context) error {
				_, err := svc.EditCard(ctx, c.ID, *f)
				return err
			}
		},
		Delete: svc.RemoveCard,
	}
}

func cardForm(st ledger.State, f *form.CardForm) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Nombre").Value(&f.Name),
			bankSelect(st, &f.BankID),
			huh.NewInput().Title("Límite").Value(&f.Limit),
			huh.NewInput().Title("Día de cierre").Placeholder("1-31").Value(&f.ClosingDay),
			huh.NewInput().Title("Día de pago").Placeholder("1-31").Value(&f.PaymentDay),
			huh.NewInput().Title("Saldo").Placeholder("0").Value(&f.Balance),
			huh.NewInput().Title("Últimos 4 dígitos").Placeholder("opcional").Value(&f.LastDigits),
		),
	)
}

// CategoriesSection addresses categories by position: the row id is the
// index in the list.
func CategoriesSection(svc *ledger.Service) Section {
	return Section{
		Title: "Categorías",
		Columns: []table.Column{
			{Title: "Nombre", Width: 30},
		},
		Rows: func(st ledger.State) []table.Row {
			rows := make([]table.Row, len(st.Categories))
			for i, c := range st.Categories {
				rows[i] = table.Row{c}
			}

			return rows
		},
		IDs: func(st ledger.State) []string {
			out := make([]string, len(st.Categories))
			for i := range st.Categories {
				out[i] = strconv.Itoa(i)
			}

			return out
		},
		Add: func(ledger.State) (*huh.Form, Submit) {
			name := new(string)

			return newForm(huh.NewGroup(huh.NewInput().Title("Nueva categoría").Value(name))),
				func(ctx context.Context) error {
					_, err := svc.AddCategory(ctx, *name)
					return err
				}
		},
		Edit: func(st ledger.State, index int) (*huh.Form, Submit) {
			name := new(st.Categories[index])

			return newForm(huh.NewGroup(huh.NewInput().Title("Nombre").Value(name))),
				func(ctx context.Context) error {
					_, err := svc.RenameCategory(ctx, index, *name)
					return err
				}
		},
		Delete: func(ctx context.Context, id string) error {
			index, err := strconv.Atoi(id)
			if err != nil {
				return err
			}

			_, err = svc.RemoveCategory(ctx, index)

			return err
		},
	}
}

func methodSelect(value *string, methods ...finance.PaymentMethod) *huh.Select[string] {
	labels := map[finance.PaymentMethod]string{
		finance.MethodCash:     "Efectivo",
		finance.MethodCard:     "Tarjeta",
		finance.MethodTransfer: "Transferencia",
	}

	opts := make([]huh.Option[string], len(methods))
	for i, m := range methods {
		opts[i] = huh.NewOption(labels[m], string(m))
	}

	return huh.NewSelect[string]().Title("Forma de pago").Options(opts...).Value(value)
}

func cardSelect(st ledger.State, value *string) *huh.Select[string] {
	opts := []huh.Option[string]{huh.NewOption("(ninguna)", "")}
	for _, c := range st.Cards {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewSelect[string]().Title("Tarjeta").Options(opts...).Value(value)
}

func bankSelect(st ledger.State, value *string) *huh.Select[string] {
	opts := []huh.Option[string]{huh.NewOption("(ninguno)", "")}
	for _, b := range st.Banks {
		opts = append(opts, huh.NewOption(b.Name, b.ID))
	}

	return huh.NewSelect[string]().Title("Banco").Options(opts...).Value(value)
}

func bankName(st ledger.State, id string) string {
	for _, b := range st.Banks {
		if b.ID == id {
			return b.Name
		}
	}

	return "-"
}

func ids[T finance.Record](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.RecordID()
	}

	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}

	return "No"
}
