package form

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

// Form field tags match the backend column names so API clients can post
// the same keys they read back.

type BankForm struct {
	Name            string `json:"nombre"`
	Kind            string `json:"tipo"`
	LastDigits      string `json:"ultimos_digitos"`
	AllowsTransfers string `json:"permite_transferencias"`
}

type CardForm struct {
	Name       string `json:"nombre"`
	BankID     string `json:"banco_id"`
	Limit      string `json:"limite"`
	ClosingDay string `json:"fecha_cierre"`
	PaymentDay string `json:"fecha_pago"`
	Balance    string `json:"saldo"`
	LastDigits string `json:"ultimos_digitos"`
}

type ExpenseForm struct {
	Description string `json:"descripcion"`
	Amount      string `json:"precio"`
	Category    string `json:"categoria"`
	Date        string `json:"fecha"`
	Method      string `json:"tipo_pago"`
	CardID      string `json:"tarjeta_id"`
	BankID      string `json:"banco_id"`
}

type SavingForm struct {
	Description string `json:"descripcion"`
	Amount      string `json:"precio"`
	Kind        string `json:"tipo_ahorro"`
	Method      string `json:"tipo_pago"`
	Date        string `json:"fecha"`
	Target      string `json:"meta"`
	BankID      string `json:"banco_id"`
}

type InvestmentForm struct {
	Description    string `json:"descripcion"`
	Amount         string `json:"precio"`
	Kind           string `json:"tipo"`
	Method         string `json:"tipo_pago"`
	ExpectedReturn string `json:"retorno_esperado"`
	Date           string `json:"fecha"`
	BankID         string `json:"banco_id"`
	CardID         string `json:"tarjeta_id"`
}

type DebtForm struct {
	Description string `json:"descripcion"`
	Amount      string `json:"precio"`
	DueDate     string `json:"fecha_vencimiento"`
	Interest    string `json:"interes"`
}

type GoalForm struct {
	Month       string `json:"mes"`
	Year        string `json:"anio"`
	Kind        string `json:"tipo"`
	Description string `json:"descripcion"`
	Target      string `json:"precio"`
	Progress    string `json:"progreso"`
}

// Bank validates a bank form. Transfers default to allowed for debit
// accounts; for credit accounts the flag stays unset unless given.
func (v *Validator) Bank(f BankForm) (*finance.Bank, error) {
	allows, err := optionalBool("permite_transferencias", f.AllowsTransfers)
	if err != nil {
		return nil, err
	}

	b := &finance.Bank{
		Name:            text(f.Name),
		Kind:            finance.AccountKind(text(f.Kind)),
		LastDigits:      optionalText(f.LastDigits),
		AllowsTransfers: allows,
	}

	if b.AllowsTransfers == nil && b.Kind == finance.AccountDebit {
		b.AllowsTransfers = new(true)
	}

	if err := v.check(b); err != nil {
		return nil, err
	}

	return b, nil
}

func (v *Validator) Card(f CardForm) (*finance.Card, error) {
	c := &finance.Card{
		Name:       text(f.Name),
		BankID:     text(f.BankID),
		LastDigits: optionalText(f.LastDigits),
	}

	var err error

	if c.Limit, err = positiveAmount("limite", f.Limit); err != nil {
		return nil, err
	}

	if c.ClosingDay, err = integer("fecha_cierre", f.ClosingDay); err != nil {
		return nil, err
	}

	if c.PaymentDay, err = integer("fecha_pago", f.PaymentDay); err != nil {
		return nil, err
	}

	balance, err := optionalAmount("saldo", f.Balance)
	if err != nil {
		return nil, err
	}

	if balance != nil {
		c.Balance = *balance
	}

	if err := v.check(c); err != nil {
		return nil, err
	}

	return c, nil
}

func (v *Validator) Expense(f ExpenseForm) (*finance.Expense, error) {
	e := &finance.Expense{
		Description: text(f.Description),
		Category:    text(f.Category),
		Method:      finance.PaymentMethod(text(f.Method)),
		CardID:      optionalText(f.CardID),
		BankID:      optionalText(f.BankID),
	}

	var err error

	if e.Amount, err = positiveAmount("precio", f.Amount); err != nil {
		return nil, err
	}

	if e.Date, err = date("fecha", f.Date, v.today()); err != nil {
		return nil, err
	}

	e.Normalize()

	if err := v.check(e); err != nil {
		return nil, err
	}

	return e, nil
}

// Saving validates a saving form. An empty payment method means cash.
func (v *Validator) Saving(f SavingForm) (*finance.Saving, error) {
	s := &finance.Saving{
		Description: text(f.Description),
		Kind:        finance.SavingKind(text(f.Kind)),
		Method:      finance.PaymentMethod(text(f.Method)),
		BankID:      optionalText(f.BankID),
	}

	var err error

	if s.Amount, err = positiveAmount("precio", f.Amount); err != nil {
		return nil, err
	}

	if s.Date, err = date("fecha", f.Date, v.today()); err != nil {
		return nil, err
	}

	if s.Target, err = optionalAmount("meta", f.Target); err != nil {
		return nil, err
	}

	s.Normalize()

	if err := v.check(s); err != nil {
		return nil, err
	}

	return s, nil
}

func (v *Validator) Investment(f InvestmentForm) (*finance.Investment, error) {
	i := &finance.Investment{
		Description: text(f.Description),
		Kind:        finance.InvestmentKind(text(f.Kind)),
		Method:      finance.PaymentMethod(text(f.Method)),
		BankID:      optionalText(f.BankID),
		CardID:      optionalText(f.CardID),
	}

	var err error

	if i.Amount, err = positiveAmount("precio", f.Amount); err != nil {
		return nil, err
	}

	if i.ExpectedReturn, err = optionalAmount("retorno_esperado", f.ExpectedReturn); err != nil {
		return nil, err
	}

	if i.Date, err = date("fecha", f.Date, v.today()); err != nil {
		return nil, err
	}

	i.Normalize()

	if err := v.check(i); err != nil {
		return nil, err
	}

	return i, nil
}

// Debt validates a debt form. The due date has no default.
func (v *Validator) Debt(f DebtForm) (*finance.Debt, error) {
	d := &finance.Debt{
		Description: text(f.Description),
	}

	var err error

	if d.Amount, err = positiveAmount("precio", f.Amount); err != nil {
		return nil, err
	}

	if d.DueDate, err = date("fecha_vencimiento", f.DueDate, finance.Date{}); err != nil {
		return nil, err
	}

	if d.Interest, err = optionalAmount("interes", f.Interest); err != nil {
		return nil, err
	}

	if err := v.check(d); err != nil {
		return nil, err
	}

	return d, nil
}

// Goal validates a monthly goal form. Month and year default to the current
// ones; progress defaults to zero.
func (v *Validator) Goal(f GoalForm) (*finance.Goal, error) {
	now := v.now()

	g := &finance.Goal{
		Month:       int(now.Month()),
		Year:        now.Year(),
		Kind:        finance.GoalKind(text(f.Kind)),
		Description: text(f.Description),
		Progress:    decimal.Zero,
	}

	var err error

	if text(f.Month) != "" {
		if g.Month, err = integer("mes", f.Month); err != nil {
			return nil, err
		}
	}

	if text(f.Year) != "" {
		if g.Year, err = integer("anio", f.Year); err != nil {
			return nil, err
		}
	}

	if g.Target, err = positiveAmount("precio", f.Target); err != nil {
		return nil, err
	}

	progress, err := optionalAmount("progreso", f.Progress)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		g.Progress = *progress
	}

	g.Normalize()

	if err := v.check(g); err != nil {
		return nil, err
	}

	return g, nil
}

// Progress validates a goal progress update. There is no upper bound.
func (v *Validator) Progress(s string) (decimal.Decimal, error) {
	p, err := optionalAmount("progreso", s)
	if err != nil {
		return decimal.Zero, err
	}

	if p == nil {
		return decimal.Zero, finance.NewValidationError("progreso", label("progreso")+" es obligatorio")
	}

	if p.IsNegative() {
		return decimal.Zero, finance.NewValidationError("progreso", label("progreso")+" no puede ser negativo")
	}

	return *p, nil
}
