package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/controlfin/internal/encoding"
	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
)

// Ledger is the subset of ledger.Service the importer writes through.
type Ledger interface {
	AddBank(ctx context.Context, f form.BankForm) (*finance.Bank, error)
	AddCard(ctx context.Context, f form.CardForm) (*finance.Card, error)
	AddExpense(ctx context.Context, f form.ExpenseForm) (*finance.Expense, error)
	AddSaving(ctx context.Context, f form.SavingForm) (*finance.Saving, error)
	AddInvestment(ctx context.Context, f form.InvestmentForm) (*finance.Investment, error)
	AddDebt(ctx context.Context, f form.DebtForm) (*finance.Debt, error)
	AddGoal(ctx context.Context, f form.GoalForm) (*finance.Goal, error)
	AddCategory(ctx context.Context, name string) (string, error)
	Snapshot() ledger.State
}

// Result counts the records created by an import. A record that fails is
// listed in Failures and does not stop the import.
type Result struct {
	Charset     string    `json:"charset"`
	Format      string    `json:"formato,omitempty"`
	Banks       int       `json:"bancos"`
	Cards       int       `json:"tarjetas"`
	Expenses    int       `json:"gastos"`
	Savings     int       `json:"ahorros"`
	Investments int       `json:"inversiones"`
	Debts       int       `json:"deudas"`
	Goals       int       `json:"objetivos"`
	Categories  int       `json:"categorias"`
	Failures    []Failure `json:"errores,omitempty"`
}

type Failure struct {
	Kind     string `json:"tipo"`
	LegacyID string `json:"id,omitempty"`
	Err      error  `json:"-"`
}

func (f Failure) MarshalJSON() ([]byte, error) {
	type plain Failure

	var msg string
	if f.Err != nil {
		msg = f.Err.Error()
	}

	return json.Marshal(struct {
		plain
		Message string `json:"mensaje"`
	}{plain(f), msg})
}

type Service struct {
	ledger Ledger
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l}
}

// run holds the state of a single import: the legacy to canonical id maps
// and the result being built.
type run struct {
	ledger Ledger
	log    *slog.Logger
	res    *Result
	banks  map[string]string
	cards  map[string]string
}

// Import reads a legacy snapshot in any text encoding and adds every record
// it holds to the ledger. References between legacy records are remapped to
// the ids the ledger assigns. The error is non-nil only when the snapshot
// cannot be read at all.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	utf8, charset, err := encoding.Decode(r)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.NewDecoder(utf8).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	imp := &run{
		ledger: s.ledger,
		log:    logging.FromContext(ctx),
		res:    &Result{Charset: charset},
		banks:  make(map[string]string),
		cards:  make(map[string]string),
	}

	for _, b := range snap.Banks {
		imp.bank(ctx, b)
	}

	for _, c := range snap.Cards {
		imp.card(ctx, c)
	}

	for _, e := range snap.Expenses {
		imp.expense(ctx, e)
	}

	for _, sv := range snap.Savings {
		imp.saving(ctx, sv)
	}

	for _, i := range snap.Investments {
		imp.investment(ctx, i)
	}

	for _, d := range snap.Debts {
		imp.debt(ctx, d)
	}

	for _, g := range snap.Goals {
		imp.goal(ctx, g)
	}

	imp.categories(ctx, snap.Categories)

	imp.log.InfoContext(ctx, "legacy snapshot imported",
		slog.String("charset", charset),
		slog.Int("banks", imp.res.Banks),
		slog.Int("cards", imp.res.Cards),
		slog.Int("expenses", imp.res.Expenses),
		slog.Int("failures", len(imp.res.Failures)),
	)

	return imp.res, nil
}

func (r *run) fail(ctx context.Context, kind string, id Text, err error) {
	r.log.WarnContext(ctx, "legacy record skipped",
		slog.String("kind", kind),
		slog.String("legacy_id", id.String()),
		slog.String("error", err.Error()),
	)
	r.res.Failures = append(r.res.Failures, Failure{Kind: kind, LegacyID: id.String(), Err: err})
}

func (r *run) bank(ctx context.Context, b Bank) {
	created, err := r.ledger.AddBank(ctx, form.BankForm{
		Name:            b.Name.String(),
		Kind:            bankKind(b.Kind.String()),
		LastDigits:      lastFour(first(b.LastDigits, b.LastDigitsSnake, b.AccountNumber)),
		AllowsTransfers: first(b.AllowsTransfers, b.AllowsTransfersSnake),
	})
	if err != nil {
		r.fail(ctx, "banco", b.ID, err)
		return
	}

	r.res.Banks++

	if id := b.ID.String(); id != "" {
		r.banks[id] = created.ID
	}
}

func (r *run) card(ctx context.Context, c Card) {
	bankID, err := r.cardBank(ctx, c)
	if err != nil {
		r.fail(ctx, "tarjeta", c.ID, err)
		return
	}

	created, err := r.ledger.AddCard(ctx, form.CardForm{
		Name:       c.Name.String(),
		BankID:     bankID,
		Limit:      c.Limit.String(),
		ClosingDay: first(c.ClosingDay, c.ClosingDaySnake),
		PaymentDay: first(c.PaymentDay, c.PaymentDaySnake),
		Balance:    c.Balance.String(),
		LastDigits: first(c.LastDigits, c.LastDigitsSnake),
	})
	if err != nil {
		r.fail(ctx, "tarjeta", c.ID, err)
		return
	}

	r.res.Cards++

	if id := c.ID.String(); id != "" {
		r.cards[id] = created.ID
	}
}

// cardBank resolves the bank a legacy card belongs to: by imported id, then
// by name among the known banks. A name that matches no bank becomes a new
// credit bank.
func (r *run) cardBank(ctx context.Context, c Card) (string, error) {
	if id := first(c.BankID, c.BankIDSnake); id != "" {
		return r.bankRef(id), nil
	}

	name := c.BankName.String()
	if name == "" {
		return "", nil
	}

	for _, b := range r.ledger.Snapshot().Banks {
		if strings.EqualFold(b.Name, name) {
			return b.ID, nil
		}
	}

	b, err := r.ledger.AddBank(ctx, form.BankForm{Name: name, Kind: string(finance.AccountCredit)})
	if err != nil {
		return "", fmt.Errorf("creating bank %q: %w", name, err)
	}

	r.res.Banks++

	return b.ID, nil
}

// bankRef and cardRef translate a legacy reference. Ids that were not part
// of the snapshot are passed through unchanged.
func (r *run) bankRef(id string) string {
	if mapped, ok := r.banks[id]; ok {
		return mapped
	}

	return id
}

func (r *run) cardRef(id string) string {
	if mapped, ok := r.cards[id]; ok {
		return mapped
	}

	return id
}

func (r *run) expense(ctx context.Context, e Expense) {
	_, err := r.ledger.AddExpense(ctx, form.ExpenseForm{
		Description: e.Description.String(),
		Amount:      first(e.Price, e.Amount),
		Category:    e.Category.String(),
		Date:        e.Date.String(),
		Method:      first(e.Method, e.MethodSnake),
		CardID:      r.cardRef(first(e.CardID, e.CardIDSnake)),
		BankID:      r.bankRef(first(e.BankID, e.BankIDSnake)),
	})
	if err != nil {
		r.fail(ctx, "gasto", e.ID, err)
		return
	}

	r.res.Expenses++
}

func (r *run) saving(ctx context.Context, s Saving) {
	kind := s.Periodicity.String()
	if kind == "" {
		switch k := finance.SavingKind(s.Kind.String()); k {
		case finance.SavingDaily, finance.SavingWeekly, finance.SavingMonthly, finance.SavingAnnual:
			kind = string(k)
		default:
			kind = string(finance.SavingMonthly)
		}
	}

	_, err := r.ledger.AddSaving(ctx, form.SavingForm{
		Description: s.Description.String(),
		Amount:      first(s.Price, s.Amount),
		Kind:        kind,
		Method:      savingMethod(s),
		Date:        s.Date.String(),
		Target:      s.Target.String(),
		BankID:      r.bankRef(first(s.BankID, s.BankIDSnake)),
	})
	if err != nil {
		r.fail(ctx, "ahorro", s.ID, err)
		return
	}

	r.res.Savings++
}

func (r *run) investment(ctx context.Context, i Investment) {
	_, err := r.ledger.AddInvestment(ctx, form.InvestmentForm{
		Description:    i.Description.String(),
		Amount:         first(i.Price, i.Amount),
		Kind:           i.Kind.String(),
		Method:         first(i.Method, i.MethodSnake),
		ExpectedReturn: first(i.ExpectedReturn, i.ExpectedReturnSnake),
		Date:           i.Date.String(),
		BankID:         r.bankRef(first(i.BankID, i.BankIDSnake)),
		CardID:         r.cardRef(first(i.CardID, i.CardIDSnake)),
	})
	if err != nil {
		r.fail(ctx, "inversion", i.ID, err)
		return
	}

	r.res.Investments++
}

func (r *run) debt(ctx context.Context, d Debt) {
	_, err := r.ledger.AddDebt(ctx, form.DebtForm{
		Description: d.Description.String(),
		Amount:      first(d.Price, d.Amount),
		DueDate:     first(d.DueDate, d.DueDateSnake),
		Interest:    d.Interest.String(),
	})
	if err != nil {
		r.fail(ctx, "deuda", d.ID, err)
		return
	}

	r.res.Debts++
}

func (r *run) goal(ctx context.Context, g Goal) {
	kind := g.Kind.String()
	if kind == "" {
		kind = string(finance.GoalSaving)
	}

	_, err := r.ledger.AddGoal(ctx, form.GoalForm{
		Month:       g.Month.String(),
		Year:        first(g.Year, g.YearSnake),
		Kind:        kind,
		Description: g.Description.String(),
		Target:      first(g.Price, g.Amount),
		Progress:    g.Progress.String(),
	})
	if err != nil {
		r.fail(ctx, "objetivo", g.ID, err)
		return
	}

	r.res.Goals++
}

// categories adds the names the ledger does not have yet.
func (r *run) categories(ctx context.Context, names []Category) {
	known := make(map[string]bool)
	for _, n := range r.ledger.Snapshot().Categories {
		known[strings.ToLower(n)] = true
	}

	for _, c := range names {
		name := strings.TrimSpace(string(c))
		if name == "" || known[strings.ToLower(name)] {
			continue
		}

		if _, err := r.ledger.AddCategory(ctx, name); err != nil {
			r.fail(ctx, "categoria", Text(name), err)
			continue
		}

		known[strings.ToLower(name)] = true
		r.res.Categories++
	}
}
