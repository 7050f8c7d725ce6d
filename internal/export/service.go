// Package export writes the ledger out as a backup. The JSON backup uses the
// legacy snapshot layout, so it can be loaded again with the importer.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/importer"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

// Source is the subset of ledger.Service an export reads from.
type Source interface {
	Snapshot() ledger.State
}

type Service struct {
	ledger Source
	now    func() time.Time
}

func NewService(src Source) *Service {
	return &Service{ledger: src, now: time.Now}
}

// WithClock replaces the clock used for file names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FileName returns the name of a backup taken now, such as
// "controlfin_20240310.json".
func (s *Service) FileName(ext string) string {
	return fmt.Sprintf("controlfin_%s%s", s.now().Format("20060102"), ext)
}

// Snapshot converts the current state to the legacy snapshot layout. Goals
// are those of the month currently shown.
func (s *Service) Snapshot() *importer.Snapshot {
	st := s.ledger.Snapshot()

	snap := &importer.Snapshot{
		Banks:       make([]importer.Bank, 0, len(st.Banks)),
		Cards:       make([]importer.Card, 0, len(st.Cards)),
		Expenses:    make([]importer.Expense, 0, len(st.Expenses)),
		Savings:     make([]importer.Saving, 0, len(st.Savings)),
		Investments: make([]importer.Investment, 0, len(st.Investments)),
		Debts:       make([]importer.Debt, 0, len(st.Debts)),
		Goals:       make([]importer.Goal, 0, len(st.Goals)),
		Categories:  make([]importer.Category, 0, len(st.Categories)),
	}

	for _, b := range st.Banks {
		snap.Banks = append(snap.Banks, importer.Bank{
			ID:                   importer.Text(b.ID),
			Name:                 importer.Text(b.Name),
			Kind:                 importer.Text(b.Kind),
			LastDigitsSnake:      optional(b.LastDigits),
			AllowsTransfersSnake: optionalBool(b.AllowsTransfers),
		})
	}

	for _, c := range st.Cards {
		snap.Cards = append(snap.Cards, importer.Card{
			ID:              importer.Text(c.ID),
			Name:            importer.Text(c.Name),
			BankIDSnake:     importer.Text(c.BankID),
			Limit:           importer.Text(c.Limit.String()),
			ClosingDaySnake: importer.Text(strconv.Itoa(c.ClosingDay)),
			PaymentDaySnake: importer.Text(strconv.Itoa(c.PaymentDay)),
			Balance:         importer.Text(c.Balance.String()),
			LastDigitsSnake: optional(c.LastDigits),
		})
	}

	// Oldest first, so that importing the backup restores the same order.
	for _, e := range reversed(st.Expenses) {
		snap.Expenses = append(snap.Expenses, importer.Expense{
			ID:          importer.Text(e.ID),
			Description: importer.Text(e.Description),
			Price:       importer.Text(e.Amount.String()),
			Category:    importer.Text(e.Category),
			Date:        importer.Text(e.Date.String()),
			MethodSnake: importer.Text(e.Method),
			CardIDSnake: optional(e.CardID),
			BankIDSnake: optional(e.BankID),
		})
	}

	for _, sv := range reversed(st.Savings) {
		snap.Savings = append(snap.Savings, importer.Saving{
			ID:          importer.Text(sv.ID),
			Description: importer.Text(sv.Description),
			Price:       importer.Text(sv.Amount.String()),
			Periodicity: importer.Text(sv.Kind),
			MethodSnake: importer.Text(sv.Method),
			Date:        importer.Text(sv.Date.String()),
			Target:      optionalAmount(sv.Target),
			BankIDSnake: optional(sv.BankID),
		})
	}

	for _, i := range reversed(st.Investments) {
		snap.Investments = append(snap.Investments, importer.Investment{
			ID:                  importer.Text(i.ID),
			Description:         importer.Text(i.Description),
			Price:               importer.Text(i.Amount.String()),
			Kind:                importer.Text(i.Kind),
			MethodSnake:         importer.Text(i.Method),
			ExpectedReturnSnake: optionalAmount(i.ExpectedReturn),
			Date:                importer.Text(i.Date.String()),
			BankIDSnake:         optional(i.BankID),
			CardIDSnake:         optional(i.CardID),
		})
	}

	for _, d := range reversed(st.Debts) {
		snap.Debts = append(snap.Debts, importer.Debt{
			ID:           importer.Text(d.ID),
			Description:  importer.Text(d.Description),
			Price:        importer.Text(d.Amount.String()),
			DueDateSnake: importer.Text(d.DueDate.String()),
			Interest:     optionalAmount(d.Interest),
		})
	}

	for _, g := range st.Goals {
		snap.Goals = append(snap.Goals, importer.Goal{
			ID:          importer.Text(g.ID),
			Description: importer.Text(g.Description),
			Price:       importer.Text(g.Target.String()),
			Kind:        importer.Text(g.Kind),
			Month:       importer.Text(strconv.Itoa(g.Month)),
			YearSnake:   importer.Text(strconv.Itoa(g.Year)),
			Progress:    importer.Text(g.Progress.String()),
		})
	}

	for _, c := range st.Categories {
		snap.Categories = append(snap.Categories, importer.Category(c))
	}

	return snap
}

// WriteJSON writes the backup snapshot as indented JSON.
func (s *Service) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	return nil
}

var expenseHeader = []string{"fecha", "descripcion", "categoria", "precio", "tipo_pago", "tarjeta", "banco"}

// WriteExpensesCSV writes the expenses, newest first, as a semicolon
// separated sheet. Cards and banks are written by name.
func (s *Service) WriteExpensesCSV(w io.Writer) error {
	st := s.ledger.Snapshot()

	cards := make(map[string]string, len(st.Cards))
	for _, c := range st.Cards {
		cards[c.ID] = c.Name
	}

	banks := make(map[string]string, len(st.Banks))
	for _, b := range st.Banks {
		banks[b.ID] = b.Name
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(expenseHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range st.Expenses {
		row := []string{
			e.Date.String(),
			e.Description,
			e.Category,
			e.Amount.StringFixed(2),
			string(e.Method),
			name(cards, e.CardID),
			name(banks, e.BankID),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func name(names map[string]string, id *string) string {
	if id == nil {
		return ""
	}

	if n, ok := names[*id]; ok {
		return n
	}

	return *id
}

func optional(s *string) importer.Text {
	if s == nil {
		return ""
	}

	return importer.Text(*s)
}

func optionalBool(b *bool) importer.Text {
	if b == nil {
		return ""
	}

	return importer.Text(strconv.FormatBool(*b))
}

func optionalAmount(d *decimal.Decimal) importer.Text {
	if d == nil {
		return ""
	}

	return importer.Text(d.String())
}

func reversed[T finance.Record](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}

	return out
}
