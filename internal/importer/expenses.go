package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/importer/sheet"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
)

// ImportExpenses adds the expenses of a CSV sheet to the ledger. Cards and
// banks named in the sheet must already exist. Failures are reported by
// line number.
func (s *Service) ImportExpenses(ctx context.Context, r io.Reader) (*Result, error) {
	sh, err := sheet.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing sheet: %w", err)
	}

	imp := &run{
		ledger: s.ledger,
		log:    logging.FromContext(ctx),
		res:    &Result{Charset: sh.Charset, Format: sh.Profile},
	}

	st := s.ledger.Snapshot()

	cards := make(map[string]string, len(st.Cards))
	for _, c := range st.Cards {
		cards[strings.ToLower(c.Name)] = c.ID
	}

	banks := make(map[string]string, len(st.Banks))
	for _, b := range st.Banks {
		banks[strings.ToLower(b.Name)] = b.ID
	}

	for _, row := range sh.Rows {
		line := Text(strconv.Itoa(row.Line))

		cardID, err := lookup(cards, "tarjeta_id", "La tarjeta", row.Card)
		if err != nil {
			imp.fail(ctx, "gasto", line, err)
			continue
		}

		bankID, err := lookup(banks, "banco_id", "El banco", row.Bank)
		if err != nil {
			imp.fail(ctx, "gasto", line, err)
			continue
		}

		_, err = s.ledger.AddExpense(ctx, form.ExpenseForm{
			Description: row.Description,
			Amount:      row.Amount,
			Category:    row.Category,
			Date:        row.Date,
			Method:      row.Method,
			CardID:      cardID,
			BankID:      bankID,
		})
		if err != nil {
			imp.fail(ctx, "gasto", line, err)
			continue
		}

		imp.res.Expenses++
	}

	imp.log.InfoContext(ctx, "expense sheet imported",
		slog.String("format", sh.Profile),
		slog.String("charset", sh.Charset),
		slog.Int("expenses", imp.res.Expenses),
		slog.Int("failures", len(imp.res.Failures)),
	)

	return imp.res, nil
}

func lookup(ids map[string]string, field, label, name string) (string, error) {
	if name == "" {
		return "", nil
	}

	id, ok := ids[strings.ToLower(name)]
	if !ok {
		return "", finance.NewValidationError(field, fmt.Sprintf("%s %q no existe", label, name))
	}

	return id, nil
}
