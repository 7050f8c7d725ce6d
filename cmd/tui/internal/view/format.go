package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

const opTimeout = 15 * time.Second

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func FormatOptionalAmount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}

	return FormatAmount(*d)
}

func FormatDate(d finance.Date) string {
	if d.IsZero() {
		return "-"
	}

	return d.String()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}

	return *s
}

// OpCtx returns a context with a standard timeout for backend operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
