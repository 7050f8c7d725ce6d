package sheet

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

// parseAmount reads an amount cell. With decimalComma the format is
// "1.234,56", otherwise "1234.56". A leading currency sign is ignored.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return finance.ParseAmount(clean)
}
