package finance

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// summaryMonths is how many calendar months the monthly series covers.
const summaryMonths = 6

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

type MonthTotal struct {
	Year     int
	Month    time.Month
	Expenses decimal.Decimal
	Savings  decimal.Decimal
}

// Summary aggregates the dashboard figures.
type Summary struct {
	Expenses    decimal.Decimal
	Savings     decimal.Decimal
	Investments decimal.Decimal
	Debts       decimal.Decimal
	ByCategory  []CategoryTotal
	Months      []MonthTotal
}

// Summarize totals every list and builds the per-category and per-month series.
// Months covers the six calendar months ending with the month of now, oldest first.
func Summarize(now time.Time, expenses []*Expense, savings []*Saving, investments []*Investment, debts []*Debt) Summary {
	var s Summary

	months := make([]MonthTotal, summaryMonths)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(summaryMonths - 1), 0)

	for i := range months {
		m := first.AddDate(0, i, 0)
		months[i] = MonthTotal{Year: m.Year(), Month: m.Month()}
	}

	monthIndex := func(d Date) int {
		if d.IsZero() {
			return -1
		}

		diff := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if diff < 0 || diff >= summaryMonths {
			return -1
		}

		return diff
	}

	byCategory := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		s.Expenses = s.Expenses.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)

		if i := monthIndex(e.Date); i >= 0 {
			months[i].Expenses = months[i].Expenses.Add(e.Amount)
		}
	}

	for _, sv := range savings {
		s.Savings = s.Savings.Add(sv.Amount)

		if i := monthIndex(sv.Date); i >= 0 {
			months[i].Savings = months[i].Savings.Add(sv.Amount)
		}
	}

	for _, inv := range investments {
		s.Investments = s.Investments.Add(inv.Amount)
	}

	for _, d := range debts {
		s.Debts = s.Debts.Add(d.Amount)
	}

	for name, total := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: name, Total: total})
	}

	slices.SortFunc(s.ByCategory, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	s.Months = months

	return s
}
