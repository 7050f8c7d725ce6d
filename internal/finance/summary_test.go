package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	expenses := []*finance.Expense{
		{Amount: dec("4.50"), Category: "Alimentación", Date: finance.NewDate(2024, time.June, 1)},
		{Amount: dec("12"), Category: "Transporte", Date: finance.NewDate(2024, time.May, 20)},
		{Amount: dec("5.50"), Category: "Alimentación", Date: finance.NewDate(2023, time.December, 1)},
	}
	savings := []*finance.Saving{
		{Amount: dec("100"), Date: finance.NewDate(2024, time.January, 2)},
	}
	investments := []*finance.Investment{{Amount: dec("300")}}
	debts := []*finance.Debt{{Amount: dec("50")}, {Amount: dec("25.25")}}

	s := finance.Summarize(now, expenses, savings, investments, debts)

	assert.True(t, dec("22").Equal(s.Expenses))
	assert.True(t, dec("100").Equal(s.Savings))
	assert.True(t, dec("300").Equal(s.Investments))
	assert.True(t, dec("75.25").Equal(s.Debts))

	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Transporte", s.ByCategory[0].Category)
	assert.Equal(t, "Alimentación", s.ByCategory[1].Category)
	assert.True(t, dec("10").Equal(s.ByCategory[1].Total))

	require.Len(t, s.Months, 6)
	assert.Equal(t, time.January, s.Months[0].Month)
	assert.Equal(t, time.June, s.Months[5].Month)
	assert.True(t, dec("100").Equal(s.Months[0].Savings))
	assert.True(t, dec("12").Equal(s.Months[4].Expenses))
	assert.True(t, dec("4.5").Equal(s.Months[5].Expenses))
}
