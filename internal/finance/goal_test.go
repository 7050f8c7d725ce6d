package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name          string
		progress      string
		target        string
		wantPercent   int64
		wantBar       int64
		wantCompleted bool
		wantLabel     string
	}{
		{name: "Empty", progress: "0", target: "100", wantPercent: 0, wantBar: 0, wantLabel: "0%"},
		{name: "Half", progress: "50", target: "100", wantPercent: 50, wantBar: 50, wantLabel: "50%"},
		{name: "RoundsHalfUp", progress: "1", target: "8", wantPercent: 13, wantBar: 13, wantLabel: "13%"},
		{name: "Exact", progress: "250.5", target: "250.5", wantPercent: 100, wantBar: 100, wantCompleted: true, wantLabel: "Completado"},
		{name: "Exceeded", progress: "150", target: "100", wantPercent: 150, wantBar: 100, wantCompleted: true, wantLabel: "Completado"},
		{name: "AlmostThere", progress: "99.6", target: "100", wantPercent: 100, wantBar: 100, wantLabel: "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.ComputeProgress(dec(tt.progress), dec(tt.target))

			assert.Equal(t, tt.wantPercent, got.Percent)
			assert.Equal(t, tt.wantBar, got.Bar)
			assert.Equal(t, tt.wantCompleted, got.Completed)
			assert.Equal(t, tt.wantLabel, got.Label())
		})
	}
}

func TestComputeProgress_Idempotent(t *testing.T) {
	for _, target := range []string{"0.01", "1", "100", "12345.67"} {
		first := finance.ComputeProgress(dec(target), dec(target))
		second := finance.ComputeProgress(dec(target), dec(target))

		assert.Equal(t, first, second)
		assert.Equal(t, int64(100), first.Percent)
		assert.True(t, first.Completed)
	}
}

func TestGoal_SetProgress(t *testing.T) {
	g := &finance.Goal{Target: dec("100"), Progress: dec("0")}

	g.SetProgress(dec("150"))

	assert.True(t, g.Completed)
	assert.Equal(t, finance.CompletedLabel, g.Status().Label())

	g.SetProgress(dec("20"))

	assert.False(t, g.Completed)
	assert.Equal(t, "20%", g.Status().Label())
}

func TestGoal_NormalizeRecomputesCompleted(t *testing.T) {
	// Rows written by older clients stored completado = progreso >= 100.
	g := &finance.Goal{Target: dec("500"), Progress: dec("120"), Completed: true}

	g.Normalize()

	assert.False(t, g.Completed)
}
