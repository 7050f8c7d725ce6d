package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type GoalKind string

const (
	GoalSaving     GoalKind = "ahorro"
	GoalExpense    GoalKind = "gasto"
	GoalInvestment GoalKind = "inversion"
	GoalDebt       GoalKind = "deuda"
)

// CompletedLabel replaces the percentage once a goal is reached.
const CompletedLabel = "Completado"

// Goal is a monthly target. Progress is entered by hand; it is not derived
// from matching expenses or savings.
type Goal struct {
	ID          string          `json:"id,omitempty"`
	Month       int             `json:"mes" validate:"min=1,max=12"`
	Year        int             `json:"anio" validate:"gt=0"`
	Kind        GoalKind        `json:"tipo" validate:"oneof=ahorro gasto inversion deuda"`
	Description string          `json:"descripcion" validate:"required"`
	Target      decimal.Decimal `json:"precio" validate:"gt=0"`
	Progress    decimal.Decimal `json:"progreso" validate:"gte=0"`
	Completed   bool            `json:"completado"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

func (g *Goal) RecordID() string { return g.ID }

// Normalize recomputes the derived completed flag.
func (g *Goal) Normalize() {
	g.Completed = g.Progress.GreaterThanOrEqual(g.Target)
}

// SetProgress records new progress and updates the completed flag.
func (g *Goal) SetProgress(progress decimal.Decimal) {
	g.Progress = progress
	g.Normalize()
}

// Status returns the display state of the goal.
func (g *Goal) Status() Progress {
	return ComputeProgress(g.Progress, g.Target)
}

// Progress is the display state of a goal.
type Progress struct {
	// Percent is round(100 * progress / target), not clamped.
	Percent int64
	// Bar is Percent clamped to [0, 100] for progress bar widths.
	Bar       int64
	Completed bool
}

// ComputeProgress derives the completion percentage of progress against target.
// Targets are validated to be positive; a non-positive target yields 0%.
func ComputeProgress(progress, target decimal.Decimal) Progress {
	p := Progress{Completed: progress.GreaterThanOrEqual(target)}

	if target.Sign() <= 0 {
		return p
	}

	p.Percent = progress.Mul(decimal.NewFromInt(100)).Div(target).Round(0).IntPart()
	p.Bar = min(max(p.Percent, 0), 100)

	return p
}

// Label is the text shown next to the bar.
func (p Progress) Label() string {
	if p.Completed {
		return CompletedLabel
	}

	return fmt.Sprintf("%d%%", p.Percent)
}
