package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

type goalResponse struct {
	*finance.Goal
	Percent int64  `json:"porcentaje"`
	Bar     int64  `json:"barra"`
	Label   string `json:"etiqueta"`
}

func toGoalResponse(g *finance.Goal) goalResponse {
	p := g.Status()

	return goalResponse{
		Goal:    g,
		Percent: p.Percent,
		Bar:     p.Bar,
		Label:   p.Label(),
	}
}

func toGoalResponses(goals []*finance.Goal) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toGoalResponse(g)
	}

	return resp
}

type categoryTotalResponse struct {
	Category string          `json:"categoria"`
	Total    decimal.Decimal `json:"total"`
}

type monthTotalResponse struct {
	Year     int             `json:"anio"`
	Month    time.Month      `json:"mes"`
	Expenses decimal.Decimal `json:"gastos"`
	Savings  decimal.Decimal `json:"ahorros"`
}

type summaryResponse struct {
	Expenses    decimal.Decimal         `json:"gastos"`
	Savings     decimal.Decimal         `json:"ahorros"`
	Investments decimal.Decimal         `json:"inversiones"`
	Debts       decimal.Decimal         `json:"deudas"`
	ByCategory  []categoryTotalResponse `json:"por_categoria"`
	Months      []monthTotalResponse    `json:"meses"`
}

func toSummaryResponse(s finance.Summary) summaryResponse {
	resp := summaryResponse{
		Expenses:    s.Expenses,
		Savings:     s.Savings,
		Investments: s.Investments,
		Debts:       s.Debts,
		ByCategory:  make([]categoryTotalResponse, len(s.ByCategory)),
		Months:      make([]monthTotalResponse, len(s.Months)),
	}

	for i, c := range s.ByCategory {
		resp.ByCategory[i] = categoryTotalResponse{Category: c.Category, Total: c.Total}
	}

	for i, m := range s.Months {
		resp.Months[i] = monthTotalResponse{
			Year:     m.Year,
			Month:    m.Month,
			Expenses: m.Expenses,
			Savings:  m.Savings,
		}
	}

	return resp
}
