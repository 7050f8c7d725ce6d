package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

// SummaryModel shows the dashboard totals.
type SummaryModel struct {
	CommonModel
	svc *ledger.Service

	summary    finance.Summary
	categories table.Model
	months     table.Model
}

func NewSummaryModel(svc *ledger.Service) SummaryModel {
	m := SummaryModel{
		svc: svc,
		categories: newTable([]table.Column{
			{Title: "Categoría", Width: 18},
			{Title: "Total", Width: 14},
		}),
		months: newTable([]table.Column{
			{Title: "Mes", Width: 16},
			{Title: "Gastos", Width: 14},
			{Title: "Ahorros", Width: 14},
		}),
	}
	m.months.Blur()
	m.refresh()

	return m
}

func (m SummaryModel) Title() string { return "Resumen" }

func (m SummaryModel) ShortHelp() string {
	return "Esc: volver | r: recargar"
}

func (m SummaryModel) Init() tea.Cmd {
	return nil
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadedMsg:
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, ReloadCmd(m.svc)
		}
	}

	var cmd tea.Cmd
	m.categories, cmd = m.categories.Update(msg)

	return m, cmd
}

func (m *SummaryModel) refresh() {
	m.summary = m.svc.Summary()

	rows := make([]table.Row, len(m.summary.ByCategory))
	for i, c := range m.summary.ByCategory {
		rows[i] = table.Row{c.Category, FormatAmount(c.Total)}
	}

	m.categories.SetRows(rows)
	m.categories.SetHeight(min(max(len(rows), 1), 10) + 1)

	rows = make([]table.Row, len(m.summary.Months))
	for i, mt := range m.summary.Months {
		rows[i] = table.Row{
			fmt.Sprintf("%s %d", monthName(int(mt.Month)), mt.Year),
			FormatAmount(mt.Expenses),
			FormatAmount(mt.Savings),
		}
	}

	m.months.SetRows(rows)
	m.months.SetHeight(len(rows) + 1)
}

var totalLabel = lipgloss.NewStyle().Width(14)

func (m SummaryModel) View() string {
	var totals strings.Builder

	for _, t := range []struct {
		label  string
		amount string
	}{
		{"Gastos", FormatAmount(m.summary.Expenses)},
		{"Ahorros", FormatAmount(m.summary.Savings)},
		{"Inversiones", FormatAmount(m.summary.Investments)},
		{"Deudas", FormatAmount(m.summary.Debts)},
	} {
		totals.WriteString(totalLabel.Render(t.label) + t.amount + "\n")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Resumen"),
		totals.String(),
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, "Gastos por categoría", boxStyle.Render(m.categories.View())),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, "Últimos seis meses", boxStyle.Render(m.months.View())),
		),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}
