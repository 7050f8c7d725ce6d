package view

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// ReloadedMsg is sent after every list was fetched again.
type ReloadedMsg struct {
	Err error
}

func ReloadCmd(svc *ledger.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return ReloadedMsg{Err: svc.Reload(ctx)}
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).PaddingBottom(1)
	faintStyle = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	panelStyle = lipgloss.NewStyle().Padding(1, 2).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Width(56)
)

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithWidth(50).WithShowHelp(false)
}
