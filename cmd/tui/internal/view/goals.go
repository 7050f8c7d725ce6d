package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

type goalsState int

const (
	goalsBrowse goalsState = iota
	goalsForm
)

// GoalsModel is the monthly planning screen: the goals of one month with
// a progress bar each.
type GoalsModel struct {
	CommonModel
	svc *ledger.Service

	state  goalsState
	cursor int
	bar    progress.Model
	form   *huh.Form
	submit Submit
}

func NewGoalsModel(svc *ledger.Service) GoalsModel {
	return GoalsModel{
		svc: svc,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
	}
}

func (m GoalsModel) Title() string { return "Planificación mensual" }

func (m GoalsModel) ShortHelp() string {
	if m.state == goalsForm {
		return "Tab: siguiente campo | Enter: confirmar | Esc: cancelar"
	}

	return "Esc: volver | ←/→: mes | a: agregar | p: progreso | r: recargar"
}

func (m GoalsModel) Init() tea.Cmd {
	return nil
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case savedMsg, goalsLoadedMsg:
		m.state = goalsBrowse
		m.form = nil
		m.submit = nil
		m.clampCursor()

		return m, nil

	case ReloadedMsg:
		m.clampCursor()
		return m, nil
	}

	if m.state == goalsForm {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	st := m.svc.Snapshot()

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		return m, ReloadCmd(m.svc)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(st.Goals)-1 {
			m.cursor++
		}
	case "left", "h":
		return m, m.loadCmd(shiftMonth(st.GoalMonth, st.GoalYear, -1))
	case "right", "l":
		return m, m.loadCmd(shiftMonth(st.GoalMonth, st.GoalYear, 1))
	case "a":
		return m.openForm(m.addForm(st))
	case "p":
		if m.cursor < len(st.Goals) {
			return m.openForm(m.progressForm(st.Goals[m.cursor]))
		}
	}

	return m, nil
}

func (m GoalsModel) openForm(f *huh.Form, submit Submit) (tea.Model, tea.Cmd) {
	m.form = f
	m.submit = submit
	m.state = goalsForm

	return m, m.form.Init()
}

func (m GoalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsBrowse
		m.form = nil

		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form = hf
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, saveCmd(m.submit)
	case huh.StateAborted:
		m.state = goalsBrowse
		m.form = nil
	}

	return m, cmd
}

func (m GoalsModel) addForm(st ledger.State) (*huh.Form, Submit) {
	f := &form.GoalForm{
		Month: strconv.Itoa(st.GoalMonth),
		Year:  strconv.Itoa(st.GoalYear),
		Kind:  string(finance.GoalSaving),
	}

	months := make([]huh.Option[string], len(monthNames))
	for i, name := range monthNames {
		months[i] = huh.NewOption(name, strconv.Itoa(i+1))
	}

	fm := newForm(
		huh.NewGroup(
			huh.NewInput().Title("Descripción").Value(&f.Description),
			huh.NewSelect[string]().Title("Tipo").Options(
				huh.NewOption("Ahorro", string(finance.GoalSaving)),
				huh.NewOption("Gasto", string(finance.GoalExpense)),
				huh.NewOption("Inversión", string(finance.GoalInvestment)),
				huh.NewOption("Deuda", string(finance.GoalDebt)),
			).Value(&f.Kind),
			huh.NewInput().Title("Meta").Value(&f.Target),
			huh.NewSelect[string]().Title("Mes").Options(months...).Value(&f.Month),
			huh.NewInput().Title("Año").Value(&f.Year),
		),
	)

	return fm, func(ctx context.Context) error {
		_, err := m.svc.AddGoal(ctx, *f)
		return err
	}
}

func (m GoalsModel) progressForm(g *finance.Goal) (*huh.Form, Submit) {
	value := new(g.Progress.String())
	id := g.ID

	fm := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Progreso de %q", g.Description)).
				Description("Meta: " + FormatAmount(g.Target)).
				Value(value),
		),
	)

	return fm, func(ctx context.Context) error {
		_, err := m.svc.UpdateGoalProgress(ctx, id, *value)
		return err
	}
}

func (m *GoalsModel) clampCursor() {
	n := len(m.svc.Snapshot().Goals)
	m.cursor = max(min(m.cursor, n-1), 0)
}

func (m GoalsModel) View() string {
	st := m.svc.Snapshot()

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Planificación mensual: %s %d", monthName(st.GoalMonth), st.GoalYear)))
	b.WriteString("\n")

	if len(st.Goals) == 0 {
		b.WriteString(faintStyle.Render("Sin objetivos para este mes. Presione a para agregar."))
	}

	for i, g := range st.Goals {
		b.WriteString(renderGoal(m.bar, g, i == m.cursor))
		b.WriteString("\n")
	}

	content := b.String()

	if m.state == goalsForm && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(m.form.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

var (
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

func renderGoal(bar progress.Model, g *finance.Goal, selected bool) string {
	status := g.Status()

	label := status.Label()
	if status.Completed {
		label = completedStyle.Render(label)
	}

	title := fmt.Sprintf("%s (%s)", g.Description, g.Kind)
	if selected {
		title = selectedStyle.Render("> " + title)
	} else {
		title = "  " + title
	}

	return fmt.Sprintf("%s\n  %s / %s\n  %s %s\n",
		title,
		FormatAmount(g.Progress),
		FormatAmount(g.Target),
		bar.ViewAs(float64(status.Bar)/100),
		label,
	)
}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}

	return monthNames[month-1]
}

func shiftMonth(month, year, delta int) (int, int) {
	t := time.Date(year, time.Month(month)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return int(t.Month()), t.Year()
}

type goalsLoadedMsg struct {
	err error
}

func (m GoalsModel) loadCmd(month, year int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		_, err := m.svc.LoadGoals(ctx, month, year)

		return goalsLoadedMsg{err: err}
	}
}
