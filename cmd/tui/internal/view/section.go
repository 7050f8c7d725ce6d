package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

// Submit sends the values collected by a form to the ledger.
type Submit func(ctx context.Context) error

// Section describes a screen that lists one kind of record in a table and
// adds records through a form. Edit and Delete are optional.
type Section struct {
	Title   string
	Columns []table.Column
	Rows    func(ledger.State) []table.Row
	// IDs returns the identifiers of the rows, in the same order.
	IDs    func(ledger.State) []string
	Add    func(ledger.State) (*huh.Form, Submit)
	Edit   func(st ledger.State, index int) (*huh.Form, Submit)
	Delete func(ctx context.Context, id string) error
}

type sectionState int

const (
	sectionBrowse sectionState = iota
	sectionForm
	sectionConfirmDelete
)

type SectionModel struct {
	CommonModel
	svc *ledger.Service
	sec Section

	state  sectionState
	table  table.Model
	ids    []string
	form   *huh.Form
	submit Submit
}

func NewSectionModel(svc *ledger.Service, sec Section) SectionModel {
	m := SectionModel{
		svc:   svc,
		sec:   sec,
		table: newTable(sec.Columns),
	}
	m.refresh()

	return m
}

func (m SectionModel) Title() string { return m.sec.Title }

func (m SectionModel) ShortHelp() string {
	switch m.state {
	case sectionForm:
		return "Tab: siguiente campo | Enter: confirmar | Esc: cancelar"
	case sectionConfirmDelete:
		return "y: eliminar | n: cancelar"
	}

	help := "Esc: volver | a: agregar | r: recargar"
	if m.sec.Edit != nil {
		help += " | e: editar"
	}

	if m.sec.Delete != nil {
		help += " | d: eliminar"
	}

	return help
}

func (m SectionModel) Init() tea.Cmd {
	return nil
}

func (m SectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.state = sectionBrowse
		m.form = nil
		m.submit = nil
		m.table.Focus()
		m.refresh()

		return m, nil

	case ReloadedMsg:
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case sectionForm:
		return m.updateForm(msg)
	case sectionConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m SectionModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, ReloadCmd(m.svc)
		case "a":
			form, submit := m.sec.Add(m.svc.Snapshot())
			return m.openForm(form, submit)
		case "e":
			if m.sec.Edit == nil || !m.hasSelection() {
				return m, nil
			}

			form, submit := m.sec.Edit(m.svc.Snapshot(), m.table.Cursor())

			return m.openForm(form, submit)
		case "d":
			if m.sec.Delete == nil || !m.hasSelection() {
				return m, nil
			}

			m.state = sectionConfirmDelete

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SectionModel) openForm(form *huh.Form, submit Submit) (tea.Model, tea.Cmd) {
	m.form = form
	m.submit = submit
	m.state = sectionForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m SectionModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, saveCmd(m.submit)
	case huh.StateAborted:
		return m.closeForm(), nil
	}

	return m, cmd
}

func (m SectionModel) closeForm() SectionModel {
	m.state = sectionBrowse
	m.form = nil
	m.submit = nil
	m.table.Focus()

	return m
}

func (m SectionModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "s":
		id := m.ids[m.table.Cursor()]
		del := m.sec.Delete

		return m, saveCmd(func(ctx context.Context) error { return del(ctx, id) })
	case "n", "esc":
		m.state = sectionBrowse
	}

	return m, nil
}

func (m SectionModel) hasSelection() bool {
	idx := m.table.Cursor()
	return idx >= 0 && idx < len(m.ids)
}

func (m *SectionModel) refresh() {
	st := m.svc.Snapshot()

	m.table.SetRows(m.sec.Rows(st))

	if m.sec.IDs != nil {
		m.ids = m.sec.IDs(st)
	}

	m.table.SetCursor(m.table.Cursor())
}

func (m SectionModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.sec.Title),
		boxStyle.Render(m.table.View()),
	)

	if len(m.table.Rows()) == 0 {
		content += "\n" + faintStyle.Render("Sin registros. Presione a para agregar.")
	}

	switch m.state {
	case sectionForm:
		if m.form != nil {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(m.form.View()))
		}
	case sectionConfirmDelete:
		row := m.table.SelectedRow()

		name := ""
		if len(row) > 0 {
			name = row[0]
		}

		content += "\n\n" + fmt.Sprintf("¿Eliminar %q? (y/n)", name)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type savedMsg struct {
	err error
}

// saveCmd runs submit off the UI loop. The outcome reaches the user as a
// ledger notification, so the error is only used to close the form.
func saveCmd(submit Submit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return savedMsg{err: submit(ctx)}
	}
}
