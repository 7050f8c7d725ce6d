package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/controlfin/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel loads a backup or legacy snapshot, or an expense sheet.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	result     *importer.Result

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json", ".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Importar datos" }

func (m ImportModel) ShortHelp() string {
	return "Esc: volver | Enter: seleccionar"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err
		m.result = msg.result

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importando %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.err = nil
		m.result = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Seleccione una copia de seguridad (.json) o una planilla de gastos (.csv):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc para volver)",
		)
	}

	r := m.result

	var b strings.Builder

	fmt.Fprintf(&b, "Importación completada (%s)\n\n", strings.TrimSpace(r.Format+" "+r.Charset))
	fmt.Fprintf(&b, "Bancos: %d  Tarjetas: %d  Gastos: %d\n", r.Banks, r.Cards, r.Expenses)
	fmt.Fprintf(&b, "Ahorros: %d  Inversiones: %d  Deudas: %d\n", r.Savings, r.Investments, r.Debts)
	fmt.Fprintf(&b, "Objetivos: %d  Categorías: %d\n", r.Goals, r.Categories)

	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, "\n%d registros omitidos:\n", len(r.Failures))

		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  %s %s: %v\n", f.Kind, f.LegacyID, f.Err)
		}
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(b.String()) +
			"\n(Esc para volver)",
	)
}

// Messages

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		run := m.importService.Import
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			run = m.importService.ImportExpenses
		}

		result, err := run(ctx, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
