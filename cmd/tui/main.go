package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/controlfin/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/controlfin/internal/config"
	"github.com/MrJamesThe3rd/controlfin/internal/database"
	"github.com/MrJamesThe3rd/controlfin/internal/export"
	"github.com/MrJamesThe3rd/controlfin/internal/importer"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
)

type screen struct {
	key   string
	label string
	open  func() view.View
}

type model struct {
	appName  string
	ledger   *ledger.Service
	exporter *export.Service
	notifier *view.Notifier

	screens []screen
	current view.View
	width   int
	height  int

	toast    *ledger.Notification
	toastSeq int
}

type clearToastMsg struct {
	seq int
}

func newModel(
	appName string,
	svc *ledger.Service,
	impSvc *importer.Service,
	expSvc *export.Service,
	notifier *view.Notifier,
) model {
	section := func(build func(*ledger.Service) view.Section) func() view.View {
		return func() view.View { return view.NewSectionModel(svc, build(svc)) }
	}

	return model{
		appName:  appName,
		ledger:   svc,
		exporter: expSvc,
		notifier: notifier,
		screens: []screen{
			{"1", "Gastos", section(view.ExpensesSection)},
			{"2", "Ahorros", section(view.SavingsSection)},
			{"3", "Inversiones", section(view.InvestmentsSection)},
			{"4", "Deudas", section(view.DebtsSection)},
			{"5", "Planificación mensual", func() view.View { return view.NewGoalsModel(svc) }},
			{"6", "Bancos", section(view.BanksSection)},
			{"7", "Tarjetas", section(view.CardsSection)},
			{"8", "Categorías", section(view.CategoriesSection)},
			{"9", "Resumen", func() view.View { return view.NewSummaryModel(svc) }},
			{"i", "Importar datos", func() view.View { return view.NewImportModel(impSvc) }},
		},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.notifier.Wait(), view.ReloadCmd(m.ledger))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case view.NoticeMsg:
		note := ledger.Notification(msg)
		m.toast = &note
		m.toastSeq++
		seq := m.toastSeq

		return m, tea.Batch(
			m.notifier.Wait(),
			tea.Tick(view.ToastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} }),
		)

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}

		return m, nil

	case view.BackMsg:
		m.current = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, view.ReloadCmd(m.ledger)
	case "p":
		return m, m.pingCmd()
	case "e":
		return m, m.exportCmd()
	}

	for _, s := range m.screens {
		if s.key != msg.String() {
			continue
		}

		m.current = s.open()

		cmds := []tea.Cmd{m.current.Init()}
		if m.width > 0 {
			size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// pingCmd checks the backend. The outcome arrives as a notification.
func (m model) pingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.OpCtx()
		defer cancel()

		_ = m.ledger.Ping(ctx)

		return nil
	}
}

// exportCmd writes a backup of the ledger to the working directory.
func (m model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		name := m.exporter.FileName(".json")

		err := writeFile(name, m.exporter.WriteJSON)
		if err != nil {
			slog.Error("failed to export ledger", "file", name, "error", err)
			m.notifier.Notify(ledger.Notification{Level: ledger.LevelError, Message: "Error al exportar los datos"})

			return nil
		}

		m.notifier.Notify(ledger.Notification{Level: ledger.LevelSuccess, Message: "Datos exportados a " + name})

		return nil
	}
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	var body, help string

	if m.current == nil {
		body = m.menu()
		help = "q: salir | r: recargar | p: probar conexión | e: exportar"
	} else {
		body = m.current.View()
		help = m.current.ShortHelp()
	}

	toast := ""
	if m.toast != nil {
		toast = view.RenderToast(*m.toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, helpStyle.Render(" "+help), " "+toast)
}

func (m model) menu() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.appName))
	b.WriteString("\n\n")

	for _, s := range m.screens {
		fmt.Fprintf(&b, "%s. %s\n", s.key, s.label)
	}

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the program, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.Log.File, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := logging.New(logFile, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx := logging.ToContext(context.Background(), logger)

	conn, err := database.Connect(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to backend", "error", err)
		fmt.Fprintln(os.Stderr, "No se pudo conectar con la base de datos:", err)
		os.Exit(1)
	}
	defer conn.Close()

	var (
		notifier      = view.NewNotifier()
		ledgerService = ledger.NewService(conn.Repository, notifier)
		importService = importer.NewService(ledgerService)
		exportService = export.NewService(ledgerService)
	)

	slog.Info("starting TUI", "app", cfg.App.Name, "backend", conn.Kind)

	p := tea.NewProgram(newModel(cfg.App.Name, ledgerService, importService, exportService, notifier), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
