package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

// ToastDuration is how long a notification stays on screen.
const ToastDuration = 3 * time.Second

// NoticeMsg carries a ledger notification into the program.
type NoticeMsg ledger.Notification

// Notifier hands ledger notifications to the Bubble Tea program through a
// buffered channel. Notifications are dropped when nobody is reading.
type Notifier struct {
	ch chan ledger.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan ledger.Notification, 16)}
}

func (n *Notifier) Notify(note ledger.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// Wait blocks until the next notification arrives.
func (n *Notifier) Wait() tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(<-n.ch)
	}
}

var (
	toastSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Padding(0, 1)
	toastError   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
)

func RenderToast(note ledger.Notification) string {
	if note.Level == ledger.LevelError {
		return toastError.Render(note.Message)
	}

	return toastSuccess.Render(note.Message)
}
