package host

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rio-labs/rioterm/pkg/component"
	"github.com/rio-labs/rioterm/pkg/protocol"
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true)

// =============================================================================
// Messages
// =============================================================================

// BatchMsg delivers one server batch into the update loop. Transport code
// sends it with Program.Send, which preserves arrival order.
type BatchMsg struct {
	Batch protocol.UpdateBatch
}

// DisconnectMsg reports that the server connection ended. The host quits;
// reconnecting is deliberately not its job.
type DisconnectMsg struct {
	Err error
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model hosting one session.
type Model struct {
	host *Host
}

// NewModel wraps h for bubbletea.
func NewModel(h *Host) Model { return Model{host: h} }

// NewProgram returns a ready-to-run program on the alternate screen.
func NewProgram(h *Host) *tea.Program {
	return tea.NewProgram(NewModel(h), tea.WithAltScreen())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.host.Resize(msg.Width, msg.Height)

	case BatchMsg:
		m.host.Apply(msg.Batch)

	case DisconnectMsg:
		if msg.Err != nil {
			m.host.logger.Error("disconnected", "err", msg.Err)
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			m.host.focus.CycleNext()
		case tea.KeyShiftTab:
			m.host.focus.CyclePrev()
		default:
			m.host.routeKey(msg)
		}
	}

	m.host.settle()
	return m, nil
}

func (m Model) View() string {
	return m.host.paint()
}

// routeKey hands a key to the focused node's component, if it takes keys.
func (h *Host) routeKey(msg tea.KeyMsg) {
	n := h.focus.FocusedNode()
	if n == nil {
		return
	}
	if kh, ok := n.Component().(component.KeyHandler); ok {
		kh.HandleKey(n, msg)
	}
}
