package component

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// Surface is the rectangular cell region a node paints into. Coordinates are
// local to the node; the host translates them to absolute cells and clips
// every write to the region.
type Surface interface {
	// Bounds returns the drawable size in cells.
	Bounds() (width, height int)

	// WriteText draws s starting at local cell (x, y) in the given style.
	// Wide runes occupy their full display width.
	WriteText(x, y int, s string, style lipgloss.Style)

	// Fill floods the region with r in the given style.
	Fill(r rune, style lipgloss.Style)
}

// Painter is implemented by components that draw. The host paints a parent
// before its children, so children overdraw their container's background.
// Components without visuals simply do not implement it.
type Painter interface {
	Paint(n *rendertree.Node, s Surface)
}

// KeyHandler is implemented by components that consume key input while
// focused. Returning false hands the key back to the host's global bindings.
type KeyHandler interface {
	HandleKey(n *rendertree.Node, msg tea.KeyMsg) bool
}
