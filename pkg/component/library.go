package component

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// Type tags of the built-in set, as servers name them in deltas.
const (
	TagRow     = "row"
	TagColumn  = "column"
	TagText    = "text"
	TagBox     = "box"
	TagSpacer  = "spacer"
	TagButton  = "button"
	TagInput   = "input"
	TagOverlay = "overlay"
)

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// ElementFactory creates the platform element for a freshly mounted node.
// The terminal host hands out screen regions; [NullFactory] serves tests and
// headless runs.
type ElementFactory interface {
	NewElement(n *rendertree.Node) rendertree.Element
}

// Sink receives user-originated events for delivery to the server.
type Sink interface {
	SendEvent(ev protocol.Event)
}

// Focuser owns keyboard focus on the input side. It extends the adapter the
// reconciler reads with the write half controls use to take focus.
type Focuser interface {
	rendertree.FocusAdapter

	// Focus moves keyboard focus to el.
	Focus(el rendertree.Element)
}

// =============================================================================
// Library
// =============================================================================

// Library carries the collaborators shared by every instance of the built-in
// set. Zero-value fields get working defaults on Register: a null element
// factory, a discarding event sink, the stock theme, and a silent logger. A
// nil Focus disables focus behavior, which is what headless runs want.
type Library struct {
	Factory ElementFactory
	Focus   Focuser
	Events  Sink
	Theme   Theme
	Logger  *log.Logger
}

// Register normalizes the library and wires the full built-in set into reg.
func (l *Library) Register(reg *rendertree.Registry) error {
	l.normalize()

	types := []rendertree.ComponentType{
		{Tag: TagRow, ChildAttrs: []string{"children"}, New: func() rendertree.Component { return &stackComponent{lib: l} }},
		{Tag: TagColumn, ChildAttrs: []string{"children"}, New: func() rendertree.Component { return &stackComponent{lib: l, vertical: true} }},
		{Tag: TagText, New: func() rendertree.Component { return &textComponent{lib: l} }},
		{Tag: TagBox, ChildAttrs: []string{"child"}, New: func() rendertree.Component { return &boxComponent{lib: l} }},
		{Tag: TagSpacer, New: func() rendertree.Component { return &spacerComponent{lib: l} }},
		{Tag: TagButton, New: func() rendertree.Component { return &buttonComponent{lib: l} }},
		{Tag: TagInput, New: func() rendertree.Component { return &inputComponent{lib: l} }},
		{Tag: TagOverlay, ChildAttrs: []string{"content"}, New: func() rendertree.Component { return &overlayComponent{lib: l} }},
	}
	for _, ct := range types {
		if err := reg.Register(ct); err != nil {
			return fmt.Errorf("register %s: %w", ct.Tag, err)
		}
	}
	return nil
}

func (l *Library) normalize() {
	if l.Factory == nil {
		l.Factory = NullFactory{}
	}
	if l.Events == nil {
		l.Events = NoopSink{}
	}
	if l.Logger == nil {
		l.Logger = log.New(io.Discard)
	}
	if l.Theme.BorderRunes.Top == "" {
		l.Theme = DefaultTheme()
	}
}

func (l *Library) newElement(n *rendertree.Node) rendertree.Element {
	return l.Factory.NewElement(n)
}

// focused reports whether n's element currently owns keyboard focus.
func (l *Library) focused(n *rendertree.Node) bool {
	return l.Focus != nil && l.Focus.FocusedElement() == n.Element()
}

// grabFocus moves focus to n, if a focus owner is wired.
func (l *Library) grabFocus(n *rendertree.Node) {
	if l.Focus != nil {
		l.Focus.Focus(n.Element())
	}
}

// disabled reads the shared "disabled" attribute.
func disabled(n *rendertree.Node) bool {
	v, _ := n.State().Bool("disabled")
	return v
}

// =============================================================================
// Null Platform
// =============================================================================

// NullFactory creates elements that track connectedness and discard
// geometry. Tests and the headless snapshot tool run the full component set
// against it.
type NullFactory struct{}

func (NullFactory) NewElement(*rendertree.Node) rendertree.Element { return &nullElement{} }

type nullElement struct {
	detached bool
}

func (e *nullElement) SetHorizontal(float64, float64) {}
func (e *nullElement) SetVertical(float64, float64)   {}
func (e *nullElement) Detach()                        { e.detached = true }
func (e *nullElement) Connected() bool                { return !e.detached }

// NoopSink drops every event.
type NoopSink struct{}

func (NoopSink) SendEvent(protocol.Event) {}
