package scene

import "github.com/rio-labs/rioterm/pkg/protocol"

// Builtin returns the scenes every server ships with, used to seed stores
// and as live documentation of the component set.
func Builtin() []*Scene {
	return []*Scene{demoScene(), clockScene(), counterScene()}
}

// demoScene is a static tour of the built-in component set.
func demoScene() *Scene {
	return &Scene{
		Name:        "demo",
		Description: "Static tour of the built-in component set",
		Root:        1,
		Nodes: []NodeDef{
			{ID: 1, Type: "column", Attrs: map[string]any{
				"children": []protocol.NodeID{2, 3, 7},
				"spacing":  1,
			}},
			{ID: 2, Type: "box", Attrs: map[string]any{
				"child":   4,
				"border":  true,
				"padding": 1,
				"growX":   true,
			}},
			{ID: 3, Type: "row", Attrs: map[string]any{
				"children": []protocol.NodeID{5, 6},
				"spacing":  2,
			}},
			{ID: 4, Type: "text", Attrs: map[string]any{
				"text":  "rioterm renders server-driven UIs in your terminal. Resize the window to watch this paragraph re-wrap through the incremental layout engine.",
				"growX": true,
			}},
			{ID: 5, Type: "button", Attrs: map[string]any{
				"label": "Press me",
			}},
			{ID: 6, Type: "input", Attrs: map[string]any{
				"placeholder": "type here",
				"growX":       true,
			}},
			{ID: 7, Type: "spacer", Attrs: map[string]any{
				"growY": true,
			}},
		},
	}
}

// clockScene shows a second-resolution wall clock driven by the clock
// script.
func clockScene() *Scene {
	return &Scene{
		Name:        "clock",
		Description: "Wall clock updated by single-attribute deltas",
		Root:        1,
		Script:      "clock",
		Nodes: []NodeDef{
			{ID: 1, Type: "column", Attrs: map[string]any{
				"children": []protocol.NodeID{2, 3},
				"spacing":  1,
			}},
			{ID: 2, Type: "text", Attrs: map[string]any{
				"text": "Server time",
			}},
			{ID: 3, Type: "box", Attrs: map[string]any{
				"child":   4,
				"border":  true,
				"padding": 1,
			}},
			{ID: 4, Type: "text", Attrs: map[string]any{
				"text": "--:--:--",
				"role": "clock-face",
			}},
		},
	}
}

// counterScene shows the event round trip: button presses come back as
// state deltas.
func counterScene() *Scene {
	return &Scene{
		Name:        "counter",
		Description: "Button presses echoed back as state deltas",
		Root:        1,
		Script:      "counter",
		Nodes: []NodeDef{
			{ID: 1, Type: "column", Attrs: map[string]any{
				"children": []protocol.NodeID{2, 3},
				"spacing":  1,
			}},
			{ID: 2, Type: "text", Attrs: map[string]any{
				"text": "Count: 0",
				"role": "count",
			}},
			{ID: 3, Type: "row", Attrs: map[string]any{
				"children": []protocol.NodeID{4, 5},
				"spacing":  2,
			}},
			{ID: 4, Type: "button", Attrs: map[string]any{
				"label": "Increment",
				"role":  "increment",
			}},
			{ID: 5, Type: "button", Attrs: map[string]any{
				"label": "Reset",
				"role":  "reset",
			}},
		},
	}
}
