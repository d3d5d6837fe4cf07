package scene

import (
	"fmt"
	"sort"
	"time"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

// Script drives one session's scene after the initial batch. A script is
// owned by a single session and is never called concurrently; the server
// serializes ticks and events per session.
type Script interface {
	// TickInterval is the spacing between Tick calls. Zero disables the
	// timer entirely.
	TickInterval() time.Duration

	// Tick produces the next periodic batch. ok reports whether there is
	// one; an empty batch with ok=false is simply skipped.
	Tick(now time.Time) (batch protocol.UpdateBatch, ok bool)

	// HandleEvent reacts to a client event, optionally producing a batch.
	HandleEvent(ev protocol.Event) (batch protocol.UpdateBatch, ok bool)
}

// scriptFactories maps the Script field of a scene definition to a
// constructor. The scene is the script's starting state.
var scriptFactories = map[string]func(*Scene) Script{
	"clock":   func(s *Scene) Script { return newClockScript(s) },
	"counter": func(s *Scene) Script { return newCounterScript(s) },
}

// NewScript instantiates the script named by s.Script. Static scenes (empty
// script name) get a nil script. An unknown script name is a library bug.
func NewScript(s *Scene) (Script, error) {
	if s.Script == "" {
		return nil, nil
	}
	factory, ok := scriptFactories[s.Script]
	if !ok {
		return nil, fmt.Errorf("scene %s: unknown script %q", s.Name, s.Script)
	}
	return factory(s), nil
}

// ScriptNames returns the names of all registered scripts, sorted.
func ScriptNames() []string {
	names := make([]string, 0, len(scriptFactories))
	for name := range scriptFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// delta builds a single-node batch, the common case for scripted updates.
func delta(id protocol.NodeID, attrs protocol.Delta) protocol.UpdateBatch {
	return protocol.UpdateBatch{
		Deltas: map[protocol.NodeID]protocol.Delta{id: attrs},
	}
}

// =============================================================================
// Clock
// =============================================================================

// clockScript updates one text node with the wall time every second. The
// target node is the scene node whose attrs carry role: "clock-face".
type clockScript struct {
	face protocol.NodeID
}

func newClockScript(s *Scene) *clockScript {
	c := &clockScript{}
	for _, nd := range s.Nodes {
		if role, _ := nd.Attrs["role"].(string); role == "clock-face" {
			c.face = nd.ID
			break
		}
	}
	return c
}

func (c *clockScript) TickInterval() time.Duration { return time.Second }

func (c *clockScript) Tick(now time.Time) (protocol.UpdateBatch, bool) {
	if c.face == 0 {
		return protocol.UpdateBatch{}, false
	}
	return delta(c.face, protocol.Delta{"text": now.Format("15:04:05")}), true
}

func (c *clockScript) HandleEvent(protocol.Event) (protocol.UpdateBatch, bool) {
	return protocol.UpdateBatch{}, false
}

// =============================================================================
// Counter
// =============================================================================

// counterScript increments a displayed count on every button press and
// resets it on a reset press. Targets are found by role attrs: "count" for
// the text node, "increment" and "reset" for the buttons.
type counterScript struct {
	display   protocol.NodeID
	increment protocol.NodeID
	reset     protocol.NodeID
	count     int
}

func newCounterScript(s *Scene) *counterScript {
	c := &counterScript{}
	for _, nd := range s.Nodes {
		switch role, _ := nd.Attrs["role"].(string); role {
		case "count":
			c.display = nd.ID
		case "increment":
			c.increment = nd.ID
		case "reset":
			c.reset = nd.ID
		}
	}
	return c
}

func (c *counterScript) TickInterval() time.Duration { return 0 }

func (c *counterScript) Tick(time.Time) (protocol.UpdateBatch, bool) {
	return protocol.UpdateBatch{}, false
}

func (c *counterScript) HandleEvent(ev protocol.Event) (protocol.UpdateBatch, bool) {
	if ev.Type != protocol.EventPress || c.display == 0 {
		return protocol.UpdateBatch{}, false
	}
	switch ev.Node {
	case c.increment:
		c.count++
	case c.reset:
		c.count = 0
	default:
		return protocol.UpdateBatch{}, false
	}
	return delta(c.display, protocol.Delta{"text": fmt.Sprintf("Count: %d", c.count)}), true
}
