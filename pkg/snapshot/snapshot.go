// Package snapshot exports a render graph for offline inspection: a JSON
// tree, Graphviz DOT, or a rendered SVG/PNG of the graph structure.
//
// The walker uses the registry's child-attribute data through
// [rendertree.Node.Children], so it works for any component set, live or
// headless. [FromRecording] rebuilds a graph by replaying a recorded batch
// stream against the built-in set with null elements, which is how the
// snapshot command debugs server sessions without a terminal.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/rio-labs/rioterm/pkg/component"
	"github.com/rio-labs/rioterm/pkg/layout"
	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/recorder"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// Node is one exported graph node.
type Node struct {
	ID       protocol.NodeID `json:"id"`
	Type     string          `json:"type"`
	State    map[string]any  `json:"state,omitempty"`
	Geometry Geometry        `json:"geometry"`
	Children []*Node         `json:"children,omitempty"`
}

// Geometry is the exported slice of a node's layout fields.
type Geometry struct {
	NaturalWidth    float64 `json:"naturalWidth"`
	NaturalHeight   float64 `json:"naturalHeight"`
	RequestedWidth  float64 `json:"requestedWidth"`
	RequestedHeight float64 `json:"requestedHeight"`
	AllocatedWidth  float64 `json:"allocatedWidth"`
	AllocatedHeight float64 `json:"allocatedHeight"`
	AllocatedX      float64 `json:"allocatedX"`
	AllocatedY      float64 `json:"allocatedY"`
}

// Tree is a captured graph: the main root first, then any overlay roots.
type Tree struct {
	Roots []*Node `json:"roots"`
}

// Capture walks g and returns its exported form. State maps are copied;
// the capture does not alias live graph data.
func Capture(g *rendertree.Graph) *Tree {
	t := &Tree{}
	for _, root := range g.Roots() {
		t.Roots = append(t.Roots, captureNode(root))
	}
	return t
}

func captureNode(n *rendertree.Node) *Node {
	out := &Node{
		ID:    n.ID(),
		Type:  n.TypeTag(),
		State: make(map[string]any, len(n.State())),
		Geometry: Geometry{
			NaturalWidth:    n.NaturalWidth,
			NaturalHeight:   n.NaturalHeight,
			RequestedWidth:  n.RequestedWidth,
			RequestedHeight: n.RequestedHeight,
			AllocatedWidth:  n.AllocatedWidth,
			AllocatedHeight: n.AllocatedHeight,
			AllocatedX:      n.AllocatedX,
			AllocatedY:      n.AllocatedY,
		},
	}
	for k, v := range n.State() {
		out.State[k] = v
	}
	for _, child := range n.Children() {
		out.Children = append(out.Children, captureNode(child))
	}
	return out
}

// JSON encodes the tree with indentation for human reading.
func (t *Tree) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Len returns the number of captured nodes.
func (t *Tree) Len() int {
	n := 0
	var count func(*Node)
	count = func(nd *Node) {
		n++
		for _, c := range nd.Children {
			count(c)
		}
	}
	for _, root := range t.Roots {
		count(root)
	}
	return n
}

// =============================================================================
// Headless Replay
// =============================================================================

// FromRecording rebuilds the graph a recording describes: every frame is
// applied in order against the built-in component set with null elements,
// then layout settles at the given viewport. Rejected frames abort, since a
// recording that trips the protocol's fatal path is exactly what this tool
// exists to expose.
func FromRecording(path string, vp layout.Viewport, logger *log.Logger) (*rendertree.Graph, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r, err := recorder.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	lib := &component.Library{Logger: logger}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}
	graph := rendertree.NewGraph(reg, rendertree.WithLogger(logger))
	sched := layout.NewScheduler(
		layout.NewEngine(graph, layout.WithLogger(logger)),
		layout.WithSchedulerLogger(logger),
	)
	sched.SetViewport(vp)

	err = r.Frames(func(f recorder.Frame) error {
		if err := graph.ApplyBatch(f.Batch); err != nil {
			return fmt.Errorf("frame %d: %w", f.Seq, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sched.NeedsPass() {
		sched.Settle()
	}
	return graph, nil
}
