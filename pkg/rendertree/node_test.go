package rendertree

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

func TestMarkDirtyClimbsToRoot(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "box", "child": 2.0},
		2: {"typeTag": "box", "child": 3.0},
		3: {"typeTag": "text"},
	}))
	clearDirtyForTest(g)

	g.Node(3).MarkDirty()

	for _, id := range []NodeID{1, 2, 3} {
		if !g.Node(id).LayoutDirty {
			t.Errorf("node %d clean, want dirty", id)
		}
	}
}

func TestChildOrderAcrossAttrs(t *testing.T) {
	g, _ := newTestGraph(t)
	// A type with two child attributes keeps declaration order: all of
	// "header", then all of "body".
	g.reg.MustRegister(ComponentType{
		Tag:        "pane",
		ChildAttrs: []string{"header", "body"},
		New:        func() Component { return &fakeComponent{} },
	})

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "pane", "body": []any{3.0, 4.0}, "header": 2.0},
		2: {"typeTag": "text"},
		3: {"typeTag": "text"},
		4: {"typeTag": "text"},
	}))

	var got []NodeID
	for _, c := range g.Root().Children() {
		got = append(got, c.ID())
	}
	if diff := cmp.Diff([]NodeID{2, 3, 4}, got); diff != "" {
		t.Errorf("child order mismatch (-want +got):\n%s", diff)
	}
}

func TestExplicitSizeAccessors(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text", "width": 12.0, "growX": true},
	}))

	n := g.Node(1)
	if w, ok := n.ExplicitWidth(); !ok || w != 12 {
		t.Errorf("ExplicitWidth = %v, %v; want 12, true", w, ok)
	}
	if _, ok := n.ExplicitHeight(); ok {
		t.Error("ExplicitHeight = true, want unset")
	}
	if !n.GrowX() || n.GrowY() {
		t.Errorf("grow = %v/%v, want true/false", n.GrowX(), n.GrowY())
	}
}

func TestRelayoutRequestQueue(t *testing.T) {
	g, _ := newTestGraph(t)

	mustApply(t, g, rootedBatch(1, map[protocol.NodeID]protocol.Delta{
		1: {"typeTag": "text"},
	}))

	fired := 0
	g.Node(1).RequestRelayout(func() { fired++ })
	g.Node(1).RequestRelayout(func() { fired++ })

	reqs := g.TakeRelayoutRequests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	if fired != 0 {
		t.Fatal("requests ran eagerly, want deferred")
	}
	for _, fn := range reqs {
		fn()
	}
	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
	if len(g.TakeRelayoutRequests()) != 0 {
		t.Error("queue not drained by Take")
	}
}
