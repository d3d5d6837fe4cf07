package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed includes geometry and non-structural state in node labels.
	// When false, only the id and type are shown.
	Detailed bool
}

// ToDOT converts a captured tree to Graphviz DOT. The resulting string can
// be rendered with [RenderSVG] or [RenderPNG], or fed to any DOT consumer.
func ToDOT(t *Tree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph rendertree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, root := range t.Roots {
		writeDOTNode(&buf, root, opts, i > 0)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *Node, opts DOTOptions, overlay bool) {
	attrs := []string{fmt.Sprintf("label=%q", dotLabel(n, opts.Detailed))}
	if overlay {
		// Overlay roots and their subtrees get a dashed outline.
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	fmt.Fprintf(buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))

	for _, child := range n.Children {
		fmt.Fprintf(buf, "  %d -> %d;\n", n.ID, child.ID)
		writeDOTNode(buf, child, opts, overlay)
	}
}

func dotLabel(n *Node, detailed bool) string {
	label := fmt.Sprintf("%d: %s", n.ID, n.Type)
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("nat %gx%g alloc %gx%g @ %g,%g",
		n.Geometry.NaturalWidth, n.Geometry.NaturalHeight,
		n.Geometry.AllocatedWidth, n.Geometry.AllocatedHeight,
		n.Geometry.AllocatedX, n.Geometry.AllocatedY)}
	for _, k := range slices.Sorted(maps.Keys(n.State)) {
		if structuralAttr(k) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.State[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// structuralAttr reports whether k is a child-reference attribute, which
// the edges already show.
func structuralAttr(k string) bool {
	switch k {
	case "children", "child", "content":
		return true
	}
	return false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
