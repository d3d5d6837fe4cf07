package component

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// =============================================================================
// Text
// =============================================================================

// textComponent renders its "text" attribute. Natural width is the widest
// unwrapped line; natural height is the wrapped line count at the width the
// parent actually granted, which is why it can only be measured in the
// second half of a pass.
type textComponent struct {
	lib *Library
}

func (t *textComponent) content(n *rendertree.Node) string {
	s, _ := n.State().String("text")
	return s
}

func (t *textComponent) Mount(n *rendertree.Node) rendertree.Element { return t.lib.newElement(n) }
func (t *textComponent) Update(*rendertree.Node, protocol.Delta)     {}
func (t *textComponent) Unmount(*rendertree.Node)                    {}

func (t *textComponent) NaturalWidth(n *rendertree.Node) float64 {
	var widest int
	for _, line := range strings.Split(t.content(n), "\n") {
		widest = max(widest, runewidth.StringWidth(line))
	}
	return float64(widest)
}

func (t *textComponent) NaturalHeight(n *rendertree.Node) float64 {
	return float64(len(wrapText(t.content(n), int(n.AllocatedWidth))))
}

func (t *textComponent) AllocateWidth(*rendertree.Node)  {}
func (t *textComponent) AllocateHeight(*rendertree.Node) {}

func (t *textComponent) Paint(n *rendertree.Node, s Surface) {
	w, h := s.Bounds()
	for i, line := range wrapText(t.content(n), w) {
		if i >= h {
			break
		}
		s.WriteText(0, i, line, t.lib.Theme.Text)
	}
}

// =============================================================================
// Wrapping
// =============================================================================

// wrapText breaks s into display lines no wider than width cells. Explicit
// newlines are kept, words break on spaces, and a word wider than a whole
// line is cut mid-word. Width is measured in terminal cells, so wide runes
// count double. A non-positive width disables wrapping.
func wrapText(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapPara(para, width)...)
	}
	return lines
}

func wrapPara(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineW := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineW = 0
	}

	for _, word := range words {
		wordW := runewidth.StringWidth(word)
		if lineW > 0 && lineW+1+wordW > width {
			flush()
		}
		if wordW > width {
			for wordW > width {
				head, tail := splitAtWidth(word, width)
				lines = append(lines, head)
				word, wordW = tail, runewidth.StringWidth(tail)
			}
			if word == "" {
				continue
			}
		}
		if lineW > 0 {
			line.WriteByte(' ')
			lineW++
		}
		line.WriteString(word)
		lineW += wordW
	}
	if lineW > 0 {
		flush()
	}
	return lines
}

// splitAtWidth cuts s before the rune that would pass width cells, always
// keeping at least one rune in head so callers make progress. An overwide
// single rune therefore comes back whole; the renderer clips it.
func splitAtWidth(s string, width int) (head, tail string) {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if i > 0 && w+rw > width {
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}
