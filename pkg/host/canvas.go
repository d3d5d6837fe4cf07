package host

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rio-labs/rioterm/pkg/component"
)

// canvas is the frame buffer a paint walk fills: one styled rune per cell.
// A wide rune owns its left cell and blanks its right one with a sentinel so
// the row join emits it exactly once.
type canvas struct {
	w, h   int
	runes  [][]rune
	styles [][]lipgloss.Style
}

// wideTail marks the second cell of a two-cell rune.
const wideTail rune = 0

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	c.runes = make([][]rune, h)
	c.styles = make([][]lipgloss.Style, h)
	for y := 0; y < h; y++ {
		c.runes[y] = make([]rune, w)
		c.styles[y] = make([]lipgloss.Style, w)
		for x := 0; x < w; x++ {
			c.runes[y][x] = ' '
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, style lipgloss.Style) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	rw := runewidth.RuneWidth(r)
	if rw == 2 && x == c.w-1 {
		// Half a wide rune does not fit; keep the cell blank.
		r, rw = ' ', 1
	}
	c.clearCell(x, y)
	if rw == 2 {
		c.clearCell(x+1, y)
	}
	c.runes[y][x] = r
	c.styles[y][x] = style
	if rw == 2 {
		c.runes[y][x+1] = wideTail
	}
}

// clearCell blanks the cell at x, detaching any wide rune covering it: a
// tail here blanks the head to its left, a head here blanks its tail. Never
// leaves an orphaned wideTail, which would shorten the row on render.
func (c *canvas) clearCell(x, y int) {
	if c.runes[y][x] == wideTail {
		if x > 0 {
			c.runes[y][x-1] = ' '
		}
	} else if x+1 < c.w && c.runes[y][x+1] == wideTail {
		c.runes[y][x+1] = ' '
	}
	c.runes[y][x] = ' '
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.w; x++ {
			r := c.runes[y][x]
			if r == wideTail {
				continue
			}
			b.WriteString(c.styles[y][x].Render(string(r)))
		}
	}
	return b.String()
}

// region returns a clipped surface mapping local coordinates to the canvas
// rectangle at (x, y). Fractional geometry snaps to whole cells here, at the
// last possible moment.
func (c *canvas) region(x, y, w, h float64) component.Surface {
	return &region{
		canvas: c,
		x:      snap(x),
		y:      snap(y),
		w:      snap(w),
		h:      snap(h),
	}
}

func snap(v float64) int { return int(math.Round(v)) }

type region struct {
	canvas     *canvas
	x, y, w, h int
}

func (r *region) Bounds() (int, int) { return r.w, r.h }

func (r *region) WriteText(x, y int, s string, style lipgloss.Style) {
	if y < 0 || y >= r.h {
		return
	}
	for _, ru := range s {
		rw := runewidth.RuneWidth(ru)
		if x >= r.w {
			return
		}
		if x >= 0 && x+rw <= r.w {
			r.canvas.set(r.x+x, r.y+y, ru, style)
		}
		x += rw
	}
}

func (r *region) Fill(ru rune, style lipgloss.Style) {
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			r.canvas.set(r.x+x, r.y+y, ru, style)
		}
	}
}
