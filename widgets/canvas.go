package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r     rune
	style lipgloss.Style
	set   bool
}

// Canvas is a fixed grid of styled runes for free-form drawing
type Canvas struct {
	w, h  int
	cells [][]cell
}

// NewCanvas creates a blank w x h canvas
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{w: max(0, w), h: max(0, h)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.w)
	}
	return c
}

// Set draws r at (x, y); out-of-bounds writes are dropped
func (c *Canvas) Set(x, y int, r rune, style lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: style, set: true}
}

// Text writes s left to right from (x, y), clipped at the edge
func (c *Canvas) Text(x, y int, s string, style lipgloss.Style) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, style)
	}
}

// TextCentered writes s centred on column cx
func (c *Canvas) TextCentered(cx, y int, s string, style lipgloss.Style) {
	c.Text(cx-len([]rune(s))/2, y, s, style)
}

// String renders the canvas, one line per row
func (c *Canvas) String() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var line strings.Builder
		for _, cl := range row {
			if !cl.set {
				line.WriteByte(' ')
				continue
			}
			line.WriteString(cl.style.Render(string(cl.r)))
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
