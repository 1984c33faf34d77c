package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vibeloop/widgets"
)

// margin is the left gutter of every line
const margin = 2

// frame stacks rendered blocks top to bottom and records where the
// clickable parts landed, in screen cells
type frame struct {
	lines []string
	hits  *widgets.Hits
}

func newFrame(hits *widgets.Hits) *frame {
	hits.Reset()
	return &frame{hits: hits}
}

// add appends a block and returns the screen row of its first line
func (f *frame) add(block string) int {
	top := len(f.lines)
	f.lines = append(f.lines, strings.Split(block, "\n")...)
	return top
}

func (f *frame) blank() {
	f.lines = append(f.lines, "")
}

// region registers a clickable area; x is relative to the gutter
func (f *frame) region(id string, x, y, w, h int) {
	f.hits.Add(widgets.Region{ID: id, X: margin + x, Y: y, W: w, H: h})
}

// button is one clickable label in a row
type button struct {
	id    string
	label string
}

// buttons lays labels out left to right on one line
func (f *frame) buttons(gap int, items ...button) {
	y := len(f.lines)
	x := 0
	var parts []string
	for _, b := range items {
		w := lipgloss.Width(b.label)
		if b.id != "" {
			f.region(b.id, x, y, w, 1)
		}
		parts = append(parts, b.label)
		x += w + gap
	}
	f.lines = append(f.lines, strings.Join(parts, strings.Repeat(" ", gap)))
}

func (f *frame) String() string {
	pad := strings.Repeat(" ", margin)
	var out strings.Builder
	for i, line := range f.lines {
		if i > 0 {
			out.WriteString("\n")
		}
		if line != "" {
			out.WriteString(pad)
			out.WriteString(line)
		}
	}
	return out.String()
}
