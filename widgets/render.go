package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSwatch renders a single colored block
func RenderSwatch(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderGradient renders width cells sweeping through colorAt(0..1)
func RenderGradient(width int, colorAt func(norm float64) [3]uint8) string {
	var out strings.Builder
	for i := 0; i < width; i++ {
		norm := 0.0
		if width > 1 {
			norm = float64(i) / float64(width-1)
		}
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(colorAt(norm)))).Render("▀"))
	}
	return out.String()
}

// RenderMeter draws a horizontal bar of width cells for value in [lo, hi]
func RenderMeter(value, lo, hi, width int, fill, empty lipgloss.Style) string {
	if width <= 0 || hi <= lo {
		return ""
	}
	filled := MeterFill(value, lo, hi, width)
	return fill.Render(strings.Repeat("━", filled)) + empty.Render(strings.Repeat("─", width-filled))
}

// MeterFill is the number of filled cells RenderMeter draws for value
func MeterFill(value, lo, hi, width int) int {
	value = max(lo, min(hi, value))
	return int(math.Round(float64(value-lo) / float64(hi-lo) * float64(width)))
}

// MeterValue maps a click at column col (0-based) of a width-cell meter back
// to a value in [lo, hi]
func MeterValue(col, width, lo, hi int) int {
	if width <= 1 {
		return lo
	}
	col = max(0, min(width-1, col))
	return lo + int(math.Round(float64(col)/float64(width-1)*float64(hi-lo)))
}

// RenderBadge renders a small count bubble, or nothing for zero
func RenderBadge(count int, style lipgloss.Style) string {
	if count <= 0 {
		return ""
	}
	return style.Render(fmt.Sprintf(" %d ", count))
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
