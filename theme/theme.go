package theme

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"

	"vibeloop/catalog"
)

//go:embed palettes/vibe.gpl
var defaultPalette string

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Orbit
	Core         rune // ◎ mix core
	StemActive   rune // ● active stem
	StemInactive rune // ○ muted stem
	StemCursor   rune // ◉ selected stem

	// XY pad
	Puck rune // ◆
	Grid rune // ·

	// Stem kinds
	Kinds map[catalog.StemKind]rune
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Core:         '◎',
			StemActive:   '●',
			StemInactive: '○',
			StemCursor:   '◉',

			Puck: '◆',
			Grid: '·',

			Kinds: map[catalog.StemKind]rune{
				catalog.KindDrum:  'D',
				catalog.KindBass:  'B',
				catalog.KindSynth: 'S',
				catalog.KindVocal: 'V',
				catalog.KindFX:    'X',
			},
		},
	}
}

// Default uses the embedded night palette
func Default() *Theme {
	return New(MustParseGPL(defaultPalette))
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0   // near black navy
	RoleSurface = 0.125 // card and panel fill
	RoleMuted   = 0.25  // hints, inactive stems
	RoleAccent  = 0.375 // primary blue
	RoleActive  = 0.625 // purple, auto-mix
	RoleCursor  = 0.75  // fuchsia selection
	RoleFG      = 0.875 // body text
	RoleBright  = 1.0   // white
)

// Style helpers

func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Bright() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBright))
}

// RGB returns raw RGB for any normalized value (for the grid controller)
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

// LoopGradient returns the palette for a loop's colour token, falling back
// to the accent colour for tokens that do not parse
func (t *Theme) LoopGradient(loop catalog.Loop) *Palette {
	if p, err := ParseGradient(loop.Color); err == nil {
		return p
	}
	return &Palette{Name: "accent", Colors: []RGB{t.RGB(RoleAccent), t.RGB(RoleActive)}}
}

// LoopColor picks a colour along a loop's gradient
func (t *Theme) LoopColor(loop catalog.Loop, norm float64) lipgloss.Color {
	return rgbToLipgloss(t.LoopGradient(loop).Lookup(norm))
}

// KindSymbol is the glyph drawn for a stem kind
func (t *Theme) KindSymbol(k catalog.StemKind) rune {
	if r, ok := t.Symbols.Kinds[k]; ok {
		return r
	}
	return '?'
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
