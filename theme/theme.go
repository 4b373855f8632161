package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Button rune // ■ track and side buttons
	Knob   rune // ● knob LED
	Unlit  rune // □ dark LED or unbound strip

	FaderFill  rune // █ fader level
	FaderEmpty rune // ░ fader track
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Button: '■',
			Knob:   '●',
			Unlit:  '□',

			FaderFill:  '█',
			FaderEmpty: '░',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
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

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// LEDRGB approximates a bi-color LED from its red and green levels (0-3).
// Both at once read as amber or yellow, as on the hardware.
func LEDRGB(red, green uint8) RGB {
	level := func(v uint8) uint8 {
		if v > 3 {
			v = 3
		}
		return []uint8{0, 110, 180, 255}[v]
	}
	return RGB{level(red), level(green), 0}
}

// LED returns the lipgloss color of an LED, or the muted role when dark
func (t *Theme) LED(red, green uint8) lipgloss.Color {
	if red == 0 && green == 0 {
		return t.Muted()
	}
	return rgbToLipgloss(LEDRGB(red, green))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
