package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderLED renders a single LED glyph in the given color
func RenderLED(glyph rune, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(glyph))
}

// RenderLEDRow renders a row of LEDs, each padded to width cells
func RenderLEDRow(leds []string, width int) string {
	var out strings.Builder
	for _, led := range leds {
		out.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, led))
	}
	return out.String()
}

// RenderFader renders a vertical fader of height rows for a 0-1 value
func RenderFader(value float64, height int, fill, empty rune, color lipgloss.Color) []string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value*float64(height) + 0.5)

	style := lipgloss.NewStyle().Foreground(color)
	rows := make([]string, height)
	for i := 0; i < height; i++ {
		// row 0 is the top
		if height-i <= filled {
			rows[i] = style.Render(string(fill))
		} else {
			rows[i] = string(empty)
		}
	}
	return rows
}

// Truncate shortens s to width cells, marking the cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
