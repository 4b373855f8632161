package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "plasma", p.Name)
	require.Len(t, p.Colors, 9)
	assert.Equal(t, RGB{13, 8, 135}, p.Lookup(0))
	assert.Equal(t, RGB{240, 249, 33}, p.Lookup(1))
	assert.Equal(t, p.Colors[4], p.Lookup(0.5))
}

func TestParseGPLSkipsJunk(t *testing.T) {
	p, err := ParseGPL(strings.NewReader("GIMP Palette\nName: x\n# c\n1 2 3 a\n300 0 0 bad\nfoo\n4 5 6\n"))
	require.NoError(t, err)
	assert.Equal(t, []RGB{{1, 2, 3}, {4, 5, 6}}, p.Colors)
	assert.Equal(t, RGB{2, 3, 4}, p.Lookup(0.5))
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n10 20 30\n"), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, RGB{10, 20, 30}, p.Lookup(0.3))

	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n"), 0644))
	_, err = LoadGPL(path)
	assert.Error(t, err)

	_, err = LoadGPL(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}

func TestLED(t *testing.T) {
	th := New(nil)
	assert.Equal(t, RGB{255, 0, 0}, LEDRGB(3, 0))
	assert.Equal(t, RGB{255, 255, 0}, LEDRGB(3, 3))
	assert.Equal(t, RGB{110, 0, 0}, LEDRGB(1, 0))
	assert.Equal(t, lipgloss.Color("#ff0000"), th.LED(3, 0))
	assert.Equal(t, th.Muted(), th.LED(0, 0))
}

func TestRoles(t *testing.T) {
	th := New(nil)
	assert.Equal(t, lipgloss.Color("#0d0887"), th.BG())
	assert.Equal(t, th.BG(), th.Color(0))
	assert.Equal(t, th.Success(), th.Color(1))
	assert.Equal(t, th.Accent(), th.Color(RoleAccent))
	assert.Equal(t, th.Color(0), th.Color(-1), "below range clamps")
}
