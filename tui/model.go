package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-lcxl/midi"
	"go-lcxl/session"
	"go-lcxl/surface"
	"go-lcxl/theme"
	"go-lcxl/widgets"
)

const (
	colWidth    = 9
	faderHeight = 4
	refreshRate = 100 * time.Millisecond
)

type Model struct {
	Session *session.Session
	Surface *surface.Surface
	Loop    surface.Loop
	Mirror  *surface.Mirror
	Output  *midi.Output
	Theme   *theme.Theme

	statusCh <-chan surface.Status
	status   surface.Status
	strips   map[string]session.StripState
	held     bool // virtual Device button
	quitting bool
}

type StatusMsg surface.Status

type LEDMsg struct{}

type tickMsg time.Time

// NewModel creates the monitor. statusCh carries surface status changes;
// the caller feeds it from surface.Options.OnChange.
func NewModel(sess *session.Session, surf *surface.Surface, loop surface.Loop, mirror *surface.Mirror,
	out *midi.Output, th *theme.Theme, statusCh <-chan surface.Status) Model {
	return Model{
		Session:  sess,
		Surface:  surf,
		Loop:     loop,
		Mirror:   mirror,
		Output:   out,
		Theme:    th,
		statusCh: statusCh,
		strips:   snapshot(sess),
	}
}

func snapshot(sess *session.Session) map[string]session.StripState {
	strips := make(map[string]session.StripState)
	for _, st := range sess.Snapshot() {
		strips[st.ID] = st
	}
	return strips
}

func ListenForStatus(ch <-chan surface.Status) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg(<-ch)
	}
}

func ListenForLEDs(mirror *surface.Mirror) tea.Cmd {
	return func() tea.Msg {
		<-mirror.Updates()
		return LEDMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForStatus(m.statusCh),
		ListenForLEDs(m.Mirror),
		tick(),
	)
}

var controlKeys = map[string]int{"a": 0, "s": 1, "d": 2, "f": 3, "g": 4, "h": 5, "j": 6, "k": 7}

// tap runs a press and release on the surface loop
func (m Model) tap(id surface.ControlID) {
	surf := m.Surface
	m.Loop.Post(func() {
		surf.ButtonPressed(id)
		surf.ButtonReleased(id)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "1", "2", "3", "4", "5", "6", "7", "8":
			m.tap(surface.Focus1 + surface.ControlID(key[0]-'1'))

		case "a", "s", "d", "f", "g", "h", "j", "k":
			m.tap(surface.Control1 + surface.ControlID(controlKeys[key]))

		case "m":
			m.tap(surface.Mute)
		case "o":
			m.tap(surface.Solo)
		case "r":
			m.tap(surface.Record)

		case "left":
			m.tap(surface.SelectLeft)
		case "right":
			m.tap(surface.SelectRight)

		case "D":
			// Device is a modifier, so the key latches it
			m.held = !m.held
			surf, held := m.Surface, m.held
			m.Loop.Post(func() {
				if held {
					surf.ButtonPressed(surface.Device)
				} else {
					surf.ButtonReleased(surface.Device)
				}
			})
		}

	case StatusMsg:
		m.status = surface.Status(msg)
		return m, ListenForStatus(m.statusCh)

	case LEDMsg:
		return m, ListenForLEDs(m.Mirror)

	case tickMsg:
		m.strips = snapshot(m.Session)
		return m, tick()
	}

	return m, nil
}

func (m Model) led(id surface.ControlID, glyph rune) string {
	c := m.Mirror.Color(id)
	if c == surface.Off {
		return widgets.RenderLED(m.Theme.Symbols.Unlit, m.Theme.Muted())
	}
	return widgets.RenderLED(glyph, m.Theme.LED(c.Red(), c.Green()))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Background(m.Theme.BG()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	nameStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active()).Bold(true)

	device := warnStyle.Render("no device")
	if name := m.Output.Name(); name != "" {
		device = selStyle.Render(name)
	}
	held := ""
	if m.status.DeviceHeld {
		held = activeStyle.Render("  [DEVICE]")
	}
	header := headerStyle.Render(fmt.Sprintf("go-lcxl  template %d  strips %d-%d  %s",
		m.status.Template+1, m.status.Bank+1, m.status.Bank+8, strings.ToUpper(m.status.Mode.String()))) +
		held + "  " + device

	var names []string
	for n := 0; n < 8; n++ {
		name := m.status.Strips[n]
		st, ok := m.strips[m.status.IDs[n]]
		switch {
		case name == "":
			names = append(names, dimStyle.Render("-"))
		case ok && st.Selected:
			names = append(names, selStyle.Render(widgets.Truncate(name, colWidth-1)))
		default:
			names = append(names, nameStyle.Render(widgets.Truncate(name, colWidth-1)))
		}
	}

	knobRow := func(first surface.ControlID) string {
		var leds []string
		for n := 0; n < 8; n++ {
			leds = append(leds, m.led(first+surface.ControlID(n), m.Theme.Symbols.Knob))
		}
		return widgets.RenderLEDRow(leds, colWidth)
	}
	buttonRow := func(first surface.ControlID) string {
		var leds []string
		for n := 0; n < 8; n++ {
			leds = append(leds, m.led(first+surface.ControlID(n), m.Theme.Symbols.Button))
		}
		return widgets.RenderLEDRow(leds, colWidth)
	}

	faders := make([][]string, 8)
	for n := 0; n < 8; n++ {
		gain := 0.0
		if st, ok := m.strips[m.status.IDs[n]]; ok {
			gain = st.Gain
		}
		// level picks its color along the palette
		faders[n] = widgets.RenderFader(gain, faderHeight, m.Theme.Symbols.FaderFill, m.Theme.Symbols.FaderEmpty, m.Theme.Color(gain))
	}
	var faderLines []string
	for row := 0; row < faderHeight; row++ {
		var cells []string
		for n := 0; n < 8; n++ {
			cells = append(cells, faders[n][row])
		}
		faderLines = append(faderLines, widgets.RenderLEDRow(cells, colWidth))
	}

	side := fmt.Sprintf("%s dev  %s mute  %s solo  %s rec    %s %s bank",
		m.led(surface.Device, m.Theme.Symbols.Button),
		m.led(surface.Mute, m.Theme.Symbols.Button),
		m.led(surface.Solo, m.Theme.Symbols.Button),
		m.led(surface.Record, m.Theme.Symbols.Button),
		m.led(surface.SelectLeft, '◀'),
		m.led(surface.SelectRight, '▶'),
	)

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "1-8", Desc: "focus (select)"},
			{Key: "a-k", Desc: "track control"},
			{Key: "m/o/r", Desc: "mute/solo/record mode"},
			{Key: "←/→", Desc: "bank"},
			{Key: "D", Desc: "hold Device"},
			{Key: "q", Desc: "quit"},
		}},
	}))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLEDRow(names, colWidth))
	out.WriteString("\n")
	out.WriteString(knobRow(surface.SendA1))
	out.WriteString("\n")
	out.WriteString(knobRow(surface.SendB1))
	out.WriteString("\n")
	out.WriteString(knobRow(surface.Pan1))
	out.WriteString("\n")
	out.WriteString(strings.Join(faderLines, "\n"))
	out.WriteString("\n")
	out.WriteString(buttonRow(surface.Focus1))
	out.WriteString("\n")
	out.WriteString(buttonRow(surface.Control1))
	out.WriteString("\n\n")
	out.WriteString(side)
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}
