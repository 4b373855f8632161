package surface

import (
	"bytes"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-lcxl/midi"
)

// litColors is how the single-color side buttons show when lit
var litColors = map[ControlID]Color{
	Device:      YellowFull,
	Mute:        YellowFull,
	Solo:        YellowFull,
	Record:      YellowFull,
	SelectUp:    RedFull,
	SelectDown:  RedFull,
	SelectLeft:  RedFull,
	SelectRight: RedFull,
}

// Mirror is a Writer that keeps a copy of the LED state by decoding the
// feedback messages written to it. Safe for concurrent use.
type Mirror struct {
	reg *Registry

	mu       sync.RWMutex
	template uint8
	colors   map[ControlID]Color
	updates  chan struct{}
}

func NewMirror(reg *Registry) *Mirror {
	return &Mirror{
		reg:     reg,
		colors:  make(map[ControlID]Color),
		updates: make(chan struct{}, 1),
	}
}

// Updates signals (coalesced) that the LED state changed
func (m *Mirror) Updates() <-chan struct{} {
	return m.updates
}

// Color returns the mirrored LED color of id
func (m *Mirror) Color(id ControlID) Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.colors[id]
}

// Colors returns a copy of every lit LED
func (m *Mirror) Colors() map[ControlID]Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[ControlID]Color, len(m.colors))
	for id, c := range m.colors {
		out[id] = c
	}
	return out
}

// Template returns the template of the last message mirrored
func (m *Mirror) Template() uint8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.template
}

// Write decodes msg. Messages that are not LED feedback are ignored.
func (m *Mirror) Write(msg gomidi.Message) error {
	var ch, key, val uint8
	var data []byte

	m.mu.Lock()
	changed := false
	switch {
	case msg.GetSysEx(&data):
		changed = m.sysex(data)
	case msg.GetNoteOn(&ch, &key, &val):
		changed = m.set(ch, Code{Kind: KindNote, Number: key}, val)
	case msg.GetNoteOff(&ch, &key, &val):
		changed = m.set(ch, Code{Kind: KindNote, Number: key}, 0)
	case msg.GetControlChange(&ch, &key, &val):
		if key == 0 && val == 0 {
			m.template = ch
			m.colors = make(map[ControlID]Color)
			changed = true
		} else {
			changed = m.set(ch, Code{Kind: KindCC, Number: key}, val)
		}
	}
	m.mu.Unlock()

	if changed {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	}
	return nil
}

func (m *Mirror) sysex(data []byte) bool {
	if !bytes.HasPrefix(data, midi.SysExHeader) || len(data) != len(midi.SysExHeader)+4 {
		return false
	}
	body := data[len(midi.SysExHeader):]
	if body[0] != midi.SysExSetLED {
		return false
	}
	m.template = body[1]
	for _, c := range m.reg.table {
		if c.LED == int(body[2]) {
			m.store(c.ID, ColorFromWire(body[3]))
			return true
		}
	}
	return false
}

func (m *Mirror) set(ch uint8, code Code, val uint8) bool {
	c, ok := m.reg.ByCode(code)
	if !ok {
		return false
	}
	m.template = ch

	if lc, single := litColors[c.ID]; single {
		if val > 0 {
			m.store(c.ID, lc)
		} else {
			m.store(c.ID, Off)
		}
		return true
	}
	m.store(c.ID, ColorFromWire(val))
	return true
}

func (m *Mirror) store(id ControlID, c Color) {
	if c == Off {
		delete(m.colors, id)
		return
	}
	m.colors[id] = c
}
