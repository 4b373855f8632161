package surface

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-lcxl/debug"
	"go-lcxl/host"
	"go-lcxl/midi"
)

// Color is a bi-color LED value: green level in the high nibble, red level
// in the low one, each 0-3.
type Color uint8

const (
	Off        Color = 0x00
	RedLow     Color = 0x01
	RedFull    Color = 0x03
	GreenLow   Color = 0x10
	GreenFull  Color = 0x30
	AmberLow   Color = 0x11
	AmberFull  Color = 0x33
	YellowLow  Color = 0x21
	YellowFull Color = 0x32
)

// ledFlags are the "normal" copy/clear bits the device expects on every
// color value
const ledFlags = 0x0C

var colorNames = map[Color]string{
	Off:        "Off",
	RedLow:     "RedLow",
	RedFull:    "RedFull",
	GreenLow:   "GreenLow",
	GreenFull:  "GreenFull",
	AmberLow:   "AmberLow",
	AmberFull:  "AmberFull",
	YellowLow:  "YellowLow",
	YellowFull: "YellowFull",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Color(r%d,g%d)", c.Red(), c.Green())
}

func (c Color) Red() uint8   { return uint8(c) & 0x03 }
func (c Color) Green() uint8 { return (uint8(c) >> 4) & 0x03 }

// Wire returns the color as sent to the device
func (c Color) Wire() uint8 { return uint8(c) | ledFlags }

// ColorFromWire strips the flag bits from a received color value
func ColorFromWire(v uint8) Color { return Color(v &^ ledFlags) }

// Writer accepts feedback messages for the device
type Writer interface {
	Write(msg gomidi.Message) error
}

// WriterFunc adapts a function, such as a gomidi send func, to Writer
type WriterFunc func(msg gomidi.Message) error

func (f WriterFunc) Write(msg gomidi.Message) error { return f(msg) }

// MultiWriter writes every message to all writers. All writers are tried;
// the first error is returned.
func MultiWriter(writers ...Writer) Writer {
	return multiWriter(writers)
}

type multiWriter []Writer

func (mw multiWriter) Write(msg gomidi.Message) error {
	var first error
	for _, w := range mw {
		if err := w.Write(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// value of a lit single-color button
const lit = 127

// KnobLEDMessage sets a knob LED by index on the given template
func KnobLEDMessage(template uint8, led int, c Color) gomidi.Message {
	data := append(append([]byte{}, midi.SysExHeader...), midi.SysExSetLED, template, uint8(led), c.Wire())
	return gomidi.SysEx(data)
}

// TemplateMessage selects a template when sent to the device. The device
// sends the same message when the template is changed on the hardware.
func TemplateMessage(template uint8) gomidi.Message {
	return gomidi.SysEx(append(append([]byte{}, midi.SysExHeader...), midi.SysExTemplate, template))
}

// ResetMessage turns every LED of the template off
func ResetMessage(template uint8) gomidi.Message {
	return gomidi.ControlChange(template, 0, 0)
}

// colorMessage addresses a track button by its note number
func colorMessage(template uint8, ctl *Control, c Color) gomidi.Message {
	return gomidi.NoteOn(template, ctl.Code.Number, c.Wire())
}

// litMessage drives the single-color side buttons
func litMessage(template uint8, ctl *Control, on bool) gomidi.Message {
	var v uint8
	if on {
		v = lit
	}
	if ctl.Code.Kind == KindCC {
		return gomidi.ControlChange(template, ctl.Code.Number, v)
	}
	return gomidi.NoteOn(template, ctl.Code.Number, v)
}

func (s *Surface) write(msg gomidi.Message) {
	if s.out == nil {
		return
	}
	// LED feedback is fail-soft
	if err := s.out.Write(msg); err != nil {
		debug.Log("surface", "write %s: %v", msg, err)
	}
}

func (s *Surface) control(id ControlID) *Control {
	c, ok := s.reg.ByID(id)
	if !ok {
		debug.Log("surface", "no control registered for %s", id)
		return nil
	}
	return c
}

func isOn(c host.Control) bool {
	return c != nil && c.Value() >= 0.5
}

func (s *Surface) focusColor(n int) Color {
	st := s.strips[n]
	switch {
	case st == nil:
		return Off
	case st.IsSelected():
		return YellowFull
	}
	return AmberLow
}

func (s *Surface) knobColor(n int) Color {
	st := s.strips[n]
	if st == nil {
		return Off
	}
	selected := st.IsSelected()
	pick := func(full, low Color) Color {
		if selected {
			return full
		}
		return low
	}

	switch (n + s.bankStart) % numColumns {
	case 0, 4:
		return pick(RedFull, RedLow)
	case 1, 5:
		return pick(YellowFull, YellowLow)
	case 2, 6:
		return pick(GreenFull, GreenLow)
	}
	if st.IsMaster() {
		return RedFull
	}
	return pick(AmberFull, AmberLow)
}

func (s *Surface) controlColor(n int) Color {
	st := s.strips[n]
	if st == nil {
		return Off
	}

	switch s.mode {
	case ModeSolo:
		ctl := st.SoloControl()
		if ctl == nil || st.IsMaster() {
			return Off
		}
		if isOn(ctl) {
			return GreenFull
		}
		return GreenLow
	case ModeRecord:
		ctl := st.RecEnableControl()
		if ctl == nil {
			return Off
		}
		if isOn(ctl) {
			return RedFull
		}
		return RedLow
	}
	if isOn(st.MuteControl()) {
		return YellowFull
	}
	return AmberLow
}

func (s *Surface) updateFocusLED(n int) {
	if b := s.control(s.reg.FocusButton(n)); b != nil {
		s.write(colorMessage(s.template, b, s.focusColor(n)))
	}
}

func (s *Surface) updateKnobLEDs(n int) {
	color := s.knobColor(n)
	for _, id := range s.reg.Knobs(n) {
		if k := s.control(id); k != nil && k.LED >= 0 {
			s.write(KnobLEDMessage(s.template, k.LED, color))
		}
	}
}

func (s *Surface) updateControlLED(n int) {
	if b := s.control(s.reg.ControlButton(n)); b != nil {
		s.write(colorMessage(s.template, b, s.controlColor(n)))
	}
}

func (s *Surface) updateModeLEDs() {
	for _, mb := range modeButtons {
		if b := s.control(mb.id); b != nil {
			s.write(litMessage(s.template, b, s.mode == mb.mode))
		}
	}
}

func (s *Surface) updateSelectLEDs() {
	if b := s.control(SelectLeft); b != nil {
		s.write(litMessage(s.template, b, s.bankStart > 0))
	}
	if b := s.control(SelectRight); b != nil {
		s.write(litMessage(s.template, b, s.bankable(s.bankStart+s.step()) != nil))
	}
}

func (s *Surface) updateStripLEDs(n int) {
	s.updateFocusLED(n)
	s.updateKnobLEDs(n)
	s.updateControlLED(n)
}

// Refresh rewrites every LED from the current state
func (s *Surface) Refresh() {
	for n := 0; n < numColumns; n++ {
		s.updateStripLEDs(n)
	}
	s.updateModeLEDs()
	s.updateSelectLEDs()
}
