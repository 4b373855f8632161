package midi

import (
	"bytes"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Event types
const (
	NoteOn   uint8 = 0x90
	NoteOff  uint8 = 0x80
	CC       uint8 = 0xB0
	Template uint8 = 0xF0 // device switched template, Value holds the new one
)

// Novation sysex framing for the Launch Control XL (gomidi adds F0/F7)
var SysExHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x11}

const (
	SysExSetLED   = 0x78
	SysExTemplate = 0x77
)

// Event is one decoded message from the device
type Event struct {
	Type    uint8 // NoteOn, NoteOff, CC, Template
	Channel uint8 // template the control sent on
	Number  uint8 // note or controller number
	Value   uint8 // velocity, controller value or template
}

// Decode converts a raw message. A note-on with velocity 0 is a NoteOff.
// Messages the surface has no use for report false.
func Decode(msg gomidi.Message) (Event, bool) {
	var ch, num, val uint8
	var data []byte

	switch {
	case msg.GetNoteOn(&ch, &num, &val):
		if val == 0 {
			return Event{Type: NoteOff, Channel: ch, Number: num}, true
		}
		return Event{Type: NoteOn, Channel: ch, Number: num, Value: val}, true
	case msg.GetNoteOff(&ch, &num, &val):
		return Event{Type: NoteOff, Channel: ch, Number: num}, true
	case msg.GetControlChange(&ch, &num, &val):
		return Event{Type: CC, Channel: ch, Number: num, Value: val}, true
	case msg.GetSysEx(&data):
		// F0 00 20 29 02 11 77 <template> F7
		if len(data) == len(SysExHeader)+2 && bytes.HasPrefix(data, SysExHeader) &&
			data[len(SysExHeader)] == SysExTemplate && data[len(data)-1] <= 0x0F {
			t := data[len(data)-1]
			return Event{Type: Template, Channel: t, Value: t}, true
		}
	}
	return Event{}, false
}
