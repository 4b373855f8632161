package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestMirrorDecodesFeedback(t *testing.T) {
	m := NewMirror(NewRegistry())

	tests := []struct {
		name string
		msg  gomidi.Message
		id   ControlID
		want Color
	}{
		{"knob sysex", KnobLEDMessage(8, 10, GreenLow), SendB3, GreenLow},
		{"focus note", gomidi.NoteOn(8, 60, YellowFull.Wire()), Focus8, YellowFull},
		{"control note", gomidi.NoteOn(8, 89, RedFull.Wire()), Control5, RedFull},
		{"mode lit", gomidi.NoteOn(8, 107, 127), Solo, YellowFull},
		{"mode dark", gomidi.NoteOn(8, 107, 0), Solo, Off},
		{"select lit", gomidi.ControlChange(8, 106, 127), SelectLeft, RedFull},
		{"note off", gomidi.NoteOff(8, 60), Focus8, Off},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, m.Write(tt.msg))
			assert.Equal(t, tt.want, m.Color(tt.id))
		})
	}
	assert.Equal(t, uint8(8), m.Template())
}

func TestMirrorReset(t *testing.T) {
	m := NewMirror(NewRegistry())
	m.Write(gomidi.NoteOn(2, 41, AmberFull.Wire()))
	m.Write(KnobLEDMessage(2, 0, RedLow))
	assert.Len(t, m.Colors(), 2)

	select {
	case <-m.Updates():
	default:
		t.Fatal("expected an update signal")
	}

	m.Write(ResetMessage(2))
	assert.Empty(t, m.Colors())
}

func TestMirrorIgnoresOtherMessages(t *testing.T) {
	m := NewMirror(NewRegistry())

	m.Write(gomidi.NoteOn(0, 1, 127)) // no such control
	m.Write(TemplateMessage(4))
	m.Write(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x11, 0x78, 0x00, 0x60, 0x0F})) // no LED 96

	assert.Empty(t, m.Colors())
	select {
	case <-m.Updates():
		t.Fatal("unexpected update signal")
	default:
	}
}

func TestMultiWriter(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	fail := WriterFunc(func(gomidi.Message) error { return assert.AnError })

	w := MultiWriter(a, fail, b)
	err := w.Write(ResetMessage(0))

	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, a.msgs, 1)
	assert.Len(t, b.msgs, 1)
}
