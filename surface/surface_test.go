package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-lcxl/host"
	"go-lcxl/midi"
	"go-lcxl/session"
)

func TestFocusNoteResolvesColumn(t *testing.T) {
	f := newFixture(t, 8, Options{})

	f.note(57, 127) // Focus 5
	f.note(57, 0)

	st := f.session.StripableAt(4)
	assert.True(t, st.IsSelected())
	assert.Equal(t, YellowFull, f.mirror.Color(Focus5))
	assert.Equal(t, AmberLow, f.mirror.Color(Focus4))

	f.tap(Focus5)
	assert.False(t, st.IsSelected())
	assert.Equal(t, AmberLow, f.mirror.Color(Focus5))
}

func TestStartLightsBank(t *testing.T) {
	f := newFixture(t, 1, Options{})

	// Audio 1, Drums, Reverb, Master
	require.Equal(t, "Audio 1", f.s.Strip(0).Name())
	assert.True(t, f.s.Strip(3).IsMaster())
	assert.Nil(t, f.s.Strip(4))

	assert.Equal(t, AmberLow, f.mirror.Color(Focus1))
	assert.Equal(t, Off, f.mirror.Color(Focus5))
	assert.Equal(t, AmberLow, f.mirror.Color(Control1))
	assert.Equal(t, Off, f.mirror.Color(Control5))
	assert.Equal(t, YellowFull, f.mirror.Color(Mute))
	assert.Equal(t, Off, f.mirror.Color(Solo))
	assert.Equal(t, Off, f.mirror.Color(SelectLeft))
	assert.Equal(t, Off, f.mirror.Color(SelectRight))

	require.NotEmpty(t, f.rec.msgs)
	first := f.rec.msgs[0]
	var ch, cc, val uint8
	require.True(t, first.GetControlChange(&ch, &cc, &val))
	assert.Equal(t, []uint8{testTemplate, 0, 0}, []uint8{ch, cc, val})
}

func TestKnobColors(t *testing.T) {
	f := newFixture(t, 5, Options{})

	tests := []struct {
		col  int
		want Color
	}{
		{0, RedLow},
		{1, YellowLow},
		{2, GreenLow},
		{3, AmberLow},
		{4, RedLow},
		{5, YellowLow},
		{6, GreenLow},
		{7, RedFull}, // master
	}
	for _, tt := range tests {
		for _, id := range f.s.Registry().Knobs(tt.col) {
			assert.Equal(t, tt.want, f.mirror.Color(id), "%s", id)
		}
	}

	f.tap(Focus2)
	assert.Equal(t, YellowFull, f.mirror.Color(SendA2))
	assert.Equal(t, YellowFull, f.mirror.Color(Pan2))
	f.tap(Focus4)
	assert.Equal(t, AmberFull, f.mirror.Color(SendB4))
}

func TestKnobColorsFollowBankPosition(t *testing.T) {
	f := newFixture(t, 20, Options{})

	f.tap(SelectRight)
	require.Equal(t, 8, f.s.Bank())
	assert.Equal(t, RedLow, f.mirror.Color(SendA1))
	assert.Equal(t, AmberLow, f.mirror.Color(SendA4))
}

func TestTrackControlModes(t *testing.T) {
	f := newFixture(t, 2, Options{})
	track := f.session.StripableAt(0)
	bus := f.session.StripableAt(2) // Drums

	f.tap(Control1)
	assert.Equal(t, 1.0, track.MuteControl().Value())
	assert.Equal(t, YellowFull, f.mirror.Color(Control1))
	f.tap(Control1)
	assert.Equal(t, 0.0, track.MuteControl().Value())
	assert.Equal(t, AmberLow, f.mirror.Color(Control1))

	f.tap(Solo)
	assert.Equal(t, ModeSolo, f.s.TrackMode())
	assert.Equal(t, GreenLow, f.mirror.Color(Control1))
	assert.Equal(t, Off, f.mirror.Color(Control5), "master has no solo LED")
	f.tap(Control2)
	assert.Equal(t, 1.0, f.session.StripableAt(1).SoloControl().Value())
	assert.Equal(t, GreenFull, f.mirror.Color(Control2))

	f.tap(Record)
	assert.Equal(t, RedLow, f.mirror.Color(Control1))
	assert.Equal(t, Off, f.mirror.Color(Control3), "bus cannot record")
	f.tap(Control3)
	assert.Nil(t, bus.RecEnableControl())
	f.tap(Control1)
	assert.Equal(t, 1.0, track.RecEnableControl().Value())
	assert.Equal(t, RedFull, f.mirror.Color(Control1))
}

func TestModeLEDsExactlyOne(t *testing.T) {
	f := newFixture(t, 1, Options{})

	for _, mb := range modeButtons {
		f.tap(mb.id)
		lit := 0
		for _, other := range modeButtons {
			if f.mirror.Color(other.id) != Off {
				lit++
			}
		}
		assert.Equal(t, 1, lit, "after %s", mb.id)
		assert.Equal(t, YellowFull, f.mirror.Color(mb.id))
		assert.Equal(t, mb.mode, f.s.TrackMode())
	}
}

func TestControlStateChangeFromHost(t *testing.T) {
	f := newFixture(t, 2, Options{})
	st := f.session.StripableAt(1)

	f.session.SetControl(st.MuteControl(), 1, host.NoGroup)
	assert.Equal(t, YellowFull, f.mirror.Color(Control2))

	f.session.AddToSelection(st)
	assert.Equal(t, YellowFull, f.mirror.Color(Focus2))
}

func TestDeviceModifiers(t *testing.T) {
	f := newFixture(t, 2, Options{})
	track := f.session.StripableAt(0)

	f.press(Device)
	assert.True(t, f.s.Status().DeviceHeld)

	f.tap(Focus1)
	assert.False(t, track.IsSelected())
	assert.Equal(t, 1.0, track.SoloIsolateControl().Value())

	f.tap(Control1)
	assert.Equal(t, 0.0, track.MasterSendEnableControl().Value())
	assert.Equal(t, 0.0, track.MuteControl().Value())

	f.tap(Control5) // master: no master send
	assert.Equal(t, 0.0, f.session.Master().MuteControl().Value())

	f.release(Device)
	assert.False(t, f.s.Status().DeviceHeld)

	f.tap(Focus1)
	assert.True(t, track.IsSelected())
	assert.Equal(t, 1.0, track.SoloIsolateControl().Value())
}

func TestDeviceModeButtonRunsAction(t *testing.T) {
	f := newFixture(t, 2, Options{})
	track := f.session.StripableAt(1)
	f.session.AddToSelection(track)

	f.press(Device)
	f.tap(Solo)
	f.release(Device)

	assert.Equal(t, ModeMute, f.s.TrackMode())
	assert.Equal(t, 1.0, track.SoloControl().Value())
	assert.Equal(t, YellowFull, f.mirror.Color(Mute))
}

func TestUnboundSlotsDoNothing(t *testing.T) {
	f := newFixture(t, 1, Options{})
	f.rec.reset()

	f.tap(Focus8)
	f.tap(Control8)
	f.cc(84, 100) // Fader 8
	f.cc(20, 100) // SendA 8

	assert.Empty(t, f.rec.msgs)
}

func TestSelectBanks(t *testing.T) {
	f := newFixture(t, 20, Options{}) // 20 tracks, 2 buses, master

	f.tap(SelectLeft)
	assert.Equal(t, 0, f.s.Bank())

	f.tap(SelectRight)
	assert.Equal(t, 8, f.s.Bank())
	assert.Equal(t, "Audio 9", f.s.Strip(0).Name())
	assert.Equal(t, RedFull, f.mirror.Color(SelectLeft))
	assert.Equal(t, RedFull, f.mirror.Color(SelectRight))

	f.tap(SelectRight)
	assert.Equal(t, 16, f.s.Bank())
	assert.Equal(t, "Drums", f.s.Strip(4).Name())
	assert.True(t, f.s.Strip(6).IsMaster())
	assert.Nil(t, f.s.Strip(7))
	assert.Equal(t, Off, f.mirror.Color(SelectRight))
	assert.Equal(t, Off, f.mirror.Color(Focus8))

	f.tap(SelectRight)
	assert.Equal(t, 16, f.s.Bank(), "no stripable past the end")

	f.tap(SelectLeft)
	f.tap(SelectLeft)
	f.tap(SelectLeft)
	assert.Equal(t, 0, f.s.Bank())
	assert.Equal(t, Off, f.mirror.Color(SelectLeft))
}

func TestSwitchBankClamps(t *testing.T) {
	f := newFixture(t, 20, Options{})

	f.s.SwitchBank(-5)
	assert.Equal(t, 0, f.s.Bank())

	f.s.SwitchBank(3)
	assert.Equal(t, 3, f.s.Bank())
	assert.Equal(t, "Audio 4", f.s.Strip(0).Name())

	f.s.SwitchBank(100)
	assert.Equal(t, 3, f.s.Bank())
}

func TestFader8Master(t *testing.T) {
	f := newFixture(t, 20, Options{Fader8Master: true})
	master := f.session.Master()

	assert.True(t, f.s.Strip(7).IsMaster())
	assert.Equal(t, "Audio 7", f.s.Strip(6).Name())

	f.tap(SelectRight)
	assert.Equal(t, 7, f.s.Bank())
	assert.Equal(t, "Audio 8", f.s.Strip(0).Name())
	assert.True(t, f.s.Strip(7).IsMaster())

	// bank 21 holds only Reverb; the master never shows in the bank
	f.s.SwitchBank(21)
	assert.Equal(t, "Reverb", f.s.Strip(0).Name())
	assert.Nil(t, f.s.Strip(1))
	f.s.SwitchBank(22)
	assert.Equal(t, 21, f.s.Bank())

	gain := master.GainControl()
	f.cc(84, 95) // within one step of 0.75
	assert.InDelta(t, 95.0/127, gain.Value(), 1e-9)
}

func TestSoftPickup(t *testing.T) {
	f := newFixture(t, 2, Options{})
	gain := f.session.StripableAt(0).GainControl()
	require.Equal(t, 0.75, gain.Value())

	f.cc(77, 0)
	assert.Equal(t, 0.75, gain.Value(), "far below, no takeover")
	f.cc(77, 40)
	assert.Equal(t, 0.75, gain.Value())

	f.cc(77, 127) // crossed 0.75
	assert.Equal(t, 1.0, gain.Value())
	f.cc(77, 64)
	assert.InDelta(t, 64.0/127, gain.Value(), 1e-9)

	// host moves the control away: the fader must catch it again
	f.session.SetControl(gain, 0.1, host.NoGroup)
	f.cc(77, 70)
	assert.Equal(t, 0.1, gain.Value())
	f.cc(77, 5)
	assert.InDelta(t, 5.0/127, gain.Value(), 1e-9)
}

func TestKnobRows(t *testing.T) {
	f := newFixture(t, 2, Options{})
	st := f.session.StripableAt(1)

	f.cc(14, 64) // SendA 2 -> trim, within a step of 0.5
	assert.InDelta(t, 64.0/127, st.TrimControl().Value(), 1e-9)

	f.cc(30, 127) // SendB 2 -> width, at 1
	assert.Equal(t, 1.0, st.PanWidthControl().Value())

	f.cc(50, 63) // Pan 2 -> azimuth
	assert.InDelta(t, 63.0/127, st.PanAzimuthControl().Value(), 1e-9)
}

func TestGroupedControlFromSurface(t *testing.T) {
	f := newFixture(t, 2, Options{})
	a := f.session.StripableAt(0)
	b := f.session.StripableAt(1)
	for _, st := range []host.Stripable{a, b} {
		f.session.SetGroup(st.(*session.Stripable), "drums")
	}

	f.tap(Control1)
	assert.Equal(t, 1.0, a.MuteControl().Value())
	assert.Equal(t, 1.0, b.MuteControl().Value())
	assert.Equal(t, YellowFull, f.mirror.Color(Control2))
}

func TestTemplateChange(t *testing.T) {
	f := newFixture(t, 2, Options{})

	f.s.Handle(midi.Event{Type: midi.Template, Channel: 3, Value: 3})
	assert.Equal(t, uint8(3), f.s.Template())
	assert.Equal(t, uint8(3), f.mirror.Template())

	// stale channel is ignored
	f.s.Handle(midi.Event{Type: midi.NoteOn, Channel: testTemplate, Number: 41, Value: 127})
	assert.False(t, f.session.StripableAt(0).IsSelected())

	f.rec.reset()
	f.tap(Focus1)
	assert.True(t, f.session.StripableAt(0).IsSelected())
	require.NotEmpty(t, f.rec.msgs)
	for _, msg := range f.rec.msgs {
		var ch, key, vel uint8
		if msg.GetNoteOn(&ch, &key, &vel) {
			assert.Equal(t, uint8(3), ch)
		}
	}

	f.s.SetTemplate(16)
	assert.Equal(t, uint8(3), f.s.Template())
}

func TestTemplateChangeForgetsHeldButtons(t *testing.T) {
	f := newFixture(t, 2, Options{})

	f.press(Device)
	f.s.SetTemplate(0)
	assert.False(t, f.s.Status().DeviceHeld)
}

func TestStripablesChangeRebanks(t *testing.T) {
	f := newFixture(t, 20, Options{})
	f.tap(SelectRight)
	f.tap(SelectRight)
	require.Equal(t, 16, f.s.Bank())

	for i := 0; i < 12; i++ {
		f.session.Remove(f.session.StripableAt(0).ID())
	}
	// 8 tracks, 2 buses, master: bank 16 no longer exists
	assert.Equal(t, 8, f.s.Bank())
	assert.Equal(t, "Drums", f.s.Strip(0).Name())
	assert.True(t, f.s.Strip(2).IsMaster())

	f.session.AddTrack("New")
	assert.Equal(t, 8, f.s.Bank())
	assert.Equal(t, "New", f.s.Strip(2).Name())
	assert.True(t, f.s.Strip(3).IsMaster())
}

func TestRebankSnapsToPage(t *testing.T) {
	f := newFixture(t, 16, Options{})
	f.tap(SelectRight)
	f.tap(SelectRight)
	require.Equal(t, 16, f.s.Bank())

	for i := 0; i < 14; i++ {
		f.session.Remove(f.session.StripableAt(0).ID())
	}
	// Audio 15, Audio 16, Drums, Reverb, master
	assert.Equal(t, 0, f.s.Bank())
	assert.Equal(t, "Audio 15", f.s.Strip(0).Name())
	assert.True(t, f.s.Strip(4).IsMaster())
	assert.Equal(t, Off, f.mirror.Color(SelectLeft))
}

func TestRebankSnapsToPageWithMasterPinned(t *testing.T) {
	f := newFixture(t, 20, Options{Fader8Master: true})
	f.tap(SelectRight)
	f.tap(SelectRight)
	require.Equal(t, 14, f.s.Bank())

	for i := 0; i < 10; i++ {
		f.session.Remove(f.session.StripableAt(0).ID())
	}
	// 10 tracks, 2 buses: pages start at 0 and 7
	assert.Equal(t, 7, f.s.Bank())
	assert.Equal(t, "Audio 18", f.s.Strip(0).Name())
	assert.True(t, f.s.Strip(7).IsMaster())
}

func TestKnobLEDMessage(t *testing.T) {
	msg := KnobLEDMessage(8, 17, GreenFull)
	var data []byte
	require.True(t, msg.GetSysEx(&data))
	assert.Equal(t, []byte{0x00, 0x20, 0x29, 0x02, 0x11, 0x78, 0x08, 0x11, 0x3C}, data)
}

func TestStopTurnsLEDsOff(t *testing.T) {
	f := newFixture(t, 2, Options{})
	require.NotEmpty(t, f.mirror.Colors())

	f.s.Stop()
	assert.Empty(t, f.mirror.Colors())

	// no longer subscribed
	f.rec.reset()
	f.session.AddToSelection(f.session.StripableAt(0))
	assert.Empty(t, f.rec.msgs)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, 2, Options{})
	require.NotEmpty(t, f.status)

	st := f.status[len(f.status)-1]
	assert.Equal(t, 0, st.Bank)
	assert.Equal(t, uint8(testTemplate), st.Template)
	assert.Equal(t, "Audio 1", st.Strips[0])
	assert.Equal(t, "", st.Strips[7])

	f.tap(Record)
	assert.Equal(t, ModeRecord, f.status[len(f.status)-1].Mode)
}

func TestWriteErrorsAreIgnored(t *testing.T) {
	fail := WriterFunc(func(gomidi.Message) error { return assert.AnError })
	s := New(nil, fail, &manualLoop{}, Options{})
	assert.NotPanics(t, func() { s.write(ResetMessage(0)) })
}
