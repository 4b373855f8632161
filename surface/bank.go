package surface

import (
	"math"

	"go-lcxl/debug"
	"go-lcxl/host"
)

// TrackMode selects what the track control buttons toggle
type TrackMode int

const (
	ModeMute TrackMode = iota
	ModeSolo
	ModeRecord
)

func (m TrackMode) String() string {
	switch m {
	case ModeMute:
		return "mute"
	case ModeSolo:
		return "solo"
	case ModeRecord:
		return "record"
	}
	return "unknown"
}

var modeButtons = []struct {
	id   ControlID
	mode TrackMode
}{
	{Mute, ModeMute},
	{Solo, ModeSolo},
	{Record, ModeRecord},
}

// host actions run by the mode buttons while Device is held
var modeActions = map[TrackMode]string{
	ModeMute:   "Editor/track-mute-toggle",
	ModeSolo:   "Editor/track-solo-toggle",
	ModeRecord: "Editor/track-record-enable-toggle",
}

// pickupWindow is one hardware step: closer than this the hardware value
// takes over immediately
const pickupWindow = 1.0 / 127

// Bank returns the offset of the first visible stripable
func (s *Surface) Bank() int { return s.bankStart }

func (s *Surface) TrackMode() TrackMode { return s.mode }

// Strip returns the stripable bound to column n, or nil
func (s *Surface) Strip(n int) host.Stripable {
	if n < 0 || n >= numColumns {
		return nil
	}
	return s.strips[n]
}

// step is how far Select Left/Right move the bank
func (s *Surface) step() int {
	if s.opts.Fader8Master {
		return numColumns - 1
	}
	return numColumns
}

// bankable returns the stripable at i if it may occupy a banked slot. With
// the master pinned to the last strip it never appears in the bank.
func (s *Surface) bankable(i int) host.Stripable {
	st := s.session.StripableAt(i)
	if st == nil {
		return nil
	}
	if s.opts.Fader8Master && st.IsMaster() {
		return nil
	}
	return st
}

// SwitchBank binds the strips to the stripables starting at offset. Offsets
// below zero clamp to zero; an offset past the last stripable keeps the
// current bank.
func (s *Surface) SwitchBank(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > 0 && s.bankable(offset) == nil {
		debug.Log("surface", "no stripable at %d, staying at bank %d", offset, s.bankStart)
		return
	}
	s.bind(offset)
}

func (s *Surface) bind(offset int) {
	s.bankStart = offset
	for n := 0; n < numColumns; n++ {
		if s.opts.Fader8Master && n == numColumns-1 {
			s.strips[n] = s.session.Master()
			continue
		}
		s.strips[n] = s.bankable(offset + n)
	}
	// hardware positions say nothing about the new strips
	s.lastHW = make(map[ControlID]float64)

	debug.Log("surface", "bank %d", offset)
	s.Refresh()
	s.notifyStatus()
}

// rebank re-binds after the stripable list changed, staying as close to
// the current bank as the new list allows
func (s *Surface) rebank() {
	offset := s.bankStart
	if last := s.session.StripableCount() - 1; offset > last {
		offset = last
	}
	for offset > 0 && s.bankable(offset) == nil {
		offset--
	}
	if offset < 0 {
		offset = 0
	}
	// banks start on page boundaries
	offset -= offset % s.step()
	s.bind(offset)
}

// SetTrackMode changes what the control buttons toggle
func (s *Surface) SetTrackMode(mode TrackMode) {
	s.mode = mode
	debug.Log("surface", "track mode %s", mode)

	for n := 0; n < numColumns; n++ {
		s.updateControlLED(n)
	}
	s.updateModeLEDs()
	s.notifyStatus()
}

func (s *Surface) buttonSelectLeft() {
	s.SwitchBank(s.bankStart - s.step())
}

func (s *Surface) buttonSelectRight() {
	s.SwitchBank(s.bankStart + s.step())
}

func (s *Surface) toggle(c host.Control) {
	v := 1.0
	if isOn(c) {
		v = 0
	}
	s.session.SetControl(c, v, host.UseGroup)
}

func (s *Surface) buttonTrackFocus(n int) {
	st := s.strips[n]
	if st == nil {
		return
	}

	if s.deviceHeld() {
		if iso := st.SoloIsolateControl(); iso != nil {
			s.toggle(iso)
		}
		return
	}

	if st.IsSelected() {
		s.session.RemoveFromSelection(st)
	} else {
		s.session.AddToSelection(st)
	}
}

func (s *Surface) modeControl(st host.Stripable) host.Control {
	switch s.mode {
	case ModeSolo:
		return st.SoloControl()
	case ModeRecord:
		return st.RecEnableControl()
	}
	return st.MuteControl()
}

func (s *Surface) buttonTrackControl(n int) {
	st := s.strips[n]
	if st == nil {
		return
	}

	if s.deviceHeld() {
		if st.IsMaster() {
			return
		}
		if send := st.MasterSendEnableControl(); send != nil {
			s.toggle(send)
		}
		return
	}

	if ctl := s.modeControl(st); ctl != nil {
		s.toggle(ctl)
	}
}

func (s *Surface) buttonMode(mode TrackMode) {
	if s.deviceHeld() {
		if err := s.session.AccessAction(modeActions[mode]); err != nil {
			debug.Log("surface", "%s: %v", modeActions[mode], err)
		}
		return
	}
	s.SetTrackMode(mode)
}

// KnobMoved handles a knob of the SendA (trim), SendB (pan width) or Pan
// (pan azimuth) row
func (s *Surface) KnobMoved(id ControlID, value uint8) {
	if !id.IsKnob() {
		debug.Log("surface", "knob move on %s", id)
		return
	}
	st := s.Strip(s.reg.Column(id))
	if st == nil {
		return
	}

	var ctl host.Control
	switch {
	case id <= SendA8:
		ctl = st.TrimControl()
	case id <= SendB8:
		ctl = st.PanWidthControl()
	default:
		ctl = st.PanAzimuthControl()
	}
	s.setFromHardware(id, ctl, value)
}

// FaderMoved drives the gain of the fader's strip
func (s *Surface) FaderMoved(id ControlID, value uint8) {
	if !id.IsFader() {
		debug.Log("surface", "fader move on %s", id)
		return
	}
	st := s.Strip(s.reg.Column(id))
	if st == nil {
		return
	}
	s.setFromHardware(id, st.GainControl(), value)
}

func (s *Surface) setFromHardware(id ControlID, ctl host.Control, value uint8) {
	if ctl == nil {
		return
	}
	v := float64(value) / 127
	if !s.pickUp(id, v, ctl.Value()) {
		debug.LogEvery(16, "surface", "%s at %.3f waiting for pick-up", id, v)
		return
	}
	s.session.SetControl(ctl, v, host.UseGroup)
}

// pickUp reports whether the hardware value v may drive a control at cur:
// it is within one step of it or crossed it since the previous message.
func (s *Surface) pickUp(id ControlID, v, cur float64) bool {
	prev, seen := s.lastHW[id]
	s.lastHW[id] = v

	if math.Abs(v-cur) < pickupWindow {
		return true
	}
	return seen && (prev-cur)*(v-cur) <= 0
}
