package surface

import (
	"time"

	"go-lcxl/debug"
)

// DefaultLongPress is how long a button must be held to trigger its
// long-press action
const DefaultLongPress = 500 * time.Millisecond

// button holds the actions of one button. Nil actions do nothing.
type button struct {
	press     func()
	release   func()
	longPress func()
}

func (s *Surface) buildButtons() {
	s.buttons = make(map[ControlID]*button, numControls)

	for n := 0; n < numColumns; n++ {
		col := n
		s.buttons[s.reg.FocusButton(col)] = &button{press: func() { s.buttonTrackFocus(col) }}
		s.buttons[s.reg.ControlButton(col)] = &button{press: func() { s.buttonTrackControl(col) }}
	}

	s.buttons[Device] = &button{
		press:     func() {},
		release:   s.buttonDevice,
		longPress: s.buttonDeviceLongPress,
	}
	for _, mb := range modeButtons {
		mode := mb.mode
		s.buttons[mb.id] = &button{press: func() { s.buttonMode(mode) }}
	}

	s.buttons[SelectUp] = &button{}
	s.buttons[SelectDown] = &button{}
	s.buttons[SelectLeft] = &button{press: s.buttonSelectLeft}
	s.buttons[SelectRight] = &button{press: s.buttonSelectRight}
}

// Device is a modifier: the held state is what other buttons look at
func (s *Surface) buttonDevice() {}

func (s *Surface) buttonDeviceLongPress() {}

func (s *Surface) deviceHeld() bool {
	return s.down[Device]
}

// ButtonPressed runs the press action of id and arms its long-press timer.
// Any other held button loses its pending long-press.
func (s *Surface) ButtonPressed(id ControlID) {
	b, ok := s.buttons[id]
	if !ok {
		debug.Log("surface", "press on %s: not a button", id)
		return
	}

	for other, t := range s.timers {
		if other != id {
			t.Stop()
			delete(s.timers, other)
		}
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}

	s.down[id] = true
	var t Timer
	t = s.loop.AfterFunc(s.opts.LongPressDelay, func() {
		// a later press of the same button replaces the timer
		if s.timers[id] == t {
			s.longPressTimeout(id)
		}
	})
	s.timers[id] = t

	debug.Log("surface", "press %s", id)
	if b.press != nil {
		b.press()
	}
	if id == Device {
		s.notifyStatus()
	}
}

func (s *Surface) longPressTimeout(id ControlID) {
	delete(s.timers, id)
	if !s.down[id] {
		return
	}

	debug.Log("surface", "long press %s", id)
	if b := s.buttons[id]; b != nil && b.longPress != nil {
		b.longPress()
	}
	s.consumed[id] = true
}

// ButtonReleased runs the release action of id unless a long-press already
// consumed it
func (s *Surface) ButtonReleased(id ControlID) {
	b, ok := s.buttons[id]
	if !ok {
		debug.Log("surface", "release on %s: not a button", id)
		return
	}

	delete(s.down, id)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	if id == Device {
		s.notifyStatus()
	}

	if s.consumed[id] {
		delete(s.consumed, id)
		return
	}
	debug.Log("surface", "release %s", id)
	if b.release != nil {
		b.release()
	}
}

// cancelButtons forgets every held button without running release actions
func (s *Surface) cancelButtons() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	for id := range s.down {
		delete(s.down, id)
	}
	for id := range s.consumed {
		delete(s.consumed, id)
	}
}
