// Package surface binds a Novation Launch Control XL to a host session:
// buttons, knobs and faders drive the session and the LEDs follow it.
//
// A Surface is not safe for concurrent use. Every method must be called on
// its Loop, which is also where session notifications and long-press timers
// are delivered.
package surface

import (
	"time"

	"go-lcxl/debug"
	"go-lcxl/host"
	"go-lcxl/midi"
)

// Options configures a Surface
type Options struct {
	// Template the device is on at start (0-15). Factory template 1 is 8.
	Template uint8
	// Fader8Master pins the last strip to the master bus
	Fader8Master bool
	// LongPressDelay defaults to DefaultLongPress
	LongPressDelay time.Duration
	// OnChange is called on the loop whenever Status changes
	OnChange func(Status)
}

// Status is a snapshot of the surface state for display
type Status struct {
	Bank       int
	Mode       TrackMode
	Template   uint8
	DeviceHeld bool
	Strips     [numColumns]string // names, "" when unbound
	IDs        [numColumns]string
}

// Surface is the Launch Control XL control surface
type Surface struct {
	session host.Session
	out     Writer
	loop    Loop
	reg     *Registry
	opts    Options

	template  uint8
	mode      TrackMode
	bankStart int
	strips    [numColumns]host.Stripable

	buttons  map[ControlID]*button
	down     map[ControlID]bool
	consumed map[ControlID]bool
	timers   map[ControlID]Timer
	lastHW   map[ControlID]float64

	unsubscribe func()
}

// New creates a surface driving session and writing LED feedback to out
func New(session host.Session, out Writer, loop Loop, opts Options) *Surface {
	if opts.LongPressDelay <= 0 {
		opts.LongPressDelay = DefaultLongPress
	}
	s := &Surface{
		session:  session,
		out:      out,
		loop:     loop,
		reg:      NewRegistry(),
		opts:     opts,
		template: opts.Template & 0x0F,
		mode:     ModeMute,
		down:     make(map[ControlID]bool),
		consumed: make(map[ControlID]bool),
		timers:   make(map[ControlID]Timer),
		lastHW:   make(map[ControlID]float64),
	}
	s.buildButtons()
	return s
}

// Registry returns the control table the surface resolves events with
func (s *Surface) Registry() *Registry { return s.reg }

// Start subscribes to the session and brings the LEDs up to date
func (s *Surface) Start() {
	s.unsubscribe = s.session.Subscribe(func(c host.Change) {
		s.loop.Post(func() { s.sessionChanged(c) })
	})
	s.write(ResetMessage(s.template))
	s.SwitchBank(0)
}

// Stop unsubscribes from the session and turns the LEDs off
func (s *Surface) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.cancelButtons()
	s.write(ResetMessage(s.template))
}

// Template returns the template feedback is addressed to
func (s *Surface) Template() uint8 { return s.template }

// SetTemplate follows the device to another template. Held buttons are
// forgotten since their release arrives on the old channel.
func (s *Surface) SetTemplate(t uint8) {
	if t > 0x0F {
		debug.Log("surface", "template %d out of range", t)
		return
	}
	debug.Log("surface", "template %d -> %d", s.template, t)
	s.template = t
	s.cancelButtons()
	s.Refresh()
	s.notifyStatus()
}

// Handle routes one decoded device event
func (s *Surface) Handle(ev midi.Event) {
	if ev.Type == midi.Template {
		s.SetTemplate(ev.Value)
		return
	}
	if ev.Channel != s.template {
		debug.LogEvery(32, "surface", "ignoring channel %d, template is %d", ev.Channel, s.template)
		return
	}

	var code Code
	switch ev.Type {
	case midi.NoteOn, midi.NoteOff:
		code = Code{Kind: KindNote, Number: ev.Number}
	case midi.CC:
		code = Code{Kind: KindCC, Number: ev.Number}
	default:
		return
	}

	ctl, ok := s.reg.ByCode(code)
	if !ok {
		debug.Log("surface", "no control for %s", code)
		return
	}

	switch {
	case ctl.ID.IsKnob():
		s.KnobMoved(ctl.ID, ev.Value)
	case ctl.ID.IsFader():
		s.FaderMoved(ctl.ID, ev.Value)
	case ev.Type == midi.NoteOff || ev.Value == 0:
		s.ButtonReleased(ctl.ID)
	default:
		s.ButtonPressed(ctl.ID)
	}
}

func (s *Surface) sessionChanged(c host.Change) {
	switch c.Kind {
	case host.ChangeStripables:
		s.rebank()
	case host.ChangeSelection:
		for _, n := range s.columnsOf(c.Stripable) {
			s.updateFocusLED(n)
			s.updateKnobLEDs(n)
		}
	case host.ChangeControl:
		for _, n := range s.columnsOf(c.Stripable) {
			s.updateControlLED(n)
		}
	}
}

// columnsOf returns the columns showing st. A nil st matches every column.
func (s *Surface) columnsOf(st host.Stripable) []int {
	var cols []int
	for n, bound := range s.strips {
		if bound == nil {
			continue
		}
		if st == nil || bound.ID() == st.ID() {
			cols = append(cols, n)
		}
	}
	return cols
}

// Status returns the current surface state
func (s *Surface) Status() Status {
	st := Status{
		Bank:       s.bankStart,
		Mode:       s.mode,
		Template:   s.template,
		DeviceHeld: s.deviceHeld(),
	}
	for n, strip := range s.strips {
		if strip != nil {
			st.Strips[n] = strip.Name()
			st.IDs[n] = strip.ID()
		}
	}
	return st
}

func (s *Surface) notifyStatus() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.Status())
	}
}
