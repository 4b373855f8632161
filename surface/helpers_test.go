package surface

import (
	"sort"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-lcxl/midi"
	"go-lcxl/session"
)

// manualLoop runs posted work immediately and timers on Advance
type manualLoop struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (l *manualLoop) Post(fn func()) { fn() }

func (l *manualLoop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &manualTimer{at: l.now + d, fn: fn}
	l.timers = append(l.timers, t)
	return t
}

// Advance moves the clock and fires due timers in order
func (l *manualLoop) Advance(d time.Duration) {
	l.now += d
	due := append([]*manualTimer(nil), l.timers...)
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		if t.at <= l.now && !t.stopped && !t.fired {
			t.fired = true
			t.fn()
		}
	}
}

// recorder keeps every message written
type recorder struct {
	msgs []gomidi.Message
}

func (r *recorder) Write(msg gomidi.Message) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) reset() { r.msgs = nil }

const testTemplate = 8

type fixture struct {
	t       *testing.T
	session *session.Session
	loop    *manualLoop
	mirror  *Mirror
	rec     *recorder
	s       *Surface
	status  []Status
}

func newFixture(t *testing.T, tracks int, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		session: session.NewDemo(tracks),
		loop:    &manualLoop{},
		rec:     &recorder{},
	}
	f.mirror = NewMirror(NewRegistry())
	if opts.Template == 0 {
		opts.Template = testTemplate
	}
	opts.OnChange = func(st Status) { f.status = append(f.status, st) }
	f.s = New(f.session, MultiWriter(f.mirror, f.rec), f.loop, opts)
	f.s.Start()
	t.Cleanup(f.s.Stop)
	return f
}

func (f *fixture) note(number, velocity uint8) {
	f.s.Handle(midi.Event{Type: midi.NoteOn, Channel: f.s.Template(), Number: number, Value: velocity})
}

func (f *fixture) cc(number, value uint8) {
	f.s.Handle(midi.Event{Type: midi.CC, Channel: f.s.Template(), Number: number, Value: value})
}

// tap presses and releases a button through the event path
func (f *fixture) tap(id ControlID) {
	f.press(id)
	f.release(id)
}

func (f *fixture) press(id ControlID) {
	f.t.Helper()
	c, ok := f.s.Registry().ByID(id)
	if !ok {
		f.t.Fatalf("no control %s", id)
	}
	if c.Code.Kind == KindNote {
		f.note(c.Code.Number, 127)
	} else {
		f.cc(c.Code.Number, 127)
	}
}

func (f *fixture) release(id ControlID) {
	f.t.Helper()
	c, ok := f.s.Registry().ByID(id)
	if !ok {
		f.t.Fatalf("no control %s", id)
	}
	if c.Code.Kind == KindNote {
		f.note(c.Code.Number, 0)
	} else {
		f.cc(c.Code.Number, 0)
	}
}

// counter replaces the actions of a button with counting ones
type counter struct {
	press, release, longPress int
}

func (f *fixture) instrument(id ControlID) *counter {
	c := &counter{}
	f.s.buttons[id] = &button{
		press:     func() { c.press++ },
		release:   func() { c.release++ },
		longPress: func() { c.longPress++ },
	}
	return c
}
