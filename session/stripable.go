package session

import (
	"github.com/google/uuid"

	"go-lcxl/host"
)

// Kind identifies what sort of stripable a strip is
type Kind string

const (
	KindTrack  Kind = "track"
	KindBus    Kind = "bus"
	KindMaster Kind = "master"
)

// control names, also used to match group members
const (
	ctlMute        = "mute"
	ctlSolo        = "solo"
	ctlRecEnable   = "rec-enable"
	ctlSoloIsolate = "solo-isolate"
	ctlMasterSend  = "master-send"
	ctlGain        = "gain"
	ctlTrim        = "trim"
	ctlPanAzimuth  = "pan-azimuth"
	ctlPanWidth    = "pan-width"
)

// Control is a single automation value owned by a stripable
type Control struct {
	owner *Stripable
	name  string
	value float64
}

func (c *Control) Name() string { return c.name }

func (c *Control) Value() float64 {
	c.owner.s.mu.RLock()
	defer c.owner.s.mu.RUnlock()
	return c.value
}

// SetValue sets the value directly on the control, following gc for grouped
// stripables.
func (c *Control) SetValue(v float64, gc host.GroupControl) {
	c.owner.s.setControl(c, v, gc)
}

// Stripable is a track, bus or the master bus
type Stripable struct {
	s     *Session
	id    uuid.UUID
	name  string
	kind  Kind
	group string

	controls map[string]*Control
}

func newStripable(s *Session, name string, kind Kind) *Stripable {
	st := &Stripable{
		s:        s,
		id:       uuid.New(),
		name:     name,
		kind:     kind,
		controls: make(map[string]*Control),
	}

	defaults := map[string]float64{
		ctlMute:        0,
		ctlSolo:        0,
		ctlSoloIsolate: 0,
		ctlGain:        0.75, // roughly unity on a fader taper
		ctlTrim:        0.5,
		ctlPanAzimuth:  0.5,
		ctlPanWidth:    1,
	}
	if kind == KindTrack {
		defaults[ctlRecEnable] = 0
	}
	if kind != KindMaster {
		defaults[ctlMasterSend] = 1
	}
	for name, v := range defaults {
		st.controls[name] = &Control{owner: st, name: name, value: v}
	}
	return st
}

func (st *Stripable) ID() string { return st.id.String() }

func (st *Stripable) Name() string {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return st.name
}

func (st *Stripable) Kind() Kind { return st.kind }

// Group returns the name of the group the stripable belongs to ("" if none)
func (st *Stripable) Group() string {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return st.group
}

func (st *Stripable) IsSelected() bool {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return st.s.selected[st.id]
}

func (st *Stripable) IsMaster() bool { return st.kind == KindMaster }

// control returns the named control as a host.Control, keeping a missing
// control a true nil interface.
func (st *Stripable) control(name string) host.Control {
	c, ok := st.controls[name]
	if !ok {
		return nil
	}
	return c
}

func (st *Stripable) MuteControl() host.Control             { return st.control(ctlMute) }
func (st *Stripable) SoloControl() host.Control             { return st.control(ctlSolo) }
func (st *Stripable) RecEnableControl() host.Control        { return st.control(ctlRecEnable) }
func (st *Stripable) SoloIsolateControl() host.Control      { return st.control(ctlSoloIsolate) }
func (st *Stripable) MasterSendEnableControl() host.Control { return st.control(ctlMasterSend) }
func (st *Stripable) GainControl() host.Control             { return st.control(ctlGain) }
func (st *Stripable) TrimControl() host.Control             { return st.control(ctlTrim) }
func (st *Stripable) PanAzimuthControl() host.Control       { return st.control(ctlPanAzimuth) }
func (st *Stripable) PanWidthControl() host.Control         { return st.control(ctlPanWidth) }
