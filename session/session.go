// Package session is a small in-memory audio host session. It backs the
// standalone binary and gives the surface something real to drive.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"go-lcxl/debug"
	"go-lcxl/host"
)

// Session is the single source of truth for stripable state
type Session struct {
	mu         sync.RWMutex
	strips     []*Stripable // tracks and buses in presentation order
	master     *Stripable
	selected   map[uuid.UUID]bool
	actions    map[string]ActionFunc
	listeners  map[int]func(host.Change)
	nextListen int
}

var _ host.Session = (*Session)(nil)

// New creates an empty session with a master bus and the default editor
// actions registered.
func New() *Session {
	s := &Session{
		selected:  make(map[uuid.UUID]bool),
		actions:   make(map[string]ActionFunc),
		listeners: make(map[int]func(host.Change)),
	}
	s.master = newStripable(s, "Master", KindMaster)
	s.registerEditorActions()
	return s
}

// NewDemo creates a session with n tracks followed by two buses
func NewDemo(n int) *Session {
	s := New()
	for i := 0; i < n; i++ {
		s.AddTrack(fmt.Sprintf("Audio %d", i+1))
	}
	s.AddBus("Drums")
	s.AddBus("Reverb")
	return s
}

// AddTrack appends a track
func (s *Session) AddTrack(name string) *Stripable {
	return s.add(name, KindTrack)
}

// AddBus appends a bus
func (s *Session) AddBus(name string) *Stripable {
	return s.add(name, KindBus)
}

func (s *Session) add(name string, kind Kind) *Stripable {
	s.mu.Lock()
	st := newStripable(s, name, kind)
	s.strips = append(s.strips, st)
	s.mu.Unlock()

	debug.Log("session", "added %s %q", kind, name)
	s.notify(host.Change{Kind: host.ChangeStripables})
	return st
}

// Remove deletes a stripable by ID
func (s *Session) Remove(id string) bool {
	s.mu.Lock()
	idx := -1
	for i, st := range s.strips {
		if st.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	delete(s.selected, s.strips[idx].id)
	s.strips = append(s.strips[:idx], s.strips[idx+1:]...)
	s.mu.Unlock()

	s.notify(host.Change{Kind: host.ChangeStripables})
	return true
}

// SetGroup puts a stripable into a named group ("" removes it)
func (s *Session) SetGroup(st *Stripable, group string) {
	s.mu.Lock()
	st.group = group
	s.mu.Unlock()
}

// StripableAt returns tracks and buses first, then the master bus
func (s *Session) StripableAt(n int) host.Stripable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case n < 0:
		return nil
	case n < len(s.strips):
		return s.strips[n]
	case n == len(s.strips):
		return s.master
	}
	return nil
}

func (s *Session) StripableCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.strips) + 1
}

func (s *Session) Master() host.Stripable {
	return s.master
}

// SetControl sets a control through the session. Controls from another host
// are set directly.
func (s *Session) SetControl(c host.Control, v float64, gc host.GroupControl) {
	if c == nil {
		return
	}
	c.SetValue(v, gc)
}

func (s *Session) AddToSelection(st host.Stripable) {
	s.setSelected(st, true)
}

func (s *Session) RemoveFromSelection(st host.Stripable) {
	s.setSelected(st, false)
}

// Selected returns the selected stripables in presentation order
func (s *Session) Selected() []*Stripable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Stripable
	for _, st := range append(append([]*Stripable{}, s.strips...), s.master) {
		if s.selected[st.id] {
			out = append(out, st)
		}
	}
	return out
}

func (s *Session) setSelected(hs host.Stripable, on bool) {
	st, ok := hs.(*Stripable)
	if !ok || st.s != s {
		debug.Log("session", "selection of foreign stripable %v ignored", hs)
		return
	}

	s.mu.Lock()
	if s.selected[st.id] == on {
		s.mu.Unlock()
		return
	}
	if on {
		s.selected[st.id] = true
	} else {
		delete(s.selected, st.id)
	}
	s.mu.Unlock()

	s.notify(host.Change{Kind: host.ChangeSelection, Stripable: st})
}

// setControl applies v to c and, for grouped stripables with UseGroup, to
// the same control of every group member. Groups are always active, so
// InverseGroup behaves like NoGroup.
func (s *Session) setControl(c *Control, v float64, gc host.GroupControl) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	s.mu.Lock()
	targets := []*Control{c}
	if gc == host.UseGroup && c.owner.group != "" {
		targets = targets[:0]
		for _, st := range append(append([]*Stripable{}, s.strips...), s.master) {
			if st.group != c.owner.group {
				continue
			}
			if member, ok := st.controls[c.name]; ok {
				targets = append(targets, member)
			}
		}
	}
	var changed []*Stripable
	for _, t := range targets {
		if t.value != v {
			t.value = v
			changed = append(changed, t.owner)
		}
	}
	s.mu.Unlock()

	for _, st := range changed {
		s.notify(host.Change{Kind: host.ChangeControl, Stripable: st})
	}
}

// Subscribe registers a change listener. Listeners run on the goroutine that
// made the change, after the session lock is released.
func (s *Session) Subscribe(fn func(host.Change)) func() {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify(c host.Change) {
	s.mu.RLock()
	fns := make([]func(host.Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// StripState is a read-only copy of one stripable for display
type StripState struct {
	ID         string
	Name       string
	Kind       Kind
	Group      string
	Selected   bool
	Muted      bool
	Soloed     bool
	RecEnabled bool
	Gain       float64
}

// Snapshot returns the state of every stripable in presentation order
func (s *Session) Snapshot() []StripState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := append(append([]*Stripable{}, s.strips...), s.master)
	out := make([]StripState, 0, len(all))
	for _, st := range all {
		ss := StripState{
			ID:       st.id.String(),
			Name:     st.name,
			Kind:     st.kind,
			Group:    st.group,
			Selected: s.selected[st.id],
			Muted:    st.controls[ctlMute].value > 0.5,
			Soloed:   st.controls[ctlSolo].value > 0.5,
			Gain:     st.controls[ctlGain].value,
		}
		if rec, ok := st.controls[ctlRecEnable]; ok {
			ss.RecEnabled = rec.value > 0.5
		}
		out = append(out, ss)
	}
	return out
}
