package session

import (
	"sort"

	"github.com/pkg/errors"

	"go-lcxl/debug"
	"go-lcxl/host"
)

// ActionFunc runs a named session action
type ActionFunc func(s *Session) error

// Editor action names understood by the default registry
const (
	ActionTrackMuteToggle      = "Editor/track-mute-toggle"
	ActionTrackSoloToggle      = "Editor/track-solo-toggle"
	ActionTrackRecEnableToggle = "Editor/track-record-enable-toggle"
)

// RegisterAction adds or replaces a named action
func (s *Session) RegisterAction(name string, fn ActionFunc) {
	s.mu.Lock()
	s.actions[name] = fn
	s.mu.Unlock()
}

// Actions returns the registered action names, sorted
func (s *Session) Actions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AccessAction runs the action registered under name
func (s *Session) AccessAction(name string) error {
	s.mu.RLock()
	fn, ok := s.actions[name]
	s.mu.RUnlock()

	if !ok {
		debug.Log("session", "unknown action %q", name)
		return errors.Errorf("unknown action: %s", name)
	}
	debug.Log("session", "action %s", name)
	return errors.Wrapf(fn(s), "action %s", name)
}

func (s *Session) registerEditorActions() {
	s.actions[ActionTrackMuteToggle] = toggleSelected(ctlMute)
	s.actions[ActionTrackSoloToggle] = toggleSelected(ctlSolo)
	s.actions[ActionTrackRecEnableToggle] = toggleSelected(ctlRecEnable)
}

// toggleSelected flips the named control on every selected stripable that
// has it. The new state is the inverse of the first such stripable, so a
// mixed selection ends up uniform.
func toggleSelected(name string) ActionFunc {
	return func(s *Session) error {
		var targets []*Control
		for _, st := range s.Selected() {
			if c, ok := st.controls[name]; ok {
				targets = append(targets, c)
			}
		}
		if len(targets) == 0 {
			return nil
		}

		v := 1.0
		if targets[0].Value() > 0.5 {
			v = 0
		}
		for _, c := range targets {
			c.SetValue(v, host.NoGroup)
		}
		return nil
	}
}
