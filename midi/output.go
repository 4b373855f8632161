package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Output forwards messages to whichever controller is attached. Messages
// written while nothing is attached are dropped.
type Output struct {
	mu sync.RWMutex
	c  Controller
}

// Attach makes c the destination of Write
func (o *Output) Attach(c Controller) {
	o.mu.Lock()
	o.c = c
	o.mu.Unlock()
}

// Detach clears the destination if it is still id
func (o *Output) Detach(id string) {
	o.mu.Lock()
	if o.c != nil && o.c.ID() == id {
		o.c = nil
	}
	o.mu.Unlock()
}

// Attached reports whether a controller is attached
func (o *Output) Attached() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.c != nil
}

// Name returns the ID of the attached controller, or ""
func (o *Output) Name() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.c == nil {
		return ""
	}
	return o.c.ID()
}

func (o *Output) Write(msg gomidi.Message) error {
	o.mu.RLock()
	c := o.c
	o.mu.RUnlock()

	if c == nil {
		return nil
	}
	return c.Write(msg)
}
