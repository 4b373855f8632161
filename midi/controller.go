package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Controller is a connected control surface
type Controller interface {
	ID() string

	// Events delivers decoded input. Closed by Close.
	Events() <-chan Event

	// Write sends a raw message to the device
	Write(msg gomidi.Message) error

	// Lifecycle
	Close() error
}
