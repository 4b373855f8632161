package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-lcxl/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// DefaultPortMatch finds the device by its USB port name
const DefaultPortMatch = "Launch Control XL"

// scanTimeout bounds a port listing; some drivers hang when a device is
// unplugged mid-scan
const scanTimeout = 3 * time.Second

// DeviceManager handles hot-plug detection of Launch Control XLs
type DeviceManager struct {
	match       string
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration

	// open creates a controller for a matched port pair
	open func(id string, in drivers.In, out drivers.Out) (Controller, error)
}

// NewDeviceManager creates a device manager for ports whose name contains
// match (case-insensitive). An empty match uses DefaultPortMatch.
func NewDeviceManager(match string) *DeviceManager {
	if match == "" {
		match = DefaultPortMatch
	}
	return &DeviceManager{
		match:       strings.ToLower(match),
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		open: func(id string, in drivers.In, out drivers.Out) (Controller, error) {
			return NewLaunchControlXL(id, in, out)
		},
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		snapshot[k] = v
	}
	return snapshot
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

// Ports lists the MIDI port names visible to the driver
func Ports(ctx context.Context) (ins, outs []string, err error) {
	in, out, err := listPorts(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range in {
		ins = append(ins, p.String())
	}
	for _, p := range out {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

func listPorts(ctx context.Context) ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	select {
	case r := <-ch:
		return r.inPorts, r.outPorts, nil
	case <-ctx.Done():
		return nil, nil, errors.Wrap(ctx.Err(), "list midi ports")
	}
}

func (dm *DeviceManager) matches(name string) bool {
	return strings.Contains(strings.ToLower(name), dm.match)
}

func (dm *DeviceManager) scan(ctx context.Context) {
	inPorts, outPorts, err := listPorts(ctx)
	if err != nil {
		// driver is hung - skip this scan
		debug.Log("devices", "scan: %v", err)
		return
	}
	dm.sync(inPorts, outPorts)
}

// sync opens newly seen devices and closes the ones that went away
func (dm *DeviceManager) sync(inPorts []drivers.In, outPorts []drivers.Out) {
	seenIDs := make(map[string]bool)

	for _, inPort := range inPorts {
		id := inPort.String()
		if !dm.matches(id) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		// Find matching output port
		var outPort drivers.Out
		for _, op := range outPorts {
			if strings.EqualFold(op.String(), id) {
				outPort = op
				break
			}
		}

		c, err := dm.open(id, inPort, outPort)
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()

		debug.Log("devices", "connected %s", id)
		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: c, ID: id}
	}

	// Check for disconnects
	dm.mu.Lock()
	removed := make(map[string]Controller)
	for id, c := range dm.controllers {
		if !seenIDs[id] {
			removed[id] = c
			delete(dm.controllers, id)
		}
	}
	dm.mu.Unlock()

	// close and report outside the lock; the events send may block
	for id, c := range removed {
		c.Close()
		debug.Log("devices", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}
