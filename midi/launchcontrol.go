package midi

import (
	"sync/atomic"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-lcxl/debug"
)

var sendCount uint64

// LaunchControlXL handles a Novation Launch Control XL
type LaunchControlXL struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	events chan Event
}

// NewLaunchControlXL opens the ports of a Launch Control XL. Either port may
// be nil.
func NewLaunchControlXL(id string, inPort drivers.In, outPort drivers.Out) (*LaunchControlXL, error) {
	xl := &LaunchControlXL{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		events:  make(chan Event, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, errors.Wrapf(err, "open output %s", outPort)
		}
		xl.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ev, ok := Decode(msg)
			if !ok {
				return
			}
			// Never block the driver callback; a full queue drops input
			select {
			case xl.events <- ev:
			default:
				debug.Log("xl", "event queue full, dropped %+v", ev)
			}
		}, gomidi.UseSysEx())
		if err != nil {
			return nil, errors.Wrapf(err, "open input %s", inPort)
		}
		xl.stopFunc = stop
	}

	return xl, nil
}

func (xl *LaunchControlXL) ID() string {
	return xl.id
}

func (xl *LaunchControlXL) Events() <-chan Event {
	return xl.events
}

// Write sends msg to the device. Without an output port it is dropped.
func (xl *LaunchControlXL) Write(msg gomidi.Message) error {
	if xl.send == nil {
		return nil
	}
	count := atomic.AddUint64(&sendCount, 1)
	if count%200 == 0 {
		debug.Log("xl", "sent %d messages", count)
	}
	return errors.Wrapf(xl.send(msg), "send to %s", xl.id)
}

// SelectTemplate switches the device to template t (0-15)
func (xl *LaunchControlXL) SelectTemplate(t uint8) error {
	data := append(append([]byte{}, SysExHeader...), SysExTemplate, t&0x0F)
	return xl.Write(gomidi.SysEx(data))
}

func (xl *LaunchControlXL) Close() error {
	if xl.stopFunc != nil {
		xl.stopFunc()
	}
	close(xl.events)
	return nil
}
