package main

import (
	"context"

	"go-lcxl/config"
	"go-lcxl/debug"
	"go-lcxl/midi"
	"go-lcxl/session"
	"go-lcxl/surface"
)

// App wires a session, a surface and whatever Launch Control XL is plugged in
type App struct {
	Config  *config.Config
	Session *session.Session
	Loop    *surface.EventLoop
	Output  *midi.Output
	Mirror  *surface.Mirror
	Surface *surface.Surface
	Devices *midi.DeviceManager

	status chan surface.Status
}

type templateSelector interface {
	SelectTemplate(t uint8) error
}

func NewApp(cfg *config.Config, sess *session.Session) *App {
	a := &App{
		Config:  cfg,
		Session: sess,
		Loop:    surface.NewEventLoop(),
		Output:  &midi.Output{},
		Devices: midi.NewDeviceManager(cfg.Port),
		status:  make(chan surface.Status, 1),
	}

	reg := surface.NewRegistry()
	a.Mirror = surface.NewMirror(reg)
	a.Surface = surface.New(sess, surface.MultiWriter(a.Output, a.Mirror), a.Loop, surface.Options{
		Template:       cfg.Template,
		Fader8Master:   cfg.Fader8Master,
		LongPressDelay: cfg.LongPress(),
		OnChange:       a.publish,
	})
	return a
}

// publish keeps only the latest status for the TUI
func (a *App) publish(st surface.Status) {
	select {
	case <-a.status:
	default:
	}
	a.status <- st
}

// Status delivers surface status changes
func (a *App) Status() <-chan surface.Status { return a.status }

// Run drives the loop and hot-plug detection until ctx is done
func (a *App) Run(ctx context.Context) error {
	surf := a.Surface
	a.Loop.Post(func() {
		surf.Start()
		a.publish(surf.Status())
	})

	go a.Devices.Run(ctx)
	go a.watchDevices(ctx)

	err := a.Loop.Run(ctx)

	// the loop is gone, so dark the LEDs directly
	surf.Stop()
	return err
}

func (a *App) watchDevices(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.Devices.Events():
			if !ok {
				return
			}
			switch ev.Type {
			case midi.DeviceConnected:
				a.connect(ev.Controller)
			case midi.DeviceDisconnected:
				debug.Log("app", "%s disconnected", ev.ID)
				a.Output.Detach(ev.ID)
			}
		}
	}
}

func (a *App) connect(c midi.Controller) {
	debug.Log("app", "%s connected", c.ID())
	a.Output.Attach(c)

	surf := a.Surface
	a.Loop.Post(func() {
		if ts, ok := c.(templateSelector); ok {
			if err := ts.SelectTemplate(surf.Template()); err != nil {
				debug.Log("app", "select template: %v", err)
			}
		}
		surf.Refresh()
	})

	go func() {
		for ev := range c.Events() {
			a.Loop.Post(func() { surf.Handle(ev) })
		}
	}()
}
