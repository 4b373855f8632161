// Package host declares what the surface needs from the audio host: the
// session, its stripables and their automation controls.
package host

// GroupControl selects how a control change propagates through the
// control's group.
type GroupControl int

const (
	UseGroup     GroupControl = iota // apply to every member of the group
	NoGroup                          // apply to this control only
	InverseGroup                     // apply to the group only when it is inactive
)

// Control is a host automation control. Values are in interface units 0-1;
// toggles use 0 and 1.
type Control interface {
	Value() float64
	SetValue(v float64, gc GroupControl)
}

// Stripable is a track or bus that can occupy a strip on the surface.
// Control accessors return nil when the stripable has no such control
// (a bus has no record-enable, the master has no master send).
type Stripable interface {
	ID() string
	Name() string
	IsSelected() bool
	IsMaster() bool

	MuteControl() Control
	SoloControl() Control
	RecEnableControl() Control
	SoloIsolateControl() Control
	MasterSendEnableControl() Control

	GainControl() Control
	TrimControl() Control
	PanAzimuthControl() Control
	PanWidthControl() Control
}

// ChangeKind says what changed in the session.
type ChangeKind int

const (
	ChangeSelection  ChangeKind = iota // a stripable was selected or deselected
	ChangeControl                      // a control value of a stripable changed
	ChangeStripables                   // stripables were added, removed or reordered
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSelection:
		return "selection"
	case ChangeControl:
		return "control"
	case ChangeStripables:
		return "stripables"
	}
	return "unknown"
}

// Change is delivered to session subscribers. Stripable is nil for
// ChangeStripables.
type Change struct {
	Kind      ChangeKind
	Stripable Stripable
}

// Session is the host session as seen by a control surface.
type Session interface {
	// StripableAt returns the n-th stripable in presentation order, or nil.
	StripableAt(n int) Stripable
	StripableCount() int
	Master() Stripable

	// SetControl sets a control value through the session so that
	// grouping is honoured.
	SetControl(c Control, v float64, gc GroupControl)

	AddToSelection(s Stripable)
	RemoveFromSelection(s Stripable)

	// AccessAction invokes a named host action such as
	// "Editor/track-mute-toggle".
	AccessAction(name string) error

	// Subscribe registers fn for change notifications. fn may be called
	// from any goroutine.
	Subscribe(fn func(Change)) (unsubscribe func())
}
