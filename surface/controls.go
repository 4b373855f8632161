package surface

import (
	"fmt"
)

// ControlID identifies a physical control on the Launch Control XL
type ControlID int

const (
	SendA1 ControlID = iota
	SendA2
	SendA3
	SendA4
	SendA5
	SendA6
	SendA7
	SendA8
	SendB1
	SendB2
	SendB3
	SendB4
	SendB5
	SendB6
	SendB7
	SendB8
	Pan1
	Pan2
	Pan3
	Pan4
	Pan5
	Pan6
	Pan7
	Pan8
	Fader1
	Fader2
	Fader3
	Fader4
	Fader5
	Fader6
	Fader7
	Fader8
	Focus1
	Focus2
	Focus3
	Focus4
	Focus5
	Focus6
	Focus7
	Focus8
	Control1
	Control2
	Control3
	Control4
	Control5
	Control6
	Control7
	Control8
	Device
	Mute
	Solo
	Record
	SelectUp
	SelectDown
	SelectLeft
	SelectRight

	numControls
)

const numColumns = 8

var sideNames = map[ControlID]string{
	Device:      "Device",
	Mute:        "Mute",
	Solo:        "Solo",
	Record:      "Record",
	SelectUp:    "Select Up",
	SelectDown:  "Select Down",
	SelectLeft:  "Select Left",
	SelectRight: "Select Right",
}

func (id ControlID) String() string {
	switch {
	case id >= SendA1 && id <= SendA8:
		return fmt.Sprintf("SendA %d", id-SendA1+1)
	case id >= SendB1 && id <= SendB8:
		return fmt.Sprintf("SendB %d", id-SendB1+1)
	case id >= Pan1 && id <= Pan8:
		return fmt.Sprintf("Pan %d", id-Pan1+1)
	case id >= Fader1 && id <= Fader8:
		return fmt.Sprintf("Fader %d", id-Fader1+1)
	case id >= Focus1 && id <= Focus8:
		return fmt.Sprintf("Focus %d", id-Focus1+1)
	case id >= Control1 && id <= Control8:
		return fmt.Sprintf("Control %d", id-Control1+1)
	}
	if name, ok := sideNames[id]; ok {
		return name
	}
	return fmt.Sprintf("ControlID(%d)", int(id))
}

func (id ControlID) IsKnob() bool   { return id >= SendA1 && id <= Pan8 }
func (id ControlID) IsFader() bool  { return id >= Fader1 && id <= Fader8 }
func (id ControlID) IsButton() bool { return id >= Focus1 && id < numControls }

// CodeKind separates the CC and note number spaces
type CodeKind uint8

const (
	KindCC CodeKind = iota
	KindNote
)

func (k CodeKind) String() string {
	if k == KindNote {
		return "note"
	}
	return "cc"
}

// Code is the protocol address of a control
type Code struct {
	Kind   CodeKind
	Number uint8
}

func (c Code) String() string {
	return fmt.Sprintf("%s %d", c.Kind, c.Number)
}

// Control is one row of the device table
type Control struct {
	ID      ControlID
	Code    Code
	LED     int   // sysex LED index, -1 if the control has no LED
	Column  int   // strip column 0-7, -1 for side buttons
	Default Color // color shown before any state is known
}

var (
	focusNotes   = [numColumns]uint8{41, 42, 43, 44, 57, 58, 59, 60}
	controlNotes = [numColumns]uint8{73, 74, 75, 76, 89, 90, 91, 92}
)

// deviceTable is the fixed layout of the factory templates
func deviceTable() []Control {
	t := make([]Control, 0, numControls)

	rows := []struct {
		first  ControlID
		kind   CodeKind
		number func(col int) uint8
		led    int
		color  Color
	}{
		{SendA1, KindCC, func(c int) uint8 { return uint8(13 + c) }, 0, Off},
		{SendB1, KindCC, func(c int) uint8 { return uint8(29 + c) }, 8, Off},
		{Pan1, KindCC, func(c int) uint8 { return uint8(49 + c) }, 16, Off},
		{Fader1, KindCC, func(c int) uint8 { return uint8(77 + c) }, -1, Off},
		{Focus1, KindNote, func(c int) uint8 { return focusNotes[c] }, 24, YellowLow},
		{Control1, KindNote, func(c int) uint8 { return controlNotes[c] }, 32, AmberLow},
	}
	for _, r := range rows {
		for col := 0; col < numColumns; col++ {
			led := -1
			if r.led >= 0 {
				led = r.led + col
			}
			t = append(t, Control{
				ID:      r.first + ControlID(col),
				Code:    Code{Kind: r.kind, Number: r.number(col)},
				LED:     led,
				Column:  col,
				Default: r.color,
			})
		}
	}

	t = append(t,
		Control{ID: Device, Code: Code{KindNote, 105}, LED: 40, Column: -1},
		Control{ID: Mute, Code: Code{KindNote, 106}, LED: 41, Column: -1},
		Control{ID: Solo, Code: Code{KindNote, 107}, LED: 42, Column: -1},
		Control{ID: Record, Code: Code{KindNote, 108}, LED: 43, Column: -1},
		Control{ID: SelectUp, Code: Code{KindCC, 104}, LED: 44, Column: -1},
		Control{ID: SelectDown, Code: Code{KindCC, 105}, LED: 45, Column: -1},
		Control{ID: SelectLeft, Code: Code{KindCC, 106}, LED: 46, Column: -1},
		Control{ID: SelectRight, Code: Code{KindCC, 107}, LED: 47, Column: -1},
	)
	return t
}

// Registry maps between control IDs and protocol codes. It is immutable
// once built.
type Registry struct {
	table  []Control
	byCode map[Code]int
	byID   map[ControlID]int
}

// NewRegistry builds the registry for the device table. A defective table is
// a programming error.
func NewRegistry() *Registry {
	r, err := buildRegistry(deviceTable())
	if err != nil {
		panic(err)
	}
	return r
}

func buildRegistry(table []Control) (*Registry, error) {
	r := &Registry{
		table:  table,
		byCode: make(map[Code]int, len(table)),
		byID:   make(map[ControlID]int, len(table)),
	}
	for i, c := range table {
		if prev, dup := r.byCode[c.Code]; dup {
			return nil, fmt.Errorf("%s: code %s already used by %s", c.ID, c.Code, table[prev].ID)
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("%s listed twice", c.ID)
		}
		r.byCode[c.Code] = i
		r.byID[c.ID] = i
	}
	return r, nil
}

// ByCode resolves an incoming protocol code
func (r *Registry) ByCode(code Code) (*Control, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return nil, false
	}
	return &r.table[i], true
}

func (r *Registry) ByID(id ControlID) (*Control, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return &r.table[i], true
}

// Controls returns a copy of the table in table order
func (r *Registry) Controls() []Control {
	return append([]Control(nil), r.table...)
}

// Column returns the strip column of id, or -1 for side buttons and unknown IDs
func (r *Registry) Column(id ControlID) int {
	c, ok := r.ByID(id)
	if !ok {
		return -1
	}
	return c.Column
}

// Knobs returns the SendA, SendB and Pan knobs of a column, top to bottom
func (r *Registry) Knobs(col int) [3]ControlID {
	return [3]ControlID{SendA1 + ControlID(col), SendB1 + ControlID(col), Pan1 + ControlID(col)}
}

func (r *Registry) FocusButton(col int) ControlID   { return Focus1 + ControlID(col) }
func (r *Registry) ControlButton(col int) ControlID { return Control1 + ControlID(col) }
