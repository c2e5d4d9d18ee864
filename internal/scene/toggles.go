package scene

// SpeedMode selects the animation speed multiplier.
type SpeedMode uint8

const (
	SpeedNormal SpeedMode = iota
	SpeedFast
)

// String returns the mode name.
func (m SpeedMode) String() string {
	if m == SpeedFast {
		return "fast"
	}
	return "normal"
}

// Direction is the sign applied to rotation increments.
type Direction int8

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Sign returns the direction as a float multiplier.
func (d Direction) Sign() float32 {
	if d == Backward {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Reversed returns the opposite direction.
func (d Direction) Reversed() Direction {
	if d == Backward {
		return Forward
	}
	return Backward
}

// Axis is a set of rotation axes.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ
)

// Next cycles a single-axis selection X -> Y -> Z -> X.
func (a Axis) Next() Axis {
	switch a {
	case AxisX:
		return AxisY
	case AxisY:
		return AxisZ
	default:
		return AxisX
	}
}

// String returns the axis letters, e.g. "xy".
func (a Axis) String() string {
	s := ""
	if a&AxisX != 0 {
		s += "x"
	}
	if a&AxisY != 0 {
		s += "y"
	}
	if a&AxisZ != 0 {
		s += "z"
	}
	if s == "" {
		return "none"
	}
	return s
}

// Toggles is the set of animation switches. One copy is owned globally by the
// control panel; spawned objects carry their own.
type Toggles struct {
	Rotation  bool
	PulseMove bool
	ColorEmit bool
	Speed     SpeedMode
	Direction Direction

	// Model-only switches.
	Jump bool
	Sway bool
	Axis Axis
}

// DefaultToggles returns the switches the viewer starts with.
func DefaultToggles() Toggles {
	return Toggles{
		Rotation:  true,
		PulseMove: true,
		ColorEmit: true,
		Speed:     SpeedNormal,
		Direction: Forward,
		Axis:      AxisY,
	}
}
