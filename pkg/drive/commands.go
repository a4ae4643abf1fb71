// Package drive turns marker observations into motor commands.
//
// It owns the single-byte command vocabulary, the observation-to-command
// mapping table, and the debounce/failsafe state machine that decides when a
// command actually goes out on the wire.
package drive

import "github.com/chai788/arrow-rover/pkg/vision"

// Command is a single-byte motor command. The byte value is the wire
// encoding: no framing, no length prefix.
type Command byte

const (
	Forward  Command = 'F'
	Backward Command = 'B'
	Left     Command = 'L'
	Right    Command = 'R'
	Stop     Command = 'S'
	Probe    Command = 'T'
)

// Byte returns the wire encoding of the command.
func (c Command) Byte() byte {
	return byte(c)
}

// String returns a human-readable command name.
func (c Command) String() string {
	switch c {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Stop:
		return "stop"
	case Probe:
		return "probe"
	}
	return "unknown"
}

// Mapping binds observation labels to motor commands. It is explicit rather
// than inferred from label spelling: the classifier's vocabulary
// (front/back) and a motor driver's (forward/backward, or up/down on some
// firmwares) do not have to match. A direction absent from the table drives
// nothing, the controller treats it as no observation.
type Mapping map[vision.Direction]Command

// DefaultMapping binds every classifier label to a motor command:
// front drives forward, back drives backward, left and right turn.
func DefaultMapping() Mapping {
	return Mapping{
		vision.Front: Forward,
		vision.Back:  Backward,
		vision.Left:  Left,
		vision.Right: Right,
	}
}

// Command looks up the motor command for a direction.
func (m Mapping) Command(d vision.Direction) (Command, bool) {
	c, ok := m[d]
	return c, ok
}
