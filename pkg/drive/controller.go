package drive

import (
	"time"

	"github.com/chai788/arrow-rover/pkg/vision"
)

// Failsafe and debounce windows.
const (
	// StopTimeout is how long the controller keeps moving without a
	// refreshing observation before it auto-stops.
	StopTimeout = 2 * time.Second

	// AnnounceInterval is the minimum gap before the same direction is
	// re-sent (and re-announced) without having changed.
	AnnounceInterval = 3 * time.Second
)

// Controller is the motion state machine. It consumes one observation per
// tick and emits at most one command plus an optional spoken phrase.
//
// It is single-owner state: the control loop calls Tick sequentially with a
// non-decreasing timestamp and nothing else touches it. The timestamp is
// passed in rather than read from the clock so a slow blocking call (speech)
// between ticks cannot skew the failsafe and debounce comparisons.
type Controller struct {
	mapping Mapping

	moving     bool
	direction  vision.Direction // valid while moving
	pending    bool
	hasLast    bool
	lastSent   vision.Direction
	originTime time.Time // when the last accepted command was sent
	announceAt time.Time // when the last phrase was spoken
}

// NewController creates a stopped controller with the given mapping.
func NewController(mapping Mapping) *Controller {
	return &Controller{mapping: mapping}
}

// Tick advances the state machine by one observation. obs is nil when no
// marker was seen this tick. The returned command is nil when nothing
// should be sent; the phrase is empty when nothing should be spoken.
func (c *Controller) Tick(obs *vision.Direction, now time.Time) (*Command, string) {
	if obs != nil {
		if cmd, ok := c.mapping.Command(*obs); ok {
			return c.tickObserved(*obs, cmd, now)
		}
		// Unmapped label: same as seeing nothing.
	}
	return c.tickAbsent(now)
}

func (c *Controller) tickObserved(d vision.Direction, cmd Command, now time.Time) (*Command, string) {
	changed := !c.hasLast || d != c.lastSent
	stale := now.Sub(c.announceAt) > AnnounceInterval

	if !changed && c.pending && !stale {
		// Same direction, recently sent: suppress the redundant command.
		return nil, ""
	}

	c.moving = true
	c.direction = d
	c.pending = true
	c.hasLast = true
	c.lastSent = d
	c.originTime = now
	c.announceAt = now
	return &cmd, "Moving " + d.String()
}

func (c *Controller) tickAbsent(now time.Time) (*Command, string) {
	if !c.moving {
		return nil, ""
	}
	if now.Sub(c.originTime) <= StopTimeout {
		// Still inside the failsafe window; keep rolling.
		return nil, ""
	}

	c.moving = false
	c.pending = false
	stop := Stop
	return &stop, "Stopping"
}

// Moving reports the current mode and, when moving, the active direction.
func (c *Controller) Moving() (vision.Direction, bool) {
	return c.direction, c.moving
}
