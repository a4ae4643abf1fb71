// Package vision classifies colored arrow markers in camera frames.
//
// The classifier isolates marker-colored regions with a double hue-band
// threshold, filters them by area and arrowhead shape, and labels each
// surviving region with the direction of its principal axis. It is a pure
// per-frame function: no state is carried between frames.
package vision

import "image"

// Direction is the orientation label of a detected marker.
type Direction int

const (
	Front Direction = iota
	Back
	Left
	Right
)

// String returns the lowercase label used in phrases and telemetry.
func (d Direction) String() string {
	switch d {
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Detection is one classified marker: its direction label and the centroid
// of its simplified outline, in pixel coordinates.
type Detection struct {
	Direction Direction
	Centroid  image.Point
}
