// Package speech provides spoken feedback for the rover.
//
// Speakers may block until the phrase finishes; the control loop accounts
// for that by timestamping each tick before any blocking call. A missing or
// broken synthesizer degrades to silence, never to a failure of the run.
package speech

import "context"

// Speaker voices a phrase. Implementations may block until playback ends.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Nop is a Speaker that stays silent. It is the terminal fallback when no
// synthesizer is available.
type Nop struct{}

func (Nop) Speak(context.Context, string) error {
	return nil
}
