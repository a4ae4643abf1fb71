// Package rover wires perception to actuation: one frame in, at most one
// command out, per tick.
//
// The loop is deliberately single-threaded and synchronous. Each iteration
// reads a frame, classifies it, advances the motion controller by exactly
// one tick, and performs any writes before the next iteration starts. There
// are no background ticks and no queued observations; bounded blocking
// (camera rate, serial waits, speech) simply stretches the tick.
package rover

import (
	"context"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/chai788/arrow-rover/internal/log"
	"github.com/chai788/arrow-rover/pkg/drive"
	"github.com/chai788/arrow-rover/pkg/speech"
	"github.com/chai788/arrow-rover/pkg/vision"
)

// FrameSource yields successive frames. Next reports false on end of
// stream or read failure; the frame is owned by the source and only
// borrowed by the loop for the duration of one tick.
type FrameSource interface {
	Next() (gocv.Mat, bool)
}

// Classifier labels markers in a frame.
type Classifier interface {
	Classify(frame gocv.Mat) []vision.Detection
}

// Commander is the outbound side of the command link.
type Commander interface {
	Send(cmd drive.Command) error
	TryReadAck(timeout time.Duration) (string, bool)
}

// Display presents a frame with its detections and reports whether the
// user asked to quit. Presentation only; nil disables it.
type Display interface {
	Show(frame gocv.Mat, detections []vision.Detection) (quit bool)
}

// TickReport is the telemetry snapshot of one loop iteration.
type TickReport struct {
	Detections []vision.Detection
	Command    *drive.Command
	Phrase     string
	Direction  vision.Direction
	Moving     bool
}

// Loop owns one run: it borrows frames, drives the controller, and talks to
// the command link and speaker. Collaborators are owned by the caller and
// released there; the loop guarantees a best-effort Stop on every exit.
type Loop struct {
	source     FrameSource
	classifier Classifier
	controller *drive.Controller
	channel    Commander
	speaker    speech.Speaker
	logger     *slog.Logger

	// Display is optional; when set, its quit signal ends the run.
	Display Display

	// OnTick is an optional telemetry tap, called once per iteration.
	OnTick func(TickReport)

	// Clock is the tick timestamp source, injectable for tests.
	Clock func() time.Time

	// AckWait bounds the opportunistic acknowledgement read after a send.
	AckWait time.Duration
}

// New assembles a loop from its collaborators.
func New(source FrameSource, classifier Classifier, controller *drive.Controller, channel Commander, speaker speech.Speaker) *Loop {
	return &Loop{
		source:     source,
		classifier: classifier,
		controller: controller,
		channel:    channel,
		speaker:    speaker,
		logger:     log.Component("rover"),
		Clock:      time.Now,
		AckWait:    100 * time.Millisecond,
	}
}

// Run executes ticks until the context is cancelled, the user quits, or a
// frame read fails. A frame failure ends the run in order, it is not an
// error. On every exit path a Stop command is attempted so the actuator is
// never left running.
func (l *Loop) Run(ctx context.Context) error {
	defer l.safetyStop()

	for {
		// Quit is polled once per iteration; no mid-tick cancellation.
		if ctx.Err() != nil {
			return nil
		}

		frame, ok := l.source.Next()
		if !ok {
			l.logger.Warn("frame source ended, leaving control loop")
			return nil
		}

		// Timestamp before anything that can block (speech in
		// particular), so the controller's timers see tick time, not
		// wall-clock drift.
		now := l.Clock()

		detections := l.classifier.Classify(frame)
		var obs *vision.Direction
		if len(detections) > 0 {
			obs = &detections[0].Direction
		}

		cmd, phrase := l.controller.Tick(obs, now)

		if cmd != nil {
			if err := l.channel.Send(*cmd); err != nil {
				l.logger.Error("command send failed", "command", cmd.String(), "error", err)
			} else if ack, got := l.channel.TryReadAck(l.AckWait); got {
				l.logger.Debug("actuator ack", "command", cmd.String(), "line", ack)
			}
		}

		if phrase != "" && l.speaker != nil {
			if err := l.speaker.Speak(ctx, phrase); err != nil {
				l.logger.Debug("speech skipped", "error", err)
			}
		}

		if l.OnTick != nil {
			direction, moving := l.controller.Moving()
			l.OnTick(TickReport{
				Detections: detections,
				Command:    cmd,
				Phrase:     phrase,
				Direction:  direction,
				Moving:     moving,
			})
		}

		if l.Display != nil && l.Display.Show(frame, detections) {
			l.logger.Info("quit requested")
			return nil
		}
	}
}

// safetyStop leaves the actuator stopped no matter how the run ended.
func (l *Loop) safetyStop() {
	if err := l.channel.Send(drive.Stop); err != nil {
		l.logger.Error("failed to send safety stop", "error", err)
	}
}
