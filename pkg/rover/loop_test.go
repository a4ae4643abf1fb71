package rover

import (
	"context"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/chai788/arrow-rover/pkg/drive"
	"github.com/chai788/arrow-rover/pkg/speech"
	"github.com/chai788/arrow-rover/pkg/vision"
)

// scriptSource serves n borrowed frames, then reports end of stream.
type scriptSource struct {
	frames int
	served int
}

func (s *scriptSource) Next() (gocv.Mat, bool) {
	if s.served >= s.frames {
		return gocv.Mat{}, false
	}
	s.served++
	return gocv.Mat{}, true
}

// scriptClassifier returns one scripted observation per tick; nil entries
// mean no marker was seen. Past the end of the script it sees nothing.
type scriptClassifier struct {
	script []*vision.Direction
	tick   int
}

func (c *scriptClassifier) Classify(gocv.Mat) []vision.Detection {
	if c.tick >= len(c.script) {
		return nil
	}
	obs := c.script[c.tick]
	c.tick++
	if obs == nil {
		return nil
	}
	return []vision.Detection{{Direction: *obs}}
}

// recordingCommander records sent commands and never has an ack.
type recordingCommander struct {
	mu   sync.Mutex
	sent []drive.Command
}

func (r *recordingCommander) Send(cmd drive.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, cmd)
	return nil
}

func (r *recordingCommander) TryReadAck(time.Duration) (string, bool) {
	return "", false
}

func (r *recordingCommander) commands() []drive.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]drive.Command(nil), r.sent...)
}

// steppedClock advances a fixed step per reading, so tick timing is exact.
func steppedClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func dir(d vision.Direction) *vision.Direction {
	return &d
}

func newTestLoop(frames int, script []*vision.Direction) (*Loop, *recordingCommander, *speech.Mock) {
	commander := &recordingCommander{}
	speaker := &speech.Mock{}
	l := New(
		&scriptSource{frames: frames},
		&scriptClassifier{script: script},
		drive.NewController(drive.DefaultMapping()),
		commander,
		speaker,
	)
	l.Clock = steppedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
	l.AckWait = 0
	return l, commander, speaker
}

func TestLoop_ObservationDrivesCommand(t *testing.T) {
	l, commander, speaker := newTestLoop(1, []*vision.Direction{dir(vision.Right)})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []drive.Command{drive.Right, drive.Stop} // command, then safety stop
	if got := commander.commands(); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("sent %v, want %v", got, want)
	}
	if got := speaker.Spoken(); len(got) != 1 || got[0] != "Moving right" {
		t.Errorf("spoke %v, want [Moving right]", got)
	}
}

func TestLoop_RepeatedObservationDebounced(t *testing.T) {
	script := []*vision.Direction{dir(vision.Right), dir(vision.Right), dir(vision.Right)}
	l, commander, _ := newTestLoop(3, script)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One mapped command at t=0; t=1 and t=2 are suppressed; final Stop is
	// the shutdown safety net.
	got := commander.commands()
	if len(got) != 2 || got[0] != drive.Right || got[1] != drive.Stop {
		t.Errorf("sent %v, want [right stop]", got)
	}
}

func TestLoop_FailsafeStopsMotors(t *testing.T) {
	script := []*vision.Direction{dir(vision.Right), nil, nil, nil}
	l, commander, speaker := newTestLoop(4, script)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// t=0 command; t=1,2 inside the 2s window; t=3 failsafe Stop; then the
	// shutdown Stop.
	got := commander.commands()
	if len(got) != 3 || got[0] != drive.Right || got[1] != drive.Stop || got[2] != drive.Stop {
		t.Errorf("sent %v, want [right stop stop]", got)
	}
	spoken := speaker.Spoken()
	if len(spoken) != 2 || spoken[1] != "Stopping" {
		t.Errorf("spoke %v, want [Moving right Stopping]", spoken)
	}
}

func TestLoop_FrameFailureEndsRunWithStop(t *testing.T) {
	l, commander, _ := newTestLoop(0, nil)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("a frame failure is an orderly end, got %v", err)
	}
	got := commander.commands()
	if len(got) != 1 || got[0] != drive.Stop {
		t.Errorf("sent %v, want a lone safety stop", got)
	}
}

func TestLoop_CancelledContextStopsBeforeFirstTick(t *testing.T) {
	l, commander, _ := newTestLoop(10, []*vision.Direction{dir(vision.Front)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := commander.commands()
	if len(got) != 1 || got[0] != drive.Stop {
		t.Errorf("sent %v, want only the safety stop", got)
	}
}

type quitAfter struct {
	shows int
	limit int
}

func (q *quitAfter) Show(gocv.Mat, []vision.Detection) bool {
	q.shows++
	return q.shows >= q.limit
}

func TestLoop_DisplayQuitEndsRun(t *testing.T) {
	l, commander, _ := newTestLoop(100, nil)
	display := &quitAfter{limit: 3}
	l.Display = display

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if display.shows != 3 {
		t.Errorf("ran %d ticks, want 3", display.shows)
	}
	got := commander.commands()
	if len(got) != 1 || got[0] != drive.Stop {
		t.Errorf("sent %v, want only the safety stop", got)
	}
}

func TestLoop_OnTickReportsState(t *testing.T) {
	script := []*vision.Direction{dir(vision.Back), nil}
	l, _, _ := newTestLoop(2, script)

	var reports []TickReport
	l.OnTick = func(r TickReport) { reports = append(reports, r) }

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	first := reports[0]
	if first.Command == nil || *first.Command != drive.Backward {
		t.Errorf("first report command = %v, want backward", first.Command)
	}
	if !first.Moving || first.Direction != vision.Back {
		t.Errorf("first report mode = (%v, %v), want moving back", first.Direction, first.Moving)
	}
	if len(first.Detections) != 1 {
		t.Errorf("first report detections = %v, want one", first.Detections)
	}
	second := reports[1]
	if second.Command != nil {
		t.Errorf("second report command = %v, want none inside the failsafe window", second.Command)
	}
}
