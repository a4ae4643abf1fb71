// Arrow rover: watches the camera for arrow markers and drives the motor
// controller over its serial link.
package main

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/chai788/arrow-rover/internal/config"
	"github.com/chai788/arrow-rover/internal/log"
	"github.com/chai788/arrow-rover/pkg/drive"
	"github.com/chai788/arrow-rover/pkg/link"
	"github.com/chai788/arrow-rover/pkg/rover"
	"github.com/chai788/arrow-rover/pkg/speech"
	"github.com/chai788/arrow-rover/pkg/vision"
	"github.com/chai788/arrow-rover/pkg/web"
)

func main() {
	if err := run(); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	log.Init(config.LogLevel())
	runID := uuid.New().String()
	log.Info("arrow rover starting", "run", runID)

	port, portName, err := openPort()
	if err != nil {
		return err
	}
	channel := link.NewChannel(port)
	defer channel.Close()
	// The link is up before anything else; from here every exit leaves the
	// motors stopped, even when camera or dashboard bring-up fails.
	defer channel.Send(drive.Stop)

	// Validate the link before anything else is brought up; a dead link
	// means nothing we send later would move the motors anyway.
	if !channel.Probe() {
		return fmt.Errorf("no liveness reply on %s, is the motor controller connected?", portName)
	}
	log.Info("link validated", "port", portName, "baud", config.Baud())

	source, err := rover.OpenCamera(config.CameraIndex())
	if err != nil {
		return err
	}
	defer source.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := rover.New(
		source,
		vision.NewClassifier(vision.DefaultConfig()),
		drive.NewController(drive.DefaultMapping()),
		channel,
		buildSpeaker(),
	)

	if addr := config.DashboardAddr(); addr != "" {
		dash := web.NewServer(addr, runID)
		dash.UpdateState(func(s *web.State) { s.Port = portName })
		dash.StartAsync()
		defer dash.Shutdown()
		loop.OnTick = dashboardTap(dash)
	}

	if !config.Headless() {
		window := gocv.NewWindow("arrow rover")
		defer window.Close()
		loop.Display = &overlayDisplay{window: window}
	}

	return loop.Run(ctx)
}

// openPort brings up the serial link: an in-memory port for dry runs, the
// ROVER_PORT device when set, otherwise whatever the user picks from the
// enumerated ports.
func openPort() (link.Porter, string, error) {
	if config.DryRun() {
		log.Info("dry run, using an in-memory port")
		mock := link.NewMockPort()
		mock.QueueRead([]byte("ok\n")) // answer the startup probe
		return mock, "mock", nil
	}

	name := config.PortName()
	if name == "" {
		ports, err := link.ListPorts()
		if err != nil {
			return nil, "", err
		}
		name, err = selectPort(ports, os.Stdin, os.Stdout)
		if err != nil {
			return nil, "", err
		}
	}
	port, err := link.Open(name, config.Baud())
	if err != nil {
		return nil, "", err
	}
	return port, name, nil
}

// selectPort prompts for one of the enumerated ports by index.
func selectPort(ports []string, in io.Reader, out io.Writer) (string, error) {
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports found")
	}

	fmt.Fprintln(out, "Available serial ports:")
	for i, p := range ports {
		fmt.Fprintf(out, "  [%d] %s\n", i, p)
	}
	fmt.Fprint(out, "Select port: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read port selection: %w", err)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 0 || idx >= len(ports) {
		return "", fmt.Errorf("invalid port selection %q", strings.TrimSpace(line))
	}
	return ports[idx], nil
}

// buildSpeaker wires the configured synthesizer, degrading to silence when
// none is installed.
func buildSpeaker() speech.Speaker {
	cmd := speech.NewCommandSpeaker(config.SpeakerCommand())
	if !cmd.Available() {
		log.Warn("speech synthesizer not found, running silent", "command", config.SpeakerCommand())
		return speech.Nop{}
	}
	return speech.NewChain(cmd)
}

// dashboardTap feeds per-tick telemetry into the dashboard.
func dashboardTap(dash *web.Server) func(rover.TickReport) {
	var ticks, detections, commands uint64
	return func(r rover.TickReport) {
		ticks++
		detections += uint64(len(r.Detections))
		if r.Command != nil {
			commands++
			dash.AddEvent("command", r.Command.String())
		}
		if r.Phrase != "" {
			dash.AddEvent("speech", r.Phrase)
		}
		dash.UpdateState(func(s *web.State) {
			s.Ticks = ticks
			s.Detections = detections
			s.CommandsSent = commands
			if r.Moving {
				s.Mode = "moving"
				s.Direction = r.Direction.String()
			} else {
				s.Mode = "stopped"
				s.Direction = ""
			}
			if r.Command != nil {
				s.LastCommand = r.Command.String()
			}
			if r.Phrase != "" {
				s.LastPhrase = r.Phrase
			}
		})
	}
}

var overlayColor = color.RGBA{G: 255, A: 255}

// overlayDisplay draws detections on the frame and shows it. Pressing q or
// ESC, or closing the window, quits the run.
type overlayDisplay struct {
	window *gocv.Window
}

func (d *overlayDisplay) Show(frame gocv.Mat, detections []vision.Detection) bool {
	for _, det := range detections {
		gocv.Circle(&frame, det.Centroid, 5, overlayColor, 2)
		gocv.PutText(&frame, det.Direction.String(),
			det.Centroid.Add(image.Pt(8, -8)),
			gocv.FontHersheyPlain, 1.2, overlayColor, 2)
	}
	d.window.IMShow(frame)

	key := d.window.WaitKey(1)
	if key == 'q' || key == 27 {
		return true
	}
	return !d.window.IsOpen()
}
