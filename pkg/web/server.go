// Package web serves the rover telemetry dashboard: current controller
// state and a bounded event log, over REST and websocket.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/chai788/arrow-rover/internal/log"
	"github.com/chai788/arrow-rover/pkg/hub"
)

const maxEvents = 500

// State is the rover snapshot shown on the dashboard.
type State struct {
	RunID        string `json:"run_id"`
	Port         string `json:"port"`
	Mode         string `json:"mode"` // "stopped" or "moving"
	Direction    string `json:"direction,omitempty"`
	Ticks        uint64 `json:"ticks"`
	Detections   uint64 `json:"detections"`
	CommandsSent uint64 `json:"commands_sent"`
	LastCommand  string `json:"last_command,omitempty"`
	LastPhrase   string `json:"last_phrase,omitempty"`
}

// Event is one event-log line.
type Event struct {
	Time    string `json:"time"`
	Kind    string `json:"kind"` // tick, command, speech, error
	Message string `json:"message"`
}

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	addr string

	state   State
	stateMu sync.RWMutex

	events   []Event
	eventsMu sync.RWMutex

	statusHub *hub.Hub
	eventHub  *hub.Hub
}

// NewServer creates the dashboard listening on addr.
func NewServer(addr string, runID string) *Server {
	s := &Server{
		addr:      addr,
		state:     State{RunID: runID, Mode: "stopped"},
		events:    make([]Event, 0, maxEvents),
		statusHub: hub.New("status"),
		eventHub:  hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Arrow Rover",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/events", s.handleEvents)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// StartAsync serves in the background; a dead dashboard never stops the
// rover.
func (s *Server) StartAsync() {
	go s.statusHub.Run()
	go s.eventHub.Run()
	go func() {
		log.Info("dashboard listening", "addr", s.addr)
		if err := s.app.Listen(s.addr); err != nil {
			log.Warn("dashboard server stopped", "error", err)
		}
	}()
}

// UpdateState applies a mutation to the snapshot and broadcasts it.
func (s *Server) UpdateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// AddEvent appends to the bounded event log and broadcasts the entry.
func (s *Server) AddEvent(kind, message string) {
	entry := Event{
		Time:    time.Now().Format("15:04:05"),
		Kind:    kind,
		Message: message,
	}

	s.eventsMu.Lock()
	s.events = append(s.events, entry)
	if len(s.events) > maxEvents {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	s.eventHub.BroadcastJSON(entry)
}

// Shutdown stops the HTTP server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
