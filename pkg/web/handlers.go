package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/chai788/arrow-rover/pkg/hub"
)

// statusResponse is the REST status payload: the broadcast snapshot plus
// the number of live websocket watchers.
type statusResponse struct {
	State
	Watchers int `json:"watchers"`
}

// handleStatus returns the current rover snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	return c.JSON(statusResponse{
		State:    state,
		Watchers: s.statusHub.ClientCount(),
	})
}

// handleEvents returns the recent event log.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return c.JSON(s.events)
}

func (s *Server) handleStatusWS(conn *websocket.Conn) {
	hub.NewClient(s.statusHub, conn).Run()
}

func (s *Server) handleEventsWS(conn *websocket.Conn) {
	hub.NewClient(s.eventHub, conn).Run()
}
