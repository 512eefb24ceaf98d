package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/lumell/parley/pkg/hub"
	"github.com/lumell/parley/pkg/persona"
	"github.com/lumell/parley/pkg/session"
)

func (s *Server) handleListPersonas(c *fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		return c.JSON(persona.Search(q))
	}
	if category := c.Query("category"); category != "" {
		return c.JSON(persona.ByCategory(category))
	}
	return c.JSON(persona.List())
}

func (s *Server) handleGetPersona(c *fiber.Ctx) error {
	p, err := persona.Get(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(p)
}

type stateResponse struct {
	State     string  `json:"state"`
	PersonaID string  `json:"persona_id,omitempty"`
	Speaking  bool    `json:"speaking"`
	Listening bool    `json:"listening"`
	Muted     bool    `json:"muted"`
	VolumeIn  float64 `json:"volume_in"`
	VolumeOut float64 `json:"volume_out"`
	Error     string  `json:"error,omitempty"`
}

func (s *Server) handleState(c *fiber.Ctx) error {
	s.mu.Lock()
	ctrl, personaID := s.controller, s.personaID
	s.mu.Unlock()

	if ctrl == nil {
		return c.JSON(stateResponse{State: session.StateIdle.String()})
	}

	in, out := ctrl.Volume()
	resp := stateResponse{
		State:     ctrl.State().String(),
		PersonaID: personaID,
		Speaking:  ctrl.Speaking(),
		Listening: ctrl.Listening(),
		Muted:     ctrl.Muted(),
		VolumeIn:  in,
		VolumeOut: out,
	}
	if err := ctrl.Err(); err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(resp)
}

func (s *Server) handleTranscript(c *fiber.Ctx) error {
	ctrl := s.current()
	if ctrl == nil {
		return c.JSON([]session.Message{})
	}
	return c.JSON(ctrl.Messages())
}

func (s *Server) handleContext(c *fiber.Ctx) error {
	ctrl := s.current()
	if ctrl == nil {
		return c.JSON([]session.ContextField{})
	}
	return c.JSON(ctrl.ContextFields())
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	ctrl := s.current()
	if ctrl == nil {
		return c.JSON(session.Metrics{})
	}
	return c.JSON(ctrl.Metrics())
}

type connectRequest struct {
	PersonaID string `json:"persona_id"`
}

func (s *Server) handleConnect(c *fiber.Ctx) error {
	var req connectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	p, err := persona.Get(req.PersonaID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	// Held across check, connect and store: the server owns at most one
	// live session, so a second connect must wait and then see it.
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	s.mu.Lock()
	if s.controller != nil && !s.controller.State().Connectable() {
		s.mu.Unlock()
		return fiber.NewError(fiber.StatusConflict, "a session is already active")
	}
	s.mu.Unlock()

	opts := s.base
	opts.Persona = p
	opts.Logger = s.logger
	opts.OnState = func(state session.State) {
		s.events.Publish(hub.StateEvent(state.String(), p.ID))
	}
	opts.OnTranscript = func(m session.Message) {
		s.events.Publish(hub.TranscriptEvent(m))
	}
	opts.OnContext = func(f session.ContextField) {
		s.events.Publish(hub.ContextEvent(f))
	}
	opts.OnVolume = func(in, out float64) {
		s.events.Publish(hub.VolumeEvent(in, out))
	}

	ctrl, err := s.factory(opts)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := ctrl.Connect(c.UserContext()); err != nil {
		switch {
		case errors.Is(err, session.ErrCredentialMissing),
			errors.Is(err, session.ErrCredentialInvalid):
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, session.ErrAlreadyConnected):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
	}

	s.mu.Lock()
	s.controller = ctrl
	s.personaID = p.ID
	s.mu.Unlock()

	s.logger.Info("session started", "persona", p.Name)
	return c.JSON(fiber.Map{"state": ctrl.State().String(), "persona_id": p.ID})
}

func (s *Server) handleDisconnect(c *fiber.Ctx) error {
	ctrl := s.current()
	if ctrl == nil {
		return c.JSON(fiber.Map{"state": session.StateIdle.String()})
	}
	if err := ctrl.Disconnect(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"state": ctrl.State().String()})
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

func (s *Server) handleMute(c *fiber.Ctx) error {
	ctrl := s.current()
	if ctrl == nil {
		return fiber.NewError(fiber.StatusConflict, "no active session")
	}
	var req muteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	ctrl.SetMuted(req.Muted)
	return c.JSON(fiber.Map{"muted": ctrl.Muted()})
}

func (s *Server) handleEventsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.events, conn)
	client.Run()
}
