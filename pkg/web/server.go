// Package web provides the browser dashboard: a REST API for persona
// selection and session control, plus a websocket event stream.
package web

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/lumell/parley/internal/log"
	"github.com/lumell/parley/pkg/hub"
	"github.com/lumell/parley/pkg/session"
)

// Controller is the slice of the session controller the server drives.
type Controller interface {
	Connect(ctx context.Context) error
	Disconnect() error
	State() session.State
	Err() error
	Messages() []session.Message
	ContextFields() []session.ContextField
	Metrics() session.Metrics
	Volume() (in, out float64)
	Speaking() bool
	Listening() bool
	SetMuted(muted bool)
	Muted() bool
}

// ControllerFactory builds a controller from fully-populated options.
// The default wraps session.NewController; tests substitute fakes.
type ControllerFactory func(opts session.Options) (Controller, error)

func defaultFactory(opts session.Options) (Controller, error) {
	return session.NewController(opts)
}

// Config configures the dashboard server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Base is the options template for each session: credentials,
	// audio devices, model overrides. Persona and observers are filled
	// in per connect.
	Base session.Options

	// Factory defaults to session.NewController.
	Factory ControllerFactory

	Logger *slog.Logger
}

// Server hosts the dashboard. It owns at most one live session at a
// time; connecting while one is open is rejected.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	base    session.Options
	factory ControllerFactory
	events  *hub.Hub

	// connectMu serializes the whole connect path so two concurrent
	// connects can never both pass the already-active check.
	connectMu sync.Mutex

	mu         sync.Mutex
	controller Controller
	personaID  string

	hubCancel context.CancelFunc
}

// NewServer builds the server and its routes.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.L()
	}
	factory := cfg.Factory
	if factory == nil {
		factory = defaultFactory
	}

	s := &Server{
		addr:    cfg.Addr,
		logger:  logger,
		base:    cfg.Base,
		factory: factory,
		events:  hub.New("events", logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Parley Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/personas", s.handleListPersonas)
	api.Get("/personas/:id", s.handleGetPersona)
	api.Get("/state", s.handleState)
	api.Get("/transcript", s.handleTranscript)
	api.Get("/context", s.handleContext)
	api.Get("/metrics", s.handleMetrics)
	api.Post("/connect", s.handleConnect)
	api.Post("/disconnect", s.handleDisconnect)
	api.Post("/mute", s.handleMute)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start runs the event hub and listens. Blocks until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.hubCancel = cancel
	go s.events.Run(ctx)
	s.logger.Info("dashboard listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown disconnects any live session and stops the server.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	ctrl := s.controller
	s.mu.Unlock()
	if ctrl != nil {
		ctrl.Disconnect()
	}
	if s.hubCancel != nil {
		s.hubCancel()
	}
	return s.app.Shutdown()
}

// current returns the active controller, or nil.
func (s *Server) current() Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller
}
