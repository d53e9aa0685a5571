// Package web provides the HTTP API and progress dashboard backend for
// go-tableread: script parsing, casting, generation, and WAV export, with
// generation progress fanned out over a websocket hub.
package web

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/tableread/go-tableread/internal/log"
	"github.com/tableread/go-tableread/pkg/cast"
	"github.com/tableread/go-tableread/pkg/hub"
	"github.com/tableread/go-tableread/pkg/pcm"
	"github.com/tableread/go-tableread/pkg/script"
	"github.com/tableread/go-tableread/pkg/tts"
)

// Server is the table-read API server.
type Server struct {
	app  *fiber.App
	port string

	provider  tts.Provider
	registry  cast.Registry
	segmenter *script.Segmenter

	// State guarded by mu: the current script and its derived artifacts.
	mu       sync.RWMutex
	text     string
	lines    []script.ParsedLine
	segments []script.DialogueSegment
	members  []cast.Character

	// Generation state
	genMu      sync.Mutex
	generating bool
	genCancel  context.CancelFunc
	lastAudio  *pcm.Buffer

	progressHub *hub.Hub
}

// NewServer creates the API server. The registry may be nil (no persisted
// voice preferences).
func NewServer(port string, provider tts.Provider, registry cast.Registry) *Server {
	s := &Server{
		port:        port,
		provider:    provider,
		registry:    registry,
		segmenter:   script.NewSegmenter(nil),
		progressHub: hub.New("progress"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "tableread",
		DisableStartupMessage: true,
		BodyLimit:             4 * 1024 * 1024,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/script", s.handleScript)
	api.Get("/cast", s.handleGetCast)
	api.Put("/cast/:name", s.handleUpdateCast)
	api.Post("/generate", s.handleGenerate)
	api.Post("/generate/cancel", s.handleCancelGenerate)
	api.Get("/export", s.handleExport)
	api.Get("/voices", s.handleVoices)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/progress", websocket.New(s.handleProgressWS))

	s.app = app
	return s
}

// Start starts the server and the progress hub. Blocks until shutdown.
func (s *Server) Start() error {
	go s.progressHub.Run()
	log.Info("server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	s.genMu.Lock()
	if s.genCancel != nil {
		s.genCancel()
	}
	s.genMu.Unlock()
	return s.app.Shutdown()
}

// handleProgressWS attaches a dashboard client to the progress hub.
func (s *Server) handleProgressWS(c *websocket.Conn) {
	client := hub.NewClient(s.progressHub, c)
	client.Run()
}
