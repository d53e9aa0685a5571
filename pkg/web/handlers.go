package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tableread/go-tableread/internal/log"
	"github.com/tableread/go-tableread/pkg/cast"
	"github.com/tableread/go-tableread/pkg/script"
	"github.com/tableread/go-tableread/pkg/studio"
	"github.com/tableread/go-tableread/pkg/tts"
	"github.com/tableread/go-tableread/pkg/wav"
)

// ScriptRequest is the body for POST /api/script.
type ScriptRequest struct {
	Text string `json:"text"`
}

// ScriptResponse returns the parse result and the re-derived cast.
type ScriptResponse struct {
	Lines    []script.ParsedLine      `json:"lines"`
	Segments []script.DialogueSegment `json:"segments"`
	Cast     []cast.Character         `json:"cast"`
}

// handleScript replaces the current script, reparses it, and re-derives the
// cast. Existing characters keep their voice and pitch by name match.
func (s *Server) handleScript(c *fiber.Ctx) error {
	var req ScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	lines := s.segmenter.Parse(req.Text)
	segments := script.Group(lines)
	speakers := script.Speakers(lines)

	s.mu.Lock()
	s.text = req.Text
	s.lines = lines
	s.segments = segments
	s.members = cast.Recast(s.members, speakers, s.registry)
	resp := ScriptResponse{Lines: lines, Segments: segments, Cast: s.members}
	s.mu.Unlock()

	log.Info("script updated", "lines", len(lines), "segments", len(segments), "speakers", len(speakers))
	return c.JSON(resp)
}

// handleGetCast returns the current cast.
func (s *Server) handleGetCast(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.JSON(s.members)
}

// CastUpdateRequest is the body for PUT /api/cast/:name.
type CastUpdateRequest struct {
	Voice string  `json:"voice"`
	Pitch float64 `json:"pitch"`
}

// handleUpdateCast changes a character's voice or pitch and persists the
// choice to the registry so it survives script changes and restarts.
func (s *Server) handleUpdateCast(c *fiber.Ctx) error {
	name := c.Params("name")

	var req CastUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Voice != "" && !tts.IsKnownVoice(req.Voice) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown voice: "+req.Voice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := cast.Fold(name)
	for i := range s.members {
		if cast.Fold(s.members[i].Name) != key {
			continue
		}
		if req.Voice != "" {
			s.members[i].Voice = req.Voice
		}
		if req.Pitch != 0 {
			s.members[i].Pitch = cast.ClampPitch(req.Pitch)
		}
		if s.registry != nil {
			if err := s.registry.Save(s.members[i].Name, cast.VoiceChoice{
				Voice: s.members[i].Voice,
				Pitch: s.members[i].Pitch,
			}); err != nil {
				log.Warn("failed to persist voice choice", "name", name, "error", err)
			}
		}
		return c.JSON(s.members[i])
	}

	return fiber.NewError(fiber.StatusNotFound, "no such character: "+name)
}

// GenerateRequest is the body for POST /api/generate.
type GenerateRequest struct {
	// DelayMs overrides the inter-request throttle, in milliseconds.
	DelayMs int `json:"delay_ms"`
}

// handleGenerate starts a generation run in the background. Progress events
// stream over /ws/progress. Only one run at a time.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req GenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	s.mu.RLock()
	segments := s.segments
	members := cast.ByName(s.members)
	s.mu.RUnlock()

	if len(segments) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no script loaded")
	}

	s.genMu.Lock()
	if s.generating {
		s.genMu.Unlock()
		return fiber.NewError(fiber.StatusConflict, "generation already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.generating = true
	s.genCancel = cancel
	s.genMu.Unlock()

	opts := []studio.AssemblerOption{studio.WithLogger(log.L())}
	if req.DelayMs > 0 {
		opts = append(opts, studio.WithDelay(time.Duration(req.DelayMs)*time.Millisecond))
	}
	assembler := studio.New(s.provider, opts...)

	go func() {
		defer func() {
			s.genMu.Lock()
			s.generating = false
			s.genCancel = nil
			s.genMu.Unlock()
			cancel()
		}()

		result, err := assembler.Generate(ctx, segments, members, func(ev studio.Event) {
			s.progressHub.BroadcastJSON(ev)
		})
		if err != nil {
			log.Error("generation failed", "error", err)
			return
		}

		s.genMu.Lock()
		s.lastAudio = result.Buffer
		s.genMu.Unlock()
		log.Info("generation complete", "segments", result.Segments, "duration", result.Duration)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"segments": len(segments),
	})
}

// handleCancelGenerate aborts a running generation.
func (s *Server) handleCancelGenerate(c *fiber.Ctx) error {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if !s.generating || s.genCancel == nil {
		return fiber.NewError(fiber.StatusConflict, "no generation running")
	}
	s.genCancel()
	return c.SendStatus(fiber.StatusNoContent)
}

// handleExport streams the last generated audio as a WAV download.
func (s *Server) handleExport(c *fiber.Ctx) error {
	s.genMu.Lock()
	buffer := s.lastAudio
	s.genMu.Unlock()

	if buffer == nil {
		return fiber.NewError(fiber.StatusNotFound, "no generated audio: run generation first")
	}

	c.Set("Content-Type", "audio/wav")
	c.Set("Content-Disposition", `attachment; filename="tableread.wav"`)
	return c.Send(wav.Encode(buffer))
}

// handleVoices lists the fixed voice set.
func (s *Server) handleVoices(c *fiber.Ctx) error {
	return c.JSON(tts.Voices)
}
