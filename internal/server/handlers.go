package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/server/middleware"
	"github.com/jonathan/squad-builder/internal/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// validatable is implemented by every request type.
type validatable interface {
	Validate() error
}

// decodeRequest reads an optional JSON body into dst and validates it.
// An empty body leaves dst at its zero value.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst validatable) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := dst.Validate(); err != nil {
		return newValidationError(err)
	}
	return nil
}

// withTimeout bounds the engine work of one request.
func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// handleBuildSquad builds a squad from explicit tactics.
func (s *Server) handleBuildSquad(w http.ResponseWriter, r *http.Request) {
	var req types.BuildSquadRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	result, err := s.engine.Build(ctx, req, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleBuildSquadStream builds a squad and streams progress via SSE
func (s *Server) handleBuildSquadStream(w http.ResponseWriter, r *http.Request) {
	var req types.BuildSquadRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	requestID := middleware.GetRequestID(r.Context())
	progress := func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			s.logger.Warn("failed to write SSE event", zap.String("request_id", requestID), zap.Error(err))
		}
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	result, err := s.engine.Build(ctx, req, progress)
	if err != nil {
		s.logger.Error("streamed build failed", zap.String("request_id", requestID), zap.Error(err))
		sse.WriteError(err)
		return
	}
	if err := sse.WriteEvent("result", result); err != nil {
		s.logger.Warn("failed to write SSE result", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	sse.WriteComplete(result.Fingerprint, "completed")
}

// handleChat infers tactics from a message, then builds.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	result, err := s.engine.Chat(ctx, req, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleReplacePlayer suggests swaps from the last shortlist.
func (s *Server) handleReplacePlayer(w http.ResponseWriter, r *http.Request) {
	var req types.ReplaceRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	replacements, err := s.engine.ReplacePlayer(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if replacements == nil {
		replacements = []types.Replacement{}
	}
	s.jsonResponse(w, http.StatusOK, replacements)
}

// handleSearchPlayers filters the catalog by ?position=&query=&limit=.
func (s *Server) handleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	players, err := s.engine.SearchPlayers(r.Context(), q.Get("position"), q.Get("query"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if players == nil {
		players = []types.Player{}
	}
	s.jsonResponse(w, http.StatusOK, players)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "World Cup Squad Builder API",
	})
}
