package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/config"
	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/server/middleware"
	"github.com/jonathan/squad-builder/internal/server/ratelimit"
	"github.com/jonathan/squad-builder/internal/types"
)

// ShutdownTimeout bounds how long in-flight requests may finish after Start's context ends.
const ShutdownTimeout = 30 * time.Second

// Engine is the squad building backend. *pipeline.Engine satisfies it.
type Engine interface {
	Build(ctx context.Context, req types.BuildSquadRequest, progress pipeline.ProgressCallback) (types.SquadResult, error)
	Chat(ctx context.Context, req types.ChatRequest, progress pipeline.ProgressCallback) (types.SquadResult, error)
	ReplacePlayer(req types.ReplaceRequest) ([]types.Replacement, error)
	SearchPlayers(ctx context.Context, role, text string, limit int) ([]types.Player, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	engine         Engine
	rateLimiter    *ratelimit.Limiter
	logger         *zap.Logger
	observer       middleware.HTTPObserver
	gatherer       prometheus.Gatherer
	requestTimeout time.Duration
	corsOrigin     string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records requests to observer and serves gatherer on /metrics.
func WithMetrics(observer middleware.HTTPObserver, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.observer = observer
		if gatherer != nil {
			s.gatherer = gatherer
		}
	}
}

// New creates a new server instance
func New(cfg *config.Config, engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:         engine,
		rateLimiter:    ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit)),
		logger:         zap.NewNop(),
		gatherer:       prometheus.DefaultGatherer,
		requestTimeout: cfg.Engine.RequestTimeout,
		corsOrigin:     cfg.Server.CORSOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed API wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/build-squad", s.handleBuildSquad)
	mux.HandleFunc("POST /api/build-squad/stream", s.handleBuildSquadStream)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/replace-player", s.handleReplacePlayer)
	mux.HandleFunc("GET /api/search-players", s.handleSearchPlayers)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	h = s.withRateLimit(h)
	h = middleware.CORS(s.corsOrigin)(h)
	h = middleware.AccessLog(s.logger, s.observer)(h)
	return middleware.RequestID(h)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-errCh
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID is the remote IP without its port.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	s.logger.Warn("rate limit exceeded",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("client", clientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Rate limit exceeded. Please try again later.",
		"limit":       info.Limit,
		"retry_after": retryAfter,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Server-side failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	s.errorResponse(w, status, err.Error())
}
