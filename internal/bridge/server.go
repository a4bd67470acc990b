package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/engines"
	"github.com/wagiedev/uci-session-go/internal/session"
	"github.com/wagiedev/uci-session-go/internal/subprocess"
)

const (
	// DefaultPingInterval is how long a connection may stay silent before
	// the server pings it.
	DefaultPingInterval = 30 * time.Second

	shutdownTimeout = 5 * time.Second
)

// ChannelFactory creates the engine channel for one connection.
type ChannelFactory func(log *slog.Logger, options *config.Options) config.Channel

// Config configures a bridge server.
type Config struct {
	// Logger is the slog logger. If nil, logging is disabled.
	Logger *slog.Logger

	// Options is the session template. Each connection gets a copy with its
	// own callbacks.
	Options *config.Options

	// NewChannel creates each connection's channel. If nil, the engine is
	// spawned as a subprocess.
	NewChannel ChannelFactory

	// PingInterval overrides DefaultPingInterval.
	PingInterval time.Duration

	// AllowedOrigins restricts WebSocket origins. Empty allows any origin.
	AllowedOrigins []string
}

// Server routes HTTP and WebSocket traffic to per-connection sessions.
type Server struct {
	log            *slog.Logger
	options        *config.Options
	newChannel     ChannelFactory
	pingInterval   time.Duration
	allowedOrigins map[string]bool
	router         chi.Router
	metrics        *metrics
	active         atomic.Int64
}

// NewServer creates a bridge server.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	options := cfg.Options
	if options == nil {
		options = &config.Options{}
	}

	s := &Server{
		log:            log.With("component", "uci_bridge"),
		options:        options,
		newChannel:     cfg.NewChannel,
		pingInterval:   cfg.PingInterval,
		allowedOrigins: make(map[string]bool, len(cfg.AllowedOrigins)),
		metrics:        newMetrics(),
	}

	if s.newChannel == nil {
		s.newChannel = func(log *slog.Logger, options *config.Options) config.Channel {
			return subprocess.NewProcessChannel(log, options)
		}
	}

	if s.pingInterval <= 0 {
		s.pingInterval = DefaultPingInterval
	}

	for _, origin := range cfg.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			s.allowedOrigins[trimmed] = true
		}
	}

	s.router = s.routes()

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ActiveConnections returns the number of open WebSocket sessions.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.log.Info("Bridge listening", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}

		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("Graceful shutdown failed", "error", err)

			return srv.Close()
		}

		return nil
	})

	return eg.Wait()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/engine", s.handleEngine)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	r.Get("/ws", s.handleWS)

	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr,
			"duration", time.Since(start))
	})
}

type engineResponse struct {
	Engine      engines.Engine    `json:"engine"`
	Options     map[string]string `json:"options"`
	Missing     []string          `json:"missing,omitempty"`
	Catalog     []engines.Engine  `json:"catalog"`
	Connections int64             `json:"connections"`
}

func (s *Server) handleEngine(w http.ResponseWriter, _ *http.Request) {
	engine := engines.Resolve(s.options.Engine)
	opts := engine.Options(s.options.EngineOptions)

	resp := engineResponse{
		Engine:      engine,
		Options:     opts,
		Catalog:     engines.All(),
		Connections: s.active.Load(),
	}

	for _, req := range engine.Missing(opts) {
		resp.Missing = append(resp.Missing, string(req))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.allowedOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if s.allowedOrigins[origin] {
		return true
	}

	parsed, err := url.Parse(origin)

	return err == nil && parsed.Host == r.Host
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("WebSocket upgrade failed", "error", err)

		return
	}

	s.active.Add(1)
	s.metrics.connections.Inc()

	defer func() {
		s.active.Add(-1)
		s.metrics.connections.Dec()
	}()

	log := s.log.With("remote", r.RemoteAddr, "request_id", middleware.GetReqID(r.Context()))
	log.Info("WebSocket client connected")

	if err := s.serveConn(r.Context(), log, conn); err != nil {
		log.Debug("WebSocket connection ended", "error", err)
	}

	log.Info("WebSocket client disconnected")
}

// serveConn runs one connection: its own channel, its own controller and a
// reader and writer for the socket. It returns once the peer is gone and the
// session is closed.
func (s *Server) serveConn(ctx context.Context, log *slog.Logger, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &client{
		log:          log,
		conn:         conn,
		send:         make(chan []byte, sendBufferSize),
		ctx:          ctx,
		pingInterval: s.pingInterval,
		metrics:      s.metrics,
	}

	options := *s.options
	options.Channel = nil
	c.attach(&options)

	c.session = session.New(log, s.newChannel(log, &options), &options)

	var eg errgroup.Group

	eg.Go(func() error {
		defer cancel()

		return c.writeLoop()
	})

	eg.Go(func() error {
		defer cancel()

		return c.readLoop()
	})

	eg.Go(func() error {
		<-ctx.Done()

		return conn.Close()
	})

	if err := c.session.Start(ctx); err != nil {
		log.Warn("Engine session failed to start", "error", err)
	}

	err := eg.Wait()

	if closeErr := c.session.Close(); closeErr != nil {
		log.Debug("Session close", "error", closeErr)
	}

	return err
}
