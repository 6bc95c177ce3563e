package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/assets"
	"github.com/123Haben/parking-place/pkg/middleware"
	"github.com/123Haben/parking-place/pkg/owners"
	"github.com/123Haben/parking-place/pkg/routepath"
	"github.com/123Haben/parking-place/pkg/router"
	"github.com/123Haben/parking-place/pkg/views"
)

// Internal mount points, relative to the router base.
const (
	ClientScriptPath = "/_parkdash/client.js"
	SocketPath       = "/_parkdash/ws"
	AssetsPath       = "/assets"
	APIPath          = "/api"
	StylesheetName   = "app.css"
)

// Options configures a Server. Only Router is required.
type Options struct {
	// Router resolves every page request and session navigation.
	Router *router.Router

	// Catalog provides localized strings. Nil renders message IDs.
	Catalog *i18n.Catalog

	// Locale is the fallback language when the request states none.
	Locale string

	// Owners backs /api/owners/. Nil serves an empty list.
	Owners owners.Store

	// Assets backs /assets/. Nil disables the asset endpoint and the
	// stylesheet link.
	Assets assets.Source

	// AssetMaxSize is the largest asset served, in bytes (<= 0: no limit).
	AssetMaxSize int64

	// Metrics records session gauges and WebSocket errors. Nil disables.
	Metrics *middleware.Metrics

	// Gatherer is exposed on /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Address is the listen address used by Run.
	Address string

	ShutdownTimeout   time.Duration
	HeartbeatInterval time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	MaxMessageSize    int64

	// HistoryCapacity bounds each session's history.
	HistoryCapacity int

	// CheckOrigin validates WebSocket upgrade origins. Default: same origin.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Address == "" {
		o.Address = ":8080"
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 30 * time.Second
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = 30 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 2 * o.HeartbeatInterval
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 64 * 1024
	}
	if o.HistoryCapacity <= 0 {
		o.HistoryCapacity = router.DefaultHistoryCapacity
	}
	if o.Gatherer == nil {
		o.Gatherer = prometheus.DefaultGatherer
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Server is the dashboard HTTP server.
type Server struct {
	opts     Options
	router   *router.Router
	notFound templ.Component
	sessions *SessionManager
	upgrader websocket.Upgrader
	handler  http.Handler
	logger   *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu         sync.Mutex
	closing    bool
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Router == nil {
		return nil, ErrNoRouter
	}
	opts.applyDefaults()
	logger := opts.Logger.With("component", "server")

	notFound := opts.Router.NotFound()
	if notFound == nil {
		notFound = views.NotFound{Home: opts.Router.URL("/")}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		router:   opts.Router,
		notFound: notFound,
		sessions: NewSessionManager(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
	}
	s.sessions.OnOpen(func(*Session) { opts.Metrics.SessionOpened() })
	s.sessions.OnClose(func(*Session) { opts.Metrics.SessionClosed() })
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	base := s.router.Base()

	app := chi.NewRouter()
	app.Get(ClientScriptPath, s.serveThinClient)
	app.Get(SocketPath, s.serveWebSocket)
	if s.opts.Assets != nil {
		prefix := routepath.JoinBase(base, AssetsPath)
		app.Handle(AssetsPath+"/*", http.StripPrefix(prefix,
			assets.Handler(s.opts.Assets, s.opts.AssetMaxSize, s.opts.Logger)))
	}
	app.Route(APIPath, s.apiRoutes)
	app.Get("/*", s.servePage)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.GetHead)
	mux.Use(requestLogger(s.logger))

	mux.Get("/healthz", s.serveHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	if base == "" {
		mux.Mount("/", app)
	} else {
		mux.Mount(base, app)
	}
	return mux
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Router returns the router the server was built with.
func (s *Server) Router() *router.Router {
	return s.router
}

// Run listens on Options.Address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		ln.Close()
		return http.ErrServerClosed
	}
	if s.httpServer != nil {
		s.mu.Unlock()
		ln.Close()
		return ErrAlreadyRunning
	}
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	hs := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- hs.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes all sessions and drains HTTP within the shutdown timeout.
// Calls after the first return nil.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	hs := s.httpServer
	s.mu.Unlock()

	s.cancel()
	s.sessions.Shutdown()

	if hs != nil {
		if err := hs.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Error("shutdown error", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// track registers a connection goroutine unless the server is closing.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()))
		})
	}
}
