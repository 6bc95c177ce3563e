package parking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/123Haben/parking-place/internal/config"
	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/assets"
	"github.com/123Haben/parking-place/pkg/middleware"
	"github.com/123Haben/parking-place/pkg/owners"
	"github.com/123Haben/parking-place/pkg/router"
	"github.com/123Haben/parking-place/pkg/server"
)

// App is a configured dashboard: one router shared by the HTTP pages and
// every WebSocket session.
type App struct {
	Config  *config.Config
	Router  *router.Router
	Server  *server.Server
	Metrics *middleware.Metrics
	Catalog *i18n.Catalog

	owners owners.Store
	logger *slog.Logger
}

type appOptions struct {
	logger         *slog.Logger
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	guards         []router.Middleware
}

// AppOption configures NewApp.
type AppOption func(*appOptions)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) AppOption {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithRegistry registers the metrics on reg and serves reg on /metrics
// instead of the Prometheus default registry.
func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(o *appOptions) {
		o.registry = reg
	}
}

// WithTracerProvider traces navigations with tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) AppOption {
	return func(o *appOptions) {
		o.tracerProvider = tp
	}
}

// WithGuards adds navigation guards. They run after tracing and metrics, so
// aborted navigations are still recorded. Guards are not consulted again for
// a navigation to the current location.
func WithGuards(mw ...router.Middleware) AppOption {
	return func(o *appOptions) {
		o.guards = append(o.guards, mw...)
	}
}

// NewApp builds the router, the owners store, the asset source and the
// server from cfg. Close releases what NewApp opened.
func NewApp(ctx context.Context, cfg *config.Config, opts ...AppOption) (*App, error) {
	o := appOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := i18n.New()
	if err != nil {
		return nil, err
	}

	metricsOpts := []middleware.MetricsOption{
		middleware.WithNamespace(cfg.Metrics.Namespace),
		middleware.WithSubsystem(cfg.Metrics.Subsystem),
	}
	if len(cfg.Metrics.Buckets) > 0 {
		metricsOpts = append(metricsOpts, middleware.WithBuckets(cfg.Metrics.Buckets))
	}
	if len(cfg.Metrics.Labels) > 0 {
		metricsOpts = append(metricsOpts, middleware.WithConstLabels(prometheus.Labels(cfg.Metrics.Labels)))
	}
	var gatherer prometheus.Gatherer
	if o.registry != nil {
		metricsOpts = append(metricsOpts, middleware.WithRegistry(o.registry))
		gatherer = o.registry
	}
	metrics := middleware.NewMetrics(metricsOpts...)

	var otelOpts []middleware.OTelOption
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, middleware.WithTracerProvider(o.tracerProvider))
	}
	mw := []router.Middleware{
		middleware.OpenTelemetry(otelOpts...),
		metrics.Middleware(),
	}
	if len(o.guards) > 0 {
		// Staying on the current route was already allowed.
		mw = append(mw, router.Skip(isDuplicate, router.Chain(o.guards...)))
	}

	routerOpts := []router.Option{
		router.WithHistory(cfg.Server.HistoryMode()),
		router.WithBase(cfg.Server.Base),
		router.WithMiddleware(mw...),
		router.WithLogger(o.logger),
	}
	if cfg.Server.NotFound.Mode == config.NotFoundRedirect {
		routerOpts = append(routerOpts, router.WithRedirectFallback(cfg.Server.NotFound.Redirect))
	}
	r, err := NewRouter(routerOpts...)
	if err != nil {
		return nil, err
	}

	store, err := owners.Open(ctx, cfg.Owners.Driver, cfg.Owners.DSN)
	if err != nil {
		return nil, err
	}

	src, err := openAssets(cfg.Assets)
	if err != nil {
		store.Close()
		return nil, err
	}

	srv, err := server.New(server.Options{
		Router:          r,
		Catalog:         catalog,
		Locale:          cfg.Locale,
		Owners:          store,
		Assets:          src,
		AssetMaxSize:    cfg.Assets.MaxSizeBytes(),
		Metrics:         metrics,
		Gatherer:        gatherer,
		Address:         cfg.Server.Address(),
		ShutdownTimeout: cfg.Server.Shutdown(),
		Logger:          o.logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	o.logger.Debug("app ready",
		"history", r.Mode().String(),
		"base", r.Base(),
		"routes", r.Table().Len(),
		"owners", cfg.Owners.Driver,
		"assets", cfg.Assets.Source)

	return &App{
		Config:  cfg,
		Router:  r,
		Server:  srv,
		Metrics: metrics,
		Catalog: catalog,
		owners:  store,
		logger:  o.logger,
	}, nil
}

func isDuplicate(nav *router.Navigation) bool {
	return nav.Duplicate
}

func openAssets(cfg config.AssetsConfig) (assets.Source, error) {
	switch cfg.Source {
	case config.SourceS3:
		return assets.NewS3(assets.S3Options{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		return assets.NewEmbedded(), nil
	}
}

// Handler returns the HTTP handler of the app.
func (a *App) Handler() http.Handler {
	return a.Server.Handler()
}

// Run serves until ctx is done, then shuts down and closes the app.
func (a *App) Run(ctx context.Context) error {
	err := a.Server.Run(ctx)
	if cerr := a.owners.Close(); cerr != nil {
		a.logger.Warn("closing owners store", "error", cerr)
	}
	return err
}

// Close shuts the server down and closes the owners store.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Server.Shutdown(ctx), a.owners.Close())
}
