package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/123Haben/parking-place/pkg/router"
)

const defaultTracerName = "parkdash"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "parkdash").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// Filter determines which navigations to trace. If nil, all are.
	Filter func(nav *router.Navigation) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(nav *router.Navigation) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(nav *router.Navigation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *router.Navigation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// sessionKey carries the session ID on a navigation context.
type sessionKey struct{}

// ContextWithSession returns ctx carrying the session ID recorded on spans.
func ContextWithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the session ID stored by ContextWithSession.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// OpenTelemetry creates middleware that wraps every navigation in a span.
//
// The tracer uses the global provider unless WithTracerProvider is given.
// Configure the global provider before starting the server (see
// internal/telemetry).
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("parkdash.path", nav.Requested),
			attribute.String("parkdash.route", routeLabel(nav)),
			attribute.String("parkdash.op", string(nav.Op)),
			attribute.Int("parkdash.status", nav.Status),
		}
		parent := nav.Context
		if parent == nil {
			parent = context.Background()
		}
		if id := SessionFromContext(parent); id != "" {
			attrs = append(attrs, attribute.String("parkdash.session_id", id))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(nav)...)
		}

		spanCtx, span := tracer.Start(parent, "navigate "+routeLabel(nav),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		nav.Context = spanCtx
		err := next()
		nav.Context = parent

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetAttributes(
			attribute.Int("parkdash.history_index", nav.Index),
			attribute.Bool("parkdash.duplicate", nav.Duplicate),
		)
		span.SetStatus(codes.Ok, "")
		return nil
	})
}

// SpanFromNavigation returns the span of the navigation currently running,
// or a no-op span.
func SpanFromNavigation(nav *router.Navigation) trace.Span {
	if nav == nil || nav.Context == nil {
		return trace.SpanFromContext(context.Background())
	}
	return trace.SpanFromContext(nav.Context)
}
