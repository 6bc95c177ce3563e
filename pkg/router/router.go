package router

import (
	"log/slog"
	"net/url"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/routepath"
)

// Router resolves paths and names against a Table under a history mode.
type Router struct {
	table      *Table
	mode       HistoryMode
	base       string
	notFound   Component
	redirectTo string
	middleware []Middleware
	logger     *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithHistory sets the history mode. Default: HistoryWeb.
func WithHistory(mode HistoryMode) Option {
	return func(r *Router) {
		r.mode = mode
	}
}

// WithBase mounts the application under a base path (e.g., "/app").
func WithBase(base string) Option {
	return func(r *Router) {
		r.base = base
	}
}

// WithNotFound sets the component rendered for unmatched paths.
func WithNotFound(c Component) Option {
	return func(r *Router) {
		r.notFound = c
	}
}

// WithRedirectFallback makes unmatched paths redirect (replace) to the named
// route instead of rendering the not-found component.
func WithRedirectFallback(name string) Option {
	return func(r *Router) {
		r.redirectTo = name
	}
}

// WithMiddleware appends navigation middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// New creates a Router over table.
func New(table *Table, opts ...Option) (*Router, error) {
	r := &Router{
		table: table,
		mode:  HistoryWeb,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "router")

	if r.base == "/" {
		r.base = ""
	}
	if r.base != "" && !routepath.IsCanonical(r.base) {
		return nil, perrors.New(perrors.CodeInvalidRoutePath).
			WithDetailf("base path %q is not canonical", r.base).
			WithSuggestion(`Use a base such as "/app" without trailing slash`)
	}
	if r.redirectTo != "" {
		if _, ok := table.ByName(r.redirectTo); !ok {
			return nil, perrors.New(perrors.CodeUnknownRouteName).
				WithDetailf("redirect fallback %q is not a route name", r.redirectTo)
		}
	}
	return r, nil
}

// Use adds navigation middleware. It must be called before the router is
// shared between goroutines.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// Mode returns the history mode.
func (r *Router) Mode() HistoryMode {
	return r.mode
}

// Base returns the base path ("" when mounted at root).
func (r *Router) Base() string {
	return r.base
}

// NotFound returns the not-found component, or nil.
func (r *Router) NotFound() Component {
	return r.notFound
}

// RedirectFallback returns the route unmatched paths redirect to, if any.
func (r *Router) RedirectFallback() (Route, bool) {
	if r.redirectTo == "" {
		return Route{}, false
	}
	return r.table.ByName(r.redirectTo)
}

// Resolve matches an app-relative path (no base) such as "/gate?x=1".
// The path is canonicalized first, so "/gate/" and "//gate" match "/gate".
// In hash mode a root path carrying a fragment ("/#/gate") resolves the
// fragment.
func (r *Router) Resolve(requested string) (*MatchResult, bool) {
	res, err := routepath.CanonicalizePath(requested)
	if err != nil {
		return nil, false
	}
	if r.mode == HistoryHash && res.Path == "/" && res.Fragment != "" {
		frag, err := routepath.CanonicalizePath(res.Fragment)
		if err != nil {
			return nil, false
		}
		res = frag
	}
	return r.lookup(res.Path, res.Query)
}

// ResolveURL matches a browser path that still carries the base path.
func (r *Router) ResolveURL(urlPath string) (*MatchResult, bool) {
	path, ok := r.StripBase(urlPath)
	if !ok {
		return nil, false
	}
	return r.Resolve(path)
}

// StripBase removes the base path from a browser path.
func (r *Router) StripBase(urlPath string) (string, bool) {
	return routepath.StripBase(r.base, urlPath)
}

// ResolveName returns the match for a named route.
func (r *Router) ResolveName(name string) (*MatchResult, bool) {
	route, ok := r.table.ByName(name)
	if !ok {
		return nil, false
	}
	return &MatchResult{Route: route, Path: route.Path}, true
}

func (r *Router) lookup(path, rawQuery string) (*MatchResult, bool) {
	route, ok := r.table.Lookup(path)
	if !ok {
		return nil, false
	}
	m := &MatchResult{Route: route, Path: path}
	if rawQuery != "" {
		if q, err := url.ParseQuery(rawQuery); err == nil {
			m.Query = q
		}
	}
	return m, true
}

// Href returns the browser URL of a named route.
func (r *Router) Href(name string, query url.Values) (string, error) {
	route, ok := r.table.ByName(name)
	if !ok {
		return "", perrors.New(perrors.CodeUnknownRouteName).
			WithDetailf("no route named %q", name)
	}
	path := route.Path
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return r.URL(path), nil
}

// URL converts an app-relative path into the URL shown in the browser.
func (r *Router) URL(path string) string {
	switch r.mode {
	case HistoryHash:
		return routepath.JoinBase(r.base, "/") + "#" + path
	default:
		return routepath.JoinBase(r.base, path)
	}
}
