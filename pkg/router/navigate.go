package router

import (
	"context"
	"net/http"
	"net/url"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/routepath"
)

// Location is a navigation target: either an app-relative Path or a route
// Name, plus optional query parameters.
type Location struct {
	Path  string
	Name  string
	Query url.Values
}

// ToPath returns a Location for an app-relative path.
func ToPath(path string) Location {
	return Location{Path: path}
}

// ToName returns a Location for a named route.
func ToName(name string) Location {
	return Location{Name: name}
}

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is merged into the target's query parameters.
	Query url.Values
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation URL.
func WithQuery(q url.Values) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = q
	}
}

// Navigation describes one navigation, before and after it is committed.
type Navigation struct {
	// Context is the context the navigation runs under.
	Context context.Context

	// From is the match being left, nil when there was none.
	From *MatchResult

	// To is the match being entered, nil when the path matched nothing.
	To *MatchResult

	// Requested is the canonical app-relative path that was asked for,
	// including query.
	Requested string

	// URL is the location the browser should show.
	URL string

	// Op is the history operation.
	Op Operation

	// Delta is the number of entries moved by a pop.
	Delta int

	// Index is the absolute history index after the navigation.
	Index int

	// Status is http.StatusOK for a match, http.StatusNotFound otherwise.
	Status int

	// Duplicate is set when the target equals the current location; history
	// is left untouched.
	Duplicate bool

	// Redirected is set when an unmatched path was sent to the fallback route.
	Redirected bool

	// Component is the view to render: the route's, or the not-found view.
	Component Component
}

// Matched reports whether the navigation reached a route.
func (n *Navigation) Matched() bool {
	return n.To != nil
}

// RouteName returns the target route name, or "" when unmatched.
func (n *Navigation) RouteName() string {
	if n.To == nil {
		return ""
	}
	return n.To.Route.Name
}

// Navigator performs navigations for a single session.
type Navigator struct {
	router  *Router
	history *History
	current *MatchResult
}

// NewNavigator creates a navigator for one session. A nil history gets a
// default one.
func (r *Router) NewNavigator(h *History) *Navigator {
	if h == nil {
		h = NewHistory(0)
	}
	return &Navigator{router: r, history: h}
}

// History returns the session history.
func (n *Navigator) History() *History {
	return n.history
}

// Current returns the current match, nil if none.
func (n *Navigator) Current() *MatchResult {
	return n.current
}

// Navigate moves to loc. Name and equivalent path navigations resolve to the
// same route.
//
// Errors:
//   - R006 when loc names an unknown route
//   - R007 when loc.Path is not a safe relative path
//   - R009 when middleware aborts the navigation
//
// An unknown path is not an error: the navigation carries Status 404 and the
// not-found component, or is redirected when a fallback route is configured.
func (n *Navigator) Navigate(ctx context.Context, loc Location, opts ...NavigateOption) (*Navigation, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	path, query, err := n.target(loc)
	if err != nil {
		return nil, err
	}
	for k, vs := range options.Query {
		if query == nil {
			query = url.Values{}
		}
		query[k] = append([]string(nil), vs...)
	}

	requested := path
	if len(query) > 0 {
		requested += "?" + query.Encode()
	}

	nav := &Navigation{
		Context:   ctx,
		From:      n.current,
		Requested: requested,
		Op:        OpPush,
	}
	if options.Replace {
		nav.Op = OpReplace
	}

	if cur, ok := n.history.Current(); ok && cur.Path == requested {
		nav.Op = OpNone
		nav.Duplicate = true
		nav.Index = n.history.Index()
		nav.URL = n.router.URL(requested)
		n.fill(nav, n.current)
		return n.run(nav, func() {})
	}

	match, _ := n.router.lookup(path, query.Encode())
	n.fill(nav, match)
	nav.URL = n.router.URL(requested)
	if !nav.Matched() {
		if fb, ok := n.redirect(nav); ok {
			requested = fb
		}
	}

	entry := HistoryEntry{Path: requested, Name: nav.RouteName()}
	return n.run(nav, func() {
		if nav.Op == OpReplace {
			n.history.Replace(entry)
		} else {
			n.history.Push(entry)
		}
	})
}

// Back moves one entry back. See Go.
func (n *Navigator) Back(ctx context.Context) (*Navigation, error) {
	return n.Go(ctx, -1)
}

// Forward moves one entry forward. See Go.
func (n *Navigator) Forward(ctx context.Context) (*Navigation, error) {
	return n.Go(ctx, 1)
}

// Go moves delta entries through history. Moving outside retained history
// is a no-op reported with Op OpNone.
func (n *Navigator) Go(ctx context.Context, delta int) (*Navigation, error) {
	entry, ok := n.history.Peek(delta)
	if !ok || delta == 0 {
		nav := &Navigation{
			Context: ctx,
			From:    n.current,
			Op:      OpNone,
			Index:   n.history.Index(),
		}
		if cur, ok := n.history.Current(); ok {
			nav.Requested = cur.Path
			nav.URL = n.router.URL(cur.Path)
		}
		n.fill(nav, n.current)
		return nav, nil
	}

	nav := n.popNavigation(ctx, entry)
	nav.Delta = delta
	return n.run(nav, func() {
		n.history.Go(delta)
	})
}

// Sync follows a browser popstate: the browser already moved to urlPath at
// absolute history index abs. When the index is unknown (e.g., after a
// reload) the current entry is replaced instead.
func (n *Navigator) Sync(ctx context.Context, path string, abs int) (*Navigation, error) {
	canon, err := routepath.CanonicalizeAndValidateNavPath(path)
	if err != nil {
		return nil, perrors.New(perrors.CodeInvalidNavPath).
			WithDetailf("popstate path %q", path).Wrap(err)
	}

	known := false
	if abs >= 0 {
		if e, ok := n.history.Peek(abs - n.history.Index()); ok && e.Path == canon {
			known = true
		}
	}

	nav := n.popNavigation(ctx, HistoryEntry{Path: canon})
	entry := HistoryEntry{Path: canon}
	if !nav.Matched() {
		if fb, ok := n.redirect(nav); ok {
			entry.Path = fb
		}
	}
	entry.Name = nav.RouteName()

	return n.run(nav, func() {
		if known {
			n.history.Seek(abs)
			if !nav.Redirected {
				return
			}
		}
		n.history.Replace(entry)
	})
}

// redirect points an unmatched nav at the fallback route, if one is
// configured, and returns the fallback path. The browser is told to replace
// its current entry.
func (n *Navigator) redirect(nav *Navigation) (string, bool) {
	fb, ok := n.router.RedirectFallback()
	if !ok {
		return "", false
	}
	n.fill(nav, &MatchResult{Route: fb, Path: fb.Path})
	nav.URL = n.router.URL(fb.Path)
	nav.Redirected = true
	nav.Op = OpReplace
	nav.Delta = 0
	return fb.Path, true
}

func (n *Navigator) popNavigation(ctx context.Context, entry HistoryEntry) *Navigation {
	p, q := routepath.SplitPathAndQuery(entry.Path)
	match, _ := n.router.lookup(p, q)
	nav := &Navigation{
		Context:   ctx,
		From:      n.current,
		Requested: entry.Path,
		URL:       n.router.URL(entry.Path),
		Op:        OpPop,
	}
	n.fill(nav, match)
	return nav
}

// target resolves loc to a canonical path and query.
func (n *Navigator) target(loc Location) (string, url.Values, error) {
	if loc.Name != "" {
		route, ok := n.router.table.ByName(loc.Name)
		if !ok {
			return "", nil, perrors.New(perrors.CodeUnknownRouteName).
				WithDetailf("no route named %q", loc.Name)
		}
		return route.Path, cloneValues(loc.Query), nil
	}

	canon, err := routepath.CanonicalizeAndValidateNavPath(loc.Path)
	if err != nil {
		return "", nil, perrors.New(perrors.CodeInvalidNavPath).
			WithDetailf("path %q", loc.Path).Wrap(err)
	}
	p, rawQuery := routepath.SplitPathAndQuery(canon)
	query := cloneValues(loc.Query)
	if rawQuery != "" {
		parsed, err := url.ParseQuery(rawQuery)
		if err != nil {
			return "", nil, perrors.New(perrors.CodeInvalidNavPath).
				WithDetailf("query of %q", loc.Path).Wrap(err)
		}
		if query == nil {
			query = parsed
		} else {
			for k, vs := range parsed {
				query[k] = append(query[k], vs...)
			}
		}
	}
	return p, query, nil
}

// fill sets the target-dependent fields of nav.
func (n *Navigator) fill(nav *Navigation, match *MatchResult) {
	nav.To = match
	if match != nil {
		nav.Status = http.StatusOK
		nav.Component = match.Route.Component
		return
	}
	nav.Status = http.StatusNotFound
	nav.Component = n.router.notFound
}

// run passes nav through the middleware chain and commits it when the chain
// reaches the end.
func (n *Navigator) run(nav *Navigation, commit func()) (*Navigation, error) {
	committed := false
	err := ComposeMiddleware(nav, n.router.middleware, func() error {
		commit()
		committed = true
		n.current = nav.To
		nav.Index = n.history.Index()
		return nil
	})
	if err != nil {
		n.router.logger.Debug("navigation aborted",
			"requested", nav.Requested,
			"error", err)
		return nil, perrors.New(perrors.CodeNavigationAborted).
			WithDetailf("navigation to %q", nav.Requested).Wrap(err)
	}
	if !committed {
		nav.Op = OpNone
		nav.Index = n.history.Index()
	}
	return nav, nil
}

func cloneValues(v url.Values) url.Values {
	if len(v) == 0 {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
