package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// Component is a renderable view bound to a route.
// The route table holds a non-exclusive reference; rendering is owned by the
// caller.
type Component = templ.Component

// PageMeta contains page metadata.
type PageMeta struct {
	// Title is the i18n message ID of the page title and nav label.
	Title string

	// Description is the i18n message ID of the page description.
	Description string
}

// Route binds a path and a name to a component.
type Route struct {
	// Path is the exact URL path (e.g., "/gate"). Must be canonical.
	Path string

	// Name is the symbolic name used for navigation (e.g., "gate").
	Name string

	// Component is the view rendered for this route.
	Component Component

	// Meta is optional page metadata.
	Meta PageMeta
}

// HistoryMode selects how navigation is reflected in the browser URL.
type HistoryMode int

const (
	// HistoryWeb uses the HTML5 history API with real paths (/gate).
	HistoryWeb HistoryMode = iota

	// HistoryHash keeps the document at the base path and stores the route
	// in the fragment (/#/gate).
	HistoryHash

	// HistoryMemory never touches the browser URL.
	HistoryMemory
)

// String returns the config name of the mode.
func (m HistoryMode) String() string {
	switch m {
	case HistoryWeb:
		return "web"
	case HistoryHash:
		return "hash"
	case HistoryMemory:
		return "memory"
	default:
		return fmt.Sprintf("HistoryMode(%d)", int(m))
	}
}

// ParseHistoryMode parses a mode name ("web", "hash", "memory").
// The empty string selects HistoryWeb.
func ParseHistoryMode(s string) (HistoryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "web", "html5":
		return HistoryWeb, nil
	case "hash":
		return HistoryHash, nil
	case "memory", "abstract":
		return HistoryMemory, nil
	default:
		return HistoryWeb, fmt.Errorf("unknown history mode %q", s)
	}
}

// Operation is the history operation a navigation performs.
type Operation string

const (
	// OpPush adds a new history entry.
	OpPush Operation = "push"

	// OpReplace rewrites the current history entry.
	OpReplace Operation = "replace"

	// OpPop moves within existing history entries (back, forward, popstate).
	OpPop Operation = "pop"

	// OpNone leaves history untouched.
	OpNone Operation = "none"
)

// MatchResult contains the result of matching a path against the table.
type MatchResult struct {
	// Route is the matched route.
	Route Route

	// Path is the canonical, base-relative path that matched.
	Path string

	// Query holds the parsed query parameters of the request, if any.
	Query url.Values
}

// FullPath returns Path with the encoded query appended.
func (m *MatchResult) FullPath() string {
	if len(m.Query) == 0 {
		return m.Path
	}
	return m.Path + "?" + m.Query.Encode()
}

// Middleware processes navigations before they are committed to history.
type Middleware interface {
	// Handle processes the navigation and optionally calls next.
	// Return an error to abort the navigation.
	// Return nil without calling next to drop it silently.
	Handle(nav *Navigation, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(nav *Navigation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(nav *Navigation, next func() error) error {
	return f(nav, next)
}
