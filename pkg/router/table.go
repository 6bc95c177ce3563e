package router

import (
	"strings"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/routepath"
)

// Table is an immutable, ordered set of routes indexed by path and by name.
type Table struct {
	routes []Route
	byPath map[string]int
	byName map[string]int
}

// NewTable validates routes and builds a Table in declaration order.
//
// Every violation is reported; the returned error joins one ParkError per
// offending route (R001-R005, R008). Later duplicates are rejected, never
// silently overwritten.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
		byName: make(map[string]int, len(routes)),
	}

	var errs []error
	for i, r := range routes {
		if err := validateRoute(i, r); err != nil {
			errs = append(errs, err)
			continue
		}

		if j, dup := t.byPath[r.Path]; dup {
			errs = append(errs, perrors.New(perrors.CodeDuplicatePath).
				WithDetailf("path %q is bound to both %q and %q", r.Path, t.routes[j].Name, r.Name).
				WithSuggestion("Give every route its own path"))
			continue
		}
		if j, dup := t.byName[r.Name]; dup {
			errs = append(errs, perrors.New(perrors.CodeDuplicateName).
				WithDetailf("name %q is used by both %q and %q", r.Name, t.routes[j].Path, r.Path).
				WithSuggestion("Give every route its own name"))
			continue
		}

		t.byPath[r.Path] = len(t.routes)
		t.byName[r.Name] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	if len(errs) > 0 {
		return nil, perrors.Join(errs...)
	}
	return t, nil
}

// MustTable is like NewTable but panics on error. It is meant for tables
// declared in source.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

func validateRoute(i int, r Route) error {
	if r.Name == "" {
		return perrors.New(perrors.CodeMissingName).
			WithDetailf("route #%d (%q) has an empty name", i, r.Path)
	}
	if r.Component == nil {
		return perrors.New(perrors.CodeMissingComponent).
			WithDetailf("route %q (%q) has no component", r.Name, r.Path)
	}
	for _, seg := range strings.Split(r.Path, "/") {
		if strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			return perrors.New(perrors.CodeDynamicSegment).
				WithDetailf("route %q uses segment %q in %q", r.Name, seg, r.Path)
		}
	}
	if !routepath.IsCanonical(r.Path) {
		return perrors.New(perrors.CodeInvalidRoutePath).
			WithDetailf("route %q has path %q", r.Name, r.Path).
			WithSuggestion(`Use an absolute path such as "/gate" without trailing slash`)
	}
	return nil
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route bound to an exact canonical path.
func (t *Table) Lookup(path string) (Route, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// ByName returns the route registered under name.
func (t *Table) ByName(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Paths returns all paths in declaration order.
func (t *Table) Paths() []string {
	out := make([]string, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.Path
	}
	return out
}

// Names returns all names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.Name
	}
	return out
}
