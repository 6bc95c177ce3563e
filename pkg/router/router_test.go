package router

import (
	"errors"
	"net/url"
	"testing"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

func TestRouterResolveDeclaredRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path string
		want stubView
	}{
		{"/dashboard", stubView{"dashboard"}},
		{"/analytics", stubView{"analytics"}},
		{"/gate", stubView{"gate"}},
	}
	for _, tt := range tests {
		m, ok := r.Resolve(tt.path)
		if !ok {
			t.Fatalf("Resolve(%q) did not match", tt.path)
		}
		if m.Route.Component != tt.want {
			t.Errorf("Resolve(%q).Component = %v, want %v", tt.path, m.Route.Component, tt.want)
		}
		if m.Path != tt.path {
			t.Errorf("Resolve(%q).Path = %q", tt.path, m.Path)
		}
	}
}

func TestRouterResolveCanonicalizes(t *testing.T) {
	r := newTestRouter(t)

	for _, in := range []string{"/gate/", "//gate", "/./gate", "/analytics/../gate", "gate"} {
		m, ok := r.Resolve(in)
		if !ok {
			t.Errorf("Resolve(%q) did not match", in)
			continue
		}
		if m.Route.Name != "gate" {
			t.Errorf("Resolve(%q) = %q, want gate", in, m.Route.Name)
		}
	}
}

func TestRouterResolveQuery(t *testing.T) {
	r := newTestRouter(t)

	m, ok := r.Resolve("/analytics?range=7d&zone=a")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Query.Get("range") != "7d" || m.Query.Get("zone") != "a" {
		t.Errorf("Query = %v", m.Query)
	}
	if m.FullPath() != "/analytics?range=7d&zone=a" {
		t.Errorf("FullPath() = %q", m.FullPath())
	}
}

func TestRouterResolveNoMatch(t *testing.T) {
	r := newTestRouter(t)

	for _, in := range []string{"/unknown", "/", "/gate/extra", "/Gate", "/../gate", "/gate\\x"} {
		if m, ok := r.Resolve(in); ok {
			t.Errorf("Resolve(%q) matched %q", in, m.Route.Name)
		}
	}
}

func TestRouterResolveName(t *testing.T) {
	r := newTestRouter(t)

	byName, ok := r.ResolveName("gate")
	if !ok {
		t.Fatal("ResolveName(gate) did not match")
	}
	byPath, ok := r.Resolve("/gate")
	if !ok {
		t.Fatal("Resolve(/gate) did not match")
	}
	if byName.Route.Component != byPath.Route.Component {
		t.Error("name and path navigation must resolve to the same component")
	}

	if _, ok := r.ResolveName("unknown"); ok {
		t.Error("ResolveName(unknown) should not match")
	}
}

func TestRouterHashMode(t *testing.T) {
	r := newTestRouter(t, WithHistory(HistoryHash))

	m, ok := r.Resolve("/#/gate")
	if !ok || m.Route.Name != "gate" {
		t.Fatalf("Resolve(/#/gate) = %v, %v", m, ok)
	}

	href, err := r.Href("gate", nil)
	if err != nil {
		t.Fatalf("Href: %v", err)
	}
	if href != "/#/gate" {
		t.Errorf("Href = %q, want /#/gate", href)
	}
}

func TestRouterBase(t *testing.T) {
	r := newTestRouter(t, WithBase("/parking"))

	href, err := r.Href("analytics", url.Values{"range": {"7d"}})
	if err != nil {
		t.Fatalf("Href: %v", err)
	}
	if href != "/parking/analytics?range=7d" {
		t.Errorf("Href = %q", href)
	}

	m, ok := r.ResolveURL("/parking/gate")
	if !ok || m.Route.Name != "gate" {
		t.Errorf("ResolveURL(/parking/gate) = %v, %v", m, ok)
	}
	if _, ok := r.ResolveURL("/gate"); ok {
		t.Error("paths outside the base must not match")
	}
}

func TestRouterHrefUnknownName(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.Href("nope", nil)
	if !errors.Is(err, perrors.New(perrors.CodeUnknownRouteName)) {
		t.Errorf("err = %v, want R006", err)
	}
}

func TestNewRouterValidatesOptions(t *testing.T) {
	table := MustTable(testRoutes())

	if _, err := New(table, WithRedirectFallback("missing")); !errors.Is(err, perrors.New(perrors.CodeUnknownRouteName)) {
		t.Errorf("unknown redirect fallback: err = %v", err)
	}
	if _, err := New(table, WithBase("/app/")); !errors.Is(err, perrors.New(perrors.CodeInvalidRoutePath)) {
		t.Errorf("non-canonical base: err = %v", err)
	}

	r, err := New(table, WithBase("/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Base() != "" {
		t.Errorf("Base() = %q, want empty", r.Base())
	}
	if r.Mode() != HistoryWeb {
		t.Errorf("Mode() = %v, want web", r.Mode())
	}
}

func TestRouterRedirectFallback(t *testing.T) {
	r := newTestRouter(t, WithRedirectFallback("dashboard"))

	fb, ok := r.RedirectFallback()
	if !ok || fb.Name != "dashboard" {
		t.Errorf("RedirectFallback() = %+v, %v", fb, ok)
	}
}

func TestParseHistoryMode(t *testing.T) {
	tests := []struct {
		in      string
		want    HistoryMode
		wantErr bool
	}{
		{"", HistoryWeb, false},
		{"web", HistoryWeb, false},
		{"HTML5", HistoryWeb, false},
		{"hash", HistoryHash, false},
		{"memory", HistoryMemory, false},
		{"fragment", HistoryWeb, true},
	}
	for _, tt := range tests {
		got, err := ParseHistoryMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHistoryMode(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHistoryMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if HistoryHash.String() != "hash" {
		t.Errorf("String() = %q", HistoryHash.String())
	}
}
