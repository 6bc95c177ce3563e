package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/router"
)

var catalog = i18n.MustNew()

func renderIn(t *testing.T, ctx context.Context, lang string, c templ.Component) string {
	t.Helper()
	ctx = i18n.WithLocalizer(ctx, catalog.Localizer(lang))
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return sb.String()
}

func TestViewsRenderLocalizedSections(t *testing.T) {
	tests := []struct {
		view templ.Component
		lang string
		want []string
	}{
		{SmartParking{}, "en", []string{`data-view="dashboard"`, "<h1>Smart Parking</h1>"}},
		{Analytics{}, "en", []string{`data-view="analytics"`, "<h1>Analytics</h1>"}},
		{Gate{}, "en", []string{`data-view="gate"`, "<h1>Gate</h1>"}},
		{Gate{}, "de", []string{`data-view="gate"`, "<h1>Schranke</h1>"}},
	}
	for _, tt := range tests {
		got := renderIn(t, context.Background(), tt.lang, tt.view)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("%T (%s) missing %q in %s", tt.view, tt.lang, w, got)
			}
		}
	}
}

func TestViewsAreComparable(t *testing.T) {
	var a, b templ.Component = Gate{}, Gate{}
	if a != b {
		t.Error("equal views should compare equal")
	}
	if a == templ.Component(Analytics{}) {
		t.Error("different views should not compare equal")
	}
}

func TestNotFoundEscapesPath(t *testing.T) {
	ctx := WithPath(context.Background(), "/<script>")
	got := renderIn(t, ctx, "en", NotFound{Home: "/dashboard"})
	if strings.Contains(got, "<script>") {
		t.Errorf("path not escaped: %s", got)
	}
	if !strings.Contains(got, `href="/dashboard"`) {
		t.Errorf("missing home link: %s", got)
	}
	if !strings.Contains(got, "Page not found") {
		t.Errorf("missing title: %s", got)
	}
}

func testRouter(t *testing.T) *router.Router {
	t.Helper()
	table, err := router.NewTable([]router.Route{
		{Path: "/dashboard", Name: "dashboard", Component: SmartParking{}, Meta: router.PageMeta{Title: "page.dashboard.title"}},
		{Path: "/analytics", Name: "analytics", Component: Analytics{}, Meta: router.PageMeta{Title: "page.analytics.title"}},
		{Path: "/gate", Name: "gate", Component: Gate{}, Meta: router.PageMeta{Title: "page.gate.title"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r, err := router.New(table)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNavMarksCurrentRoute(t *testing.T) {
	r := testRouter(t)
	current, _ := r.ResolveName("analytics")
	got := renderIn(t, context.Background(), "en", Nav(r, current))

	if strings.Count(got, "<li>") != 3 {
		t.Errorf("expected three links: %s", got)
	}
	if !strings.Contains(got, `href="/analytics" data-link="true" data-route="analytics" class="active"`) {
		t.Errorf("analytics not active: %s", got)
	}
	if strings.Index(got, "/dashboard") > strings.Index(got, "/gate") {
		t.Error("links should follow table order")
	}
}

func TestPageDocument(t *testing.T) {
	r := testRouter(t)
	page := Page{
		Title:        "Gate | Smart Parking",
		Nav:          Nav(r, nil),
		Content:      Gate{},
		ClientScript: "/_parkdash/client.js",
		Socket:       "/_parkdash/ws",
		HistoryMode:  router.HistoryWeb,
	}
	got := renderIn(t, context.Background(), "de", page)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="de">`,
		"<title>Gate | Smart Parking</title>",
		`<script src="/_parkdash/client.js" defer></script>`,
		`data-history="web"`,
		`<main id="parkdash-view"><section class="view view-gate"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestTitle(t *testing.T) {
	r := testRouter(t)
	l := catalog.Localizer("en")

	gate, _ := r.ResolveName("gate")
	if got := Title(l, gate); got != "Gate | Smart Parking" {
		t.Errorf("Title(gate) = %q", got)
	}
	dash, _ := r.ResolveName("dashboard")
	if got := Title(l, dash); got != "Smart Parking" {
		t.Errorf("Title(dashboard) = %q", got)
	}
	if got := Title(l, nil); got != "Page not found | Smart Parking" {
		t.Errorf("Title(nil) = %q", got)
	}
}

func TestComposeTitle(t *testing.T) {
	tests := []struct{ title, want string }{
		{"", "App"},
		{"App", "App"},
		{"Gate", "Gate | App"},
		{"Gate | App", "Gate | App"},
		{"  Gate ", "Gate | App"},
	}
	for _, tt := range tests {
		if got := ComposeTitle(tt.title, "App"); got != tt.want {
			t.Errorf("ComposeTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
