// Package views holds the dashboard's renderable views and the page layout.
//
// Views are comparable value types implementing templ.Component, so a route's
// bound view can be compared with ==. Strings come from the request's
// localizer (internal/i18n).
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/123Haben/parking-place/internal/i18n"
)

// SmartParking is the dashboard overview view.
type SmartParking struct{}

// Render implements templ.Component.
func (SmartParking) Render(ctx context.Context, w io.Writer) error {
	return section(ctx, w, "dashboard")
}

// Analytics is the parking analytics view.
type Analytics struct{}

// Render implements templ.Component.
func (Analytics) Render(ctx context.Context, w io.Writer) error {
	return section(ctx, w, "analytics")
}

// Gate is the gate control view.
type Gate struct{}

// Render implements templ.Component.
func (Gate) Render(ctx context.Context, w io.Writer) error {
	return section(ctx, w, "gate")
}

// NotFound is rendered for paths bound to no view. It reads the requested
// path from the context (see WithPath) and links back to Home.
type NotFound struct {
	// Home is the href of the link back into the app.
	Home string
}

// Render implements templ.Component.
func (v NotFound) Render(ctx context.Context, w io.Writer) error {
	l := i18n.FromContext(ctx)
	home := v.Home
	if home == "" {
		home = "/"
	}
	out := `<section class="view view-notfound" data-view="notfound"><h1>` +
		templ.EscapeString(l.T("page.notfound.title")) + `</h1><p>` +
		templ.EscapeString(l.Tf("page.notfound.body", map[string]any{"Path": PathFrom(ctx)})) +
		`</p><p><a href="` + templ.EscapeString(home) + `" data-link="true">` +
		templ.EscapeString(l.T("page.notfound.back")) + `</a></p></section>`
	_, err := io.WriteString(w, out)
	return err
}

func section(ctx context.Context, w io.Writer, name string) error {
	l := i18n.FromContext(ctx)
	out := `<section class="view view-` + name + `" data-view="` + name + `"><h1>` +
		templ.EscapeString(l.T("page."+name+".title")) + `</h1><p>` +
		templ.EscapeString(l.T("page."+name+".body")) + `</p></section>`
	_, err := io.WriteString(w, out)
	return err
}

type pathKey struct{}

// WithPath returns ctx carrying the requested path shown by NotFound.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFrom returns the path stored by WithPath.
func PathFrom(ctx context.Context) string {
	p, _ := ctx.Value(pathKey{}).(string)
	return p
}
