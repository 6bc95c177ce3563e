package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/router"
)

// ViewRegionID is the id of the element whose content the thin client swaps
// on navigation.
const ViewRegionID = "parkdash-view"

// Page is the full HTML document around a view.
type Page struct {
	// Title is the already localized page title.
	Title string

	// Nav renders the navigation bar.
	Nav templ.Component

	// Content is the view.
	Content templ.Component

	// ClientScript is the URL of the thin client script.
	ClientScript string

	// Stylesheet is the URL of the dashboard stylesheet, if any.
	Stylesheet string

	// Socket is the WebSocket URL the client connects to.
	Socket string

	// HistoryMode is written to the document for the client.
	HistoryMode router.HistoryMode

	// Base is the base path the app is mounted under.
	Base string
}

// Render implements templ.Component.
func (p Page) Render(ctx context.Context, w io.Writer) error {
	l := i18n.FromContext(ctx)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="` + templ.EscapeString(l.Lang()) + `"><head>`)
	b.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.WriteString(`<title>` + templ.EscapeString(p.Title) + `</title>`)
	if p.Stylesheet != "" {
		b.WriteString(`<link rel="stylesheet" href="` + templ.EscapeString(p.Stylesheet) + `">`)
	}
	if p.ClientScript != "" {
		b.WriteString(`<script src="` + templ.EscapeString(p.ClientScript) + `" defer></script>`)
	}
	b.WriteString(`</head><body data-history="` + templ.EscapeString(p.HistoryMode.String()) +
		`" data-base="` + templ.EscapeString(p.Base) +
		`" data-socket="` + templ.EscapeString(p.Socket) + `">`)
	b.WriteString(`<a class="skip" href="#` + ViewRegionID + `">` + templ.EscapeString(l.T("app.skip")) + `</a>`)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if p.Nav != nil {
		if err := p.Nav.Render(ctx, w); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `<main id="`+ViewRegionID+`">`); err != nil {
		return err
	}
	if p.Content != nil {
		if err := p.Content.Render(ctx, w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</main></body></html>`)
	return err
}

// Nav renders one link per route in table order, marking current as active.
func Nav(r *router.Router, current *router.MatchResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		l := i18n.FromContext(ctx)
		if _, err := io.WriteString(w, `<nav aria-label="`+templ.EscapeString(l.T("nav.label"))+`"><ul>`); err != nil {
			return err
		}
		for _, route := range r.Table().Routes() {
			if _, err := io.WriteString(w, `<li>`); err != nil {
				return err
			}
			if err := r.NavLink(route.Name, l.T("nav."+route.Name), current).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></nav>`)
		return err
	})
}

// Title returns the localized document title for a match. A nil match gives
// the not-found title.
func Title(l *i18n.Localizer, m *router.MatchResult) string {
	app := l.T("app.title")
	id := "page.notfound.title"
	if m != nil && m.Route.Meta.Title != "" {
		id = m.Route.Meta.Title
	}
	return ComposeTitle(l.T(id), app)
}

// ComposeTitle appends the app name to a page title unless they are equal.
func ComposeTitle(title, app string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return app
	case title == app, strings.HasSuffix(title, " | "+app):
		return title
	default:
		return title + " | " + app
	}
}
