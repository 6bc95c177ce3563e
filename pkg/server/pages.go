package server

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/assets"
	"github.com/123Haben/parking-place/pkg/routepath"
	"github.com/123Haben/parking-place/pkg/router"
	"github.com/123Haben/parking-place/pkg/views"
)

// servePage renders the full document for a page path.
//
// In web history mode every route path is directly loadable. In hash and
// memory modes only the base path serves the document; the client reports
// its location over the socket and the view is filled in from there.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	input := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		input += "?" + r.URL.RawQuery
	}
	canon, err := routepath.CanonicalizePath(input)
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	if canon.Changed {
		target := canon.Path
		if canon.Query != "" {
			target += "?" + canon.Query
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	path, ok := s.router.StripBase(canon.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	l := s.localizerFor(r)
	ctx := i18n.WithLocalizer(r.Context(), l)

	var (
		match   *router.MatchResult
		content templ.Component
		title   string
		status  = http.StatusOK
	)
	switch {
	case s.router.Mode() != router.HistoryWeb && path == "/":
		title = l.T("app.title")

	default:
		if s.router.Mode() == router.HistoryWeb {
			target := canon.Path
			if canon.Query != "" {
				target += "?" + canon.Query
			}
			match, _ = s.router.ResolveURL(target)
		}
		if match != nil {
			content = match.Route.Component
			title = views.Title(l, match)
			break
		}
		if fb, ok := s.router.RedirectFallback(); ok {
			http.Redirect(w, r, s.router.URL(fb.Path), http.StatusFound)
			return
		}
		status = http.StatusNotFound
		content = s.notFound
		title = views.Title(l, nil)
		ctx = views.WithPath(ctx, path)
	}

	s.renderPage(w, r.WithContext(ctx), status, s.page(title, match, content))
}

func (s *Server) page(title string, match *router.MatchResult, content templ.Component) views.Page {
	base := s.router.Base()
	p := views.Page{
		Title:        title,
		Nav:          views.Nav(s.router, match),
		Content:      content,
		ClientScript: routepath.JoinBase(base, ClientScriptPath),
		Socket:       routepath.JoinBase(base, SocketPath),
		HistoryMode:  s.router.Mode(),
		Base:         base,
	}
	if s.opts.Assets != nil {
		p.Stylesheet = assets.NewResolver(routepath.JoinBase(base, AssetsPath)).URL(StylesheetName)
	}
	return p
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	templ.Handler(c,
		templ.WithStatus(status),
		templ.WithErrorHandler(s.renderError),
	).ServeHTTP(w, r)
}

func (s *Server) renderError(r *http.Request, err error) http.Handler {
	s.logger.Error("page render failed", "path", r.URL.Path, "error", err)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	})
}

// localizerFor picks the request language: ?lang, then Accept-Language, then
// the configured locale.
func (s *Server) localizerFor(r *http.Request, extra ...string) *i18n.Localizer {
	if s.opts.Catalog == nil {
		return nil
	}
	prefs := append(extra, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), s.opts.Locale)
	return s.opts.Catalog.Localizer(prefs...)
}
