package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/owners"
)

// WelcomeMessage is returned by GET /api/.
const WelcomeMessage = "Welcome to Smart Parking API"

// RouteInfo describes one route in GET /api/routes.
type RouteInfo struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

func (s *Server) apiRoutes(r chi.Router) {
	r.Use(noCache)
	r.Get("/", s.serveWelcome)
	r.Get("/owners", s.serveOwners)
	r.Get("/owners/", s.serveOwners)
	r.Get("/routes", s.serveRoutes)
}

func (s *Server) serveWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (s *Server) serveOwners(w http.ResponseWriter, r *http.Request) {
	if s.opts.Owners == nil {
		writeJSON(w, http.StatusOK, []owners.Owner{})
		return
	}
	list, err := s.opts.Owners.List(r.Context())
	if err != nil {
		s.logger.Error("list owners failed", "error", err)
		writeError(w, http.StatusInternalServerError, perrors.FromError(err, perrors.CodeStoreFailure))
		return
	}
	if list == nil {
		list = []owners.Owner{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) serveRoutes(w http.ResponseWriter, r *http.Request) {
	l := s.localizerFor(r)
	routes := s.router.Table().Routes()
	out := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		href, _ := s.router.Href(rt.Name, nil)
		info := RouteInfo{Path: rt.Path, Name: rt.Name, Href: href}
		if rt.Meta.Title != "" {
			info.Title = l.T(rt.Meta.Title)
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	active, created, closed := s.sessions.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"sessions":        active,
		"sessions_opened": created,
		"sessions_closed": closed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err *perrors.ParkError) {
	writeJSON(w, status, map[string]any{"error": err})
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
