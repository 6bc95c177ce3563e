package server

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	clientdist "github.com/123Haben/parking-place/client/dist"
	"github.com/123Haben/parking-place/pkg/assets"
)

var thinClientETag = func() string {
	sum := sha256.Sum256(clientdist.ParkdashJS)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:]))
}()

func (s *Server) serveThinClient(w http.ResponseWriter, r *http.Request) {
	if len(clientdist.ParkdashJS) == 0 {
		http.Error(w, "Thin client not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", thinClientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if assets.ETagMatches(r.Header.Get("If-None-Match"), thinClientETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clientdist.ParkdashJS)
}
