package assets

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// Handler serves assets from src. The request path, after any prefix was
// stripped, is the asset name. Assets larger than maxSize bytes are refused
// (maxSize <= 0 disables the limit).
func Handler(src Source, maxSize int64, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "assets")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" || strings.Contains(name, "..") {
			http.NotFound(w, r)
			return
		}

		a, err := src.Open(r.Context(), name)
		if err != nil {
			if IsNotFound(err) {
				http.NotFound(w, r)
				return
			}
			logger.Error("asset open failed", "name", name, "error", err)
			http.Error(w, "Asset unavailable", http.StatusBadGateway)
			return
		}
		defer a.Body.Close()

		if maxSize > 0 && a.Size > maxSize {
			logger.Warn("asset exceeds size limit", "name", name, "size", a.Size, "limit", maxSize)
			http.Error(w, "Asset too large", http.StatusBadGateway)
			return
		}

		ct := a.ContentType
		if ct == "" {
			ct = mime.TypeByExtension(path.Ext(name))
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		if a.ETag != "" {
			w.Header().Set("ETag", a.ETag)
		}
		if !a.ModTime.IsZero() {
			w.Header().Set("Last-Modified", a.ModTime.UTC().Format(http.TimeFormat))
		}

		if ETagMatches(r.Header.Get("If-None-Match"), a.ETag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if a.Size >= 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}

		w.WriteHeader(http.StatusOK)
		body := io.Reader(a.Body)
		if maxSize > 0 {
			body = io.LimitReader(a.Body, maxSize)
		}
		if _, err := io.Copy(w, body); err != nil {
			logger.Debug("asset write interrupted", "name", name, "error", err)
		}
	})
}

// ETagMatches reports whether an If-None-Match header matches etag.
// Lists and weak validators are accepted: `"abc", W/"def"`.
func ETagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	for _, part := range strings.Split(ifNoneMatch, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag {
			return true
		}
		if strings.HasPrefix(candidate, "W/") && strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
