package assets

import "strings"

// Resolver builds asset URLs under a mount prefix.
type Resolver struct {
	prefix string
}

// NewResolver creates a Resolver for assets mounted at prefix
// (e.g., "/parking/assets/").
func NewResolver(prefix string) Resolver {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return Resolver{prefix: prefix}
}

// URL returns the URL of the named asset.
func (r Resolver) URL(name string) string {
	return r.prefix + strings.TrimPrefix(name, "/")
}
