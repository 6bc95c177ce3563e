// Package routepath normalizes and validates URL paths before they reach the
// route table.
package routepath

import (
	"errors"
	"strings"
)

// CanonicalizeResult contains the result of path canonicalization.
type CanonicalizeResult struct {
	// Path is the canonicalized path (without query string or fragment).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Fragment is the fragment (without leading "#").
	Fragment string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a URL path.
//
// The following transformations are applied:
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/gate//x → /gate/x)
//   - Remove "." segments (/gate/./x → /gate/x)
//   - Resolve ".." segments (/gate/../analytics → /analytics)
//
// The following inputs are rejected with an error:
//   - Paths containing backslash (\)
//   - Paths containing NUL byte (%00)
//   - Invalid percent-escapes (e.g., %GG, %2)
//   - ".." that would escape root (e.g., /../secret)
//
// The input may include a query string and a fragment, which are returned
// separately but not canonicalized.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	rest, fragment, _ := strings.Cut(input, "#")
	path, query, _ := strings.Cut(rest, "?")

	if strings.Contains(path, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}

	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}

	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return CanonicalizeResult{}, err
		}
	}

	original := path

	segments := strings.Split(path, "/")
	result := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	path = "/" + strings.Join(result, "/")

	return CanonicalizeResult{
		Path:     path,
		Query:    query,
		Fragment: fragment,
		Changed:  path != original,
	}, nil
}

// IsCanonical reports whether path is already in canonical form and carries
// no query or fragment.
func IsCanonical(path string) bool {
	if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, "?#") {
		return false
	}
	res, err := CanonicalizePath(path)
	return err == nil && !res.Changed
}

// validatePercentEscapes checks that all percent-escapes are valid.
// Valid escapes are %XX where X is a hex digit (0-9, a-f, A-F).
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// CanonicalizeAndValidateNavPath canonicalizes and validates a navigation
// target. Navigation targets MUST be relative paths:
//   - MUST start with "/"
//   - MUST NOT be a full URL (no "http://", "https://", "//")
//
// Returns the canonicalized path with query string, or an error if invalid.
// Fragments are dropped.
func CanonicalizeAndValidateNavPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	result, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}

	if result.Query != "" {
		return result.Path + "?" + result.Query, nil
	}
	return result.Path, nil
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// JoinBase prefixes path with a base path. An empty or "/" base returns path
// unchanged.
func JoinBase(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path
	}
	if path == "/" {
		return base
	}
	return base + path
}

// StripBase removes base from the front of path. ok is false when path is
// outside base.
func StripBase(base, path string) (rest string, ok bool) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):], true
	}
	return "", false
}
