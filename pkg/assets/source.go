package assets

import (
	"context"
	"io"
	"time"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

// Asset is an open static asset. The caller must close Body.
type Asset struct {
	Name        string
	Body        io.ReadCloser
	Size        int64 // -1 when unknown
	ContentType string
	ModTime     time.Time
	ETag        string
}

// Source opens assets by slash-separated name (e.g., "css/app.css").
type Source interface {
	Open(ctx context.Context, name string) (*Asset, error)
}

// NotFound returns the error sources report for a missing asset.
func NotFound(name string) error {
	return perrors.New(perrors.CodeAssetNotFound).WithDetailf("asset %q", name)
}

// IsNotFound reports whether err is a missing-asset error.
func IsNotFound(err error) bool {
	return perrors.CodeOf(err) == perrors.CodeAssetNotFound
}
