package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"mime"
	"path"
	"strings"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

//go:embed static
var staticFS embed.FS

// FSSource serves assets from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewEmbedded returns the source of the assets compiled into the binary.
func NewEmbedded() *FSSource {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return NewFS(sub)
}

// NewFS returns a source reading from fsys.
func NewFS(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, name string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, NotFound(name)
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, NotFound(name)
		}
		// Reading a directory fails with a non-standard error; treat it as
		// missing too.
		if info, serr := fs.Stat(s.fsys, name); serr == nil && info.IsDir() {
			return nil, NotFound(name)
		}
		return nil, perrors.New(perrors.CodeStoreFailure).WithDetailf("read asset %q", name).Wrap(err)
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return nil, NotFound(name)
	}

	sum := sha256.Sum256(data)
	return &Asset{
		Name:        name,
		Body:        io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: mime.TypeByExtension(path.Ext(name)),
		ModTime:     info.ModTime(),
		ETag:        `"` + hex.EncodeToString(sum[:8]) + `"`,
	}, nil
}
