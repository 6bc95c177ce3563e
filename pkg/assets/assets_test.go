package assets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

func TestEmbeddedStylesheet(t *testing.T) {
	a, err := NewEmbedded().Open(context.Background(), "app.css")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Body.Close()
	if !strings.HasPrefix(a.ContentType, "text/css") {
		t.Errorf("ContentType = %q", a.ContentType)
	}
	if a.ETag == "" || a.Size <= 0 {
		t.Errorf("ETag = %q, Size = %d", a.ETag, a.Size)
	}
}

func TestFSSourceNotFound(t *testing.T) {
	src := NewFS(fstest.MapFS{
		"img/lot.svg": {Data: []byte("<svg/>")},
	})
	for _, name := range []string{"missing.css", "img", "../etc/passwd", ""} {
		if _, err := src.Open(context.Background(), name); !IsNotFound(err) {
			t.Errorf("Open(%q) err = %v, want not found", name, err)
		}
	}
	if _, err := src.Open(context.Background(), "/img/lot.svg"); err != nil {
		t.Errorf("leading slash should be accepted: %v", err)
	}
}

type fakeS3 struct {
	objects map[string]string
	err     error
	lastKey string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastKey = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("text/css"),
		ETag:          aws.String(`"s3etag"`),
		LastModified:  &modified,
	}, nil
}

func TestS3SourceOpen(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"dash/app.css": "body{}"}}
	src := newS3Source(fake, S3Options{Bucket: "lot", Prefix: "/dash/"})

	a, err := src.Open(context.Background(), "app.css")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(a.Body)
	a.Body.Close()

	if fake.lastKey != "dash/app.css" {
		t.Errorf("key = %q", fake.lastKey)
	}
	if string(data) != "body{}" || a.Size != 6 || a.ETag != `"s3etag"` {
		t.Errorf("asset = %+v, body %q", a, data)
	}
	if a.ModTime.IsZero() {
		t.Error("ModTime not set")
	}
}

func TestS3SourceErrors(t *testing.T) {
	src := newS3Source(&fakeS3{}, S3Options{Bucket: "lot"})
	if _, err := src.Open(context.Background(), "missing.css"); !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}

	boom := errors.New("connection reset")
	src = newS3Source(&fakeS3{err: boom}, S3Options{Bucket: "lot"})
	_, err := src.Open(context.Background(), "app.css")
	if perrors.CodeOf(err) != perrors.CodeStoreFailure || !errors.Is(err, boom) {
		t.Errorf("err = %v, want S001 wrapping cause", err)
	}
}

func TestS3Key(t *testing.T) {
	src := newS3Source(&fakeS3{}, S3Options{Bucket: "lot", Prefix: "assets"})
	tests := map[string]string{
		"app.css":          "assets/app.css",
		"/img/lot.svg":     "assets/img/lot.svg",
		"../../secret.txt": "assets/secret.txt",
		"img/./../app.css": "assets/app.css",
	}
	for in, want := range tests {
		if got := src.Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(S3Options{}); perrors.CodeOf(err) != perrors.CodeConfigInvalid {
		t.Errorf("err = %v, want C003", err)
	}
	if _, err := NewS3(S3Options{Bucket: "lot", Region: "eu-central-1", Endpoint: "http://localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"}); err != nil {
		t.Errorf("NewS3: %v", err)
	}
}

func serve(h http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		req.Header[k] = vs
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler(t *testing.T) {
	src := NewFS(fstest.MapFS{
		"app.css": {Data: []byte("body{}")},
		"big.bin": {Data: []byte(strings.Repeat("x", 64))},
	})
	h := Handler(src, 32, nil)

	rr := serve(h, http.MethodGet, "/app.css", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "body{}" {
		t.Fatalf("GET = %d %q", rr.Code, rr.Body.String())
	}
	etag := rr.Header().Get("ETag")
	if etag == "" || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css") {
		t.Errorf("headers = %v", rr.Header())
	}

	rr = serve(h, http.MethodGet, "/app.css", http.Header{"If-None-Match": {etag}})
	if rr.Code != http.StatusNotModified || rr.Body.Len() != 0 {
		t.Errorf("revalidate = %d", rr.Code)
	}

	rr = serve(h, http.MethodHead, "/app.css", nil)
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Errorf("HEAD = %d, body %d bytes", rr.Code, rr.Body.Len())
	}

	if rr = serve(h, http.MethodGet, "/missing.css", nil); rr.Code != http.StatusNotFound {
		t.Errorf("missing = %d", rr.Code)
	}
	if rr = serve(h, http.MethodGet, "/big.bin", nil); rr.Code != http.StatusBadGateway {
		t.Errorf("oversized = %d", rr.Code)
	}
	if rr = serve(h, http.MethodPost, "/app.css", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST = %d", rr.Code)
	}
}

func TestHandlerUpstreamFailure(t *testing.T) {
	src := newS3Source(&fakeS3{err: errors.New("down")}, S3Options{Bucket: "lot"})
	if rr := serve(Handler(src, 0, nil), http.MethodGet, "/app.css", nil); rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestETagMatches(t *testing.T) {
	tests := []struct {
		header, etag string
		want         bool
	}{
		{`"abc"`, `"abc"`, true},
		{`W/"abc"`, `"abc"`, true},
		{`"nope", "abc"`, `"abc"`, true},
		{`*`, `"abc"`, true},
		{`"nope"`, `"abc"`, false},
		{"", `"abc"`, false},
		{`"abc"`, "", false},
	}
	for _, tt := range tests {
		if got := ETagMatches(tt.header, tt.etag); got != tt.want {
			t.Errorf("ETagMatches(%q, %q) = %v", tt.header, tt.etag, got)
		}
	}
}

func TestResolver(t *testing.T) {
	r := NewResolver("/parking/assets")
	if got := r.URL("/app.css"); got != "/parking/assets/app.css" {
		t.Errorf("URL = %q", got)
	}
}
