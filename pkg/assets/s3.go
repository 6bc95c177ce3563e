package assets

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

// objectGetter is the part of *s3.Client the S3 source uses.
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures an S3 source.
type S3Options struct {
	Bucket string
	Prefix string
	Region string

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string

	// UsePathStyle addresses buckets as endpoint/bucket/key.
	UsePathStyle bool

	// AccessKeyID and SecretAccessKey are static credentials. When empty,
	// requests are anonymous.
	AccessKeyID     string
	SecretAccessKey string

	// Timeout bounds each GetObject call. Default: 10s.
	Timeout time.Duration
}

// S3Source serves assets from an S3 bucket.
type S3Source struct {
	client  objectGetter
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3 creates an S3 source.
func NewS3(opts S3Options) (*S3Source, error) {
	if opts.Bucket == "" {
		return nil, perrors.New(perrors.CodeConfigInvalid).
			WithDetail("s3 asset source needs a bucket")
	}
	s3opts := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  aws.AnonymousCredentials{},
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			Source:          "parkdash config",
		}
		s3opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})
	}
	return newS3Source(s3.New(s3opts), opts), nil
}

func newS3Source(client objectGetter, opts S3Options) *S3Source {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &S3Source{
		client:  client,
		bucket:  opts.Bucket,
		prefix:  strings.Trim(opts.Prefix, "/"),
		timeout: timeout,
	}
}

// Key returns the object key of an asset name.
func (s *S3Source) Key(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Open implements Source. The returned body holds the request's connection
// until closed.
func (s *S3Source) Open(ctx context.Context, name string) (*Asset, error) {
	key := s.Key(name)
	if key == "" || strings.HasSuffix(key, "/") {
		return nil, NotFound(name)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		if isS3NotFound(err) {
			return nil, NotFound(name)
		}
		return nil, perrors.New(perrors.CodeStoreFailure).
			WithDetailf("s3 get %s/%s", s.bucket, key).Wrap(err)
	}

	a := &Asset{
		Name:        name,
		Body:        &cancelBody{ReadCloser: out.Body, cancel: cancel},
		Size:        -1,
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}
	if out.ContentLength != nil {
		a.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		a.ModTime = *out.LastModified
	}
	return a, nil
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re *smithyhttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}

// cancelBody releases the request context when the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
