// Package publish uploads a pre-rendered site directory to S3.
package publish

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the subset of the S3 API the publisher uses.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads rendered pages to an S3 bucket.
type Publisher struct {
	client       Client
	bucket       string
	prefix       string
	cacheControl string
	log          *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix prepends a key prefix to every uploaded object.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) { p.prefix = prefix }
}

// WithCacheControl sets the Cache-Control header on uploaded objects.
func WithCacheControl(value string) Option {
	return func(p *Publisher) { p.cacheControl = value }
}

// WithLogger routes upload logging to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Publisher) { p.log = log }
}

// New creates a publisher over an existing S3 client.
func New(client Client, bucket string, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		bucket: bucket,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromDefaultConfig creates a publisher using the ambient AWS
// credential chain.
func NewFromDefaultConfig(ctx context.Context, bucket string, opts ...Option) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, opts...), nil
}

// PublishDir uploads every file under dir, keyed by its path relative
// to dir. Returns the number of objects uploaded; the first failure
// aborts the walk.
func (p *Publisher) PublishDir(ctx context.Context, dir string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if err := p.publishFile(ctx, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	return uploaded, err
}

func (p *Publisher) publishFile(ctx context.Context, path, rel string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := p.prefix + rel
	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(rel)),
	}
	if p.cacheControl != "" {
		input.CacheControl = aws.String(p.cacheControl)
	}
	if _, err := p.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	p.log.Info("object uploaded", "bucket", p.bucket, "key", key)
	return nil
}

// contentType guesses a MIME type from the file extension, defaulting
// to octet-stream.
func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
