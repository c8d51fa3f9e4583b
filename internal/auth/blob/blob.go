// Package blob stores user avatar images in an S3-compatible object
// store (AWS S3 or MinIO).
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotConfigured is returned when avatar operations are attempted
// without an object store configured. Handlers map this to a 503 so the
// rest of the service keeps working without one.
var ErrNotConfigured = errors.New("blob storage not configured")

// Config holds connection settings for the avatar bucket.
type Config struct {
	Endpoint  string // base endpoint, empty for real AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// PublicBaseURL is the URL prefix avatars are served from. Defaults
	// to <Endpoint>/<Bucket> when empty.
	PublicBaseURL string
}

// Configured reports whether enough settings are present to build a
// client.
func (c Config) Configured() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Storage uploads and deletes avatar objects.
type Storage interface {
	// Put uploads an object and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes an object. Deleting a missing object is not an
	// error.
	Delete(ctx context.Context, key string) error
}

// S3Storage implements Storage against an S3-compatible API.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	log     *slog.Logger
}

// NewS3Storage builds the S3 client with static credentials. MinIO needs
// path-style addressing, so it is always enabled.
func NewS3Storage(ctx context.Context, cfg Config, log *slog.Logger) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	url := s.baseURL + "/" + key
	s.log.InfoContext(ctx, "avatar uploaded", "key", key, "url", url)
	return url, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// Disabled is the Storage used when no object store is configured.
// Every operation fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Delete(ctx context.Context, key string) error {
	return ErrNotConfigured
}
