// Package storage offloads attachment binaries to S3-compatible object
// storage. When no bucket is configured the store is disabled and the
// pipeline keeps attachment content inline in the database.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Options configures the blob store. Endpoint is optional and supports
// S3-compatible providers (MinIO, R2); PublicURL overrides the generated
// object URL base.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
	PathStyle bool
}

// S3Store uploads attachment blobs and returns their public URLs.
type S3Store struct {
	client *s3.Client
	opts   S3Options
}

// NewS3Store builds the blob store. An empty bucket yields a disabled store.
func NewS3Store(opts S3Options) *S3Store {
	if opts.Bucket == "" {
		log.Info().Msg("S3_BUCKET is not set. Attachment offloading disabled, binaries stay inline.")
		return &S3Store{opts: opts}
	}

	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}

	// Buckets with dots break virtual-host TLS, force path-style for them.
	usePathStyle := opts.PathStyle || strings.Contains(opts.Bucket, ".")

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = usePathStyle
	})

	log.Info().
		Str("bucket", opts.Bucket).
		Str("region", opts.Region).
		Str("endpoint", opts.Endpoint).
		Msg("S3 attachment store initialized")
	return &S3Store{client: client, opts: opts}
}

// Enabled reports whether uploads are configured.
func (s *S3Store) Enabled() bool {
	return s.client != nil
}

// Upload stores one attachment blob and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("s3 store is disabled")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).
			Str("key", key).
			Str("bucket", s.opts.Bucket).
			Int("size", len(data)).
			Msg("Failed to upload attachment to S3")
		return "", fmt.Errorf("upload %s to s3: %w", key, err)
	}

	log.Debug().
		Str("key", key).
		Str("bucket", s.opts.Bucket).
		Int("size", len(data)).
		Msg("Attachment uploaded to S3")
	return s.publicURL(key), nil
}

func (s *S3Store) publicURL(key string) string {
	if s.opts.PublicURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.PublicURL, "/"), s.opts.Bucket, key)
	}
	if s.opts.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.Endpoint, "/"), s.opts.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}
