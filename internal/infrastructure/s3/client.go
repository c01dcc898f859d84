package s3infra

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/student-bubble/internal/config"
	"github.com/student-bubble/internal/domain"
)

// Store wraps S3 operations for the uploads bucket.
type Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	publicBase string
}

// NewClient creates an S3 client. A non-empty endpoint (LocalStack) replaces
// the regional endpoint and switches to path-style addressing.
func NewClient(awsCfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// NewStore creates a Store for the configured bucket. Object URLs are built
// from S3.PublicBaseURL, falling back to the endpoint override or the
// virtual-hosted bucket URL.
func NewStore(client *s3.Client, cfg *config.Config) *Store {
	return &Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.S3.BucketName,
		publicBase: publicBaseURL(cfg),
	}
}

// Upload streams a file to S3 under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.ObjectURL(key), nil
}

// List returns up to maxKeys objects under prefix.
func (s *Store) List(ctx context.Context, prefix string, maxKeys int32) ([]domain.Upload, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(maxKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 list objects: %w", err)
	}
	uploads := make([]domain.Upload, 0, len(out.Contents))
	for _, obj := range out.Contents {
		u := domain.Upload{Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}
		if obj.LastModified != nil {
			u.LastModified = *obj.LastModified
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// PresignedURL generates a time-limited presigned GET URL for the given key.
func (s *Store) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return req.URL, nil
}

// Delete removes a file from S3.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *Store) ObjectURL(key string) string {
	return objectURL(s.publicBase, key)
}

func publicBaseURL(cfg *config.Config) string {
	switch {
	case cfg.S3.PublicBaseURL != "":
		return strings.TrimRight(cfg.S3.PublicBaseURL, "/")
	case cfg.AWSEndpointURL != "":
		return strings.TrimRight(cfg.AWSEndpointURL, "/") + "/" + cfg.S3.BucketName
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.S3.BucketName)
	}
}

func objectURL(base, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return base + "/" + strings.Join(parts, "/")
}
