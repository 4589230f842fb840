// Package media provides S3-compatible storage for quest icons and popup
// images. When S3 is not configured (empty bucket), the NoopUploader is
// used and upload requests are rejected with ErrNotConfigured.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oklog/ulid/v2"

	"github.com/waveline/questadmin/internal/config"
)

// ErrNotConfigured is returned when media storage is not configured.
var ErrNotConfigured = errors.New("media storage not configured")

// Uploader stores quest media files and returns their public URLs.
type Uploader interface {
	// Upload stores the file content under a generated key and returns
	// the public URL the stored object is served from.
	Upload(ctx context.Context, filename, contentType string, content io.Reader, size int64) (string, error)
}

// s3Client defines the minimal minio.Client operations used by S3Uploader.
// This interface enables testing with mock implementations.
type s3Client interface {
	PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) error
}

// minioClientWrapper wraps *minio.Client to satisfy the s3Client interface.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := w.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// S3Uploader uploads media to S3-compatible storage.
type S3Uploader struct {
	client  s3Client
	bucket  string
	baseURL string
}

// Upload stores the file and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, content io.Reader, size int64) (string, error) {
	key := objectKey(filename)
	if err := u.client.PutObject(ctx, u.bucket, key, content, size, contentType); err != nil {
		return "", fmt.Errorf("upload media to S3: %w", err)
	}
	return u.baseURL + "/" + key, nil
}

// NoopUploader is used when media storage is not configured.
type NoopUploader struct{}

// Upload returns ErrNotConfigured when media storage is not configured.
func (u *NoopUploader) Upload(ctx context.Context, filename, contentType string, content io.Reader, size int64) (string, error) {
	return "", ErrNotConfigured
}

// NewUploader creates the appropriate Uploader based on configuration.
// Returns NoopUploader when bucket is empty, S3Uploader otherwise.
func NewUploader(cfg config.MediaConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return &NoopUploader{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &S3Uploader{
		client:  &minioClientWrapper{client: client},
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// objectKey returns the object key for an uploaded file.
// Convention: quests/{ulid}{ext}
func objectKey(filename string) string {
	return "quests/" + ulid.Make().String() + strings.ToLower(path.Ext(filename))
}
