// Package archive keeps a copy of every exported file.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive stores export files.
type Archive interface {
	Store(ctx context.Context, name, contentType string, data []byte) error
}

// Noop discards everything.
type Noop struct{}

func (Noop) Store(ctx context.Context, name, contentType string, data []byte) error {
	return nil
}

// ObjectKey places name under a dated folder: exports/2006/01/02/name.
func ObjectKey(now time.Time, name string) string {
	return path.Join("exports", now.Format("2006/01/02"), name)
}

// MinioConfig holds object storage settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchive writes exports to an S3 compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewMinioArchive connects and creates the bucket when missing.
func NewMinioArchive(ctx context.Context, cfg MinioConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

func (a *MinioArchive) Store(ctx context.Context, name, contentType string, data []byte) error {
	key := ObjectKey(a.now(), name)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return nil
}
