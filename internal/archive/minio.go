package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stemsi/exstem-grader/internal/config"
)

// MinioArchive keeps a copy of every ingested document in an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive creates the client. It does not contact the server.
func NewMinioArchive(cfg *config.Config) (*MinioArchive, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioArchive{client: client, bucket: cfg.MinioBucket}, nil
}

// Store uploads data under a date-partitioned object name and returns that name.
func (a *MinioArchive) Store(ctx context.Context, name string, data []byte) (string, error) {
	object := ObjectName(time.Now(), name)
	_, err := a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", object, err)
	}
	return object, nil
}

// ObjectName partitions archived documents by upload day.
func ObjectName(now time.Time, name string) string {
	return path.Join("uploads", now.UTC().Format("2006/01/02"), path.Base(name))
}
