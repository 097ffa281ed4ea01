package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is the media collaborator: it keeps question images on an
// S3-compatible host and hands back a stable URL plus an object id the
// image can later be deleted by.
type Store interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string) (url, objectID string, err error)
	Delete(ctx context.Context, objectID string) error
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg Config) (Store, error) {
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
		log.Printf("Created bucket: %s", cfg.Bucket)
	}

	return &minioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

func (s *minioStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, string, error) {
	objectID := "questions/" + uuid.New().String() + path.Ext(filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectID, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s: %w", objectID, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectID)
	return url, objectID, nil
}

func (s *minioStore) Delete(ctx context.Context, objectID string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectID, minio.RemoveObjectOptions{})
}
