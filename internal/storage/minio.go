package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/researchagent/backend/internal/config"
	"github.com/researchagent/backend/internal/types"
)

// ObjectStore is the object storage contract used by the services. Paths are
// caller-chosen strings of the form {category}/{userID}/[{dialogID}/]{name}.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, string, error)
	Delete(ctx context.Context, path string) error
	Ping(ctx context.Context) error
}

// MinioStore is an ObjectStore backed by a MinIO (S3-compatible) bucket
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the configured bucket exists
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	endpoint := net.JoinHostPort(cfg.MinioEndpoint, cfg.MinioPort)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &MinioStore{client: client, bucket: cfg.MinioBucket}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.MinioBucket, err)
		}
		log.Printf("Created object storage bucket: %s", cfg.MinioBucket)
	}

	return store, nil
}

// Put uploads an object under the given path
func (s *MinioStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object %q: %w", path, err)
	}
	return nil
}

// Get fetches an object and its content type. Returns types.ErrNotFound for
// a missing key.
func (s *MinioStore) Get(ctx context.Context, path string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch object %q: %w", path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, "", types.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read object %q: %w", path, err)
	}

	stat, err := obj.Stat()
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, "", types.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to stat object %q: %w", path, err)
	}

	return data, stat.ContentType, nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (s *MinioStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", path, err)
	}
	return nil
}

// Ping checks that the bucket is reachable
func (s *MinioStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("object storage unreachable: %w", err)
	}
	return nil
}
