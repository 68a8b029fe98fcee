// Package minio archives label photos in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vbonduro/foodiq/internal/labelstore"
)

// partSize bounds the upload buffer when the reader's length is unknown.
const partSize = 16 << 20

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the object store and creates the bucket when it does not
// exist yet.
func New(ctx context.Context, opts Options) (*Store, error) {
	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &Store{client: cli, bucket: opts.Bucket}, nil
}

func (s *Store) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := labelstore.NewKey(prefix, mimeType)

	size := int64(-1)
	if l, ok := r.(interface{ Len() int }); ok {
		size = int64(l.Len())
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: mimeType,
		PartSize:    partSize,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload label: %w", err)
	}
	return key, nil
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get label: %w", err)
	}

	// GetObject is lazy; Stat surfaces a missing key.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", labelstore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to stat label: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = labelstore.MIMEForKey(key)
	}
	return obj, contentType, nil
}
