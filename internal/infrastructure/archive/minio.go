package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds S3-compatible storage settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

func (c Config) validate() error {
	if c.Endpoint == "" {
		return errors.New("archive endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("archive bucket is required")
	}
	return nil
}

// S3Archive keeps a copy of every analyzed image in an S3-compatible bucket
type S3Archive struct {
	client *minio.Client
	bucket string
	region string
}

// NewS3Archive creates the storage client. Call EnsureBucket before first use.
func NewS3Archive(config Config) (*S3Archive, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &S3Archive{
		client: client,
		bucket: config.Bucket,
		region: config.Region,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (a *S3Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Store uploads data under key
func (a *S3Archive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	return nil
}
