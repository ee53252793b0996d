// Package storage uploads finished podcast artifacts to S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// DefaultURLExpiry is how long presigned download links stay valid.
const DefaultURLExpiry = 7 * 24 * time.Hour

// Uploader puts artifacts into a bucket and hands back download links.
type Uploader struct {
	client *minio.Client
	bucket string
	log    zerolog.Logger
}

// Options configures an Uploader.
type Options struct {
	// UseSSL enables TLS to the endpoint.
	UseSSL bool

	// Logger for upload progress; disabled when zero.
	Logger zerolog.Logger
}

// NewUploader connects to an S3-compatible endpoint (host[:port]).
func NewUploader(endpoint, accessKey, secretKey, bucket string, opts Options) (*Uploader, error) {
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("storage: endpoint and bucket are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}

	return &Uploader{
		client: client,
		bucket: bucket,
		log:    opts.Logger,
	}, nil
}

// Upload stores data under objectName and returns a presigned download
// URL valid for DefaultURLExpiry. The bucket is created when missing.
func (u *Uploader) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if err := u.ensureBucket(ctx); err != nil {
		return "", err
	}

	info, err := u.client.PutObject(ctx, u.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", objectName, err)
	}
	u.log.Debug().Str("object", objectName).Int64("size", info.Size).Msg("uploaded artifact")

	presigned, err := u.client.PresignedGetObject(ctx, u.bucket, objectName, DefaultURLExpiry, nil)
	if err != nil {
		// The object is stored; fall back to its bucket path.
		u.log.Warn().Err(err).Msg("presign failed")
		return fmt.Sprintf("/%s/%s", u.bucket, objectName), nil
	}
	return presigned.String(), nil
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	u.log.Info().Str("bucket", u.bucket).Msg("creating bucket")
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", u.bucket, err)
	}
	return nil
}
