package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
)

// MinIOPublisher uploads report PDFs to object storage and serves them
// from the bucket's public URL
type MinIOPublisher struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIOPublisher creates a MinIO-backed report publisher
func NewMinIOPublisher(cfg *config.StorageConfig) (*MinIOPublisher, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	p := &MinIOPublisher{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}

	if err := p.ensureBucketWithPolicy(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return p, nil
}

// ensureBucketWithPolicy ensures the bucket exists with public read access
func (p *MinIOPublisher) ensureBucketWithPolicy(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, p.bucket)

	if err := p.client.SetBucketPolicy(ctx, p.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// Publish uploads the PDF and returns its public object URL
func (p *MinIOPublisher) Publish(ctx context.Context, sessionID, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open report pdf: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat report pdf: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/%s", sessionID, filepath.Base(localPath))
	_, err = p.client.PutObject(ctx, p.bucket, objectName, file, info.Size(), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report pdf: %w", err)
	}

	base := p.publicURL
	if base == "" {
		scheme := "http"
		if p.client.EndpointURL().Scheme == "https" {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, p.client.EndpointURL().Host)
	}
	return fmt.Sprintf("%s/%s/%s", base, p.bucket, objectName), nil
}
