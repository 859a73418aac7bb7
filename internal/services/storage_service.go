// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/config"
)

type StorageService struct {
	s3Client s3iface.S3API
	bucket   string
	region   string
	localDir string
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// NewStorageService uploads to S3 when AWS credentials are configured and to
// a local directory otherwise.
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		bucket:   cfg.AWS.S3Bucket,
		region:   cfg.AWS.Region,
		localDir: cfg.Export.LocalDir,
	}
	if cfg.AWS.AccessKeyID == "" {
		logrus.WithField("dir", cfg.Export.LocalDir).Info("No AWS credentials, exports are stored locally")
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// NewS3StorageService wraps an existing client.
func NewS3StorageService(client s3iface.S3API, bucket, region string) *StorageService {
	return &StorageService{s3Client: client, bucket: bucket, region: region}
}

func NewLocalStorageService(dir string) *StorageService {
	return &StorageService{localDir: dir}
}

func (s *StorageService) Put(ctx context.Context, key string, body []byte, contentType string) (*UploadResult, error) {
	if s.s3Client != nil {
		return s.uploadToS3(ctx, key, body, contentType)
	}
	return s.uploadToLocal(key, body, contentType)
}

func (s *StorageService) uploadToS3(ctx context.Context, key string, body []byte, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:         fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		Key:         key,
		Size:        int64(len(body)),
		ContentType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(key string, body []byte, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	return &UploadResult{
		URL:         "file://" + filepath.ToSlash(path),
		Key:         key,
		Size:        int64(len(body)),
		ContentType: contentType,
	}, nil
}

func generateObjectKey(folder, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%s_%s%s", folder, now.UTC().Format("20060102T150405"), uuid.NewString()[:8], ext)
}
