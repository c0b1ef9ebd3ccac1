package storage

import (
	"bytes"
	"context"
	"fmt"

	"bikereviews/internal/app/reviews/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Namespace prefix for all review images inside the bucket.
const s3KeyPrefix = "bike-reviews"

// S3Store uploads images to an S3 (or S3-compatible) bucket under
// bike-reviews/<groupKey>/ and returns the public object URL.
type S3Store struct {
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store creates a new S3 storage instance.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for s3 storage")
	}

	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 session: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		baseURL:  baseURL,
	}, nil
}

// Store uploads the normalized image and returns its public URL.
func (s *S3Store) Store(ctx context.Context, groupKey string, data []byte, ext string) (string, error) {
	if groupKey == "" {
		return "", fmt.Errorf("grouping key is empty")
	}

	key := fmt.Sprintf("%s/%s/%s", s3KeyPrefix, groupKey, uniqueName(ext))

	input := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}
