// Package objstore reads landing-page fragments from S3-compatible object
// storage. Fragments are published by the content pipeline; this service
// only ever needs to fetch them.
package objstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/metrics"
	"github.com/carslab/funnel-api/pkg/retry"
)

// StorageClient represents an S3-compatible object storage client
type StorageClient struct {
	s3Client *s3.Client
	bucket   string
	prefix   string
}

// Config holds the connection settings for the fragment bucket.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	Region          string
	// Prefix is prepended to every fragment key, e.g. "fragments/"
	Prefix string
}

// NewStorageClient creates an object storage client for fragment reads
func NewStorageClient(cfg Config) (*StorageClient, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		// Path-style addressing for S3-compatible providers behind one host
		opts.UsePathStyle = true
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
	)

	return &StorageClient{
		s3Client: s3.New(opts),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}, nil
}

// FetchFragment downloads one fragment object and returns its bytes.
// Transient failures are retried with backoff; the caller decides what a
// missing fragment means for the page.
func (s *StorageClient) FetchFragment(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	operation := "fetchFragment"
	fullKey := path.Join(s.prefix, key)

	data, err := retry.DoWithResult(ctx, retry.StorageConfig(), "objstore.fetch_fragment", func() ([]byte, error) {
		out, getErr := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(fullKey),
		})
		if getErr != nil {
			return nil, fmt.Errorf("failed to get object %s: %w", fullKey, getErr)
		}
		defer out.Body.Close()

		body, readErr := io.ReadAll(out.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read object %s: %w", fullKey, readErr)
		}
		return body, nil
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", fullKey),
		)
		return nil, err
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("object_storage", operation, "success", duration,
		zap.String("key", fullKey),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

// ValidateFragmentKey rejects keys that could escape the fragment prefix
func ValidateFragmentKey(key string) error {
	if key == "" {
		return fmt.Errorf("fragment key is empty")
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid fragment key: %s", key)
	}
	return nil
}
