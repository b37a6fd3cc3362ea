package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/petgasmx/petgas-portal/internal/errs"
)

// opTimeout bounds every single call against the bucket.
const opTimeout = 30 * time.Second

// S3Config holds connection settings for an S3-compatible bucket.
type S3Config struct {
	Endpoint      string // Custom endpoint for R2-compatible stores, empty for AWS.
	Region        string // Region, "auto" for R2.
	Bucket        string
	AccessKeyID   string
	SecretKey     string
	PublicBaseURL string // Base URL for public object links, e.g. a CDN host.
}

// S3Store implements ObjectStore on an S3-compatible bucket.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store builds an S3 client with static credentials and an optional
// custom endpoint.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, errLoad := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretKey, "",
		)),
	)
	if errLoad != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", errLoad)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBase,
	}, nil
}

// Put uploads data and returns the public URL. Transient failures are
// retried once with backoff before surfacing as a transient error.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	errPut := s.withRetry(ctx, func(callCtx context.Context) error {
		_, errCall := s.client.PutObject(callCtx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return errCall
	})
	if errPut != nil {
		return "", errPut
	}
	return s.PublicURL(key), nil
}

// Delete removes the object under key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	return s.withRetry(ctx, func(callCtx context.Context) error {
		_, errCall := s.client.DeleteObject(callCtx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return errCall
	})
}

// PublicURL returns the public URL for key.
func (s *S3Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicBaseURL, key)
}

// withRetry runs call with a bounded timeout, retrying once on transient
// failures and classifying the final error.
func (s *S3Store) withRetry(ctx context.Context, call func(context.Context) error) error {
	backoff := retry.WithMaxRetries(1, retry.NewExponential(500*time.Millisecond))
	errDo := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, opTimeout)
		defer cancel()
		if errCall := call(callCtx); errCall != nil {
			if IsTransient(errCall) {
				return retry.RetryableError(errCall)
			}
			return errCall
		}
		return nil
	})
	if errDo == nil {
		return nil
	}
	if IsTransient(errDo) {
		return errs.Transient(errDo)
	}
	return errDo
}
