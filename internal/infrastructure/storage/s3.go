package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/civictrack/civictrack/internal/shared/logger"
)

// putObjectAPI is the slice of the S3 client the store needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // MinIO, LocalStack
	Prefix   string
}

// S3Store uploads media to a bucket and returns s3://bucket/key references.
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
	logger logger.Interface
}

func NewS3Store(ctx context.Context, cfg S3Config, logger logger.Interface) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Store(client putObjectAPI, bucket, prefix string, logger logger.Interface) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

func (s *S3Store) Store(ctx context.Context, key string, data []byte) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	objectKey := s.prefix + clean

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(http.DetectContentType(data)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Errorw("s3 upload failed", "bucket", s.bucket, "key", objectKey, "error", err)
		return "", fmt.Errorf("s3 put failed: %w", err)
	}

	s.logger.Debugw("media stored in s3", "bucket", s.bucket, "key", objectKey, "bytes", len(data))
	return fmt.Sprintf("s3://%s/%s", s.bucket, objectKey), nil
}
