package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"movieshelf/proj/internal/storage/blob"
)

type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, for S3-compatible services
}

// Backend is an AWS S3 implementation of blob.Storage.
type Backend struct {
	client *s3.Client
	bucket string
	region string
}

func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Backend{client: client, bucket: config.Bucket, region: config.Region}, nil
}

func (b *Backend) Put(ctx context.Context, key string, body io.Reader, contentType string) (*blob.PutResult, error) {
	uploader := manager.NewUploader(b.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, b.translateUploadErr(err)
	}
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
	return &blob.PutResult{Key: key, URL: url}, nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err
}

// translateUploadErr maps well-known S3 error codes onto messages the
// caller may show to a user. The cause is kept in the message only, never
// as a distinct error type.
func (b *Backend) translateUploadErr(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidAccessKeyId":
			return fmt.Errorf("%w: invalid access key id", blob.ErrUpstream)
		case "SignatureDoesNotMatch":
			return fmt.Errorf("%w: invalid secret access key", blob.ErrUpstream)
		case "NoSuchBucket":
			return fmt.Errorf("%w: bucket %q does not exist", blob.ErrUpstream, b.bucket)
		case "AccessDenied":
			return fmt.Errorf("%w: access denied to bucket %q", blob.ErrUpstream, b.bucket)
		}
	}
	return fmt.Errorf("%w: %s", blob.ErrUpstream, err)
}
