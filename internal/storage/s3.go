package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"airwaves/messaging-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
	KeyPrefix       string
	MaxSizeBytes    int64
}

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client PutObjectAPI
	cfg    S3Config
}

var allowedMediaPrefixes = []string{"image/", "audio/", "video/"}

const defaultMaxSize = 25 << 20

// NewS3Uploader builds an S3 client from cfg. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderWithClient(client, cfg), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, cfg S3Config) *S3Uploader {
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = defaultMaxSize
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "dm-media"
	}
	return &S3Uploader{client: client, cfg: cfg}
}

var _ Uploader = (*S3Uploader)(nil)

func (u *S3Uploader) Upload(ctx context.Context, file models.MediaFile) (string, error) {
	if file.Body == nil {
		return "", ErrEmptyFile
	}
	if file.Size > u.cfg.MaxSizeBytes {
		return "", ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file.Body, u.cfg.MaxSizeBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > u.cfg.MaxSizeBytes {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !isAllowed(mtype.String()) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mtype.String())
	}

	key := fmt.Sprintf("%s/%s%s", strings.Trim(u.cfg.KeyPrefix, "/"), uuid.New().String(), mtype.Extension())

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(mtype.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return u.publicURL(key), nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.cfg.PublicBaseURL != "" {
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

func isAllowed(contentType string) bool {
	for _, prefix := range allowedMediaPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
