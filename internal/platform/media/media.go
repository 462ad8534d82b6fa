// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media turns a staged local file into a durable object-storage URL.

Uploads fail soft: [Uploader.Upload] returns nil instead of an error and the
caller decides whether a missing asset is fatal (avatar) or not (cover image).
The staged file is always removed after the attempt.
*/
package media

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Asset is a stored object.
type Asset struct {
	URL string `json:"url"`
	Key string `json:"-"`
}

// ObjectPutter is the subset of [*s3.Client] the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// FailureObserver is notified of every soft failure.
type FailureObserver interface {
	ObserveUploadFailure()
}

// S3Config carries the object storage settings.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Uploader pushes staged files to an S3-compatible bucket.
type Uploader struct {
	client   ObjectPutter
	bucket   string
	baseURL  string
	observer FailureObserver
	logger   *slog.Logger
	now      func() time.Time
}

// NewUploader builds an [Uploader] over an existing client.
// baseURL is the public prefix objects are served from.
func NewUploader(client ObjectPutter, bucket, baseURL string, observer FailureObserver, logger *slog.Logger) *Uploader {
	return &Uploader{
		client:   client,
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

/*
NewS3Uploader configures an S3 client from static credentials and wraps it.

Parameters:
  - ctx: context.Context (used while loading the AWS config)
  - cfg: S3Config
  - observer: FailureObserver (may be nil)
  - logger: *slog.Logger

Returns:
  - *Uploader: Ready-to-use uploader
  - error: AWS config failures
*/
func NewS3Uploader(ctx context.Context, cfg S3Config, observer FailureObserver, logger *slog.Logger) (*Uploader, error) {
	options := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("media: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL(cfg)
	}

	return NewUploader(client, cfg.Bucket, baseURL, observer, logger), nil
}

/*
Upload stores the file at localPath and returns its asset.

It never returns an error: any failure is logged, counted and reported as nil.
An empty localPath also yields nil. The local file is removed in all cases.
*/
func (uploader *Uploader) Upload(ctx context.Context, localPath string) *Asset {
	if localPath == "" {
		return nil
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			uploader.logger.WarnContext(ctx, "media_staged_file_cleanup_failed", slog.String("path", localPath), slog.Any("error", err))
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		uploader.fail(ctx, "media_staged_file_open_failed", err)
		return nil
	}
	defer file.Close()

	key := uploader.objectKey(filepath.Ext(localPath))

	input := &s3.PutObjectInput{
		Bucket: aws.String(uploader.bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(localPath)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := uploader.client.PutObject(ctx, input); err != nil {
		uploader.fail(ctx, "media_upload_failed", err)
		return nil
	}

	uploader.logger.InfoContext(ctx, "media_uploaded", slog.String("key", key))
	return &Asset{URL: uploader.baseURL + "/" + key, Key: key}
}

// objectKey builds "media/YYYY/MM/DD/<uuid><ext>".
func (uploader *Uploader) objectKey(extension string) string {
	day := uploader.now().UTC()
	return fmt.Sprintf("media/%04d/%02d/%02d/%s%s", day.Year(), day.Month(), day.Day(), uuid.NewString(), strings.ToLower(extension))
}

func (uploader *Uploader) fail(ctx context.Context, event string, err error) {
	uploader.logger.ErrorContext(ctx, event, slog.Any("error", err))
	if uploader.observer != nil {
		uploader.observer.ObserveUploadFailure()
	}
}

func defaultBaseURL(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
