package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/config"
)

// Folder groups uploaded images by purpose.
type Folder string

const (
	MeterPhotos     Folder = "meter-photos"
	PaymentReceipts Folder = "payment-receipts"
)

const presignExpiry = 15 * time.Minute

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ImageStore keeps meter photos and payment receipts in one bucket.
type ImageStore struct {
	objects  objectAPI
	presign  presignAPI
	bucket   string
	baseURL  string
	maxBytes int64
	now      func() time.Time
	logger   zerolog.Logger
}

// NewS3Client builds a path-style client for any S3-compatible endpoint.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// NewImageStore wraps an S3 client.
func NewImageStore(client *s3.Client, cfg *config.Config, logger zerolog.Logger) *ImageStore {
	return newImageStore(client, s3.NewPresignClient(client), cfg.S3Bucket, cfg.PublicBaseURL(), cfg.MaxUploadBytes, logger)
}

func newImageStore(objects objectAPI, presign presignAPI, bucket, baseURL string, maxBytes int64, logger zerolog.Logger) *ImageStore {
	return &ImageStore{
		objects:  objects,
		presign:  presign,
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger.With().Str("component", "ImageStore").Logger(),
	}
}

// UploadImage stores an image under folder and returns its public URL.
// The key is <folder>/<userID>-<unix millis>.<ext>, with ext taken from the
// detected content type. filename is only logged.
func (s *ImageStore) UploadImage(ctx context.Context, folder Folder, userID, filename string, body io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return "", apperr.Validation("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperr.Validation("file exceeds %d bytes", s.maxBytes)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperr.Validation("file must be an image, got %s", mtype.String())
	}

	key := fmt.Sprintf("%s/%s-%d%s", folder, userID, s.now().UnixMilli(), mtype.Extension())

	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload image")
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Str("filename", filename).Msg("Image uploaded")
	return s.PublicURL(key), nil
}

// PublicURL is the address an object is served from.
func (s *ImageStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
}

// KeyFromURL reverses PublicURL.
func (s *ImageStore) KeyFromURL(url string) (string, error) {
	prefix := fmt.Sprintf("%s/%s/", s.baseURL, s.bucket)
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", apperr.Validation("url does not belong to this store")
	}
	return strings.TrimPrefix(url, prefix), nil
}

// DeleteImage removes an object given its public URL.
func (s *ImageStore) DeleteImage(ctx context.Context, url string) error {
	key, err := s.KeyFromURL(url)
	if err != nil {
		return err
	}
	if _, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a short-lived download URL for key.
func (s *ImageStore) PresignGet(ctx context.Context, key string) (string, error) {
	resp, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return resp.URL, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
