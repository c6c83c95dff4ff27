package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
	"github.com/pratham-8123/vaultbox/internal/config"
)

// S3Store is the object-store collaborator backed by S3 (or any
// S3-compatible endpoint such as R2/MinIO when Endpoint is set).
type S3Store struct {
	client *s3.Client
	bucket string
}

// InitS3 initializes the S3 client using static credentials and an
// optional custom endpoint.
func InitS3(cfg config.S3Config) (*S3Store, error) {
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Println("Successfully initialized S3 client")

	return &S3Store{client: client, bucket: cfg.BucketName}, nil
}

// Put streams content to the bucket under key.
func (s *S3Store) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          content,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: s3 put %s: %v", apperrors.ErrStorageFailure, key, err)
	}
	return nil
}

// Get fetches the full object body.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: object %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: s3 get %s: %v", apperrors.ErrStorageFailure, key, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 read %s: %v", apperrors.ErrStorageFailure, key, err)
	}
	return content, nil
}

// Delete removes the object. S3 treats deleting a missing key as success,
// which keeps this idempotent for the recursive deletion engine.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: s3 delete %s: %v", apperrors.ErrStorageFailure, key, err)
	}
	return nil
}

// PresignGet creates a presigned URL for downloading the object directly.
func (s *S3Store) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", apperrors.ErrStorageFailure, key, err)
	}
	return req.URL, nil
}
