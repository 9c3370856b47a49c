package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	config "github.com/maheshrc27/propertyhub-api/configs"
)

// StorageService is the object store holding listing media.
type StorageService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, keys ...string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

type storageService struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewStorageService talks to any S3 compatible endpoint, Supabase Storage included.
func NewStorageService(ctx context.Context, cfg config.Storage) (StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &storageService{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.BucketName,
		ttl:     cfg.SignedURLTTL,
	}, nil
}

func (s *storageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: upload %s: %v", ErrStorage, key, err)
	}
	return nil
}

func (s *storageService) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: remove objects: %v", ErrStorage, err)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("%w: remove %s: %s", ErrStorage, aws.ToString(out.Errors[0].Key), aws.ToString(out.Errors[0].Message))
	}
	return nil
}

func (s *storageService) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("%w: sign %s: %v", ErrStorage, key, err)
	}
	return req.URL, nil
}
