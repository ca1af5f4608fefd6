package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/ladlehub/backend/config"
	"github.com/pageza/ladlehub/backend/internal/apperr"
)

// MaxImageSize caps recipe image uploads at 5 MiB.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageService stores recipe images in S3.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Upload validates the image payload, stores it under a fresh key and
// returns the public URL.
func (s *ImageService) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validation("image payload is empty")
	}
	if len(data) > MaxImageSize {
		return "", apperr.Validation("image exceeds the %d byte limit", MaxImageSize)
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", apperr.Validation("unsupported image content type %q", contentType)
	}

	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
