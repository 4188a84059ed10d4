package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaStorage uploads impact-proof media to S3 and hands back public
// URLs for the impact record to carry.
type MediaStorage struct {
	client *s3.Client
	bucket string
	region string
}

func NewMediaStorage(client *s3.Client, bucket, region string) *MediaStorage {
	return &MediaStorage{
		client: client,
		bucket: bucket,
		region: region,
	}
}

// UploadMedia stores the blob under a generated key and returns its
// public URL.
func (s *MediaStorage) UploadMedia(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {

	key := fmt.Sprintf("impacts/%s-%d%s", uuid.New().String(), time.Now().Unix(), path.Ext(fileName))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}

	return s.PublicURL(key), nil
}

func (s *MediaStorage) DeleteMedia(ctx context.Context, key string) error {

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	return nil
}

// ListMedia returns the object keys under a prefix.
func (s *MediaStorage) ListMedia(ctx context.Context, prefix string) ([]string, error) {

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}

	return keys, nil
}

func (s *MediaStorage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
