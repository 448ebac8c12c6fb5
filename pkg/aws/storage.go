package aws

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage persists report documents to S3
type S3Storage struct {
	client S3PutAPI
}

// NewS3Storage creates a new S3Storage
func NewS3Storage(client S3PutAPI) *S3Storage {
	return &S3Storage{client: client}
}

// Put writes body to s3://bucket/key, overwriting any existing object
func (s *S3Storage) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("error uploading s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// Location returns the s3:// URI for a stored object
func (s *S3Storage) Location(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
