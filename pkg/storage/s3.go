package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client used here
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PhotoStore archives meal photos in an S3 bucket
type PhotoStore struct {
	client PutObjectAPI
	bucket string
	now    func() time.Time
}

func NewPhotoStore(cfg aws.Config, bucket string) *PhotoStore {
	return NewPhotoStoreWithClient(s3.NewFromConfig(cfg), bucket)
}

func NewPhotoStoreWithClient(client PutObjectAPI, bucket string) *PhotoStore {
	return &PhotoStore{client: client, bucket: bucket, now: time.Now}
}

// Put uploads data under meal-photos/<userID>/ and returns the object key
func (s *PhotoStore) Put(ctx context.Context, userID string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	ext := ".bin"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	key := fmt.Sprintf("meal-photos/%s/%d%s", userID, s.now().UnixNano(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}
