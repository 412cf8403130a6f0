package assetstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures an S3-compatible object store (AWS, MinIO, Spaces).
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is prepended to object keys to form the returned URL.
	// Defaults to Endpoint/Bucket when empty.
	PublicBaseURL string
}

// S3Store stores assets in an S3-compatible bucket.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(opts S3Options) *S3Store {
	client := s3.New(s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		BaseEndpoint: aws.String(opts.Endpoint),
		UsePathStyle: true,
	})

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(opts.Endpoint, "/"), opts.Bucket)
	}

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3Store) Upload(ctx context.Context, blob Blob, category string) (string, error) {
	if len(blob.Content) == 0 {
		return "", fmt.Errorf("upload %q: no content", blob.Filename)
	}

	key := ObjectKey(category, blob.Filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob.Content),
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(blob.ContentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *S3Store) Delete(ctx context.Context, url, category string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(url, s.baseURL), "/")
	if key == "" || key == url {
		return fmt.Errorf("delete: url %q is not under this store", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
