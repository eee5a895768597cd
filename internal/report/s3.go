package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client the uploader needs
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader copies report artifacts into a single bucket, keyed by run
type S3Uploader struct {
	client s3API
	bucket string
}

// NewS3Uploader builds an uploader from the default AWS credentials chain
func NewS3Uploader(ctx context.Context, bucket, region string) (*S3Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

// NewS3UploaderWithClient builds an uploader around an existing client,
// mainly for tests
func NewS3UploaderWithClient(client s3API, bucket string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket}
}

// UploadFile stores one artifact under runs/<run-id>/<basename> and returns
// the object key
func (u *S3Uploader) UploadFile(ctx context.Context, runID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	key := fmt.Sprintf("runs/%s/%s", runID, filepath.Base(path))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
