package delivery

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Sink uploads decks under decks/ and returns a presigned download URL
type S3Sink struct {
	client  putObjectAPI
	presign presignAPI
	bucket  string
	expires time.Duration
}

// NewS3Sink loads the default AWS credential chain for region.
func NewS3Sink(ctx context.Context, region, bucket string) (*S3Sink, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Sink{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		expires: 24 * time.Hour,
	}, nil
}

// Name identifies the sink in delivery notes
func (s *S3Sink) Name() string { return "s3" }

// ObjectKey is where an artifact file is stored in the bucket
func ObjectKey(fileName string) string {
	return "decks/" + fileName
}

// Deliver uploads the artifact and returns a presigned GET URL, or the s3://
// location when no presigner is configured
func (s *S3Sink) Deliver(ctx context.Context, a Artifact) (string, error) {
	key := ObjectKey(a.FileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Data),
		ContentType: aws.String(a.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	if s.presign == nil {
		return "s3://" + s.bucket + "/" + key, nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		// Upload succeeded; the object is still reachable by key.
		return "s3://" + s.bucket + "/" + key, nil
	}
	return req.URL, nil
}
