package document

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 is a document source backed by an S3 object, for hosted corpora.
type S3 struct {
	body io.ReadCloser
	meta map[string]string
}

var _ Source = (*S3)(nil)

// NewS3 opens the object for streaming.
func NewS3(ctx context.Context, clt *s3.Client, bucket, key string) (*S3, error) {
	out, err := clt.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return &S3{
		body: out.Body,
		meta: map[string]string{
			"source": "s3",
			"bucket": bucket,
			"key":    key,
		},
	}, nil
}

func (s *S3) Read(p []byte) (int, error) {
	return s.body.Read(p)
}

func (s *S3) Close() error {
	return s.body.Close()
}

func (s *S3) Meta() map[string]string {
	return s.meta
}
