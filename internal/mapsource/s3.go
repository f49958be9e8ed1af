package mapsource

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vanshika/campusnav/internal/domain"
)

// ObjectGetter is the subset of the S3 API used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the map document from an S3-compatible bucket.
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates an S3 source. If endpoint is non-empty, path-style
// addressing is enabled (for MinIO and similar).
func NewS3Source(ctx context.Context, bucket, key, region, endpoint string) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewS3SourceWithClient(s3.NewFromConfig(cfg, s3opts...), bucket, key), nil
}

// NewS3SourceWithClient wires an existing client.
func NewS3SourceWithClient(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return fmt.Sprintf("s3://%s/%s", s.bucket, s.key) }

func (s *S3Source) Load(ctx context.Context) (domain.MapDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return domain.MapDocument{}, fmt.Errorf("s3 get object %s: %w", s.Name(), err)
	}
	defer out.Body.Close()

	raw, err := Decode(out.Body)
	if err != nil {
		return domain.MapDocument{}, fmt.Errorf("decode %s: %w", s.Name(), err)
	}
	return Normalize(raw)
}
