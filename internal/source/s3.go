package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// ObjectGetter is the subset of the S3 client used to stream an object.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS credential chain
// with the region, endpoint and addressing style of cfg.
func NewS3Client(ctx context.Context, cfg types.S3Config) (ObjectGetter, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// splitBucketKey splits "bucket/key/with/slashes".
func splitBucketKey(rest string) (bucket, key string, err error) {
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 source %q needs bucket and key: %w", rest, types.ErrUnsupportedSource)
	}
	return bucket, key, nil
}

func (o Opener) openS3(ctx context.Context, rest string) (Source, error) {
	bucket, key, err := splitBucketKey(rest)
	if err != nil {
		return nil, err
	}

	newClient := o.NewS3Client
	if newClient == nil {
		newClient = NewS3Client
	}
	client, err := newClient(ctx, o.S3)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s: %w", bucket, key, err)
	}

	src, err := newReaderSource(ctx, resp.Body, key)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return src, nil
}
