package aws

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vietdv277/bucketscope/pkg/provider"
)

// Mirror uploads finished reports to an S3 bucket in addition to the
// primary Cloud Storage destination.
type Mirror struct {
	S3      *s3.Client
	cfg     aws.Config
	bucket  string
	profile string
	region  string
}

// ClientOption allows customizing the Mirror
type ClientOption func(*Mirror)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(m *Mirror) {
		m.profile = profile
	}
}

// WithRegion sets the AWS region for the client
func WithRegion(region string) ClientOption {
	return func(m *Mirror) {
		m.region = region
	}
}

// NewMirror creates a report mirror targeting bucket
func NewMirror(ctx context.Context, bucket string, opts ...ClientOption) (*Mirror, error) {
	m := &Mirror{
		bucket: strings.TrimPrefix(bucket, "s3://"),
	}

	// Apply options
	for _, opt := range opts {
		opt(m)
	}

	if m.bucket == "" {
		return nil, fmt.Errorf("s3 mirror bucket: %w", provider.ErrNotConfigured)
	}

	// Build config options
	var configOpts []func(*config.LoadOptions) error

	if m.profile != "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate AWS shared config: %w", err)
		}
		profile, err := LookupProfile(home, m.profile)
		if err != nil {
			return nil, err
		}
		if m.region == "" {
			m.region = profile.Region
		}
		configOpts = append(configOpts, config.WithSharedConfigProfile(m.profile))
	}

	if m.region != "" {
		configOpts = append(configOpts, config.WithRegion(m.region))
	}

	// Load AWS config
	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	m.cfg = cfg
	m.S3 = s3.NewFromConfig(cfg)

	return m, nil
}

// Name implements provider.Uploader.
func (m *Mirror) Name() string {
	return "s3://" + m.bucket
}

// Upload implements provider.Uploader. r should be an io.ReadSeeker, such
// as an *os.File, so the SDK can sign the payload without buffering it.
func (m *Mirror) Upload(ctx context.Context, key string, r io.Reader, opts *provider.UploadOptions) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if opts != nil {
		if opts.ContentType != "" {
			input.ContentType = aws.String(opts.ContentType)
		}
		input.Metadata = opts.Metadata
	}

	if _, err := m.S3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", m.bucket, key, err)
	}
	return nil
}
