// Package s3 implements an S3 report adapter.
//
// Publishes probe reports as JSON objects under a configurable bucket
// and prefix, one object per report. Works against AWS and
// S3-compatible providers (R2, MinIO) via a custom endpoint.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/halyard-io/courier/adapter"
)

// Config configures the S3 report adapter.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("s3 adapter requires a bucket")
	}
	return nil
}

// ObjectKey returns the key a report is stored under.
func (c *Config) ObjectKey(reportID string) string {
	return path.Join(c.Prefix, reportID+".json")
}

// putObjectAPI is the S3 surface the adapter needs; narrowed for tests.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, opts ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Adapter publishes probe reports as S3 objects.
type Adapter struct {
	config Config
	client putObjectAPI
}

// New creates an S3 adapter from the given config.
// Uses the AWS SDK default credential chain (env vars, shared config,
// IAM role).
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 adapter: load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Adapter{config: cfg, client: client}, nil
}

// newWithClient wires a custom client; used by tests.
func newWithClient(cfg Config, client putObjectAPI) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{config: cfg, client: client}, nil
}

// Publish writes the report JSON to prefix/<report_id>.json.
func (a *Adapter) Publish(ctx context.Context, event *adapter.ProbeReportEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("s3: marshal report: %w", err)
	}

	key := a.config.ObjectKey(event.ReportID)
	_, err = a.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(a.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}

// Close releases adapter resources.
func (a *Adapter) Close() error {
	return nil
}

// Verify Adapter implements the adapter interface.
var _ adapter.Adapter = (*Adapter)(nil)
