package cmd

import (
	"context"
	"fmt"

	"github.com/halyard-io/courier/adapter"
	redisadapter "github.com/halyard-io/courier/adapter/redis"
	s3adapter "github.com/halyard-io/courier/adapter/s3"
	"github.com/halyard-io/courier/adapter/webhook"
	"github.com/halyard-io/courier/cli/config"
)

// buildAdapter constructs the configured report adapter.
// Returns nil when no adapter is configured.
func buildAdapter(ctx context.Context, cfg config.AdapterConfig) (adapter.Adapter, error) {
	retries := -1
	if cfg.Retries != nil {
		retries = *cfg.Retries
	}

	switch cfg.Type {
	case "":
		return nil, nil

	case "webhook":
		wc := webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
		}
		if retries >= 0 {
			wc.Retries = retries
		} else {
			wc.Retries = webhook.DefaultRetries
		}
		return webhook.New(wc)

	case "redis":
		rc := redisadapter.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout.Duration,
		}
		if retries >= 0 {
			rc.Retries = retries
		} else {
			rc.Retries = redisadapter.DefaultRetries
		}
		return redisadapter.New(rc)

	case "s3":
		return s3adapter.New(ctx, s3adapter.Config{
			Bucket:       cfg.Bucket,
			Prefix:       cfg.Prefix,
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.PathStyle,
		})

	default:
		return nil, fmt.Errorf("unknown adapter type %q (must be webhook, redis, or s3)", cfg.Type)
	}
}
