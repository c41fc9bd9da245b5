// Package probe sweeps configured endpoints and reports their health.
//
// A sweep issues one HTTP request per endpoint with bounded parallelism
// and classifies each outcome as up (2xx), degraded (non-2xx), or down
// (transport failure). The aggregate report carries a unique ID so
// downstream adapters can correlate deliveries.
package probe

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/halyard-io/courier/endpoint"
	"github.com/halyard-io/courier/log"
	"github.com/halyard-io/courier/types"
)

const (
	// DefaultPath is the subpath probed on each endpoint.
	DefaultPath = "/health"
	// DefaultParallel is the maximum concurrent probes.
	DefaultParallel = 4
	// DefaultTimeout bounds each individual probe.
	DefaultTimeout = 10 * time.Second
)

// Options configures a probe sweep.
type Options struct {
	// Path is the subpath appended to each endpoint's base URL.
	Path string
	// Parallel is the maximum concurrent probes.
	Parallel int
	// Timeout bounds each individual probe.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.Parallel <= 0 {
		o.Parallel = DefaultParallel
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Target pairs a configured endpoint name with its dispatcher.
type Target struct {
	Name     string
	Endpoint *endpoint.Endpoint
}

// Prober runs probe sweeps over a fixed set of targets.
type Prober struct {
	targets []Target
	opts    Options
	logger  *log.Logger
}

// New creates a prober. The target slice is copied; a nil logger
// disables probe logging.
func New(targets []Target, opts Options, logger *log.Logger) *Prober {
	ts := make([]Target, len(targets))
	copy(ts, targets)
	sort.Slice(ts, func(i, j int) bool { return ts[i].Name < ts[j].Name })

	return &Prober{targets: ts, opts: opts.withDefaults(), logger: logger}
}

// Run executes one sweep and returns the aggregate report.
// Records are ordered by endpoint name regardless of completion order.
// A sweep itself never fails; individual probe failures surface as
// down records.
func (p *Prober) Run(ctx context.Context) *types.ProbeReport {
	started := time.Now()
	report := &types.ProbeReport{
		ReportID:  uuid.New().String(),
		StartedAt: started.UTC().Format(time.RFC3339),
		Records:   make([]types.ProbeRecord, len(p.targets)),
	}

	sem := make(chan struct{}, p.opts.Parallel)
	var wg sync.WaitGroup
	for i := range p.targets {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			report.Records[idx] = p.probeOne(ctx, p.targets[idx])
		}(i)
	}
	wg.Wait()

	report.DurationMs = time.Since(started).Milliseconds()
	report.Tally()

	if p.logger != nil {
		p.logger.Info("probe sweep finished",
			zap.String("report_id", report.ReportID),
			zap.Int64("duration_ms", report.DurationMs),
			zap.Int("up", report.Up),
			zap.Int("degraded", report.Degraded),
			zap.Int("down", report.Down),
		)
	}
	return report
}

// probeOne issues a single GET and classifies the outcome.
func (p *Prober) probeOne(ctx context.Context, target Target) types.ProbeRecord {
	record := types.ProbeRecord{
		Endpoint:  target.Name,
		URL:       target.Endpoint.URL(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	started := time.Now()
	resp, err := target.Endpoint.Do(probeCtx, endpoint.Request{
		Method:  "GET",
		Subpath: p.opts.Path,
	})
	record.LatencyMs = time.Since(started).Milliseconds()

	switch {
	case err != nil:
		record.State = types.ProbeDown
		record.Error = err.Error()
	case resp.OK():
		record.State = types.ProbeUp
		record.Status = resp.StatusCode
	default:
		record.State = types.ProbeDegraded
		record.Status = resp.StatusCode
	}

	if p.logger != nil {
		p.logger.Debug("probe finished",
			zap.String("endpoint", target.Name),
			zap.String("state", string(record.State)),
			zap.Int("status", record.Status),
			zap.Int64("latency_ms", record.LatencyMs),
		)
	}
	return record
}
