package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/halyard-io/courier/adapter"
	"github.com/halyard-io/courier/cli/config"
	"github.com/halyard-io/courier/cli/render"
	"github.com/halyard-io/courier/history"
	"github.com/halyard-io/courier/iox"
	"github.com/halyard-io/courier/log"
	"github.com/halyard-io/courier/probe"
	"github.com/halyard-io/courier/types"
)

// probeReportPayload wraps a report for table rendering; JSON and YAML
// output render the embedded report directly.
type probeReportPayload struct {
	*types.ProbeReport
}

func (p probeReportPayload) TableHeaders() []string {
	return []string{"ENDPOINT", "STATE", "STATUS", "LATENCY_MS", "ERROR"}
}

func (p probeReportPayload) TableRows() [][]string {
	rows := make([][]string, 0, len(p.Records))
	for _, r := range p.Records {
		status := ""
		if r.Status != 0 {
			status = fmt.Sprintf("%d", r.Status)
		}
		rows = append(rows, []string{
			r.Endpoint,
			string(r.State),
			status,
			fmt.Sprintf("%d", r.LatencyMs),
			r.Error,
		})
	}
	return rows
}

// ProbeCommand returns the probe command.
// Probe sweeps every configured endpoint and reports per-endpoint health.
func ProbeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Probe configured endpoints and report their health",
		ArgsUsage: "[endpoint...]",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:  "path",
				Usage: "Subpath probed on each endpoint (overrides config)",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "Maximum concurrent probes (overrides config)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-probe timeout (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "Publish the report via the configured adapter",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip appending records to the history log",
			},
		),
		Action: probeAction,
	}
}

func probeAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for probe command", exitFailure)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	targets, err := probeTargets(cfg, c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}
	defer func() {
		for _, t := range targets {
			iox.DiscardClose(t.Endpoint)
		}
	}()

	opts := probe.Options{
		Path:     cfg.Probe.Path,
		Parallel: cfg.Probe.Parallel,
		Timeout:  cfg.Probe.Timeout.Duration,
	}
	if path := c.String("path"); path != "" {
		opts.Path = path
	}
	if parallel := c.Int("parallel"); parallel > 0 {
		opts.Parallel = parallel
	}
	if timeout := c.Duration("timeout"); timeout > 0 {
		opts.Timeout = timeout
	}

	logger := log.NewLogger(cfg.LogLevel)
	report := probe.New(targets, opts, logger).Run(c.Context)

	if !c.Bool("no-history") && cfg.History.Path != "" {
		if err := appendHistory(cfg.History.Path, report); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if c.Bool("publish") {
		if err := publishReport(c, cfg, report); err != nil {
			return cli.Exit(err.Error(), exitFailure)
		}
	}

	if err := r.Render(probeReportPayload{report}); err != nil {
		return err
	}

	// Down endpoints fail the sweep so scripts can alert on exit code
	if report.Down > 0 {
		return cli.Exit("", exitFailure)
	}
	return nil
}

// probeTargets builds dispatchable targets for the selected endpoints.
// An empty selection means every configured endpoint.
func probeTargets(cfg *config.Config, selected []string) ([]probe.Target, error) {
	names := cfg.EndpointNames()
	if len(selected) > 0 {
		for _, name := range selected {
			if _, ok := cfg.Endpoints[name]; !ok {
				return nil, fmt.Errorf("unknown endpoint %q (configured: %s)",
					name, strings.Join(names, ", "))
			}
		}
		names = selected
	}

	targets := make([]probe.Target, 0, len(names))
	for _, name := range names {
		ep, err := cfg.Endpoints[name].Endpoint()
		if err != nil {
			for _, t := range targets {
				iox.DiscardClose(t.Endpoint)
			}
			return nil, fmt.Errorf("endpoint %q: %w", name, err)
		}
		targets = append(targets, probe.Target{Name: name, Endpoint: ep})
	}
	return targets, nil
}

// appendHistory writes each record of the report to the history log.
func appendHistory(path string, report *types.ProbeReport) error {
	w, err := history.OpenWriter(path)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(w)

	for i := range report.Records {
		if err := w.Append(&report.Records[i]); err != nil {
			return err
		}
	}
	return nil
}

// publishReport delivers the report through the configured adapter.
func publishReport(c *cli.Context, cfg *config.Config, report *types.ProbeReport) error {
	a, err := buildAdapter(c.Context, cfg.Adapter)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("--publish requires an adapter section in %s", c.String("config"))
	}
	defer iox.DiscardClose(a)

	return a.Publish(c.Context, adapter.NewProbeReportEvent(report))
}
