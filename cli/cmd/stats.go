package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/urfave/cli/v2"

	"github.com/halyard-io/courier/cli/render"
	"github.com/halyard-io/courier/history"
)

// StatsCommand returns the stats command.
// Stats aggregates the probe history log per endpoint.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show aggregated probe history per endpoint",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:  "history",
				Usage: "History log path (overrides config)",
			},
		),
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	path := cfg.History.Path
	if override := c.String("history"); override != "" {
		path = override
	}
	if path == "" {
		return cli.Exit("no history log configured (set history.path or pass --history)", exitConfig)
	}

	stats, err := history.ReadStats(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.Exit(fmt.Sprintf("no history log at %s (run probe first)", path), exitConfig)
		}
		return cli.Exit(err.Error(), exitFailure)
	}

	if c.Bool("tui") {
		return r.RenderTUI("stats_probes", stats)
	}

	return r.Render(stats)
}
