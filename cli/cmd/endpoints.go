package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/halyard-io/courier/cli/render"
)

// EndpointsCommand returns the endpoints command.
// Endpoints lists the configured endpoints with secrets summarized,
// never printed.
func EndpointsCommand() *cli.Command {
	return &cli.Command{
		Name:   "endpoints",
		Usage:  "List configured endpoints (secrets redacted)",
		Flags:  ReadOnlyFlags(),
		Action: endpointsAction,
	}
}

func endpointsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	listings := cfg.Listings()

	if c.Bool("tui") {
		return r.RenderTUI("inspect_endpoints", listings)
	}

	return r.Render(listings)
}
