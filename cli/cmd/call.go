package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/halyard-io/courier/cli/render"
	"github.com/halyard-io/courier/endpoint"
	"github.com/halyard-io/courier/iox"
)

// CallResponse is the payload rendered by the call command.
// Non-2xx statuses are reported here, not as command failures.
type CallResponse struct {
	Endpoint string          `json:"endpoint"`
	URL      string          `json:"url"`
	Method   string          `json:"method"`
	Status   int             `json:"status"`
	OK       bool            `json:"ok"`
	Body     json.RawMessage `json:"body,omitempty"`
	Text     string          `json:"text,omitempty"`
}

// CallCommand returns the call command.
// Call dispatches one request to a configured endpoint.
func CallCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Send a request to a configured endpoint",
		ArgsUsage: "<endpoint>",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"X"},
				Usage:   "HTTP method",
				Value:   "GET",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Subpath appended to the endpoint URL",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "JSON request body",
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Query parameter as key=value (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "header",
				Aliases: []string{"H"},
				Usage:   "Request header as key=value (repeatable)",
			},
			&cli.StringFlag{
				Name:  "content-type",
				Usage: "Content-Type header for the request body",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout (0 = no timeout)",
			},
		),
		Action: callAction,
	}
}

func callAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for call command", exitFailure)
	}
	if c.NArg() != 1 {
		return cli.Exit("call requires exactly one endpoint name", exitConfig)
	}
	name := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	spec, ok := cfg.Endpoints[name]
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown endpoint %q (configured: %s)",
			name, strings.Join(cfg.EndpointNames(), ", ")), exitConfig)
	}

	ep, err := spec.Endpoint()
	if err != nil {
		return cli.Exit(fmt.Sprintf("endpoint %q: %v", name, err), exitConfig)
	}
	defer iox.DiscardClose(ep)

	req := endpoint.Request{
		Method:      c.String("method"),
		Subpath:     c.String("path"),
		ContentType: c.String("content-type"),
	}

	if data := c.String("data"); data != "" {
		var body any
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			return cli.Exit(fmt.Sprintf("invalid --data JSON: %v", err), exitConfig)
		}
		req.JSON = body
	}

	req.Params, err = parsePairs(c.StringSlice("param"), "param")
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}
	req.Headers, err = parsePairs(c.StringSlice("header"), "header")
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	ctx := c.Context
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := ep.Do(ctx, req)
	if err != nil {
		return cli.Exit(fmt.Sprintf("call %s: %v", name, err), exitFailure)
	}

	out := CallResponse{
		Endpoint: name,
		URL:      ep.URL(),
		Method:   strings.ToUpper(req.Method),
		Status:   resp.StatusCode,
		OK:       resp.OK(),
	}
	if json.Valid(resp.Body) {
		out.Body = json.RawMessage(resp.Body)
	} else if len(resp.Body) > 0 {
		out.Text = string(resp.Body)
	}

	return r.Render(out)
}

// parsePairs turns repeated key=value flag values into a map.
func parsePairs(pairs []string, flag string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, found := strings.Cut(p, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --%s %q (expected key=value)", flag, p)
		}
		out[key] = value
	}
	return out, nil
}
