package config

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/halyard-io/courier/endpoint"
)

// redactedValue replaces secret material in display copies.
const redactedValue = "********"

// Config represents a courier.yaml configuration file.
type Config struct {
	LogLevel  string                   `yaml:"log_level"`
	Endpoints map[string]*EndpointSpec `yaml:"endpoints"`
	Probe     ProbeConfig              `yaml:"probe"`
	History   HistoryConfig            `yaml:"history"`
	Adapter   AdapterConfig            `yaml:"adapter"`
}

// ProbeConfig holds probe defaults from the config file.
type ProbeConfig struct {
	// Path is the subpath probed on each endpoint (e.g. "/health").
	Path string `yaml:"path"`
	// Parallel bounds concurrent probes.
	Parallel int `yaml:"parallel"`
	// Timeout is the per-probe timeout.
	Timeout Duration `yaml:"timeout"`
}

// HistoryConfig holds the probe history log location.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// AdapterConfig holds report publication defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url,omitempty"`
	Channel string            `yaml:"channel,omitempty"`
	Bucket  string            `yaml:"bucket,omitempty"`
	Prefix  string            `yaml:"prefix,omitempty"`
	Region  string            `yaml:"region,omitempty"`
	// Endpoint is a custom S3 endpoint for S3-compatible providers.
	Endpoint  string            `yaml:"endpoint,omitempty"`
	PathStyle bool              `yaml:"path_style,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Timeout   Duration          `yaml:"timeout,omitempty"`
	Retries   *int              `yaml:"retries,omitempty"`
}

// EndpointSpec is an endpoint definition within the config file.
// Known keys map to endpoint.Spec fields; every other key is retained
// verbatim in Extra as uninterpreted metadata.
type EndpointSpec struct {
	URL       string              `yaml:"url"`
	Params    map[string]string   `yaml:"params,omitempty"`
	Headers   map[string]string   `yaml:"headers,omitempty"`
	BasicAuth *endpoint.BasicAuth `yaml:"basic_auth,omitempty"`
	Token     string              `yaml:"token,omitempty"`
	TokenName string              `yaml:"token_name,omitempty"`
	Extra     map[string]any      `yaml:"-"`
}

// endpointSpecKnownKeys are the keys decoded into named fields.
var endpointSpecKnownKeys = []string{"url", "params", "headers", "basic_auth", "token", "token_name"}

// UnmarshalYAML decodes the known fields and captures the remainder
// into Extra.
func (s *EndpointSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain EndpointSpec
	var known plain
	if err := value.Decode(&known); err != nil {
		return err
	}

	var all map[string]any
	if err := value.Decode(&all); err != nil {
		return err
	}
	for _, key := range endpointSpecKnownKeys {
		delete(all, key)
	}

	*s = EndpointSpec(known)
	if len(all) > 0 {
		s.Extra = all
	}
	return nil
}

// Endpoint constructs a dispatchable endpoint from the spec.
func (s *EndpointSpec) Endpoint() (*endpoint.Endpoint, error) {
	return endpoint.New(endpoint.Spec{
		URL:       s.URL,
		Params:    s.Params,
		Headers:   s.Headers,
		BasicAuth: s.BasicAuth,
		Token:     s.Token,
		TokenName: s.TokenName,
		Extra:     s.Extra,
	})
}

// Redacted returns a display copy with secret material masked.
func (s *EndpointSpec) Redacted() *EndpointSpec {
	out := *s
	if out.Token != "" {
		out.Token = redactedValue
	}
	if out.BasicAuth != nil {
		out.BasicAuth = &endpoint.BasicAuth{
			Username: out.BasicAuth.Username,
			Password: redactedValue,
		}
	}
	return &out
}

// EndpointNames returns the configured endpoint names sorted for
// deterministic ordering.
func (c *Config) EndpointNames() []string {
	names := make([]string, 0, len(c.Endpoints))
	for name := range c.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EndpointListing is a flattened, redacted view of one configured
// endpoint, used by the endpoints command for both table and TUI output.
type EndpointListing struct {
	Name      string `json:"name" yaml:"name"`
	URL       string `json:"url" yaml:"url"`
	Auth      string `json:"auth" yaml:"auth"`
	TokenName string `json:"token_name,omitempty" yaml:"token_name,omitempty"`
	Params    int    `json:"params" yaml:"params"`
	Headers   int    `json:"headers" yaml:"headers"`
	Extras    int    `json:"extras" yaml:"extras"`
}

// EndpointListings is a sorted collection of endpoint listings.
type EndpointListings []EndpointListing

// Listings returns one redacted listing per configured endpoint,
// ordered by name. Secret material is summarized, never included.
func (c *Config) Listings() EndpointListings {
	listings := make(EndpointListings, 0, len(c.Endpoints))
	for _, name := range c.EndpointNames() {
		spec := c.Endpoints[name]

		auth := "none"
		switch {
		case spec.BasicAuth != nil && spec.Token != "":
			auth = "basic+token"
		case spec.BasicAuth != nil:
			auth = "basic"
		case spec.Token != "":
			auth = "token"
		}

		tokenName := ""
		if spec.Token != "" {
			tokenName = spec.TokenName
			if tokenName == "" {
				tokenName = endpoint.DefaultTokenName
			}
		}

		listings = append(listings, EndpointListing{
			Name:      name,
			URL:       spec.URL,
			Auth:      auth,
			TokenName: tokenName,
			Params:    len(spec.Params),
			Headers:   len(spec.Headers),
			Extras:    len(spec.Extra),
		})
	}
	return listings
}

// TableHeaders implements tabular rendering for the endpoints command.
func (l EndpointListings) TableHeaders() []string {
	return []string{"NAME", "URL", "AUTH", "TOKEN_NAME", "PARAMS", "HEADERS", "EXTRAS"}
}

// TableRows implements tabular rendering for the endpoints command.
func (l EndpointListings) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{
			e.Name,
			e.URL,
			e.Auth,
			e.TokenName,
			fmt.Sprintf("%d", e.Params),
			fmt.Sprintf("%d", e.Headers),
			fmt.Sprintf("%d", e.Extras),
		})
	}
	return rows
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML renders the duration back to its string form.
func (d Duration) MarshalYAML() (any, error) {
	if d.Duration == 0 {
		return "", nil
	}
	return d.Duration.String(), nil
}
