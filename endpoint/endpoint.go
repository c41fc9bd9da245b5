// Package endpoint implements configurable HTTP endpoint dispatch.
//
// An Endpoint describes a remote HTTP resource: a base URL plus default
// query parameters, headers, and credentials. Requests issued through an
// Endpoint merge call-time values with the stored configuration without
// mutating it, so a single Endpoint is safe to share across goroutines.
package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// DefaultTokenName is the query parameter used for a token credential
// when the configuration does not name one.
const DefaultTokenName = "token"

// DefaultContentType is applied to requests carrying a JSON body unless
// the caller overrides it.
const DefaultContentType = "application/json"

// BasicAuth is an HTTP basic authentication credential pair.
type BasicAuth struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Spec is the raw definition an Endpoint is constructed from, typically
// decoded from a configuration document.
type Spec struct {
	// URL is the base address of the remote resource (required).
	URL string
	// Params are query parameters applied to every request.
	Params map[string]string
	// Headers are headers applied to every request.
	Headers map[string]string
	// BasicAuth is an optional basic authentication credential.
	BasicAuth *BasicAuth
	// Token is an optional credential attached as a query parameter.
	Token string
	// TokenName names the token query parameter (default "token").
	TokenName string
	// Extra holds free-form configuration metadata. It is retained
	// verbatim and never consulted when building requests.
	Extra map[string]any
}

// Endpoint is an immutable description of a remote HTTP resource.
// The only mutable state is the lazily created pooled client, guarded
// by sync.Once so concurrent first use is safe.
type Endpoint struct {
	rawURL    string
	params    map[string]string
	headers   map[string]string
	basicAuth *BasicAuth
	token     string
	tokenName string
	extra     map[string]any

	clientOnce sync.Once
	transport  *http.Transport
	client     *http.Client
}

// New validates a Spec and constructs an Endpoint from it.
// The Spec's maps are copied; later mutation of the Spec does not
// affect the Endpoint.
func New(spec Spec) (*Endpoint, error) {
	if spec.URL == "" {
		return nil, &ConfigError{Field: "url", Err: ErrMissingURL}
	}
	u, err := url.Parse(spec.URL)
	if err != nil {
		return nil, &ConfigError{Field: "url", Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &ConfigError{Field: "url", Err: fmt.Errorf("not an absolute URL: %q", spec.URL)}
	}

	tokenName := spec.TokenName
	if spec.Token != "" && tokenName == "" {
		tokenName = DefaultTokenName
	}

	var auth *BasicAuth
	if spec.BasicAuth != nil {
		a := *spec.BasicAuth
		auth = &a
	}

	return &Endpoint{
		rawURL:    strings.TrimRight(spec.URL, "/"),
		params:    copyStringMap(spec.Params),
		headers:   copyStringMap(spec.Headers),
		basicAuth: auth,
		token:     spec.Token,
		tokenName: tokenName,
		extra:     copyAnyMap(spec.Extra),
	}, nil
}

// URL returns the configured base URL.
func (e *Endpoint) URL() string { return e.rawURL }

// Extra returns the free-form metadata value stored under key.
func (e *Endpoint) Extra(key string) (any, bool) {
	v, ok := e.extra[key]
	return v, ok
}

// Request describes a single call against an Endpoint.
type Request struct {
	// Method is the HTTP verb, case-insensitive. Empty means GET.
	Method string
	// Subpath is appended to the base URL, joined with exactly one
	// slash regardless of slashes on either side.
	Subpath string
	// ContentType overrides the request content type.
	ContentType string
	// JSON, when non-nil, is serialized as the JSON request body.
	JSON any
	// Params are call-time query parameters. They supplement the
	// stored params; on a conflicting key the call-time value wins.
	Params map[string]string
	// Headers are call-time headers. They supplement the stored
	// headers; on a conflicting name the call-time value wins.
	Headers map[string]string
}

// Do issues a single HTTP request against the endpoint.
//
// The final query is the stored params overlaid by call-time params,
// with the token (if configured) added last under its token name.
// Non-2xx responses are not errors; only transport failures return a
// *TransportError. There is no internal retry.
func (e *Endpoint) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := e.buildURL(req)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.JSON != nil {
		encoded, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &ConfigError{Field: "url", Err: err}
	}

	for k, v := range e.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	switch {
	case req.ContentType != "":
		httpReq.Header.Set("Content-Type", req.ContentType)
	case req.JSON != nil:
		httpReq.Header.Set("Content-Type", DefaultContentType)
	}
	if e.basicAuth != nil {
		httpReq.SetBasicAuth(e.basicAuth.Username, e.basicAuth.Password)
	}

	resp, err := e.httpClient().Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       payload,
	}, nil
}

// Close releases idle pooled connections. Safe to call whether or not
// a request was ever issued, and safe to call more than once.
func (e *Endpoint) Close() error {
	if e.transport != nil {
		e.transport.CloseIdleConnections()
	}
	return nil
}

// buildURL joins the subpath and encodes the merged query parameters.
func (e *Endpoint) buildURL(req Request) (string, error) {
	raw := e.rawURL
	if sub := strings.Trim(req.Subpath, "/"); sub != "" {
		raw = raw + "/" + sub
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &ConfigError{Field: "url", Err: err}
	}

	q := u.Query()
	for k, v := range e.params {
		q.Set(k, v)
	}
	for k, v := range req.Params {
		q.Set(k, v)
	}
	if e.token != "" {
		q.Set(e.tokenName, e.token)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// httpClient returns the pooled client, creating it on first use.
func (e *Endpoint) httpClient() *http.Client {
	e.clientOnce.Do(func() {
		e.transport = http.DefaultTransport.(*http.Transport).Clone()
		e.client = &http.Client{Transport: e.transport}
	})
	return e.client
}

func copyStringMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyAnyMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
