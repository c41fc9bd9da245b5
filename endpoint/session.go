package endpoint

import "net/http"

// Session exposes the endpoint's pooled client for callers that need
// direct access. Every request made through the session's client
// carries the endpoint's default headers and basic auth credential.
//
// Close after use to release pooled connections:
//
//	s := ep.Session()
//	defer iox.DiscardClose(s)
type Session struct {
	endpoint *Endpoint
	client   *http.Client
}

// Session returns a session over the endpoint's pooled client.
// The underlying connection pool is created lazily and shared with
// requests issued through Do.
func (e *Endpoint) Session() *Session {
	base := e.httpClient()
	return &Session{
		endpoint: e,
		client: &http.Client{
			Transport: &sessionTransport{
				base:    base.Transport,
				headers: e.headers,
				auth:    e.basicAuth,
			},
		},
	}
}

// Client returns the HTTP client with endpoint defaults attached.
func (s *Session) Client() *http.Client {
	return s.client
}

// BasicAuth returns the credential attached to the session's requests,
// or nil when the endpoint has none.
func (s *Session) BasicAuth() *BasicAuth {
	return s.endpoint.basicAuth
}

// Close releases idle pooled connections.
func (s *Session) Close() error {
	return s.endpoint.Close()
}

// sessionTransport injects endpoint defaults into outgoing requests.
// The incoming request is cloned; RoundTrippers must not mutate their
// argument.
type sessionTransport struct {
	base    http.RoundTripper
	headers map[string]string
	auth    *BasicAuth
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		if clone.Header.Get(k) == "" {
			clone.Header.Set(k, v)
		}
	}
	if t.auth != nil && clone.Header.Get("Authorization") == "" {
		clone.SetBasicAuth(t.auth.Username, t.auth.Password)
	}
	return t.base.RoundTrip(clone)
}
