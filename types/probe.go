// Package types defines core domain types for the courier CLI.
package types

// ProbeState classifies the outcome of a single endpoint probe.
type ProbeState string

const (
	// ProbeUp means the endpoint answered with a 2xx status.
	ProbeUp ProbeState = "up"
	// ProbeDegraded means the endpoint answered with a non-2xx status.
	ProbeDegraded ProbeState = "degraded"
	// ProbeDown means the request failed at the transport level.
	ProbeDown ProbeState = "down"
)

// ProbeRecord is the outcome of probing one configured endpoint.
type ProbeRecord struct {
	// Endpoint is the configured endpoint name.
	Endpoint string `json:"endpoint" msgpack:"endpoint"`
	// URL is the probed target.
	URL string `json:"url" msgpack:"url"`
	// State classifies the outcome.
	State ProbeState `json:"state" msgpack:"state"`
	// Status is the HTTP status code, 0 when no response was received.
	Status int `json:"status" msgpack:"status"`
	// LatencyMs is the round-trip time in milliseconds.
	LatencyMs int64 `json:"latency_ms" msgpack:"latency_ms"`
	// Error is the transport error text, empty otherwise.
	Error string `json:"error,omitempty" msgpack:"error,omitempty"`
	// Timestamp is the probe time, ISO 8601.
	Timestamp string `json:"timestamp" msgpack:"timestamp"`
}

// OK reports whether the endpoint answered with a 2xx status.
func (r *ProbeRecord) OK() bool {
	return r.State == ProbeUp
}

// ProbeReport aggregates one probe sweep across configured endpoints.
type ProbeReport struct {
	// ReportID uniquely identifies the sweep.
	ReportID string `json:"report_id" msgpack:"report_id"`
	// StartedAt is the sweep start time, ISO 8601.
	StartedAt string `json:"started_at" msgpack:"started_at"`
	// DurationMs is the wall-clock sweep duration in milliseconds.
	DurationMs int64 `json:"duration_ms" msgpack:"duration_ms"`
	// Records holds one entry per probed endpoint, ordered by name.
	Records []ProbeRecord `json:"records" msgpack:"records"`
	// Up, Degraded, and Down count records by state.
	Up       int `json:"up" msgpack:"up"`
	Degraded int `json:"degraded" msgpack:"degraded"`
	Down     int `json:"down" msgpack:"down"`
}

// Tally recomputes the state counters from the records.
func (r *ProbeReport) Tally() {
	r.Up, r.Degraded, r.Down = 0, 0, 0
	for i := range r.Records {
		switch r.Records[i].State {
		case ProbeUp:
			r.Up++
		case ProbeDegraded:
			r.Degraded++
		case ProbeDown:
			r.Down++
		}
	}
}
