// Package adapter defines the probe report publication boundary.
//
// Adapters push finished probe reports to downstream systems (webhook,
// Redis pub/sub, S3). The CLI owns adapter lifecycle; configuration
// decides which one is used.
package adapter

import (
	"context"

	"github.com/halyard-io/courier/types"
)

// EventType is the event type carried by every published report.
const EventType = "probe_report"

// ProbeReportEvent is the payload published when a probe sweep finishes.
type ProbeReportEvent struct {
	Version    string              `json:"version"`
	EventType  string              `json:"event_type"` // always "probe_report"
	ReportID   string              `json:"report_id"`
	StartedAt  string              `json:"started_at"`
	DurationMs int64               `json:"duration_ms"`
	Up         int                 `json:"up"`
	Degraded   int                 `json:"degraded"`
	Down       int                 `json:"down"`
	Records    []types.ProbeRecord `json:"records"`
}

// NewProbeReportEvent builds the publication payload for a report.
func NewProbeReportEvent(report *types.ProbeReport) *ProbeReportEvent {
	return &ProbeReportEvent{
		Version:    types.Version,
		EventType:  EventType,
		ReportID:   report.ReportID,
		StartedAt:  report.StartedAt,
		DurationMs: report.DurationMs,
		Up:         report.Up,
		Degraded:   report.Degraded,
		Down:       report.Down,
		Records:    report.Records,
	}
}

// Adapter publishes probe reports to a downstream system.
type Adapter interface {
	// Publish sends a probe report to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ProbeReportEvent) error

	// Close releases adapter resources.
	Close() error
}
