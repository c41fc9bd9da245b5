package tui

import (
	"strings"
	"testing"

	"github.com/halyard-io/courier/cli/config"
	"github.com/halyard-io/courier/history"
	"github.com/halyard-io/courier/types"
)

func TestIsTUISupported(t *testing.T) {
	tests := []struct {
		viewType string
		want     bool
	}{
		{"inspect_endpoints", true},
		{"stats_probes", true},

		// Not supported: mutating or one-shot commands
		{"call", false},
		{"probe", false},
		{"version", false},

		// Not supported: unknown
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.viewType, func(t *testing.T) {
			got := IsTUISupported(tt.viewType)
			if got != tt.want {
				t.Errorf("IsTUISupported(%q) = %v, want %v", tt.viewType, got, tt.want)
			}
		})
	}
}

func TestSupportedTUIViews(t *testing.T) {
	views := SupportedTUIViews()

	if len(views) != 2 {
		t.Errorf("SupportedTUIViews() returned %d views, expected 2", len(views))
	}

	for _, v := range views {
		if !IsTUISupported(v) {
			t.Errorf("SupportedTUIViews() returned %q but IsTUISupported returns false", v)
		}
	}
}

func TestRun_UnsupportedViewType(t *testing.T) {
	err := Run("call", nil)
	if err == nil {
		t.Error("Expected error for unsupported view type")
	}
}

func TestStatsView_RendersHistory(t *testing.T) {
	stats := &history.Stats{
		Records: 5,
		Endpoints: []history.EndpointStats{
			{Endpoint: "actions", Probes: 3, Up: 2, Down: 1, MeanLatencyMs: 14, LastState: types.ProbeUp, LastProbe: "2026-08-25T12:00:00Z"},
			{Endpoint: "nlg", Probes: 2, Degraded: 2, MeanLatencyMs: 30, LastState: types.ProbeDegraded},
		},
	}

	out := RenderStatsStatic("stats_probes", stats)
	for _, want := range []string{"Probe History", "actions", "nlg", "14ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestStatsView_InvalidData(t *testing.T) {
	out := RenderStatsStatic("stats_probes", "nope")
	if !strings.Contains(out, "Invalid data type") {
		t.Error("expected invalid data message")
	}
}

func TestEndpointsView_RendersListings(t *testing.T) {
	listings := config.EndpointListings{
		{Name: "actions", URL: "http://localhost:5055/webhook", Auth: "token", TokenName: "token", Params: 1},
		{Name: "nlg", URL: "http://localhost:5056/nlg", Auth: "basic", Headers: 2},
	}

	out := RenderEndpointsStatic("inspect_endpoints", listings)
	for _, want := range []string{"Configured Endpoints", "actions", "nlg", "basic"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestEndpointsView_Empty(t *testing.T) {
	out := RenderEndpointsStatic("inspect_endpoints", config.EndpointListings{})
	if !strings.Contains(out, "no endpoints configured") {
		t.Error("expected empty listing message")
	}
}
