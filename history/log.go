package history

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/halyard-io/courier/types"
)

// Writer appends probe records to a history log file.
type Writer struct {
	file *os.File
}

// OpenWriter opens the history log at path for appending, creating the
// file and any missing parent directories.
func OpenWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history log %q: %w", path, err)
	}
	return &Writer{file: f}, nil
}

// Append writes one record as a frame. Each frame is written with a
// single Write call so concurrent appenders from separate processes do
// not interleave partial frames.
func (w *Writer) Append(record *types.ProbeRecord) error {
	frame, err := EncodeRecord(record)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(frame); err != nil {
		return fmt.Errorf("append history frame: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// Reader iterates probe records from a history log file.
type Reader struct {
	file    *os.File
	decoder *FrameDecoder
}

// OpenReader opens the history log at path for reading.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history log %q: %w", path, err)
	}
	return &Reader{file: f, decoder: NewFrameDecoder(f)}, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (*types.ProbeRecord, error) {
	payload, err := r.decoder.ReadFrame()
	if err != nil {
		return nil, err
	}
	return DecodeRecord(payload)
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// EndpointStats aggregates history records for one endpoint.
type EndpointStats struct {
	Endpoint      string           `json:"endpoint"`
	Probes        int              `json:"probes"`
	Up            int              `json:"up"`
	Degraded      int              `json:"degraded"`
	Down          int              `json:"down"`
	MeanLatencyMs int64            `json:"mean_latency_ms"`
	LastState     types.ProbeState `json:"last_state"`
	LastProbe     string           `json:"last_probe"`
}

// Stats aggregates a whole history log.
type Stats struct {
	Records   int             `json:"records"`
	Endpoints []EndpointStats `json:"endpoints"`
}

// TableHeaders implements tabular rendering for the stats command.
func (s *Stats) TableHeaders() []string {
	return []string{"ENDPOINT", "PROBES", "UP", "DEGRADED", "DOWN", "MEAN_MS", "LAST_STATE", "LAST_PROBE"}
}

// TableRows implements tabular rendering for the stats command.
func (s *Stats) TableRows() [][]string {
	rows := make([][]string, 0, len(s.Endpoints))
	for _, e := range s.Endpoints {
		rows = append(rows, []string{
			e.Endpoint,
			fmt.Sprintf("%d", e.Probes),
			fmt.Sprintf("%d", e.Up),
			fmt.Sprintf("%d", e.Degraded),
			fmt.Sprintf("%d", e.Down),
			fmt.Sprintf("%d", e.MeanLatencyMs),
			string(e.LastState),
			e.LastProbe,
		})
	}
	return rows
}

// ReadStats reads the log at path and aggregates per-endpoint counts
// and mean latency. Endpoints are ordered by name for deterministic
// output.
func ReadStats(path string) (*Stats, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	type accumulator struct {
		stats        EndpointStats
		latencyTotal int64
	}
	byEndpoint := map[string]*accumulator{}

	total := 0
	for {
		record, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		total++

		acc := byEndpoint[record.Endpoint]
		if acc == nil {
			acc = &accumulator{stats: EndpointStats{Endpoint: record.Endpoint}}
			byEndpoint[record.Endpoint] = acc
		}
		acc.stats.Probes++
		switch record.State {
		case types.ProbeUp:
			acc.stats.Up++
		case types.ProbeDegraded:
			acc.stats.Degraded++
		case types.ProbeDown:
			acc.stats.Down++
		}
		acc.latencyTotal += record.LatencyMs
		acc.stats.LastState = record.State
		acc.stats.LastProbe = record.Timestamp
	}

	names := make([]string, 0, len(byEndpoint))
	for name := range byEndpoint {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := &Stats{Records: total}
	for _, name := range names {
		acc := byEndpoint[name]
		if acc.stats.Probes > 0 {
			acc.stats.MeanLatencyMs = acc.latencyTotal / int64(acc.stats.Probes)
		}
		stats.Endpoints = append(stats.Endpoints, acc.stats)
	}
	return stats, nil
}
