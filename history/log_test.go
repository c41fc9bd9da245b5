package history

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/halyard-io/courier/types"
)

func testRecord(name string, state types.ProbeState, latency int64) *types.ProbeRecord {
	status := 200
	if state == types.ProbeDegraded {
		status = 503
	}
	if state == types.ProbeDown {
		status = 0
	}
	return &types.ProbeRecord{
		Endpoint:  name,
		URL:       "http://localhost:5055/health",
		State:     state,
		Status:    status,
		LatencyMs: latency,
		Timestamp: "2026-08-25T12:00:00Z",
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.bin")

	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	records := []*types.ProbeRecord{
		testRecord("actions", types.ProbeUp, 12),
		testRecord("tracker", types.ProbeDown, 0),
	}
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer func() { _ = r.Close() }()

	for i, want := range records {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if got.Endpoint != want.Endpoint || got.State != want.State || got.LatencyMs != want.LatencyMs {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, got, want)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestOpenWriter_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.bin")
	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Append(testRecord("actions", types.ProbeUp, 5)); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestWriter_AppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.bin")

	for range 2 {
		w, err := OpenWriter(path)
		if err != nil {
			t.Fatalf("open writer: %v", err)
		}
		if err := w.Append(testRecord("actions", types.ProbeUp, 5)); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	stats, err := ReadStats(path)
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}
	if stats.Records != 2 {
		t.Errorf("expected 2 records after reopen, got %d", stats.Records)
	}
}

func TestReadFrame_Partial(t *testing.T) {
	// A length prefix promising more bytes than the stream holds.
	var buf bytes.Buffer
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], 100)
	buf.Write(prefix[:])
	buf.WriteString("short")

	d := NewFrameDecoder(&buf)
	_, err := d.ReadFrame()
	if err == nil {
		t.Fatal("expected error for partial frame")
	}
	var frameErr *FrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != FrameErrorPartial {
		t.Fatalf("expected FrameErrorPartial, got %v", err)
	}
}

func TestReadFrame_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], MaxPayloadSize+1)
	buf.Write(prefix[:])

	d := NewFrameDecoder(&buf)
	_, err := d.ReadFrame()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != FrameErrorTooLarge {
		t.Fatalf("expected FrameErrorTooLarge, got %v", err)
	}
}

func TestDecodeRecord_Garbage(t *testing.T) {
	_, err := DecodeRecord([]byte{0xc1, 0xff, 0x00})
	var frameErr *FrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != FrameErrorDecode {
		t.Fatalf("expected FrameErrorDecode, got %v", err)
	}
}

func TestReadStats_Aggregates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.bin")

	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	records := []*types.ProbeRecord{
		testRecord("actions", types.ProbeUp, 10),
		testRecord("actions", types.ProbeUp, 30),
		testRecord("actions", types.ProbeDegraded, 20),
		testRecord("tracker", types.ProbeDown, 0),
	}
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	stats, err := ReadStats(path)
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}

	if stats.Records != 4 {
		t.Errorf("expected 4 records, got %d", stats.Records)
	}
	if len(stats.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(stats.Endpoints))
	}

	// Sorted by name: actions first.
	actions := stats.Endpoints[0]
	if actions.Endpoint != "actions" {
		t.Fatalf("expected actions first, got %q", actions.Endpoint)
	}
	if actions.Probes != 3 || actions.Up != 2 || actions.Degraded != 1 {
		t.Errorf("unexpected actions stats: %+v", actions)
	}
	if actions.MeanLatencyMs != 20 {
		t.Errorf("expected mean latency 20, got %d", actions.MeanLatencyMs)
	}
	if actions.LastState != types.ProbeDegraded {
		t.Errorf("expected last state degraded, got %s", actions.LastState)
	}

	tracker := stats.Endpoints[1]
	if tracker.Down != 1 || tracker.Probes != 1 {
		t.Errorf("unexpected tracker stats: %+v", tracker)
	}
}

func TestReadStats_MissingFile(t *testing.T) {
	_, err := ReadStats(filepath.Join(t.TempDir(), "nope.bin"))
	if err == nil {
		t.Fatal("expected error for missing history log")
	}
	if !os.IsNotExist(errors.Unwrap(err)) {
		t.Errorf("expected not-exist in chain, got %v", err)
	}
}
