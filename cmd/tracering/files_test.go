package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	tracering "github.com/edgerelay/go-trace-ring"
)

func TestPidFromName(t *testing.T) {
	cases := []struct {
		name string
		pid  int
		ok   bool
	}{
		{"trace.1234.bin", 1234, true},
		{"trace.1.bin", 1, true},
		{"trace.bin", 0, false},
		{"trace..bin", 0, false},
		{"trace.-5.bin", 0, false},
		{"trace.12x4.bin", 0, false},
		{"config.toml", 0, false},
		{"trace.1234.bin.bak", 0, false},
	}
	for _, c := range cases {
		pid, ok := pidFromName(c.name)
		if ok != c.ok || pid != c.pid {
			t.Errorf("pidFromName(%q) = %d,%v want %d,%v", c.name, pid, ok, c.pid, c.ok)
		}
	}
}

func TestTraceFilesMissingDir(t *testing.T) {
	paths, err := traceFiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no files, got %v", paths)
	}
}

// writeTraceFile creates a real trace file in dir and clones it under the
// given extra pids, simulating several proxy processes on one machine.
func writeTraceFile(t *testing.T, dir string, count int, extraPids ...int) string {
	t.Helper()
	buf, err := tracering.Open(tracering.Options{Dir: dir, Size: tracering.HeaderSize + 32*tracering.RecordSize})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer buf.Close()

	for i := 0; i < count; i++ {
		var rec tracering.TraceRecord
		rec.SetTimestamp(tracering.Now())
		rec.SetRequestID(uint64(i))
		rec.SetMethod(tracering.MethodGet)
		rec.SetStatus(200)
		rec.SetPath("/m")
		buf.Append(&rec)
	}
	if err := buf.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	data, err := os.ReadFile(buf.FilePath())
	if err != nil {
		t.Fatal(err)
	}
	for _, pid := range extraPids {
		clone := filepath.Join(dir, "trace."+strconv.Itoa(pid)+".bin")
		if err := os.WriteFile(clone, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return buf.FilePath()
}

// Unreadable files become separate "skipped" notices, never malformed
// table rows.
func TestLsRowsSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeTraceFile(t, dir, 3)
	junk := filepath.Join(dir, "trace.999.bin")
	if err := os.WriteFile(junk, make([]byte, tracering.HeaderSize+4*tracering.RecordSize), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := traceFiles(dir)
	if err != nil {
		t.Fatalf("traceFiles: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 trace files, got %d", len(paths))
	}

	rows, skipped := lsRows(paths)
	if len(rows) != 1 {
		t.Fatalf("expected 1 table row, got %d", len(rows))
	}
	if len(rows[0]) != len(lsHeader) {
		t.Fatalf("row has %d cells, header has %d", len(rows[0]), len(lsHeader))
	}
	if rows[0][4] != "3" { // APPENDED column
		t.Fatalf("appended cell: got %q", rows[0][4])
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], junk) {
		t.Fatalf("expected one skipped notice for %s, got %v", junk, skipped)
	}
}

func TestMergeRecent(t *testing.T) {
	dir := t.TempDir()
	writeTraceFile(t, dir, 5, 100001, 100002)

	paths, err := traceFiles(dir)
	if err != nil {
		t.Fatalf("traceFiles: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 trace files, got %d", len(paths))
	}

	recs, err := mergeRecent(paths, 8)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(recs) != 8 {
		t.Fatalf("merge should cap at 8 records, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Timestamp() > recs[i-1].Timestamp() {
			t.Fatalf("merge output not newest-first at index %d", i)
		}
	}
}
