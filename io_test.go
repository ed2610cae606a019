package tracering

import (
	"sync"
	"testing"
)

// Capacity 4, ids 0..5 appended in order: Recent(4) is [5,4,3,2] and
// slot 1 holds id 5's record (5 mod 4 == 1), not id 1's.
func TestAppendWraparound(t *testing.T) {
	b, _ := newTestBuffer(t, 4)
	for i := uint64(0); i <= 5; i++ {
		b.Append(testRecord(i, "/w"))
	}

	recs := b.Recent(4)
	if len(recs) != 4 {
		t.Fatalf("recent(4): got %d records", len(recs))
	}
	want := []uint64{5, 4, 3, 2}
	for i, w := range want {
		if got := recs[i].RequestID(); got != w {
			t.Fatalf("recent[%d]: got id %d want %d", i, got, w)
		}
	}

	slot1 := b.Read(1)
	if got := slot1.RequestID(); got != 5 {
		t.Fatalf("slot 1 should hold id 5's wraparound write, got %d", got)
	}
	latest := b.Read(5)
	if got := latest.RequestID(); got != 5 {
		t.Fatalf("read(5): got %d", got)
	}
}

// Appending capacity+k records leaves exactly capacity live slots with no
// duplicates, newest first.
func TestWraparoundRetention(t *testing.T) {
	const slots = 16
	b, _ := newTestBuffer(t, slots)
	for i := uint64(0); i < slots+7; i++ {
		b.Append(testRecord(i, "/r"))
	}

	recs := b.Recent(slots * 2) // asks for more than can exist
	if len(recs) != slots {
		t.Fatalf("expected %d live records, got %d", slots, len(recs))
	}
	seen := make(map[uint64]bool, slots)
	for i, r := range recs {
		id := r.RequestID()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
		if want := uint64(slots + 7 - 1 - i); id != want {
			t.Fatalf("recs[%d]: got id %d want %d", i, id, want)
		}
	}
}

// N concurrent allocations yield N distinct values covering [0, N).
func TestConcurrentRequestIDs(t *testing.T) {
	const (
		workers = 8
		perG    = 1000
	)
	b, _ := newTestBuffer(t, 8)

	ids := make([][]uint64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[w] = make([]uint64, 0, perG)
			for i := 0; i < perG; i++ {
				ids[w] = append(ids[w], b.NextRequestID())
			}
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool, workers*perG)
	for _, chunk := range ids {
		for _, id := range chunk {
			if id >= workers*perG {
				t.Fatalf("id %d outside [0,%d)", id, workers*perG)
			}
			if seen[id] {
				t.Fatalf("duplicate id %d", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != workers*perG {
		t.Fatalf("expected %d distinct ids, got %d", workers*perG, len(seen))
	}
}

// Concurrent appends each claim a distinct slot: with capacity >= total
// appends, every record survives exactly once.
func TestConcurrentAppend(t *testing.T) {
	const (
		workers = 8
		perG    = 100
		total   = workers * perG
	)
	b, _ := newTestBuffer(t, total)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				b.Append(testRecord(uint64(w*perG+i), "/c"))
			}
		}()
	}
	wg.Wait()

	if got := b.Cursor(); got != total {
		t.Fatalf("cursor: got %d want %d", got, total)
	}
	seen := make(map[uint64]bool, total)
	for _, r := range b.Recent(total) {
		id := r.RequestID()
		if seen[id] {
			t.Fatalf("slot collision: id %d appears twice", id)
		}
		seen[id] = true
	}
	if len(seen) != total {
		t.Fatalf("expected %d distinct records, got %d", total, len(seen))
	}
}

func BenchmarkAppend(b *testing.B) {
	buf, err := Open(Options{Dir: b.TempDir(), Size: DefaultSize})
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	defer buf.Close()

	rec := testRecord(1, "/api/users")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Append(rec)
	}
}

func BenchmarkAppendParallel(b *testing.B) {
	buf, err := Open(Options{Dir: b.TempDir(), Size: DefaultSize})
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	defer buf.Close()

	rec := testRecord(1, "/api/users")
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf.Append(rec)
		}
	})
}

func BenchmarkNextRequestID(b *testing.B) {
	buf, err := Open(Options{Dir: b.TempDir(), Size: DefaultSize})
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	defer buf.Close()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.NextRequestID()
	}
}
