package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_Create(t *testing.T) {
	p := New(4)
	if p.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", p.Workers())
	}
}

func TestPool_CreateZeroWorkers(t *testing.T) {
	p := New(0)
	expected := runtime.GOMAXPROCS(0)
	if p.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", p.Workers(), expected)
	}
}

func TestPool_CreateNegativeWorkers(t *testing.T) {
	p := New(-5)
	expected := runtime.GOMAXPROCS(0)
	if p.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", p.Workers(), expected)
	}
}

func TestPool_RunAllIndices(t *testing.T) {
	p := New(4)
	const n = 1000
	var seen [n]atomic.Bool

	p.RunSimple(n, func(i int) {
		seen[i].Store(true)
	})

	for i := 0; i < n; i++ {
		if !seen[i].Load() {
			t.Fatalf("index %d was never processed", i)
		}
	}
}

func TestPool_RunCounts(t *testing.T) {
	p := New(8)
	var counter atomic.Int64

	p.RunSimple(500, func(i int) {
		counter.Add(1)
	})

	if counter.Load() != 500 {
		t.Errorf("counter = %d, want 500", counter.Load())
	}
}

func TestPool_RunEmpty(t *testing.T) {
	p := New(4)
	called := false
	p.RunSimple(0, func(i int) { called = true })
	if called {
		t.Error("body should not be called for n=0")
	}
}

func TestPool_RunFewerItemsThanWorkers(t *testing.T) {
	p := New(16)
	var counter atomic.Int64
	p.RunSimple(3, func(i int) { counter.Add(1) })
	if counter.Load() != 3 {
		t.Errorf("counter = %d, want 3", counter.Load())
	}
}

func TestPool_RunSingleWorker(t *testing.T) {
	p := New(1)
	var counter atomic.Int64
	p.RunSimple(200, func(i int) { counter.Add(1) })
	if counter.Load() != 200 {
		t.Errorf("counter = %d, want 200", counter.Load())
	}
}

func TestPool_ScratchIsolatedPerWorker(t *testing.T) {
	p := New(4)
	var mu sync.Mutex
	seenPointers := make(map[*Scratch]bool)

	p.Run(64, func(i int, s *Scratch) {
		buf := s.Bytes(16)
		if len(buf) != 16 {
			t.Errorf("Bytes(16) returned length %d", len(buf))
		}
		mu.Lock()
		seenPointers[s] = true
		mu.Unlock()
	})

	if len(seenPointers) == 0 || len(seenPointers) > p.Workers() {
		t.Errorf("expected between 1 and %d distinct scratch allocators, saw %d", p.Workers(), len(seenPointers))
	}
}

func TestPool_ScratchResetEachRun(t *testing.T) {
	p := New(1)

	p.Run(5, func(i int, s *Scratch) {
		s.Bytes(32)
	})
	p.Run(1, func(i int, s *Scratch) {
		if len(s.buf) != 0 {
			t.Errorf("scratch not reset at start of Run: len = %d", len(s.buf))
		}
	})
}

func TestPool_NoDuplicateIndices(t *testing.T) {
	p := New(6)
	const n = 300
	var counts [n]atomic.Int32

	p.RunSimple(n, func(i int) {
		counts[i].Add(1)
	})

	for i := 0; i < n; i++ {
		if c := counts[i].Load(); c != 1 {
			t.Fatalf("index %d processed %d times, want 1", i, c)
		}
	}
}

func BenchmarkPool_Run(b *testing.B) {
	p := New(runtime.GOMAXPROCS(0))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.RunSimple(1000, func(i int) {})
	}
}
