// Package parallel provides the worker pool used for per-path tile/band
// classification and other parallelizable path-level work.
//
// The pool exposes a single operation, Run, modeled after a fork-join
// barrier: body(i) is invoked once for every i in [0,N), distributed across
// up to P workers pulling indices from a shared atomic cursor. There is no
// work stealing and no preemption — once a worker claims an index it runs
// body to completion before claiming the next one.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Scratch is a per-worker byte allocator for intermediate buffers needed
// inside a Run body. It is reset to a zero watermark at the start of every
// Run call, so callers can bump-allocate from it without fear of
// cross-frame or cross-worker aliasing.
type Scratch struct {
	buf []byte
}

func (s *Scratch) reset() {
	s.buf = s.buf[:0]
}

// Bytes returns a slice of n bytes carved from the scratch buffer, growing
// the backing array if needed. The slice is only valid until the next
// reset (the start of the next Run this worker participates in).
func (s *Scratch) Bytes(n int) []byte {
	start := len(s.buf)
	if cap(s.buf)-start < n {
		grown := make([]byte, start, 2*(start+n))
		copy(grown, s.buf)
		s.buf = grown
	}
	s.buf = s.buf[:start+n]
	return s.buf[start : start+n]
}

// Pool is a fixed-size set of workers for fork-join parallel work. Pool is
// safe for concurrent use by multiple callers of Run, though concurrent
// Run calls on the same Pool will contend for the same scratch slots and
// are not recommended.
type Pool struct {
	workers int
	scratch []Scratch
}

// New creates a pool with the given worker count. If workers is 0 or
// negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		workers: workers,
		scratch: make([]Scratch, workers),
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Run invokes body(i, scratch) once for every i in [0,N), distributed
// across up to Workers() goroutines. Each worker pulls the next unclaimed
// index from a shared atomic cursor; there is no work stealing, so a
// worker that claims a slow index simply runs it while its siblings keep
// draining the cursor. Run blocks until every index has been processed.
//
// scratch is reset to an empty watermark for each worker at the start of
// Run and is private to that worker for the duration of the call — body
// must not retain slices obtained from it past the call where they were
// obtained from another index.
func (p *Pool) Run(n int, body func(i int, scratch *Scratch)) {
	if n <= 0 {
		return
	}

	workers := p.workers
	if workers > n {
		workers = n
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		scratch := &p.scratch[w]
		go func(scratch *Scratch) {
			defer wg.Done()
			scratch.reset()
			for {
				i := int(cursor.Add(1) - 1)
				if i >= n {
					return
				}
				body(i, scratch)
			}
		}(scratch)
	}

	wg.Wait()
}

// RunSimple is Run without scratch access, for callers whose body
// allocates nothing of note.
func (p *Pool) RunSimple(n int, body func(i int)) {
	p.Run(n, func(i int, _ *Scratch) { body(i) })
}
