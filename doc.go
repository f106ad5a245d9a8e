// Package safemem provides two memory-safe primitives whose failure modes
// are reported errors instead of undefined behavior.
//
// # Overview
//
// An unchecked index past the end of an array reads whatever happens to sit
// next to it, and dereferencing a pointer after free reads memory that may
// already belong to something else. This package replaces both idioms:
//
//   - Sequence: a fixed-capacity sequence where every Get and Set is checked
//     against the logical length before storage is touched
//   - Cell: a single-owner heap cell whose liveness is checked before every
//     access, with an idempotent Release
//
// # Basic Usage
//
//	s, err := safemem.NewSequence[int](6)
//	if err != nil {
//		return err
//	}
//	defer s.Destroy()
//
//	for i := 1; i <= 6; i++ {
//		_ = s.Append(i)
//	}
//	total, _ := safemem.Sum(s)   // 21
//	_, err = s.Get(100)          // ErrIndexOutOfRange, nothing is read
//
//	c, _ := safemem.NewCell(42)
//	v, _ := c.Release()          // 42, storage freed
//	_, err = c.Get()             // ErrUseAfterRelease
//	_, _ = c.Release()           // no-op
//
// # Errors
//
// Every error returned by this package wraps one of ErrAllocation,
// ErrCapacityExceeded, ErrIndexOutOfRange, ErrUseAfterRelease or
// ErrDoubleFree. Use errors.Is, or KindOf to classify:
//
//	switch safemem.KindOf(err) {
//	case safemem.KindIndexOutOfRange:
//		...
//	}
//
// # Allocation and Regions
//
// Storage is granted by an Allocator. The default HeapAllocator relies on
// the Go heap. A Tracker wraps any allocator with a byte limit and a ledger
// of live grants, so leaks and double frees are observable:
//
//	t := safemem.NewTracker(nil, 1<<20)
//	s, _ := safemem.NewSequence[int64](128, safemem.WithAllocator(t))
//	s.Destroy()
//	t.Balanced() // true
//
// A Region owns many primitives and destroys them together:
//
//	r := safemem.NewRegion(t)
//	defer r.Release()
//	s, _ := safemem.NewSequence[byte](4096, safemem.InRegion(r))
//
// # Thread Safety
//
// Sequence, Cell and Region assume a single owner and are not goroutine-safe.
// Tracker is safe for concurrent use and may be shared.
//
// # Metrics and Monitoring
//
// Tracker.Metrics returns a snapshot of its counters, and NewCollector
// exports the same counters to Prometheus:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(safemem.NewCollector("app", t))
package safemem
