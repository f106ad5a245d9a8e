package safemem

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Tracker is an instrumented Allocator. It forwards grants to a parent
// allocator, enforces an optional byte limit and keeps a ledger of live
// handles so that leaks and double frees are observable.
// All methods are safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	parent Allocator
	limit  int
	live   map[uint64]int

	allocs       uint64
	frees        uint64
	failedAllocs uint64
	doubleFrees  uint64
	bytesInUse   int
	peakBytes    int
}

// NewTracker creates a Tracker over parent. If parent is nil the heap
// allocator is used. A limit <= 0 means no limit beyond MaxAllocation.
func NewTracker(parent Allocator, limit int) *Tracker {
	if parent == nil {
		parent = defaultAllocator
	}
	return &Tracker{
		parent: parent,
		limit:  limit,
		live:   make(map[uint64]int),
	}
}

// Allocate records a grant of size bytes, failing with ErrAllocation when the
// limit would be exceeded or the parent refuses.
func (t *Tracker) Allocate(size int) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.limit > 0 && size > t.limit-t.bytesInUse {
		t.failedAllocs++
		return Handle{}, allocError("%d bytes requested, %d of %d in use", size, t.bytesInUse, t.limit)
	}
	h, err := t.parent.Allocate(size)
	if err != nil {
		t.failedAllocs++
		return Handle{}, err
	}
	t.live[h.id] = h.size
	t.allocs++
	t.bytesInUse += h.size
	if t.bytesInUse > t.peakBytes {
		t.peakBytes = t.bytesInUse
	}
	return h, nil
}

// Free returns h to the parent. Freeing a handle that is unknown or already
// freed fails with ErrDoubleFree and leaves the ledger unchanged.
func (t *Tracker) Free(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	size, ok := t.live[h.id]
	if !ok {
		t.doubleFrees++
		return errors.Wrapf(ErrDoubleFree, "handle %d is not live", h.id)
	}
	if err := t.parent.Free(h); err != nil {
		return errors.Wrapf(err, "free handle %d", h.id)
	}
	delete(t.live, h.id)
	t.frees++
	t.bytesInUse -= size
	return nil
}

// Live reports the number of outstanding grants.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// BytesInUse reports the number of bytes currently granted.
func (t *Tracker) BytesInUse() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytesInUse
}

// Balanced reports whether every grant has been freed exactly once.
func (t *Tracker) Balanced() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs == t.frees && len(t.live) == 0 && t.doubleFrees == 0
}

// Utilization returns bytes in use over the limit (0.0 to 1.0).
// Returns 0.0 for an unlimited tracker.
func (t *Tracker) Utilization() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.utilization()
}

func (t *Tracker) utilization() float64 {
	if t.limit <= 0 {
		return 0
	}
	return float64(t.bytesInUse) / float64(t.limit)
}

// Metrics returns a snapshot of tracker statistics.
func (t *Tracker) Metrics() TrackerMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerMetrics{
		Allocs:       t.allocs,
		Frees:        t.frees,
		FailedAllocs: t.failedAllocs,
		DoubleFrees:  t.doubleFrees,
		Live:         len(t.live),
		BytesInUse:   t.bytesInUse,
		PeakBytes:    t.peakBytes,
		Limit:        t.limit,
		Utilization:  t.utilization(),
	}
}

// TrackerMetrics contains statistical information about a tracker.
type TrackerMetrics struct {
	Allocs       uint64  // Successful grants
	Frees        uint64  // Successful frees
	FailedAllocs uint64  // Refused grants
	DoubleFrees  uint64  // Rejected frees of non-live handles
	Live         int     // Outstanding grants
	BytesInUse   int     // Bytes currently granted
	PeakBytes    int     // High-water mark of BytesInUse
	Limit        int     // Byte limit, 0 if unlimited
	Utilization  float64 // Ratio of BytesInUse to Limit (0.0-1.0)
}
