package safemem

import "github.com/cockroachdb/errors"

// resource is a primitive whose storage a Region can reclaim.
type resource interface {
	destroy() error
	alive() bool
	storageSize() int
}

// Region owns a group of sequences and cells and destroys them together.
// Typical usage: create one region per unit of work, create primitives with
// InRegion, then Release() at the end for bulk cleanup.
// Not goroutine-safe.
type Region struct {
	alloc    Allocator
	owned    []resource
	released bool
}

// NewRegion creates a Region whose primitives take storage from alloc.
// If alloc is nil the heap allocator is used.
func NewRegion(alloc Allocator) *Region {
	if alloc == nil {
		alloc = defaultAllocator
	}
	return &Region{alloc: alloc}
}

// Allocator returns the allocator backing the region.
func (r *Region) Allocator() Allocator { return r.alloc }

// adopt registers res. When the owned list is full, primitives destroyed
// on their own are dropped first so a long-lived region does not keep them
// reachable.
func (r *Region) adopt(res resource) {
	if len(r.owned) == cap(r.owned) {
		r.compact()
	}
	r.owned = append(r.owned, res)
}

// compact removes destroyed primitives from the owned list, keeping
// creation order.
func (r *Region) compact() {
	kept := r.owned[:0]
	for _, res := range r.owned {
		if res.alive() {
			kept = append(kept, res)
		}
	}
	clear(r.owned[len(kept):])
	r.owned = kept
}

// Reset destroys every owned primitive, newest first, and keeps the region
// usable. Primitives already destroyed on their own are skipped.
func (r *Region) Reset() error {
	if r.released {
		return releasedError("region")
	}
	return r.drop()
}

// Release destroys every owned primitive and closes the region.
// Any later Reset or construction in the region fails with
// ErrUseAfterRelease. Releasing twice is a no-op.
func (r *Region) Release() error {
	if r.released {
		return nil
	}
	err := r.drop()
	r.released = true
	r.owned = nil
	return err
}

// Released reports whether Release has been called.
func (r *Region) Released() bool { return r.released }

func (r *Region) drop() error {
	var errs error
	for i := len(r.owned) - 1; i >= 0; i-- {
		if err := r.owned[i].destroy(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
		r.owned[i] = nil
	}
	r.owned = r.owned[:0]
	return errs
}

// Live returns the number of owned primitives that have not been destroyed.
func (r *Region) Live() int {
	n := 0
	for _, res := range r.owned {
		if res.alive() {
			n++
		}
	}
	return n
}

// BytesInUse returns the storage held by live owned primitives.
func (r *Region) BytesInUse() int {
	sum := 0
	for _, res := range r.owned {
		if res.alive() {
			sum += res.storageSize()
		}
	}
	return sum
}

// Metrics returns a snapshot of region statistics.
func (r *Region) Metrics() RegionMetrics {
	return RegionMetrics{
		Owned:      len(r.owned),
		Live:       r.Live(),
		BytesInUse: r.BytesInUse(),
		Released:   r.released,
	}
}

// RegionMetrics contains statistical information about a region.
type RegionMetrics struct {
	Owned      int  // Primitives still tracked, including some destroyed on their own
	Live       int  // Owned primitives not yet destroyed
	BytesInUse int  // Storage held by live primitives
	Released   bool // Whether the region is closed
}
