package safemem

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// MaxAllocation is the largest single grant, in bytes, any allocator in this
// package will hand out (1 TiB).
const MaxAllocation = 1 << 40

// Handle identifies one storage grant. The zero Handle is never granted.
type Handle struct {
	id   uint64
	size int
}

// ID returns the grant's identifier, unique per process.
func (h Handle) ID() uint64 { return h.id }

// Size returns the number of bytes granted.
func (h Handle) Size() int { return h.size }

// Allocator grants and reclaims the storage behind sequences and cells.
// Each successful Allocate must be matched by exactly one Free.
type Allocator interface {
	Allocate(size int) (Handle, error)
	Free(h Handle) error
}

var nextHandleID atomic.Uint64

func newHandle(size int) Handle {
	return Handle{id: nextHandleID.Add(1), size: size}
}

// HeapAllocator grants storage from the Go heap. Element memory itself is
// reclaimed by the garbage collector once a primitive drops it.
type HeapAllocator struct{}

// NewHeapAllocator returns a HeapAllocator.
func NewHeapAllocator() *HeapAllocator { return &HeapAllocator{} }

// Allocate returns a fresh handle for size bytes.
func (*HeapAllocator) Allocate(size int) (Handle, error) {
	if size < 0 || uint64(size) > MaxAllocation {
		return Handle{}, allocError("cannot allocate %d bytes", size)
	}
	return newHandle(size), nil
}

// Free accepts any handle; the heap allocator keeps no ledger.
func (*HeapAllocator) Free(Handle) error { return nil }

var defaultAllocator Allocator = NewHeapAllocator()

// sizeFor returns the aligned number of bytes needed for n values of T.
func sizeFor[T any](n int) (int, error) {
	if n < 0 {
		return 0, allocError("negative capacity %d", n)
	}
	var zero T
	elem := uint64(unsafe.Sizeof(zero))
	if elem == 0 || n == 0 {
		return 0, nil
	}
	if uint64(n) > math.MaxUint64/elem {
		return 0, allocError("capacity %d overflows element size %d", n, elem)
	}
	raw := uint64(n) * elem
	if raw > MaxAllocation {
		return 0, allocError("capacity %d needs %d bytes, limit is %d", n, raw, uint64(MaxAllocation))
	}
	return int(alignSize(raw)), nil
}

// alignSize rounds size up to pointer alignment.
func alignSize(size uint64) uint64 {
	const align = uint64(unsafe.Sizeof(uintptr(0)))
	mask := align - 1
	return (size + mask) &^ mask
}
