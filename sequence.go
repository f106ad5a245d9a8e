package safemem

import "golang.org/x/exp/constraints"

// Number is the set of element types Sum can add.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Sequence is a fixed-capacity sequence whose every access is checked
// against its logical length. An index outside [0, Len()) is reported
// as ErrIndexOutOfRange and never reaches storage.
// Not goroutine-safe.
type Sequence[T any] struct {
	data      []T // len is the logical length; grows on Append up to capacity
	capacity  int
	alloc     Allocator
	handle    Handle
	destroyed bool
}

// NewSequence creates an empty Sequence able to hold capacity elements.
// It fails with ErrAllocation if the allocator refuses the storage. The
// grant is accounted up front but element memory is only taken from the
// runtime as elements are appended.
func NewSequence[T any](capacity int, opts ...Option) (*Sequence[T], error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	size, err := sizeFor[T](capacity)
	if err != nil {
		return nil, err
	}
	h, err := cfg.alloc.Allocate(size)
	if err != nil {
		return nil, err
	}
	s := &Sequence[T]{
		capacity: capacity,
		alloc:    cfg.alloc,
		handle:   h,
	}
	cfg.adopt(s)
	return s, nil
}

// SequenceOf creates a Sequence of the given capacity holding a copy of
// values. It fails with ErrCapacityExceeded if values do not fit.
func SequenceOf[T any](capacity int, values []T, opts ...Option) (*Sequence[T], error) {
	if capacity < 0 {
		return nil, allocError("negative capacity %d", capacity)
	}
	if len(values) > capacity {
		return nil, capacityError(capacity)
	}
	s, err := NewSequence[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	s.data = append(make([]T, 0, len(values)), values...)
	return s, nil
}

// Append stores v at index Len(). On a full sequence it fails with
// ErrCapacityExceeded and leaves the sequence unchanged.
func (s *Sequence[T]) Append(v T) error {
	if s.destroyed {
		return releasedError("sequence")
	}
	if len(s.data) >= s.capacity {
		return capacityError(s.capacity)
	}
	s.data = append(s.data, v)
	return nil
}

// Get returns the element at index i.
func (s *Sequence[T]) Get(i int) (T, error) {
	var zero T
	if s.destroyed {
		return zero, releasedError("sequence")
	}
	if uint(i) >= uint(len(s.data)) {
		return zero, indexError(i, len(s.data))
	}
	return s.data[i], nil
}

// Set overwrites the element at index i. On failure storage is unchanged.
func (s *Sequence[T]) Set(i int, v T) error {
	if s.destroyed {
		return releasedError("sequence")
	}
	if uint(i) >= uint(len(s.data)) {
		return indexError(i, len(s.data))
	}
	s.data[i] = v
	return nil
}

// Len returns the logical length, 0 once destroyed.
func (s *Sequence[T]) Len() int { return len(s.data) }

// Cap returns the fixed capacity, 0 once destroyed.
func (s *Sequence[T]) Cap() int { return s.capacity }

// Destroyed reports whether Destroy has been called.
func (s *Sequence[T]) Destroyed() bool { return s.destroyed }

// Values returns a copy of the first Len() elements.
func (s *Sequence[T]) Values() ([]T, error) {
	if s.destroyed {
		return nil, releasedError("sequence")
	}
	out := make([]T, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Destroy frees the sequence's storage. Later calls are no-ops; every other
// operation on a destroyed sequence fails with ErrUseAfterRelease.
func (s *Sequence[T]) Destroy() error {
	return s.destroy()
}

func (s *Sequence[T]) destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true
	s.data = nil
	s.capacity = 0
	return s.alloc.Free(s.handle)
}

func (s *Sequence[T]) alive() bool { return !s.destroyed }

func (s *Sequence[T]) storageSize() int { return s.handle.Size() }

// Fold applies fn to the elements of s from left to right, starting at init.
// An empty sequence returns init. If fn destroys s, Fold stops and fails
// with ErrUseAfterRelease.
func Fold[T, A any](s *Sequence[T], init A, fn func(A, T) A) (A, error) {
	acc := init
	for i := 0; ; i++ {
		if s.destroyed {
			return init, releasedError("sequence")
		}
		if i >= len(s.data) {
			return acc, nil
		}
		acc = fn(acc, s.data[i])
	}
}

// Sum adds the elements of s. An empty sequence sums to 0.
func Sum[T Number](s *Sequence[T]) (T, error) {
	var zero T
	return Fold(s, zero, func(acc, v T) T { return acc + v })
}
