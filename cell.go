package safemem

// Cell is a single-owner heap cell. It is alive from construction until
// Release, after which every access fails with ErrUseAfterRelease; a
// released cell never becomes alive again. The held value is only reachable
// through the cell's methods.
// Not goroutine-safe.
type Cell[T any] struct {
	box    *T // nil once released
	alloc  Allocator
	handle Handle
}

// NewCell creates a live Cell holding v.
func NewCell[T any](v T, opts ...Option) (*Cell[T], error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	size, err := sizeFor[T](1)
	if err != nil {
		return nil, err
	}
	h, err := cfg.alloc.Allocate(size)
	if err != nil {
		return nil, err
	}
	box := new(T)
	*box = v
	c := &Cell[T]{box: box, alloc: cfg.alloc, handle: h}
	cfg.adopt(c)
	return c, nil
}

// Alive reports whether the cell still holds its value.
func (c *Cell[T]) Alive() bool { return c.box != nil }

// Get returns a copy of the held value.
func (c *Cell[T]) Get() (T, error) {
	if c.box == nil {
		var zero T
		return zero, releasedError("cell")
	}
	return *c.box, nil
}

// Replace stores v and returns the previous value.
func (c *Cell[T]) Replace(v T) (T, error) {
	if c.box == nil {
		var zero T
		return zero, releasedError("cell")
	}
	old := *c.box
	*c.box = v
	return old, nil
}

// Update replaces the held value with fn applied to it. If fn releases
// the cell, its result is dropped and Update fails with ErrUseAfterRelease.
func (c *Cell[T]) Update(fn func(T) T) error {
	if c.box == nil {
		return releasedError("cell")
	}
	nv := fn(*c.box)
	if c.box == nil {
		return releasedError("cell")
	}
	*c.box = nv
	return nil
}

// Release drops the held value, frees its storage and hands the value to
// the caller. Releasing a released cell is a no-op returning the zero value
// and a nil error; the error result only carries an allocator failure.
func (c *Cell[T]) Release() (T, error) {
	var zero T
	if c.box == nil {
		return zero, nil
	}
	v := *c.box
	*c.box = zero
	c.box = nil
	return v, c.alloc.Free(c.handle)
}

func (c *Cell[T]) destroy() error {
	_, err := c.Release()
	return err
}

func (c *Cell[T]) alive() bool { return c.Alive() }

func (c *Cell[T]) storageSize() int { return c.handle.Size() }

// Borrow returns a View of the cell. The view is valid only while the cell
// is alive.
func (c *Cell[T]) Borrow() (View[T], error) {
	if c.box == nil {
		return View[T]{}, releasedError("cell")
	}
	return View[T]{cell: c}, nil
}

// View is a read-only borrow of a Cell. It checks the cell's liveness on
// every access.
type View[T any] struct {
	cell *Cell[T]
}

// Get returns a copy of the borrowed value, or ErrUseAfterRelease once the
// cell has been released.
func (v View[T]) Get() (T, error) {
	if v.cell == nil {
		var zero T
		return zero, releasedError("view")
	}
	val, err := v.cell.Get()
	if err != nil {
		return val, releasedError("view")
	}
	return val, nil
}

// Valid reports whether the view can still be read.
func (v View[T]) Valid() bool { return v.cell != nil && v.cell.Alive() }
