package safemem

// Option configures a Sequence or Cell at construction.
type Option func(*config)

type config struct {
	alloc  Allocator
	region *Region
}

// WithAllocator takes storage from a instead of the heap allocator.
func WithAllocator(a Allocator) Option {
	return func(c *config) { c.alloc = a }
}

// InRegion makes r the owner of the new primitive. Storage comes from the
// region's allocator and the primitive is destroyed when r is reset or
// released. InRegion overrides WithAllocator.
func InRegion(r *Region) Option {
	return func(c *config) { c.region = r }
}

func newConfig(opts []Option) (config, error) {
	c := config{alloc: defaultAllocator}
	for _, opt := range opts {
		opt(&c)
	}
	if c.region != nil {
		if c.region.released {
			return c, releasedError("region")
		}
		c.alloc = c.region.alloc
	}
	if c.alloc == nil {
		c.alloc = defaultAllocator
	}
	return c, nil
}

// adopt hands r to the configured region, if any.
func (c config) adopt(r resource) {
	if c.region != nil {
		c.region.adopt(r)
	}
}
