package safemem

import "github.com/cockroachdb/errors"

// Sentinel errors. Errors returned by this package wrap one of these, so
// callers test them with errors.Is.
var (
	// ErrAllocation reports that storage could not be obtained.
	ErrAllocation = errors.New("safemem: allocation failed")
	// ErrCapacityExceeded reports an append beyond a sequence's fixed capacity.
	ErrCapacityExceeded = errors.New("safemem: capacity exceeded")
	// ErrIndexOutOfRange reports a read or write beyond a sequence's length.
	ErrIndexOutOfRange = errors.New("safemem: index out of range")
	// ErrUseAfterRelease reports access to a released cell, a destroyed
	// sequence or a released region.
	ErrUseAfterRelease = errors.New("safemem: use after release")
	// ErrDoubleFree reports a Free of a handle that is not live.
	ErrDoubleFree = errors.New("safemem: double free")
)

// Kind names the class of a safemem error.
type Kind int

const (
	// KindNone is the kind of a nil error.
	KindNone Kind = iota
	// KindAllocation marks ErrAllocation.
	KindAllocation
	// KindCapacityExceeded marks ErrCapacityExceeded.
	KindCapacityExceeded
	// KindIndexOutOfRange marks ErrIndexOutOfRange.
	KindIndexOutOfRange
	// KindUseAfterRelease marks ErrUseAfterRelease.
	KindUseAfterRelease
	// KindDoubleFree marks ErrDoubleFree.
	KindDoubleFree
	// KindUnknown is any error not produced by this package.
	KindUnknown
)

// String returns the kind's hyphenated name, such as "index-out-of-range".
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAllocation:
		return "allocation"
	case KindCapacityExceeded:
		return "capacity-exceeded"
	case KindIndexOutOfRange:
		return "index-out-of-range"
	case KindUseAfterRelease:
		return "use-after-release"
	case KindDoubleFree:
		return "double-free"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is KindNone; an error that carries no
// safemem mark is KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAllocation):
		return KindAllocation
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrIndexOutOfRange):
		return KindIndexOutOfRange
	case errors.Is(err, ErrUseAfterRelease):
		return KindUseAfterRelease
	case errors.Is(err, ErrDoubleFree):
		return KindDoubleFree
	default:
		return KindUnknown
	}
}

func indexError(i, length int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d with length %d", i, length)
}

func capacityError(capacity int) error {
	return errors.Wrapf(ErrCapacityExceeded, "sequence full at %d", capacity)
}

func releasedError(what string) error {
	return errors.Wrapf(ErrUseAfterRelease, "%s", what)
}

func allocError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrAllocation, format, args...)
}
