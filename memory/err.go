package memory

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrRegionSize = errors.New(f("region size must be positive"))
	ErrAllocation = errors.New(f("allocation failed"))
	ErrReadOnly   = errors.New(f("region is read-only"))
	ErrNoBacking  = errors.New(f("region has no backing store"))
	ErrRange      = errors.New(f("access out of range"))
	ErrUnmapped   = errors.New(f("address not mapped"))
	ErrMapped     = errors.New(f("region already mapped"))
	ErrNotMapped  = errors.New(f("region not mapped"))
	ErrWrap       = errors.New(f("region wraps the address space"))
	ErrRAMSize    = errors.New(f("ram size above platform maximum"))
	ErrLayout     = errors.New(f("memory layout invalid"))
)

// ErrOverlap reports a reservation that collides with a mapped region.
type ErrOverlap struct {
	Name     string
	Base     uint64
	Size     uint64
	Existing string
	At       uint64
}

func (err *ErrOverlap) Error() string {
	return f("%v [%#x+%#x] overlaps %v at %#x", err.Name, err.Base, err.Size, err.Existing, err.At)
}

// ErrRAMTooLarge reports a RAM request above the platform ceiling.
type ErrRAMTooLarge struct {
	Size uint64
	Max  uint64
}

func (err ErrRAMTooLarge) Error() string {
	return f("RAM size %#x above max supported of %#x", err.Size, err.Max)
}

func (err ErrRAMTooLarge) Unwrap() error {
	return ErrRAMSize
}
