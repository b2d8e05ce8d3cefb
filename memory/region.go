// Package memory models the system address space: zero-initialized RAM and
// ROM regions, MMIO windows, and the fixed platform memory map.
package memory

import (
	"fmt"
)

const (
	PAGE_SHIFT = 12
	PAGE_SIZE  = 1 << PAGE_SHIFT

	MAX_REGION_SIZE = uint64(1) << 40 // Largest single region the allocator backs.
)

// Kind of region backing.
type Kind int

const (
	RAM Kind = iota // Read-write memory.
	ROM             // Read-only memory (flash, boot ROM).
	IO              // Device window, no backing store.
)

func (kind Kind) String() string {
	switch kind {
	case RAM:
		return "ram"
	case ROM:
		return "rom"
	case IO:
		return "io"
	}
	return "unknown"
}

type page [PAGE_SIZE]byte

// Region is a named, fixed-size memory region. RAM and ROM contents are
// zero until written; pages are allocated on first write.
type Region struct {
	Name string
	Kind Kind
	Size uint64

	pages map[uint64]*page
}

func (region *Region) String() string {
	return fmt.Sprintf("%v(%v, %#x)", region.Name, region.Kind, region.Size)
}

func (region *Region) check(offset uint64, length int) (err error) {
	if region.Kind == IO {
		err = ErrNoBacking
		return
	}
	if offset > region.Size || uint64(length) > region.Size-offset {
		err = fmt.Errorf("%w: %v offset %#x length %#x", ErrRange, region.Name, offset, length)
		return
	}
	return
}

// Read copies region contents at offset into data.
func (region *Region) Read(offset uint64, data []byte) (err error) {
	if err = region.check(offset, len(data)); err != nil {
		return
	}

	for len(data) > 0 {
		index := offset >> PAGE_SHIFT
		in := offset & (PAGE_SIZE - 1)
		n := min(len(data), PAGE_SIZE-int(in))
		pg, ok := region.pages[index]
		if ok {
			copy(data[:n], pg[in:])
		} else {
			clear(data[:n])
		}
		data = data[n:]
		offset += uint64(n)
	}

	return
}

// Write stores data at offset. ROM regions reject writes.
func (region *Region) Write(offset uint64, data []byte) (err error) {
	if region.Kind == ROM {
		err = fmt.Errorf("%w: %v", ErrReadOnly, region.Name)
		return
	}
	return region.Load(offset, data)
}

// Load stores data at offset regardless of the region being read-only,
// as done when an image is placed before the guest runs.
func (region *Region) Load(offset uint64, data []byte) (err error) {
	if err = region.check(offset, len(data)); err != nil {
		return
	}

	if region.pages == nil {
		region.pages = make(map[uint64]*page)
	}

	for len(data) > 0 {
		index := offset >> PAGE_SHIFT
		in := offset & (PAGE_SIZE - 1)
		n := min(len(data), PAGE_SIZE-int(in))
		pg, ok := region.pages[index]
		if !ok {
			pg = &page{}
			region.pages[index] = pg
		}
		copy(pg[in:], data[:n])
		data = data[n:]
		offset += uint64(n)
	}

	return
}

// Resident returns the number of bytes of backing actually allocated.
func (region *Region) Resident() uint64 {
	return uint64(len(region.pages)) * PAGE_SIZE
}

// Allocator creates regions against an optional budget of backing bytes.
type Allocator struct {
	Limit uint64 // Total backing budget; zero means MAX_REGION_SIZE per region only.

	used uint64
}

// NewRegion creates a zero-initialized region. It fails rather than
// truncating if the size cannot be satisfied.
func (alloc *Allocator) NewRegion(name string, kind Kind, size uint64) (region *Region, err error) {
	if size == 0 {
		err = fmt.Errorf("%w: %v", ErrRegionSize, name)
		return
	}

	if kind != IO {
		if size > MAX_REGION_SIZE {
			err = fmt.Errorf("%w: %v needs %#x bytes", ErrAllocation, name, size)
			return
		}
		if alloc.Limit != 0 && size > alloc.Limit-min(alloc.used, alloc.Limit) {
			err = fmt.Errorf("%w: %v needs %#x bytes, %#x of %#x available",
				ErrAllocation, name, size, alloc.Limit-min(alloc.used, alloc.Limit), alloc.Limit)
			return
		}
		alloc.used += size
	}

	region = &Region{
		Name: name,
		Kind: kind,
		Size: size,
	}

	return
}

// Free returns a region's budget to the allocator and drops its contents.
func (alloc *Allocator) Free(region *Region) {
	if region == nil {
		return
	}
	if region.Kind != IO {
		alloc.used -= min(alloc.used, region.Size)
	}
	region.pages = nil
}

// Used returns the bytes of budget consumed.
func (alloc *Allocator) Used() uint64 {
	return alloc.used
}
