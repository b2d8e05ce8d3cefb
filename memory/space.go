package memory

import (
	"fmt"
	"iter"

	"github.com/google/btree"
)

// Mapper places regions into a global address space.
type Mapper interface {
	Map(base uint64, region *Region) error
	Unmap(region *Region) error
}

// Mapping is a region placed at a base address.
type Mapping struct {
	Base   uint64
	Region *Region
}

// Last returns the last address covered by the mapping.
func (mp *Mapping) Last() uint64 {
	return mp.Base + mp.Region.Size - 1
}

// Contains reports whether addr lies within the mapping.
func (mp *Mapping) Contains(addr uint64) bool {
	return addr >= mp.Base && addr <= mp.Last()
}

// AddressSpace is the system physical address space. Reservations never
// overlap; an attempt to map onto an occupied range fails.
type AddressSpace struct {
	tree    *btree.BTreeG[*Mapping]
	regions map[*Region]*Mapping
}

var _ Mapper = (*AddressSpace)(nil)

// NewAddressSpace creates an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{
		tree: btree.NewG[*Mapping](8, func(a, b *Mapping) bool {
			return a.Base < b.Base
		}),
		regions: make(map[*Region]*Mapping),
	}
}

// Map places a region at base.
func (as *AddressSpace) Map(base uint64, region *Region) (err error) {
	if region == nil || region.Size == 0 {
		err = ErrRegionSize
		return
	}
	if _, ok := as.regions[region]; ok {
		err = fmt.Errorf("%w: %v", ErrMapped, region.Name)
		return
	}

	mp := &Mapping{Base: base, Region: region}
	if mp.Last() < base {
		err = fmt.Errorf("%w: %v at %#x", ErrWrap, region.Name, base)
		return
	}

	if prior := as.floor(base); prior != nil && prior.Last() >= base {
		err = &ErrOverlap{Name: region.Name, Base: base, Size: region.Size, Existing: prior.Region.Name, At: prior.Base}
		return
	}

	as.tree.AscendGreaterOrEqual(mp, func(next *Mapping) bool {
		if next.Base <= mp.Last() {
			err = &ErrOverlap{Name: region.Name, Base: base, Size: region.Size, Existing: next.Region.Name, At: next.Base}
		}
		return false
	})
	if err != nil {
		return
	}

	as.tree.ReplaceOrInsert(mp)
	as.regions[region] = mp

	return
}

// Unmap removes a region.
func (as *AddressSpace) Unmap(region *Region) (err error) {
	mp, ok := as.regions[region]
	if !ok {
		err = ErrNotMapped
		return
	}
	as.tree.Delete(mp)
	delete(as.regions, region)
	return
}

// floor returns the mapping with the highest base <= addr.
func (as *AddressSpace) floor(addr uint64) (found *Mapping) {
	as.tree.DescendLessOrEqual(&Mapping{Base: addr}, func(mp *Mapping) bool {
		found = mp
		return false
	})
	return
}

// Base returns where a region is mapped.
func (as *AddressSpace) Base(region *Region) (base uint64, ok bool) {
	mp, ok := as.regions[region]
	if ok {
		base = mp.Base
	}
	return
}

// Lookup returns the mapping containing addr.
func (as *AddressSpace) Lookup(addr uint64) (mp *Mapping, ok bool) {
	mp = as.floor(addr)
	if mp == nil || !mp.Contains(addr) {
		return nil, false
	}
	return mp, true
}

// Len returns the number of mapped regions.
func (as *AddressSpace) Len() int {
	return as.tree.Len()
}

// Mappings iterates the mapped regions in address order.
func (as *AddressSpace) Mappings() iter.Seq[*Mapping] {
	return func(yield func(*Mapping) bool) {
		as.tree.Ascend(func(mp *Mapping) bool {
			return yield(mp)
		})
	}
}

type accessFunc func(region *Region, offset uint64, data []byte) error

func (as *AddressSpace) access(addr uint64, data []byte, fn accessFunc) (err error) {
	for len(data) > 0 {
		mp, ok := as.Lookup(addr)
		if !ok {
			err = fmt.Errorf("%w: %#x", ErrUnmapped, addr)
			return
		}
		offset := addr - mp.Base
		n := uint64(len(data))
		if n > mp.Region.Size-offset {
			n = mp.Region.Size - offset
		}
		if err = fn(mp.Region, offset, data[:n]); err != nil {
			return
		}
		data = data[n:]
		addr += n
	}
	return
}

// Read from physical address addr; accesses may span adjacent regions.
func (as *AddressSpace) Read(addr uint64, data []byte) error {
	return as.access(addr, data, (*Region).Read)
}

// Write to physical address addr.
func (as *AddressSpace) Write(addr uint64, data []byte) error {
	return as.access(addr, data, (*Region).Write)
}

// Load to physical address addr, ignoring read-only protection.
func (as *AddressSpace) Load(addr uint64, data []byte) error {
	return as.access(addr, data, (*Region).Load)
}
