package memory

import (
	"fmt"
	"iter"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/a72ss/translate"
)

// Fixed physical memory map.
const (
	FLASH_ADDR = 0x0000_0000
	FLASH_SIZE = 0x0400_0000 // 64MB

	RAM_ADDR  = 0x8000_0000
	RAM_MAX   = 0x8000_0000 // 2GB ceiling
	RAM_SMALL = 0x0800_0000 // Below this a warning is logged.

	MSMC_ADDR = 0x7000_0000
	MSMC_SIZE = 0x0040_0000 // 4MB

	L2_SIZE = 0x0020_0000 // 2MB per cluster
)

// L2_ADDR is the base of each cluster's L2-as-RAM region.
var L2_ADDR = [...]uint64{0x7100_0000, 0x7200_0000}

// Layout is the requested memory map.
type Layout struct {
	Prefix string // Region name prefix, e.g. "ti-j784s4".

	RAMSize uint64
	RAMMax  uint64 // Zero selects RAM_MAX; never raises it.

	Flash bool // Map the boot flash.

	MSMC     bool   // Map the shared on-chip RAM.
	MSMCSize uint64 // Size of the shared on-chip RAM.

	L2Sizes []uint64 // Per-cluster L2-as-RAM sizes.
}

func (layout *Layout) name(part string) string {
	if len(layout.Prefix) == 0 {
		return part
	}
	return layout.Prefix + "." + part
}

func (layout *Layout) ramMax() uint64 {
	if layout.RAMMax == 0 {
		return RAM_MAX
	}
	return min(layout.RAMMax, RAM_MAX)
}

// Validate checks the layout without creating anything.
func (layout *Layout) Validate() (err error) {
	switch {
	case layout.RAMSize > layout.ramMax():
		err = ErrRAMTooLarge{Size: layout.RAMSize, Max: layout.ramMax()}
	case layout.RAMSize == 0:
		err = fmt.Errorf("%w: ram", ErrRegionSize)
	case layout.MSMC && layout.MSMCSize == 0:
		err = fmt.Errorf("%w: msmc_ram", ErrRegionSize)
	case len(layout.L2Sizes) > len(L2_ADDR):
		err = fmt.Errorf("%w: %d L2 regions, at most %d", ErrLayout, len(layout.L2Sizes), len(L2_ADDR))
	case slices.Contains(layout.L2Sizes, 0):
		err = fmt.Errorf("%w: l2", ErrRegionSize)
	}
	return
}

// Map is the composed memory map.
type Map struct {
	Flash *Region
	RAM   *Region
	MSMC  *Region
	L2    []*Region

	order []*Region
}

// Regions iterates the composed regions in creation order.
func (mm *Map) Regions() iter.Seq[*Region] {
	return func(yield func(*Region) bool) {
		if mm == nil {
			return
		}
		for _, region := range mm.order {
			if !yield(region) {
				return
			}
		}
	}
}

// Composer builds the fixed memory map into an address space.
type Composer struct {
	Verbose   bool
	Logger    logrus.FieldLogger
	Allocator *Allocator
}

func (cm *Composer) logger() logrus.FieldLogger {
	if cm.Logger == nil {
		return logrus.StandardLogger()
	}
	return cm.Logger
}

// Compose validates the layout, then creates and maps every region. If
// any step fails, regions already mapped are unmapped and freed.
func (cm *Composer) Compose(space Mapper, layout Layout) (mm *Map, err error) {
	err = layout.Validate()
	if err != nil {
		return
	}

	if layout.RAMSize < RAM_SMALL {
		cm.logger().Warnf("RAM size %#x is small for %v", layout.RAMSize, layout.Prefix)
	}

	alloc := cm.Allocator
	if alloc == nil {
		alloc = &Allocator{}
	}

	mm = &Map{}
	defer func() {
		if err != nil {
			cm.Release(space, mm)
			mm = nil
		}
	}()

	add := func(part string, kind Kind, base uint64, size uint64) (region *Region, err error) {
		region, err = alloc.NewRegion(layout.name(part), kind, size)
		if err != nil {
			return
		}
		mm.order = append(mm.order, region)
		err = space.Map(base, region)
		if err != nil {
			return
		}
		if cm.Verbose {
			cm.logger().Debugf("memory: %v at %#x, %v", region.Name, base, translate.Size(size))
		}
		return
	}

	if layout.Flash {
		if mm.Flash, err = add("flash", ROM, FLASH_ADDR, FLASH_SIZE); err != nil {
			return
		}
	}

	if mm.RAM, err = add("ram", RAM, RAM_ADDR, layout.RAMSize); err != nil {
		return
	}

	if layout.MSMC {
		if mm.MSMC, err = add("msmc_ram", RAM, MSMC_ADDR, layout.MSMCSize); err != nil {
			return
		}
	}

	for n, size := range layout.L2Sizes {
		var region *Region
		region, err = add(fmt.Sprintf("l2_%d", n), RAM, L2_ADDR[n], size)
		if err != nil {
			return
		}
		mm.L2 = append(mm.L2, region)
	}

	return
}

// Release unmaps and frees every region of a composed map. Regions that
// were created but never mapped are freed only.
func (cm *Composer) Release(space Mapper, mm *Map) {
	if mm == nil {
		return
	}
	alloc := cm.Allocator
	for _, region := range slices.Backward(mm.order) {
		_ = space.Unmap(region)
		if alloc != nil {
			alloc.Free(region)
		}
	}
	mm.order = nil
}
