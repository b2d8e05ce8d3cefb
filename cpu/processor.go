package cpu

import (
	"math/bits"

	"github.com/ezrec/a72ss/irq"
	"github.com/ezrec/a72ss/topology"
)

// CacheGeometry describes one L1 cache. Only the metadata is modeled.
type CacheGeometry struct {
	Size     uint32 // Capacity in bytes.
	LineSize uint32 // Line size in bytes.
	Sets     uint32 // Number of sets.
}

// Cortex-A72 L1 geometry.
var (
	ICACHE = CacheGeometry{Size: 0xc000, LineSize: 64, Sets: 256} // 48KB, 3-way
	DCACHE = CacheGeometry{Size: 0x8000, LineSize: 64, Sets: 256} // 32KB, 2-way
)

// Ways returns the associativity implied by the geometry.
func (geom CacheGeometry) Ways() uint32 {
	if geom.LineSize == 0 || geom.Sets == 0 {
		return 0
	}
	return geom.Size / (geom.LineSize * geom.Sets)
}

// Validate checks that the geometry is realizable.
func (geom CacheGeometry) Validate() (err error) {
	switch {
	case geom.LineSize == 0 || bits.OnesCount32(geom.LineSize) != 1:
		err = ErrCacheGeometry
	case geom.Sets == 0 || bits.OnesCount32(geom.Sets) != 1:
		err = ErrCacheGeometry
	case geom.Ways() == 0:
		err = ErrCacheGeometry
	case geom.Size != geom.Ways()*geom.LineSize*geom.Sets:
		err = ErrCacheGeometry
	}
	return
}

// Extensions are the architectural toggles of the single-core variant.
type Extensions struct {
	EL3         bool // Security extensions ("has_el3").
	EL2         bool // Virtualization extensions ("has_el2").
	HighVectors bool // Reset into high vectors.
}

// Processor is an application core as seen by the composer. All setters
// must be called before Realize; afterwards they return ErrRealized.
type Processor interface {
	SetAffinity(aff topology.Affinity) error
	SetCoreCount(count int) error
	SetCacheGeometry(icache, dcache CacheGeometry) error
	SetConduit(conduit Conduit) error
	SetExtensions(ext Extensions) error

	// Realize activates the core. It either succeeds or fails immediately.
	Realize() error
	Realized() bool
	// Release drops the core; it is never used again afterwards.
	Release()

	// Input returns the core's interrupt input of the given kind.
	Input(kind irq.Kind) irq.Line
	// ConnectPMU connects the performance monitor output.
	ConnectPMU(line irq.Line) error

	// Boot starts the core at the entry address.
	Boot(entry uint64) error
}
