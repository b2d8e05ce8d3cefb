package gic

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/irq"
	"github.com/ezrec/a72ss/memory"
)

// Wiring is one connection between a core and the distributor.
type Wiring struct {
	Core  int      // Linear core index.
	Kind  irq.Kind // Line kind.
	Index int      // Distributor line: output for IRQ..VFIQ, input for PMU.
}

func (wire Wiring) String() string {
	if wire.Kind == irq.PMU {
		return fmt.Sprintf("cpu%d.%v -> gic.in%d", wire.Core, wire.Kind, wire.Index)
	}
	return fmt.Sprintf("gic.out%d -> cpu%d.%v", wire.Index, wire.Core, wire.Kind)
}

// OutputIndex returns the distributor output feeding core i's line of the
// given kind with n cores: outputs are striped by kind, then by core.
func OutputIndex(kind irq.Kind, i int, n int) int {
	return i + int(kind)*n
}

// Fabric builds and wires the distributor.
type Fabric struct {
	Verbose bool
	Logger  logrus.FieldLogger

	Base   uint64 // MMIO base address.
	NumIRQ int    // Total interrupt lines.
	Name   string // MMIO region name.
}

// NewFabric returns a fabric at the platform defaults.
func NewFabric() *Fabric {
	return &Fabric{
		Base:   GIC_ADDR,
		NumIRQ: GIC_NUM_IRQ,
		Name:   "gic",
	}
}

func (fb *Fabric) logger() logrus.FieldLogger {
	if fb.Logger == nil {
		return logrus.StandardLogger()
	}
	return fb.Logger
}

// Build configures, realizes and maps dist, then wires every core to it.
// On failure the distributor is released and its window unmapped.
func (fb *Fabric) Build(dist Distributor, cores []cpu.Processor, space memory.Mapper, alloc *memory.Allocator) (window *memory.Region, wiring []Wiring, err error) {
	n := len(cores)
	step := "configure"
	core := -1

	defer func() {
		if err != nil {
			if window != nil {
				_ = space.Unmap(window)
				window = nil
			}
			dist.Release()
			wiring = nil
			err = &ErrFabric{Step: step, Core: core, Err: err}
		}
	}()

	// Every core must exist and be realized before any wiring begins.
	for i, proc := range cores {
		if proc == nil || !proc.Realized() {
			core = i
			err = ErrCoreMissing
			return
		}
	}

	if err = dist.SetRevision(GIC_REVISION); err != nil {
		return
	}
	if err = dist.SetCPUCount(n); err != nil {
		return
	}
	if err = dist.SetIRQCount(fb.NumIRQ); err != nil {
		return
	}

	step = "realize"
	if err = dist.Realize(); err != nil {
		return
	}

	step = "map"
	if alloc == nil {
		alloc = &memory.Allocator{}
	}
	name := fb.Name
	if len(name) == 0 {
		name = "gic"
	}
	if window, err = alloc.NewRegion(name, memory.IO, dist.Size()); err != nil {
		return
	}
	if err = space.Map(fb.Base, window); err != nil {
		window = nil
		return
	}

	wiring = make([]Wiring, 0, 5*n)
	for i, proc := range cores {
		core = i

		step = "pmu-interrupt"
		var line irq.Line
		if line, err = dist.Input(PPI(i, PPI_PMU)); err != nil {
			return
		}
		if err = proc.ConnectPMU(line); err != nil {
			return
		}
		wiring = append(wiring, Wiring{Core: i, Kind: irq.PMU, Index: PPI(i, PPI_PMU)})

		for _, kind := range irq.KINDS_DIRECTIONAL {
			step = kind.String()
			index := OutputIndex(kind, i, n)
			if err = dist.ConnectOutput(index, proc.Input(kind)); err != nil {
				return
			}
			wiring = append(wiring, Wiring{Core: i, Kind: kind, Index: index})
		}
	}

	if fb.Verbose {
		fb.logger().Debugf("gic: %d cpus, %d irqs at %#x, %d connections", n, fb.NumIRQ, fb.Base, len(wiring))
	}

	return
}
