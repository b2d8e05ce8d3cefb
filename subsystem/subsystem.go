// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package subsystem composes the application processor subsystem: it
// instantiates the cores, builds the memory map, wires the interrupt
// distributor and hands off to the kernel loader.
package subsystem

import (
	"iter"
	"slices"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/ezrec/a72ss/boot"
	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/gic"
	"github.com/ezrec/a72ss/internal"
	"github.com/ezrec/a72ss/memory"
	"github.com/ezrec/a72ss/topology"
)

// Subsystem owns every core, region and the distributor it creates.
type Subsystem struct {
	Verbose bool               // If set, enables verbose logging.
	Logger  logrus.FieldLogger // Defaults to the logrus standard logger.

	Config Config

	Space     *memory.AddressSpace // Global address space, shared with the machine.
	Allocator *memory.Allocator    // Backing for RAM and ROM regions.
	Loader    boot.Loader          // Kernel loader.

	NewProcessor   func(name string) cpu.Processor
	NewDistributor func() gic.Distributor

	cores     *cpu.Arena
	dist      gic.Distributor
	window    *memory.Region
	memmap    *memory.Map
	wiring    []gic.Wiring
	info      boot.Info
	bootIndex int
	realized  bool
}

// New creates an unrealized subsystem that will compose into space.
// The default loader starts the boot core with no image.
func New(cfg Config, space *memory.AddressSpace) (ss *Subsystem) {
	ss = &Subsystem{
		Config:         cfg,
		Space:          space,
		Allocator:      &memory.Allocator{},
		NewProcessor:   func(name string) cpu.Processor { return cpu.NewModel(name) },
		NewDistributor: func() gic.Distributor { return gic.NewModel() },
	}
	ss.Loader = &boot.ImageLoader{Memory: space}

	return
}

func (ss *Subsystem) logger() logrus.FieldLogger {
	if ss.Logger == nil {
		return logrus.StandardLogger()
	}
	return ss.Logger
}

func (ss *Subsystem) composer() *memory.Composer {
	return &memory.Composer{
		Verbose:   ss.Verbose,
		Logger:    ss.logger(),
		Allocator: ss.Allocator,
	}
}

// Realize composes the subsystem. Configuration is validated before
// anything is created; if any later step fails, everything created so far
// is released and the error names the failing step.
func (ss *Subsystem) Realize() (err error) {
	cfg := &ss.Config
	step := "validate"

	if ss.realized {
		return &ErrStep{Name: cfg.Name, Step: step, Err: ErrRealized}
	}

	defer func() {
		if err != nil {
			err = multierr.Append(err, ss.teardown())
			err = &ErrStep{Name: cfg.Name, Step: step, Err: err}
		}
	}()

	if ss.Space == nil {
		err = ErrNoSpace
		return
	}

	if err = cfg.Validate(); err != nil {
		return
	}

	entries, err := topology.Resolve(cfg.Cores, cfg.ClusterSize)
	if err != nil {
		return
	}
	conduit, err := cfg.Conduit()
	if err != nil {
		return
	}
	ss.bootIndex, err = topology.ParseDesignator(cfg.BootCPU, cfg.Cores)
	if err != nil {
		return
	}

	step = "memory"
	ss.memmap, err = ss.composer().Compose(ss.Space, cfg.Layout())
	if err != nil {
		return
	}

	step = "cpus"
	factory := &cpu.Factory{
		Verbose:         ss.Verbose,
		Logger:          ss.logger(),
		New:             ss.NewProcessor,
		CoreCount:       cfg.Cores,
		Conduit:         conduit,
		ICache:          cpu.ICACHE,
		DCache:          cpu.DCACHE,
		Extensions:      cfg.CoreExtensions(),
		ApplyExtensions: cfg.Extensions,
	}
	ss.cores, err = factory.Build(entries)
	if err != nil {
		return
	}

	if cfg.Distributor {
		step = "gic"
		if ss.NewDistributor == nil {
			err = gic.ErrNotRealized
			return
		}
		ss.dist = ss.NewDistributor()
		fabric := gic.NewFabric()
		fabric.Verbose = ss.Verbose
		fabric.Logger = ss.logger()
		fabric.NumIRQ = cfg.NumIRQ
		fabric.Name = cfg.Name + ".gic"
		ss.window, ss.wiring, err = fabric.Build(ss.dist, ss.cores.Slice(), ss.Space, ss.Allocator)
		if err != nil {
			ss.dist = nil
			return
		}
	}

	step = "boot"
	seq := &boot.Sequencer{
		Verbose: ss.Verbose,
		Logger:  ss.logger(),
		Loader:  ss.Loader,
	}
	ss.info, err = seq.Run(ss.BootCore(), ss.memmap.RAM, ss.Space, conduit)
	if err != nil {
		return
	}

	ss.realized = true

	ss.logger().Infof("%v: some features may not be implemented", cfg.Name)

	return
}

// teardown releases everything in reverse creation order.
func (ss *Subsystem) teardown() (err error) {
	if ss.window != nil {
		err = multierr.Append(err, ss.Space.Unmap(ss.window))
		ss.window = nil
	}
	if ss.dist != nil {
		ss.dist.Release()
		ss.dist = nil
	}
	ss.wiring = nil

	ss.cores.Release()
	ss.cores = nil

	if ss.memmap != nil {
		for region := range ss.memmap.Regions() {
			if _, ok := ss.Space.Base(region); !ok {
				continue
			}
			err = multierr.Append(err, ss.Space.Unmap(region))
		}
		ss.composer().Release(ss.Space, ss.memmap)
		ss.memmap = nil
	}

	ss.info = boot.Info{}
	ss.realized = false

	return
}

// Close releases the subsystem with the enclosing machine.
func (ss *Subsystem) Close() (err error) {
	if !ss.realized {
		return ErrNotRealized
	}
	return ss.teardown()
}

// Realized reports whether composition completed.
func (ss *Subsystem) Realized() bool {
	return ss.realized
}

// Core returns core i, or nil.
func (ss *Subsystem) Core(i int) cpu.Processor {
	return ss.cores.Get(i)
}

// Cores iterates the cores by linear index.
func (ss *Subsystem) Cores() iter.Seq2[int, cpu.Processor] {
	return ss.cores.All()
}

// BootCore returns the designated boot core.
func (ss *Subsystem) BootCore() cpu.Processor {
	return ss.cores.Get(ss.bootIndex)
}

// Distributor returns the interrupt distributor, if any.
func (ss *Subsystem) Distributor() gic.Distributor {
	return ss.dist
}

// Wiring returns the interrupt connections made.
func (ss *Subsystem) Wiring() []gic.Wiring {
	return slices.Clone(ss.wiring)
}

// Memory returns the composed memory map.
func (ss *Subsystem) Memory() *memory.Map {
	return ss.memmap
}

// Regions iterates every region the subsystem mapped.
func (ss *Subsystem) Regions() iter.Seq[*memory.Region] {
	return internal.Concat(ss.memmap.Regions(), internal.Present(ss.window))
}

// BootInfo returns the record handed to the loader.
func (ss *Subsystem) BootInfo() boot.Info {
	return ss.info
}
