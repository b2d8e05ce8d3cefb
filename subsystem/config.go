package subsystem

import (
	"fmt"
	"slices"
	"sort"

	"go.uber.org/multierr"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/gic"
	"github.com/ezrec/a72ss/memory"
	"github.com/ezrec/a72ss/topology"
)

// Config is the topology descriptor of a subsystem. It is consumed when the
// subsystem is realized and never changes afterwards.
type Config struct {
	Name string // Region and log prefix.

	Cores       int // Number of cores, 1..MAX_CORES.
	ClusterSize int // Cores per cluster.

	RAMSize uint64 // Main RAM size.
	RAMMax  uint64 // Platform RAM ceiling, capped at memory.RAM_MAX.

	Flash    bool     // Boot flash at address 0.
	MSMC     bool     // Shared on-chip RAM.
	MSMCSize uint64   // Shared on-chip RAM size.
	L2Sizes  []uint64 // Per-cluster L2-as-RAM sizes.

	BusAttachable bool // Subsystem may own MMIO windows.
	Distributor   bool // Instantiate and wire the interrupt distributor.
	NumIRQ        int  // Distributor interrupt lines.

	ConduitSelector uint32 // 0 = HVC, 1 = SMC.

	Extensions bool // Apply the EL3/EL2 toggles and high vectors.
	Secure     bool // EL3 available.
	Virt       bool // EL2 available.

	BootCPU string // Boot cpu designator, "" selects cpu0.
}

// J784S4 is the clustered variant: two clusters of four cores, shared
// on-chip RAM, per-cluster L2-as-RAM and a GICv3 distributor.
func J784S4() Config {
	return Config{
		Name:            "ti-j784s4",
		Cores:           topology.MAX_CORES,
		ClusterSize:     topology.CLUSTER_SIZE,
		RAMSize:         memory.RAM_MAX,
		RAMMax:          memory.RAM_MAX,
		MSMC:            true,
		MSMCSize:        memory.MSMC_SIZE,
		L2Sizes:         []uint64{memory.L2_SIZE, memory.L2_SIZE},
		BusAttachable:   true,
		Distributor:     true,
		NumIRQ:          gic.GIC_NUM_IRQ,
		ConduitSelector: cpu.SELECTOR_SMC,
	}
}

// TDA4VH is the single-core variant with boot flash and the EL3/EL2
// toggles. The flash spans the distributor window, so it has none.
func TDA4VH() Config {
	return Config{
		Name:            "tda4vh",
		Cores:           1,
		ClusterSize:     1,
		RAMSize:         memory.RAM_MAX,
		RAMMax:          memory.RAM_MAX,
		Flash:           true,
		ConduitSelector: cpu.SELECTOR_HVC,
		Extensions:      true,
	}
}

var presets = map[string]func() Config{
	"j784s4": J784S4,
	"tda4vh": TDA4VH,
}

// Preset returns the named preset configuration.
func Preset(name string) (cfg Config, err error) {
	preset, ok := presets[name]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownModel, name)
		return
	}
	cfg = preset()
	return
}

// Presets returns the preset names, sorted.
func Presets() (names []string) {
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Layout is the memory layout the configuration requests.
func (cfg *Config) Layout() memory.Layout {
	return memory.Layout{
		Prefix:   cfg.Name,
		RAMSize:  cfg.RAMSize,
		RAMMax:   cfg.RAMMax,
		Flash:    cfg.Flash,
		MSMC:     cfg.MSMC,
		MSMCSize: cfg.MSMCSize,
		L2Sizes:  slices.Clone(cfg.L2Sizes),
	}
}

// Conduit returns the PSCI conduit chosen by the selector.
func (cfg *Config) Conduit() (cpu.Conduit, error) {
	return cpu.ConduitFromSelector(cfg.ConduitSelector)
}

// CoreExtensions returns the per-core extension toggles.
func (cfg *Config) CoreExtensions() cpu.Extensions {
	return cpu.Extensions{
		EL3:         cfg.Secure,
		EL2:         cfg.Virt,
		HighVectors: true,
	}
}

// Validate reports every configuration violation. It creates nothing.
func (cfg *Config) Validate() (err error) {
	_, terr := topology.Resolve(cfg.Cores, cfg.ClusterSize)
	err = multierr.Append(err, terr)

	layout := cfg.Layout()
	err = multierr.Append(err, layout.Validate())

	if cfg.Distributor && !cfg.BusAttachable {
		err = multierr.Append(err, ErrBusAttach)
	}

	if cfg.Distributor {
		err = multierr.Append(err, gic.ValidIRQCount(cfg.NumIRQ))
	}

	if !cfg.Extensions && (cfg.Secure || cfg.Virt) {
		err = multierr.Append(err, ErrExtensions)
	}

	_, cerr := cfg.Conduit()
	err = multierr.Append(err, cerr)

	if terr == nil {
		_, derr := topology.ParseDesignator(cfg.BootCPU, cfg.Cores)
		err = multierr.Append(err, derr)
	}

	return
}
