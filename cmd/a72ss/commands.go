package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/subsystem"
	"github.com/ezrec/a72ss/translate"
)

// Presets implements subcommands.Command for the "presets" command.
type Presets struct{}

// Name implements subcommands.Command.
func (*Presets) Name() string {
	return "presets"
}

// Synopsis implements subcommands.Command.
func (*Presets) Synopsis() string {
	return "lists the subsystem presets"
}

// Usage implements subcommands.Command.
func (*Presets) Usage() string {
	return "presets\n"
}

// SetFlags implements subcommands.Command.
func (*Presets) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Presets) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	for _, name := range subsystem.Presets() {
		cfg, _ := subsystem.Preset(name)
		conduit, _ := cfg.Conduit()
		fmt.Printf("%-8s %d core(s), %d per cluster, ram %v, conduit %v, gic %v\n",
			name, cfg.Cores, cfg.ClusterSize, translate.Size(cfg.RAMSize), conduit, cfg.Distributor)
	}
	return subcommands.ExitSuccess
}

// Compose implements subcommands.Command for the "compose" command.
type Compose struct {
	machineFlags
}

// Name implements subcommands.Command.
func (*Compose) Name() string {
	return "compose"
}

// Synopsis implements subcommands.Command.
func (*Compose) Synopsis() string {
	return "composes the subsystem and reports cores and boot record"
}

// Usage implements subcommands.Command.
func (*Compose) Usage() string {
	return "compose [flags]\n"
}

// Execute implements subcommands.Command.Execute.
func (cmd *Compose) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	ss, err := cmd.Realize(f)
	if err != nil {
		fail("compose: %v", err)
		return subcommands.ExitFailure
	}
	defer ss.Close()

	for i, core := range ss.Cores() {
		line := fmt.Sprintf("cpu%d", i)
		if model, ok := core.(*cpu.Model); ok {
			line += fmt.Sprintf(" %v affinity %v conduit %v icache %v dcache %v",
				model.Type, model.Affinity, model.Conduit,
				translate.Size(uint64(model.ICache.Size)), translate.Size(uint64(model.DCache.Size)))
			if ss.Config.Extensions {
				line += fmt.Sprintf(" el3 %v el2 %v", model.Extensions.EL3, model.Extensions.EL2)
			}
		}
		fmt.Println(line)
	}

	info := ss.BootInfo()
	fmt.Printf("boot: entry %#x ram %v conduit %v\n", info.Entry, translate.Size(info.RAMSize), info.Conduit)

	return subcommands.ExitSuccess
}

// Memmap implements subcommands.Command for the "memmap" command.
type Memmap struct {
	machineFlags
}

// Name implements subcommands.Command.
func (*Memmap) Name() string {
	return "memmap"
}

// Synopsis implements subcommands.Command.
func (*Memmap) Synopsis() string {
	return "prints the composed physical memory map"
}

// Usage implements subcommands.Command.
func (*Memmap) Usage() string {
	return "memmap [flags]\n"
}

// Execute implements subcommands.Command.Execute.
func (cmd *Memmap) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	ss, err := cmd.Realize(f)
	if err != nil {
		fail("memmap: %v", err)
		return subcommands.ExitFailure
	}
	defer ss.Close()

	for mp := range ss.Space.Mappings() {
		fmt.Printf("%#010x-%#010x %-4v %-10v %v\n",
			mp.Base, mp.Last(), mp.Region.Kind, translate.Size(mp.Region.Size), mp.Region.Name)
	}

	return subcommands.ExitSuccess
}

// Irqmap implements subcommands.Command for the "irqmap" command.
type Irqmap struct {
	machineFlags
}

// Name implements subcommands.Command.
func (*Irqmap) Name() string {
	return "irqmap"
}

// Synopsis implements subcommands.Command.
func (*Irqmap) Synopsis() string {
	return "prints the core to distributor interrupt wiring"
}

// Usage implements subcommands.Command.
func (*Irqmap) Usage() string {
	return "irqmap [flags]\n"
}

// Execute implements subcommands.Command.Execute.
func (cmd *Irqmap) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	ss, err := cmd.Realize(f)
	if err != nil {
		fail("irqmap: %v", err)
		return subcommands.ExitFailure
	}
	defer ss.Close()

	wiring := ss.Wiring()
	if len(wiring) == 0 {
		logrus.Warnf("%v has no interrupt distributor", ss.Config.Name)
	}
	for _, wire := range wiring {
		fmt.Println(wire.String())
	}

	return subcommands.ExitSuccess
}
