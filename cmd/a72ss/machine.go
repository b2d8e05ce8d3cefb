package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/a72ss/boot"
	"github.com/ezrec/a72ss/config"
	"github.com/ezrec/a72ss/memory"
	"github.com/ezrec/a72ss/subsystem"
)

// machineFlags are the options shared by every command that composes a
// subsystem. Flags given on the command line override the config file,
// which overrides the preset.
type machineFlags struct {
	config  string
	preset  string
	cores   int
	ram     config.Size
	conduit uint
	secure  bool
	virt    bool
	bootCPU string
	kernel  string
	verbose bool
}

func (mf *machineFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&mf.config, "config", "", "machine configuration file (.toml, .yaml)")
	f.StringVar(&mf.preset, "preset", "", "subsystem preset (j784s4, tda4vh)")
	f.IntVar(&mf.cores, "cores", 0, "number of cores")
	f.Var(&mf.ram, "ram", "RAM size, e.g. 0x4000_0000 or '1 * GiB'")
	f.UintVar(&mf.conduit, "conduit", 0, "PSCI conduit selector: 0 = hvc, 1 = smc")
	f.BoolVar(&mf.secure, "secure", false, "enable EL3 (single-core variant)")
	f.BoolVar(&mf.virt, "virt", false, "enable EL2 (single-core variant)")
	f.StringVar(&mf.bootCPU, "boot-cpu", "", "boot cpu designator, e.g. cpu0")
	f.StringVar(&mf.kernel, "kernel", "", "raw kernel image loaded at the RAM base")
	f.BoolVar(&mf.verbose, "v", false, "verbose logging")
}

// Config resolves the subsystem configuration.
func (mf *machineFlags) Config(f *flag.FlagSet) (cfg subsystem.Config, err error) {
	file := &config.File{}
	if len(mf.config) != 0 {
		file, err = config.Load(mf.config)
		if err != nil {
			return
		}
	}
	if len(mf.preset) != 0 {
		file.Preset = mf.preset
	}

	cfg, err = file.Config()
	if err != nil {
		return
	}

	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "cores":
			cfg.Cores = mf.cores
		case "ram":
			cfg.RAMSize = uint64(mf.ram)
		case "conduit":
			cfg.ConduitSelector = uint32(mf.conduit)
		case "secure":
			cfg.Secure = mf.secure
		case "virt":
			cfg.Virt = mf.virt
		case "boot-cpu":
			cfg.BootCPU = mf.bootCPU
		}
	})

	return
}

// Realize composes the subsystem into a fresh address space.
func (mf *machineFlags) Realize(f *flag.FlagSet) (ss *subsystem.Subsystem, err error) {
	if mf.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := mf.Config(f)
	if err != nil {
		return
	}

	space := memory.NewAddressSpace()
	ss = subsystem.New(cfg, space)
	ss.Verbose = mf.verbose

	if len(mf.kernel) != 0 {
		var image []byte
		image, err = os.ReadFile(mf.kernel)
		if err != nil {
			return
		}
		ss.Loader = &boot.ImageLoader{Memory: space, Image: image}
	}

	err = ss.Realize()
	if err != nil {
		ss = nil
		return
	}

	logrus.WithFields(logrus.Fields{
		"subsystem": cfg.Name,
		"cores":     cfg.Cores,
	}).Info("subsystem realized")

	return
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
