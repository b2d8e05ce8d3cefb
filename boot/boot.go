// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package boot hands the composed machine to the kernel loader.
package boot

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/memory"
)

// Info is the boot information record given to the loader.
type Info struct {
	Entry   uint64      // Loader start address: the RAM base.
	RAMSize uint64      // Size of main RAM.
	Conduit cpu.Conduit // PSCI conduit the guest must use.
}

// Loader places the kernel and starts the boot core.
type Loader interface {
	Load(core cpu.Processor, info Info) error
}

// Locator finds where a region is mapped.
type Locator interface {
	Base(region *memory.Region) (base uint64, ok bool)
}

// Sequencer builds the boot record and invokes the loader.
type Sequencer struct {
	Verbose bool
	Logger  logrus.FieldLogger
	Loader  Loader
}

// Run checks that the boot core is realized and RAM is mapped, then
// calls the loader. Nothing is passed to the loader on any failure.
func (seq *Sequencer) Run(core cpu.Processor, ram *memory.Region, space Locator, conduit cpu.Conduit) (info Info, err error) {
	switch {
	case core == nil:
		err = ErrNoCore
	case !core.Realized():
		err = ErrNotRealized
	case ram == nil:
		err = ErrNoRAM
	case seq.Loader == nil:
		err = ErrNoLoader
	case conduit == cpu.CONDUIT_NONE || !conduit.Valid():
		err = fmt.Errorf("%w: %v", ErrConduit, conduit)
	}
	if err != nil {
		return
	}

	base, ok := space.Base(ram)
	if !ok {
		err = fmt.Errorf("%w: %v", ErrNotMapped, ram.Name)
		return
	}

	record := Info{
		Entry:   base,
		RAMSize: ram.Size,
		Conduit: conduit,
	}

	if seq.Verbose {
		logger := seq.Logger
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		logger.Debugf("boot: entry %#x, ram %#x, conduit %v", record.Entry, record.RAMSize, record.Conduit)
	}

	err = seq.Loader.Load(core, record)
	if err != nil {
		return
	}

	info = record
	return
}
