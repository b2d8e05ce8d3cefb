package cpu

import (
	"github.com/sirupsen/logrus"

	"github.com/ezrec/a72ss/topology"
)

// Factory creates, configures and realizes cores from resolved entries.
type Factory struct {
	Verbose bool
	Logger  logrus.FieldLogger

	// New creates an unrealized core instance.
	New func(name string) Processor

	CoreCount int     // Total cores in the subsystem.
	Conduit   Conduit // PSCI conduit of each core.

	ICache CacheGeometry
	DCache CacheGeometry

	// Extensions are applied only if ApplyExtensions is set.
	Extensions      Extensions
	ApplyExtensions bool
}

// NewFactory returns a factory for Cortex-A72 models with the standard geometry.
func NewFactory(count int, conduit Conduit) *Factory {
	return &Factory{
		New:       func(name string) Processor { return NewModel(name) },
		CoreCount: count,
		Conduit:   conduit,
		ICache:    ICACHE,
		DCache:    DCACHE,
	}
}

func (fc *Factory) logger() logrus.FieldLogger {
	if fc.Logger == nil {
		return logrus.StandardLogger()
	}
	return fc.Logger
}

// Build creates one core per entry. On any failure every core created so
// far is released and the error identifies the core and step.
func (fc *Factory) Build(entries []topology.Entry) (arena *Arena, err error) {
	if len(entries) > topology.MAX_CORES {
		err = topology.ErrCoreCountRange{Count: len(entries), Max: topology.MAX_CORES}
		return
	}
	if fc.New == nil {
		err = ErrFactory
		return
	}

	arena = &Arena{}
	defer func() {
		if err != nil {
			arena.Release()
			arena = nil
		}
	}()

	for _, entry := range entries {
		var core Processor
		core, err = fc.build(entry)
		if err != nil {
			return
		}
		err = arena.push(core)
		if err != nil {
			core.Release()
			return
		}
	}

	return
}

func (fc *Factory) build(entry topology.Entry) (core Processor, err error) {
	step := "create"
	defer func() {
		if err != nil {
			if core != nil {
				core.Release()
				core = nil
			}
			err = &ErrCore{Index: entry.Index, Step: step, Err: err}
		}
	}()

	core = fc.New(entry.Name())
	if core == nil {
		err = ErrFactory
		return
	}

	step = "mp-affinity"
	if err = core.SetAffinity(entry.Affinity); err != nil {
		return
	}

	step = "core-count"
	if err = core.SetCoreCount(fc.CoreCount); err != nil {
		return
	}

	step = "cache"
	if err = core.SetCacheGeometry(fc.ICache, fc.DCache); err != nil {
		return
	}

	step = "psci-conduit"
	if err = core.SetConduit(fc.Conduit); err != nil {
		return
	}

	if fc.ApplyExtensions {
		step = "extensions"
		if err = core.SetExtensions(fc.Extensions); err != nil {
			return
		}
	}

	step = "realize"
	if err = core.Realize(); err != nil {
		return
	}

	if fc.Verbose {
		fc.logger().Debugf("cpu: %v realized, affinity %v, conduit %v",
			entry.Name(), entry.Affinity, fc.Conduit)
	}

	return
}
