package cpu

import (
	"fmt"

	"github.com/ezrec/a72ss/irq"
	"github.com/ezrec/a72ss/topology"
)

// MODEL_CORTEX_A72 is the standard core model name of the subsystem.
const MODEL_CORTEX_A72 = "cortex-a72"

// Model is the reference Cortex-A72 configuration model. It checks and
// records its properties and exposes interrupt pins; it executes nothing.
type Model struct {
	Name string // Instance name, e.g. "cpu0".
	Type string // Model name, e.g. "cortex-a72".

	Affinity   topology.Affinity
	CoreCount  int
	ICache     CacheGeometry
	DCache     CacheGeometry
	Conduit    Conduit
	Extensions Extensions

	Entry   uint64 // Entry address once booted.
	Running bool

	// FailRealize, if set, is returned from Realize.
	FailRealize error

	inputs   [4]irq.Pin
	pmu      irq.Output
	realized bool
	released bool
}

var _ Processor = (*Model)(nil)

// NewModel creates a core model instance.
func NewModel(name string) (model *Model) {
	model = &Model{
		Name: name,
		Type: MODEL_CORTEX_A72,
	}

	for _, kind := range irq.KINDS_DIRECTIONAL {
		model.inputs[kind].Name = fmt.Sprintf("%s.%v", name, kind)
	}
	model.pmu.Name = name + ".pmu-interrupt"

	return
}

func (model *Model) check() (err error) {
	if model.realized {
		err = ErrRealized
	}
	return
}

func (model *Model) SetAffinity(aff topology.Affinity) (err error) {
	if err = model.check(); err != nil {
		return
	}
	model.Affinity = aff
	return
}

func (model *Model) SetCoreCount(count int) (err error) {
	if err = model.check(); err != nil {
		return
	}
	if count < 1 || count > topology.MAX_CORES {
		err = fmt.Errorf("%w: %d", ErrCoreCount, count)
		return
	}
	model.CoreCount = count
	return
}

func (model *Model) SetCacheGeometry(icache, dcache CacheGeometry) (err error) {
	if err = model.check(); err != nil {
		return
	}
	if err = icache.Validate(); err != nil {
		return fmt.Errorf("icache: %w", err)
	}
	if err = dcache.Validate(); err != nil {
		return fmt.Errorf("dcache: %w", err)
	}
	model.ICache = icache
	model.DCache = dcache
	return
}

func (model *Model) SetConduit(conduit Conduit) (err error) {
	if err = model.check(); err != nil {
		return
	}
	if !conduit.Valid() {
		err = fmt.Errorf("%w: %v", ErrConduit, conduit)
		return
	}
	model.Conduit = conduit
	return
}

func (model *Model) SetExtensions(ext Extensions) (err error) {
	if err = model.check(); err != nil {
		return
	}
	model.Extensions = ext
	return
}

// Realize activates the core. A core count of zero means it was never told
// about its siblings, which is a configuration error.
func (model *Model) Realize() (err error) {
	if err = model.check(); err != nil {
		return
	}
	if model.FailRealize != nil {
		err = model.FailRealize
		return
	}
	if model.CoreCount == 0 {
		err = fmt.Errorf("%w: %w", ErrRealize, ErrCoreCount)
		return
	}
	model.realized = true
	return
}

func (model *Model) Realized() bool {
	return model.realized && !model.released
}

func (model *Model) Release() {
	model.released = true
	model.Running = false
}

// Released reports whether Release was called.
func (model *Model) Released() bool {
	return model.released
}

func (model *Model) Input(kind irq.Kind) irq.Line {
	if kind < irq.IRQ || kind > irq.VFIQ {
		return nil
	}
	return &model.inputs[kind]
}

// Pin returns the input pin of the given kind for inspection.
func (model *Model) Pin(kind irq.Kind) *irq.Pin {
	if kind < irq.IRQ || kind > irq.VFIQ {
		return nil
	}
	return &model.inputs[kind]
}

func (model *Model) ConnectPMU(line irq.Line) error {
	return model.pmu.Connect(line)
}

// PMU returns the performance monitor output.
func (model *Model) PMU() *irq.Output {
	return &model.pmu
}

func (model *Model) Boot(entry uint64) (err error) {
	if !model.Realized() {
		err = ErrNotRealized
		return
	}
	model.Entry = entry
	model.Running = true
	return
}
