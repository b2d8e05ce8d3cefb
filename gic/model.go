// Package gic builds the interrupt fabric of the subsystem: it sizes,
// realizes and maps the distributor, then wires every core to it.
package gic

import (
	"fmt"

	"github.com/ezrec/a72ss/irq"
)

const (
	GIC_ADDR     = 0x0180_0000
	GIC_SIZE     = 0x0020_0000 // 2MB
	GIC_NUM_IRQ  = 288
	GIC_REVISION = 3

	GIC_INTERNAL = 32 // SGIs and PPIs per cpu.
	GIC_PPI_BASE = 16
	PPI_PMU      = 7
)

// PPI returns the distributor input of private peripheral interrupt n of cpu.
func PPI(cpu int, n int) int {
	return GIC_PPI_BASE + n + cpu*GIC_INTERNAL
}

// Distributor is the shared interrupt controller as seen by the composer.
type Distributor interface {
	SetRevision(revision int) error
	SetCPUCount(count int) error
	SetIRQCount(count int) error
	Realize() error
	Release()

	// Size of the MMIO window.
	Size() uint64
	// Input returns distributor input line n.
	Input(n int) (irq.Line, error)
	// ConnectOutput connects output n, striped by kind then cpu.
	ConnectOutput(n int, line irq.Line) error
}

// Model is the reference distributor. Inputs start with a 32-line private
// bank per cpu (SGIs, then PPIs, so PPI n of cpu c is input 16+n+32*c),
// followed by the NumIRQ-32 shared interrupts. Outputs are 4 per cpu.
type Model struct {
	Revision int
	NumCPU   int
	NumIRQ   int

	// FailRealize, if set, is returned from Realize.
	FailRealize error

	inputs   []irq.Pin
	outputs  []irq.Output
	realized bool
	released bool
}

var _ Distributor = (*Model)(nil)

// NewModel creates an unrealized distributor.
func NewModel() *Model {
	return &Model{}
}

func (gic *Model) SetRevision(revision int) (err error) {
	if gic.realized {
		return ErrRealized
	}
	if revision != GIC_REVISION {
		return fmt.Errorf("%w: %d", ErrRevision, revision)
	}
	gic.Revision = revision
	return
}

func (gic *Model) SetCPUCount(count int) (err error) {
	if gic.realized {
		return ErrRealized
	}
	if count < 1 {
		return fmt.Errorf("%w: %d", ErrCPUCount, count)
	}
	gic.NumCPU = count
	return
}

// ValidIRQCount checks that count covers the internal lines plus at least
// one bank of shared interrupts, in whole banks of 32.
func ValidIRQCount(count int) error {
	if count <= GIC_INTERNAL || count%32 != 0 {
		return fmt.Errorf("%w: %d", ErrIRQCount, count)
	}
	return nil
}

// SetIRQCount sets the total interrupt count, including the 32 internal lines.
func (gic *Model) SetIRQCount(count int) (err error) {
	if gic.realized {
		return ErrRealized
	}
	if err = ValidIRQCount(count); err != nil {
		return
	}
	gic.NumIRQ = count
	return
}

func (gic *Model) Realize() (err error) {
	if gic.realized {
		return ErrRealized
	}
	if gic.FailRealize != nil {
		return gic.FailRealize
	}
	switch {
	case gic.Revision == 0:
		return ErrRevision
	case gic.NumCPU == 0:
		return ErrCPUCount
	case gic.NumIRQ == 0:
		return ErrIRQCount
	}

	spis := gic.NumIRQ - GIC_INTERNAL
	gic.inputs = make([]irq.Pin, spis+GIC_INTERNAL*gic.NumCPU)
	for n := range gic.inputs {
		gic.inputs[n].Name = fmt.Sprintf("gic.in%d", n)
	}
	gic.outputs = make([]irq.Output, 4*gic.NumCPU)
	for n := range gic.outputs {
		gic.outputs[n].Name = fmt.Sprintf("gic.out%d", n)
	}

	gic.realized = true
	return
}

func (gic *Model) Release() {
	gic.released = true
}

// Released reports whether Release was called.
func (gic *Model) Released() bool {
	return gic.released
}

func (gic *Model) Size() uint64 {
	return GIC_SIZE
}

// Inputs returns the number of input lines once realized.
func (gic *Model) Inputs() int {
	return len(gic.inputs)
}

func (gic *Model) Input(n int) (line irq.Line, err error) {
	if !gic.realized {
		err = ErrNotRealized
		return
	}
	if n < 0 || n >= len(gic.inputs) {
		err = fmt.Errorf("%w: input %d", ErrLineRange, n)
		return
	}
	line = &gic.inputs[n]
	return
}

// Pin returns input n for inspection, or nil.
func (gic *Model) Pin(n int) *irq.Pin {
	if n < 0 || n >= len(gic.inputs) {
		return nil
	}
	return &gic.inputs[n]
}

func (gic *Model) ConnectOutput(n int, line irq.Line) (err error) {
	if !gic.realized {
		err = ErrNotRealized
		return
	}
	if n < 0 || n >= len(gic.outputs) {
		err = fmt.Errorf("%w: output %d", ErrLineRange, n)
		return
	}
	return gic.outputs[n].Connect(line)
}

// Output returns output n for inspection, or nil.
func (gic *Model) Output(n int) *irq.Output {
	if n < 0 || n >= len(gic.outputs) {
		return nil
	}
	return &gic.outputs[n]
}
