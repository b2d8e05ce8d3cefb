// Package irq provides the interrupt line plumbing shared by processors and
// the interrupt distributor.
package irq

// Kind of a per-core interrupt line.
type Kind int

const (
	IRQ  Kind = iota // Physical IRQ.
	FIQ              // Physical FIQ.
	VIRQ             // Virtual IRQ.
	VFIQ             // Virtual FIQ.
	PMU              // Performance monitor (PPI).
)

// KINDS_DIRECTIONAL lists the distributor-to-core kinds in striping order.
var KINDS_DIRECTIONAL = [...]Kind{IRQ, FIQ, VIRQ, VFIQ}

func (kind Kind) String() string {
	switch kind {
	case IRQ:
		return "irq"
	case FIQ:
		return "fiq"
	case VIRQ:
		return "virq"
	case VFIQ:
		return "vfiq"
	case PMU:
		return "pmu"
	}
	return "unknown"
}

// Line is the receiving end of an interrupt signal.
type Line interface {
	Set(level bool)
}

// Pin is a Line that latches its level.
type Pin struct {
	Name  string
	Level bool
	Edges int // Number of rising edges seen.
}

var _ Line = (*Pin)(nil)

func (pin *Pin) Set(level bool) {
	if level && !pin.Level {
		pin.Edges++
	}
	pin.Level = level
}

// Output is the driving end of an interrupt signal. It may be connected once.
type Output struct {
	Name string
	line Line
}

// Connect the output to a line.
func (out *Output) Connect(line Line) (err error) {
	if line == nil {
		err = ErrLineNil
		return
	}
	if out.line != nil {
		err = ErrConnected
		return
	}
	out.line = line
	return
}

// Connected reports whether a line is attached.
func (out *Output) Connected() bool {
	return out.line != nil
}

// Line returns the attached line, or nil.
func (out *Output) Line() Line {
	return out.line
}

// Set forwards a level change to the connected line.
func (out *Output) Set(level bool) (err error) {
	if out.line == nil {
		err = ErrNotConnected
		return
	}
	out.line.Set(level)
	return
}
