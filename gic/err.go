package gic

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrRealized    = errors.New(f("distributor already realized"))
	ErrNotRealized = errors.New(f("distributor not realized"))
	ErrRevision    = errors.New(f("distributor revision unsupported"))
	ErrCPUCount    = errors.New(f("distributor cpu count invalid"))
	ErrIRQCount    = errors.New(f("distributor irq count invalid"))
	ErrLineRange   = errors.New(f("distributor line out of range"))
	ErrCoreMissing = errors.New(f("core missing or not realized"))
)

// ErrFabric reports which step of building the interrupt fabric failed.
type ErrFabric struct {
	Step string
	Core int // -1 when not core specific.
	Err  error
}

func (err *ErrFabric) Error() string {
	if err.Core < 0 {
		return f("%v: %v", err.Step, err.Err)
	}
	return f("cpu%d: %v: %v", err.Core, err.Step, err.Err)
}

func (err *ErrFabric) Unwrap() error {
	return err.Err
}
