package subsystem

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrRealized     = errors.New(f("subsystem already realized"))
	ErrNotRealized  = errors.New(f("subsystem not realized"))
	ErrBusAttach    = errors.New(f("distributor requires a bus-attachable subsystem"))
	ErrExtensions   = errors.New(f("security and virtualization toggles require extension support"))
	ErrNoSpace      = errors.New(f("address space missing"))
	ErrUnknownModel = errors.New(f("unknown subsystem preset"))
)

// ErrStep identifies which composition step failed.
type ErrStep struct {
	Name string // Subsystem name.
	Step string
	Err  error
}

func (err *ErrStep) Error() string {
	return f("%v: %v: %v", err.Name, err.Step, err.Err)
}

func (err *ErrStep) Unwrap() error {
	return err.Err
}
