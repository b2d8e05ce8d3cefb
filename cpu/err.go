package cpu

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrRealized        = errors.New(f("processor already realized"))
	ErrNotRealized     = errors.New(f("processor not realized"))
	ErrConduitSelector = errors.New(f("psci conduit selector invalid"))
	ErrConduit         = errors.New(f("psci conduit invalid"))
	ErrCacheGeometry   = errors.New(f("cache geometry invalid"))
	ErrCoreCount       = errors.New(f("core count invalid"))
	ErrTooManyCores    = errors.New(f("too many cores requested"))
	ErrFactory         = errors.New(f("processor factory missing"))
	ErrRealize         = errors.New(f("realize failed"))
)

// ErrCore reports which core and which step of its construction failed.
type ErrCore struct {
	Index int
	Step  string
	Err   error
}

func (err *ErrCore) Error() string {
	return f("cpu%d: %v: %v", err.Index, err.Step, err.Err)
}

func (err *ErrCore) Unwrap() error {
	return err.Err
}
