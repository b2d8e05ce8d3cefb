package topology

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrCoreCount   = errors.New(f("core count out of range"))
	ErrClusterSize = errors.New(f("cluster size invalid"))
	ErrDesignator  = errors.New(f("boot cpu designator invalid"))
)

// ErrCoreCountRange reports a requested core count outside [1, Max].
type ErrCoreCountRange struct {
	Count int
	Max   int
}

func (err ErrCoreCountRange) Error() string {
	return f("number of cores (%d) exceeds maximum (%d)", err.Count, err.Max)
}

func (err ErrCoreCountRange) Unwrap() error {
	return ErrCoreCount
}
