package config

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrFormat = errors.New(f("configuration format unknown"))
	ErrSize   = errors.New(f("size invalid"))
)

// ErrParseSize reports a size expression that did not evaluate to a
// non-negative integer.
type ErrParseSize struct {
	Expr string
	Err  error
}

func (err *ErrParseSize) Error() string {
	if err.Err == nil {
		return f("'%v' is not a size", err.Expr)
	}
	return f("'%v' is not a size: %v", err.Expr, err.Err)
}

func (err *ErrParseSize) Unwrap() error {
	return ErrSize
}
