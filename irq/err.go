package irq

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrConnected    = errors.New(f("output already connected"))
	ErrNotConnected = errors.New(f("output not connected"))
	ErrLineNil      = errors.New(f("line is nil"))
)
