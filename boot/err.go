package boot

import (
	"errors"

	"github.com/ezrec/a72ss/translate"
)

var f = translate.From

var (
	ErrNoCore      = errors.New(f("boot cpu missing"))
	ErrNotRealized = errors.New(f("boot cpu not realized"))
	ErrNoRAM       = errors.New(f("boot ram missing"))
	ErrNotMapped   = errors.New(f("boot ram not mapped"))
	ErrNoLoader    = errors.New(f("kernel loader missing"))
	ErrConduit     = errors.New(f("boot conduit invalid"))
	ErrImageSize   = errors.New(f("kernel image larger than ram"))
)
