package boot

import (
	"fmt"

	"github.com/ezrec/a72ss/cpu"
)

// Memory is the guest physical memory an image is loaded into.
type Memory interface {
	Load(addr uint64, data []byte) error
}

// ImageLoader copies a raw kernel image to the start of RAM and starts
// the boot core there.
type ImageLoader struct {
	Memory Memory
	Image  []byte

	Info Info // Last record loaded.
}

var _ Loader = (*ImageLoader)(nil)

func (il *ImageLoader) Load(core cpu.Processor, info Info) (err error) {
	if uint64(len(il.Image)) > info.RAMSize {
		err = fmt.Errorf("%w: %#x > %#x", ErrImageSize, len(il.Image), info.RAMSize)
		return
	}

	if len(il.Image) > 0 {
		err = il.Memory.Load(info.Entry, il.Image)
		if err != nil {
			return
		}
	}

	err = core.Boot(info.Entry)
	if err != nil {
		return
	}

	il.Info = info
	return
}
