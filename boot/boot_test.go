package boot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/memory"
	"github.com/ezrec/a72ss/topology"
)

type recordLoader struct {
	calls int
	core  cpu.Processor
	info  Info
	err   error
}

func (rl *recordLoader) Load(core cpu.Processor, info Info) error {
	rl.calls++
	rl.core = core
	rl.info = info
	return rl.err
}

func realizedCore(t *testing.T) cpu.Processor {
	entries, err := topology.Resolve(1, 1)
	require.NoError(t, err)
	arena, err := cpu.NewFactory(1, cpu.CONDUIT_SMC).Build(entries)
	require.NoError(t, err)
	return arena.Get(0)
}

func mappedRAM(t *testing.T, size uint64) (*memory.AddressSpace, *memory.Region) {
	space := memory.NewAddressSpace()
	ram, err := (&memory.Allocator{}).NewRegion("ram", memory.RAM, size)
	require.NoError(t, err)
	require.NoError(t, space.Map(memory.RAM_ADDR, ram))
	return space, ram
}

func TestSequencerRun(t *testing.T) {
	assert := assert.New(t)

	core := realizedCore(t)
	space, ram := mappedRAM(t, 0x4000_0000)
	loader := &recordLoader{}

	seq := &Sequencer{Loader: loader}
	info, err := seq.Run(core, ram, space, cpu.CONDUIT_SMC)
	assert.NoError(err)

	expect := Info{Entry: 0x8000_0000, RAMSize: 0x4000_0000, Conduit: cpu.CONDUIT_SMC}
	assert.Equal(expect, info)
	assert.Equal(expect, loader.info)
	assert.Same(core.(*cpu.Model), loader.core.(*cpu.Model))
}

func TestSequencerFailsClosed(t *testing.T) {
	assert := assert.New(t)

	core := realizedCore(t)
	space, ram := mappedRAM(t, 0x1000_0000)
	unmapped, err := (&memory.Allocator{}).NewRegion("stray", memory.RAM, 0x1000)
	require.NoError(t, err)

	table := []struct {
		Name    string
		Core    cpu.Processor
		RAM     *memory.Region
		Conduit cpu.Conduit
		Err     error
	}{
		{Name: "no core", RAM: ram, Conduit: cpu.CONDUIT_HVC, Err: ErrNoCore},
		{Name: "unrealized", Core: cpu.NewModel("cpu0"), RAM: ram, Conduit: cpu.CONDUIT_HVC, Err: ErrNotRealized},
		{Name: "no ram", Core: core, Conduit: cpu.CONDUIT_HVC, Err: ErrNoRAM},
		{Name: "unmapped", Core: core, RAM: unmapped, Conduit: cpu.CONDUIT_HVC, Err: ErrNotMapped},
		{Name: "no conduit", Core: core, RAM: ram, Conduit: cpu.CONDUIT_NONE, Err: ErrConduit},
	}

	for _, entry := range table {
		loader := &recordLoader{}
		seq := &Sequencer{Loader: loader}
		info, err := seq.Run(entry.Core, entry.RAM, space, entry.Conduit)
		assert.ErrorIs(err, entry.Err, entry.Name)
		assert.Equal(Info{}, info, entry.Name)
		assert.Equal(0, loader.calls, entry.Name)
	}

	_, err = (&Sequencer{}).Run(core, ram, space, cpu.CONDUIT_HVC)
	assert.ErrorIs(err, ErrNoLoader)
}

func TestSequencerLoaderError(t *testing.T) {
	assert := assert.New(t)

	boom := errors.New("boom")
	space, ram := mappedRAM(t, 0x1000_0000)

	seq := &Sequencer{Loader: &recordLoader{err: boom}}
	info, err := seq.Run(realizedCore(t), ram, space, cpu.CONDUIT_HVC)
	assert.ErrorIs(err, boom)
	assert.Equal(Info{}, info)
}

func TestImageLoader(t *testing.T) {
	assert := assert.New(t)

	core := realizedCore(t)
	space, ram := mappedRAM(t, 0x10_0000)

	image := []byte{0x4d, 0x5a, 0x00, 0x91}
	loader := &ImageLoader{Memory: space, Image: image}
	seq := &Sequencer{Loader: loader}

	info, err := seq.Run(core, ram, space, cpu.CONDUIT_SMC)
	require.NoError(t, err)
	assert.Equal(info, loader.Info)

	data := make([]byte, len(image))
	assert.NoError(space.Read(memory.RAM_ADDR, data))
	assert.Equal(image, data)

	model := core.(*cpu.Model)
	assert.True(model.Running)
	assert.Equal(uint64(memory.RAM_ADDR), model.Entry)
}

func TestImageLoaderTooLarge(t *testing.T) {
	assert := assert.New(t)

	core := realizedCore(t)
	space, _ := mappedRAM(t, 0x1000)

	loader := &ImageLoader{Memory: space, Image: make([]byte, 0x1001)}
	err := loader.Load(core, Info{Entry: memory.RAM_ADDR, RAMSize: 0x1000, Conduit: cpu.CONDUIT_HVC})
	assert.ErrorIs(err, ErrImageSize)
	assert.False(core.(*cpu.Model).Running)
}
