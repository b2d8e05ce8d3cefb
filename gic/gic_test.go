package gic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/irq"
	"github.com/ezrec/a72ss/memory"
	"github.com/ezrec/a72ss/topology"
)

func realizedCores(t *testing.T, n int) []cpu.Processor {
	entries, err := topology.Resolve(n, topology.CLUSTER_SIZE)
	require.NoError(t, err)
	arena, err := cpu.NewFactory(n, cpu.CONDUIT_SMC).Build(entries)
	require.NoError(t, err)
	return arena.Slice()
}

func TestPPI(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(23, PPI(0, PPI_PMU))
	assert.Equal(55, PPI(1, PPI_PMU))
	assert.Equal(16+7+7*32, PPI(7, PPI_PMU))
}

func TestModelConfigure(t *testing.T) {
	assert := assert.New(t)

	gic := NewModel()
	assert.ErrorIs(gic.Realize(), ErrRevision)
	assert.ErrorIs(gic.SetRevision(2), ErrRevision)
	assert.NoError(gic.SetRevision(GIC_REVISION))
	assert.ErrorIs(gic.SetCPUCount(0), ErrCPUCount)
	assert.ErrorIs(gic.SetIRQCount(32), ErrIRQCount)
	assert.ErrorIs(gic.SetIRQCount(100), ErrIRQCount)

	_, err := gic.Input(0)
	assert.ErrorIs(err, ErrNotRealized)

	assert.NoError(gic.SetCPUCount(2))
	assert.NoError(gic.SetIRQCount(GIC_NUM_IRQ))
	assert.NoError(gic.Realize())
	assert.ErrorIs(gic.SetCPUCount(4), ErrRealized)

	assert.Equal(GIC_NUM_IRQ-32+2*32, gic.Inputs())
	_, err = gic.Input(gic.Inputs())
	assert.ErrorIs(err, ErrLineRange)
	assert.ErrorIs(gic.ConnectOutput(8, &irq.Pin{}), ErrLineRange)
}

func TestFabricWiring(t *testing.T) {
	for n := 1; n <= topology.MAX_CORES; n++ {
		assert := assert.New(t)

		cores := realizedCores(t, n)
		space := memory.NewAddressSpace()
		dist := NewModel()

		window, wiring, err := NewFabric().Build(dist, cores, space, nil)
		require.NoError(t, err, "n=%d", n)

		base, ok := space.Base(window)
		assert.True(ok)
		assert.Equal(uint64(GIC_ADDR), base)
		assert.Equal(uint64(GIC_SIZE), window.Size)

		assert.Equal(n, dist.NumCPU)
		assert.Equal(GIC_NUM_IRQ, dist.NumIRQ)
		assert.Equal(GIC_REVISION, dist.Revision)

		pmu := 0
		outputs := map[int]bool{}
		for _, wire := range wiring {
			if wire.Kind == irq.PMU {
				pmu++
				assert.Equal(16+7+wire.Core*32, wire.Index)
				continue
			}
			assert.False(outputs[wire.Index], "duplicate %v", wire)
			outputs[wire.Index] = true
			assert.GreaterOrEqual(wire.Index, 0)
			assert.Less(wire.Index, 4*n)
			assert.Equal(wire.Core+int(wire.Kind)*n, wire.Index)
		}
		assert.Equal(n, pmu)
		assert.Len(outputs, 4*n)
	}
}

func TestFabricSignals(t *testing.T) {
	assert := assert.New(t)

	const n = 4
	cores := realizedCores(t, n)
	dist := NewModel()

	_, _, err := NewFabric().Build(dist, cores, memory.NewAddressSpace(), nil)
	require.NoError(t, err)

	// gic output i+2n drives cpu i's virtual IRQ.
	core2 := cores[2].(*cpu.Model)
	assert.NoError(dist.Output(2 + 2*n).Set(true))
	assert.True(core2.Pin(irq.VIRQ).Level)
	assert.False(core2.Pin(irq.IRQ).Level)

	// cpu 3's PMU output lands on its PPI 7.
	core3 := cores[3].(*cpu.Model)
	assert.NoError(core3.PMU().Set(true))
	assert.True(dist.Pin(PPI(3, PPI_PMU)).Level)
}

func TestFabricRealizeFailure(t *testing.T) {
	assert := assert.New(t)

	boom := errors.New("boom")
	space := memory.NewAddressSpace()
	dist := NewModel()
	dist.FailRealize = boom

	window, wiring, err := NewFabric().Build(dist, realizedCores(t, 2), space, nil)
	assert.Nil(window)
	assert.Nil(wiring)
	assert.ErrorIs(err, boom)

	var fabricErr *ErrFabric
	assert.ErrorAs(err, &fabricErr)
	assert.Equal("realize", fabricErr.Step)
	assert.True(dist.Released())
	assert.Equal(0, space.Len())
}

func TestFabricOverlap(t *testing.T) {
	assert := assert.New(t)

	space := memory.NewAddressSpace()
	flash, err := (&memory.Allocator{}).NewRegion("flash", memory.ROM, memory.FLASH_SIZE)
	require.NoError(t, err)
	require.NoError(t, space.Map(memory.FLASH_ADDR, flash))

	dist := NewModel()
	_, _, err = NewFabric().Build(dist, realizedCores(t, 1), space, nil)

	var overlap *memory.ErrOverlap
	assert.ErrorAs(err, &overlap)
	assert.True(dist.Released())
	assert.Equal(1, space.Len())
}

func TestFabricRequiresRealizedCores(t *testing.T) {
	assert := assert.New(t)

	cores := []cpu.Processor{cpu.NewModel("cpu0")}
	dist := NewModel()

	_, _, err := NewFabric().Build(dist, cores, memory.NewAddressSpace(), nil)
	assert.ErrorIs(err, ErrCoreMissing)
	assert.Equal(0, dist.Revision)
	assert.True(dist.Released())
}

func TestWiringString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("cpu1.pmu -> gic.in55", Wiring{Core: 1, Kind: irq.PMU, Index: 55}.String())
	assert.Equal("gic.out9 -> cpu1.virq", Wiring{Core: 1, Kind: irq.VIRQ, Index: 9}.String())
}
