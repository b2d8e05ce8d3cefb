package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/a72ss/cpu"
	"github.com/ezrec/a72ss/memory"
)

func parse(t *testing.T, args ...string) (*machineFlags, *flag.FlagSet) {
	mf := &machineFlags{}
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	mf.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return mf, f
}

func TestMachineFlagsOverride(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cores: 2\nram_size: 1 * GiB\n"), 0644))

	mf, f := parse(t, "-config", path, "-cores", "4", "-conduit", "1")
	cfg, err := mf.Config(f)
	require.NoError(t, err)

	assert.Equal(4, cfg.Cores)
	assert.Equal(uint64(1<<30), cfg.RAMSize)
	assert.Equal(cpu.SELECTOR_SMC, cfg.ConduitSelector)
}

func TestMachineFlagsRealize(t *testing.T) {
	assert := assert.New(t)

	kernel := filepath.Join(t.TempDir(), "Image")
	require.NoError(t, os.WriteFile(kernel, []byte{0xde, 0xad, 0xbe, 0xef}, 0644))

	mf, f := parse(t, "-preset", "tda4vh", "-ram", "256 * MiB", "-secure", "-kernel", kernel)
	ss, err := mf.Realize(f)
	require.NoError(t, err)
	defer ss.Close()

	data := make([]byte, 4)
	assert.NoError(ss.Space.Read(memory.RAM_ADDR, data))
	assert.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, data)
	assert.True(ss.Core(0).(*cpu.Model).Extensions.EL3)
	assert.Equal(uint64(256<<20), ss.BootInfo().RAMSize)
}

func TestMachineFlagsRealizeFailure(t *testing.T) {
	assert := assert.New(t)

	mf, f := parse(t, "-cores", "9")
	ss, err := mf.Realize(f)
	assert.Nil(ss)
	assert.Error(err)
}
