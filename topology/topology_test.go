package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	assert := assert.New(t)

	for n := 1; n <= MAX_CORES; n++ {
		entries, err := Resolve(n, CLUSTER_SIZE)
		require.NoError(t, err)
		assert.Len(entries, n)

		seen := map[Affinity]bool{}
		for i, entry := range entries {
			assert.Equal(i, entry.Index)
			assert.Equal(i/CLUSTER_SIZE, entry.Affinity.Cluster())
			assert.Equal(i%CLUSTER_SIZE, entry.Affinity.Core())
			assert.False(seen[entry.Affinity], "duplicate %v", entry.Affinity)
			seen[entry.Affinity] = true
		}
	}
}

func TestResolveEightCores(t *testing.T) {
	assert := assert.New(t)

	entries, err := Resolve(8, CLUSTER_SIZE)
	assert.NoError(err)

	expected := []Affinity{0x000, 0x001, 0x002, 0x003, 0x100, 0x101, 0x102, 0x103}
	for i, entry := range entries {
		assert.Equal(expected[i], entry.Affinity, entry.Name())
	}
	assert.Equal(2, Clusters(8, CLUSTER_SIZE))
	assert.Equal(1, Clusters(3, CLUSTER_SIZE))
}

func TestResolveSingleCoreClusters(t *testing.T) {
	assert := assert.New(t)

	entries, err := Resolve(2, 1)
	assert.NoError(err)
	assert.Equal(Affinity(0x000), entries[0].Affinity)
	assert.Equal(Affinity(0x100), entries[1].Affinity)
}

func TestResolveBounds(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{0, -1, MAX_CORES + 1, 64} {
		entries, err := Resolve(n, CLUSTER_SIZE)
		assert.ErrorIs(err, ErrCoreCount, "n=%d", n)
		assert.Nil(entries)
	}

	_, err := Resolve(4, 0)
	assert.ErrorIs(err, ErrClusterSize)
}

func TestAffinityString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0x103", MakeAffinity(1, 3).String())
	assert.Equal("cpu5", Entry{Index: 5}.Name())
}

func TestParseDesignator(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		Text  string
		Index int
		Ok    bool
	}{
		{Text: "", Index: 0, Ok: true},
		{Text: "3", Index: 3, Ok: true},
		{Text: "cpu2", Index: 2, Ok: true},
		{Text: " CPU1 ", Index: 1, Ok: true},
		{Text: "cpu4", Ok: false},
		{Text: "a53", Ok: false},
		{Text: "-1", Ok: false},
		{Text: "cpu+1", Ok: false},
		{Text: "+2", Ok: false},
		{Text: "cpu-0", Ok: false},
	}

	for _, entry := range table {
		index, err := ParseDesignator(entry.Text, 4)
		if entry.Ok {
			assert.NoError(err, entry.Text)
			assert.Equal(entry.Index, index, entry.Text)
		} else {
			assert.ErrorIs(err, ErrDesignator, entry.Text)
		}
	}
}
