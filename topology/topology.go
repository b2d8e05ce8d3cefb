// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package topology maps linear core indices onto cluster positions and the
// multiprocessor affinity values firmware uses to address each core.
package topology

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MAX_CORES    = 8 // Hard platform maximum of application cores.
	CLUSTER_SIZE = 4 // Cores per cluster in the clustered variant.

	AFFINITY_CLUSTER_SHIFT = 8    // Aff1 position.
	AFFINITY_CORE_MASK     = 0xff // Aff0 field.
)

// Affinity is a multiprocessor affinity value: (cluster << 8) | core.
type Affinity uint32

// MakeAffinity encodes a cluster and in-cluster core index.
func MakeAffinity(cluster, core int) Affinity {
	return Affinity(uint32(cluster)<<AFFINITY_CLUSTER_SHIFT | uint32(core)&AFFINITY_CORE_MASK)
}

// Cluster index (Aff1).
func (aff Affinity) Cluster() int {
	return int(uint32(aff) >> AFFINITY_CLUSTER_SHIFT)
}

// Core index within the cluster (Aff0).
func (aff Affinity) Core() int {
	return int(uint32(aff) & AFFINITY_CORE_MASK)
}

func (aff Affinity) String() string {
	return fmt.Sprintf("0x%03x", uint32(aff))
}

// Entry is the resolved position of one core.
type Entry struct {
	Index    int      // Linear index, 0..n-1.
	Cluster  int      // Index / cluster size.
	Core     int      // Index % cluster size.
	Affinity Affinity // Encoded (Cluster, Core).
}

// Name of the core, as used by the boot cpu designator.
func (entry Entry) Name() string {
	return fmt.Sprintf("cpu%d", entry.Index)
}

// Resolve computes the topology of n cores grouped into clusters of
// clusterSize. Nothing is produced unless 1 <= n <= MAX_CORES.
func Resolve(n int, clusterSize int) (entries []Entry, err error) {
	if n < 1 || n > MAX_CORES {
		err = ErrCoreCountRange{Count: n, Max: MAX_CORES}
		return
	}

	if clusterSize < 1 || clusterSize > AFFINITY_CORE_MASK+1 {
		err = ErrClusterSize
		return
	}

	entries = make([]Entry, n)
	for i := range n {
		cluster := i / clusterSize
		core := i % clusterSize
		entries[i] = Entry{
			Index:    i,
			Cluster:  cluster,
			Core:     core,
			Affinity: MakeAffinity(cluster, core),
		}
	}

	return
}

// Clusters returns the number of clusters needed for n cores.
func Clusters(n int, clusterSize int) int {
	if clusterSize < 1 {
		return 0
	}
	return (n + clusterSize - 1) / clusterSize
}

// ParseDesignator resolves a boot cpu designator ("", "2", or "cpu2") to a
// linear index below n. The empty designator selects core 0.
func ParseDesignator(designator string, n int) (index int, err error) {
	text := strings.TrimSpace(designator)
	if len(text) == 0 {
		return 0, nil
	}

	text = strings.TrimPrefix(strings.ToLower(text), "cpu")
	if strings.HasPrefix(text, "+") || strings.HasPrefix(text, "-") {
		err = fmt.Errorf("%w: %q", ErrDesignator, designator)
		return
	}
	index, err = strconv.Atoi(text)
	if err != nil || index < 0 || index >= n {
		index = 0
		err = fmt.Errorf("%w: %q", ErrDesignator, designator)
		return
	}

	return
}
