package cpu

import (
	"iter"

	"github.com/ezrec/a72ss/topology"
)

// Arena owns the realized cores, indexed by linear core index.
type Arena struct {
	cores [topology.MAX_CORES]Processor
	count int
}

// Len returns the number of cores held.
func (arena *Arena) Len() int {
	if arena == nil {
		return 0
	}
	return arena.count
}

// Get returns core i, or nil if out of range.
func (arena *Arena) Get(i int) Processor {
	if arena == nil || i < 0 || i >= arena.count {
		return nil
	}
	return arena.cores[i]
}

// All iterates the cores in index order.
func (arena *Arena) All() iter.Seq2[int, Processor] {
	return func(yield func(int, Processor) bool) {
		for i := range arena.Len() {
			if !yield(i, arena.cores[i]) {
				return
			}
		}
	}
}

// Slice returns the cores in index order.
func (arena *Arena) Slice() (cores []Processor) {
	for _, core := range arena.All() {
		cores = append(cores, core)
	}
	return
}

func (arena *Arena) push(core Processor) (err error) {
	if arena.count >= len(arena.cores) {
		err = ErrTooManyCores
		return
	}
	arena.cores[arena.count] = core
	arena.count++
	return
}

// Release every core, highest index first, and empty the arena.
func (arena *Arena) Release() {
	if arena == nil {
		return
	}
	for i := arena.count - 1; i >= 0; i-- {
		arena.cores[i].Release()
		arena.cores[i] = nil
	}
	arena.count = 0
}
