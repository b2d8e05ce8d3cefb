package internal

import (
	"iter"
)

// Concat concatenates multiple iterators into a single iterator sequence.
func Concat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// Present yields each value that is not the zero value of its type.
func Present[T comparable](values ...T) iter.Seq[T] {
	return func(yield func(T) bool) {
		var zero T
		for _, val := range values {
			if val == zero {
				continue
			}
			if !yield(val) {
				return
			}
		}
	}
}
