package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat(t *testing.T) {
	assert := assert.New(t)

	seq := Concat(slices.Values([]int{1, 2}), slices.Values([]int{}), slices.Values([]int{3}))
	assert.Equal([]int{1, 2, 3}, slices.Collect(seq))

	// Early stop.
	var got []int
	for val := range seq {
		got = append(got, val)
		if val == 2 {
			break
		}
	}
	assert.Equal([]int{1, 2}, got)
}

func TestPresent(t *testing.T) {
	assert := assert.New(t)

	a, b := new(int), new(int)
	assert.Equal([]*int{a, b}, slices.Collect(Present(a, nil, b, nil)))
	assert.Empty(slices.Collect(Present[*int](nil)))
}
