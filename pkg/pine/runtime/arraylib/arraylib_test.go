package arraylib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndNewFilled(t *testing.T) {
	assert.Equal(t, []int{}, New[int]())
	assert.Equal(t, []float64{7, 7, 7}, NewFilled(3, 7.0))
}

func TestPushPop(t *testing.T) {
	arr := []int{1, 2}
	arr = Push(arr, 3)
	assert.Equal(t, []int{1, 2, 3}, arr)

	last, rest := Pop(arr)
	assert.Equal(t, 3, last)
	assert.Equal(t, []int{1, 2}, rest)
}

func TestPopEmpty(t *testing.T) {
	last, rest := Pop([]int{})
	assert.Equal(t, 0, last)
	assert.Equal(t, []int{}, rest)
}

func TestGetSetSize(t *testing.T) {
	arr := []int{1, 2, 3}
	assert.Equal(t, 2, Get(arr, 1))

	arr = Set(arr, 1, 9)
	assert.Equal(t, []int{1, 9, 3}, arr)
	assert.Equal(t, 3, Size(arr))
}

func TestSort(t *testing.T) {
	arr := []float64{3, 1, 2}
	assert.Equal(t, []float64{1, 2, 3}, Sort(arr))
}

func TestSliceConcatClear(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, Slice(arr, 1, 3))
	assert.Equal(t, []int{1, 2, 3, 4}, Concat([]int{1, 2}, []int{3, 4}))
	assert.Equal(t, []int{}, Clear(arr))
}

func TestIncludesIndexOf(t *testing.T) {
	arr := []int{1, 2, 3}
	assert.True(t, Includes(arr, 2))
	assert.False(t, Includes(arr, 9))
	assert.Equal(t, 1, IndexOf(arr, 2))
	assert.Equal(t, -1, IndexOf(arr, 9))
}

func TestSumAvgMaxMin(t *testing.T) {
	arr := []float64{3, 1, 4}
	assert.Equal(t, 8.0, Sum(arr))
	assert.InDelta(t, 2.6666666, Avg(arr), 1e-6)
	assert.Equal(t, 4.0, Max(arr))
	assert.Equal(t, 1.0, Min(arr))
}
