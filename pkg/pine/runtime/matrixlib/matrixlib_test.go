package matrixlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := New(2, 3, 0.0)
	assert.Equal(t, 2, Rows(m))
	assert.Equal(t, 3, Cols(m))
	assert.Equal(t, 0.0, Get(m, 1, 2))
}

func TestGetSet(t *testing.T) {
	m := New(2, 2, 0.0)
	m = Set(m, 0, 1, 5.0)
	assert.Equal(t, 5.0, Get(m, 0, 1))
	assert.Equal(t, 0.0, Get(m, 1, 1))
}

func TestColsEmptyMatrix(t *testing.T) {
	var m [][]int
	assert.Equal(t, 0, Rows(m))
	assert.Equal(t, 0, Cols(m))
}
