package strlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "3.14", ToString(3.14))
	assert.Equal(t, "3", ToString(3))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "len=14", Format("len=%d", 14))
}

func TestLength(t *testing.T) {
	assert.Equal(t, 5.0, Length("hello"))
}

func TestUpperLower(t *testing.T) {
	assert.Equal(t, "HELLO", Upper("hello"))
	assert.Equal(t, "hello", Lower("HELLO"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("hello world", "world"))
	assert.False(t, Contains("hello world", "xyz"))
}
