package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "hello", ToString("hello"))
	assert.Equal(t, "bytes", ToString([]byte("bytes")))
	assert.Equal(t, "42", ToString(float64(42)))
	assert.Equal(t, "42.5", ToString(42.5))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "7", ToString(7))
}
