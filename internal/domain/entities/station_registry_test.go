package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStationRegistry(t *testing.T) {
	registry := NewStationRegistry([]int{58349, 58238, 58349})

	assert.Equal(t, 2, registry.Len())
	assert.True(t, registry.Contains(58238))
	assert.False(t, registry.Contains(99999))
	assert.Equal(t, []int{58238, 58349}, registry.Codes())

	codes := registry.Codes()
	codes[0] = 1
	assert.True(t, registry.Contains(58238))
	assert.Equal(t, 58238, registry.Codes()[0])
}

func TestStationRegistry_Empty(t *testing.T) {
	registry := NewStationRegistry(nil)
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.Codes())
}
