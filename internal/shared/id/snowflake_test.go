package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_NewID(t *testing.T) {
	gen, err := NewGenerator(7)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := gen.NewID()
		require.NoError(t, ValidatePrefix(id, PrefixComplaint))
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewGenerator_RejectsOutOfRangeNode(t *testing.T) {
	_, err := NewGenerator(-1)
	assert.Error(t, err)

	_, err = NewGenerator(1 << 10)
	assert.Error(t, err)
}
