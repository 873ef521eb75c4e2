package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_AtLeast(t *testing.T) {
	tests := []struct {
		name  string
		p     Priority
		other Priority
		want  Priority
	}{
		{"normal raised to high", PriorityNormal, PriorityHigh, PriorityHigh},
		{"high raised to critical", PriorityHigh, PriorityCritical, PriorityCritical},
		{"critical never lowered", PriorityCritical, PriorityNormal, PriorityCritical},
		{"high kept against normal", PriorityHigh, PriorityNormal, PriorityHigh},
		{"equal", PriorityHigh, PriorityHigh, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.AtLeast(tt.other))
		})
	}
}

func TestPriority_RankRoundTrip(t *testing.T) {
	for _, p := range []Priority{PriorityNormal, PriorityHigh, PriorityCritical} {
		got, err := PriorityFromRank(p.Rank())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	assert.Less(t, PriorityNormal.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityCritical.Rank())

	_, err := PriorityFromRank(9)
	assert.Error(t, err)
}

func TestNewPriority(t *testing.T) {
	_, err := NewPriority("urgent")
	assert.Error(t, err)

	p, err := NewPriority("critical")
	require.NoError(t, err)
	assert.True(t, p.IsCritical())
}
