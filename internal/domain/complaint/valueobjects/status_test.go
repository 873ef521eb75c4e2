package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatus(t *testing.T) {
	for _, s := range []string{"submitted", "assigned", "in_progress", "resolved", "escalated"} {
		got, err := NewStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}

	_, err := NewStatus("closed")
	assert.Error(t, err)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusSubmitted, StatusAssigned, true},
		{StatusSubmitted, StatusEscalated, true},
		{StatusSubmitted, StatusResolved, false},
		{StatusAssigned, StatusInProgress, true},
		{StatusAssigned, StatusResolved, true},
		{StatusAssigned, StatusEscalated, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusEscalated, true},
		{StatusInProgress, StatusSubmitted, false},
		{StatusEscalated, StatusInProgress, true},
		{StatusEscalated, StatusResolved, true},
		{StatusEscalated, StatusEscalated, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusEscalated, false},
		{StatusResolved, StatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsOfficerSettable(t *testing.T) {
	assert.True(t, StatusInProgress.IsOfficerSettable())
	assert.True(t, StatusResolved.IsOfficerSettable())
	assert.True(t, StatusEscalated.IsOfficerSettable())
	assert.False(t, StatusAssigned.IsOfficerSettable())
	assert.False(t, StatusSubmitted.IsOfficerSettable())
}

func TestStatus_CanBeAssigned(t *testing.T) {
	assert.True(t, StatusSubmitted.CanBeAssigned())
	assert.True(t, StatusEscalated.CanBeAssigned())
	assert.False(t, StatusResolved.CanBeAssigned())
	assert.False(t, Status("bogus").CanBeAssigned())
}

func TestSweepCandidateStatuses_ExcludeTerminalAndEscalated(t *testing.T) {
	assert.NotContains(t, SweepCandidateStatuses, StatusEscalated)
	assert.NotContains(t, SweepCandidateStatuses, StatusResolved)
}
