package valueobjects

import "fmt"

type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityRanks = map[Priority]int{
	PriorityNormal:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// Rank orders priorities for sorting: normal < high < critical. Invalid values rank 0.
func (p Priority) Rank() int {
	return priorityRanks[p]
}

// AtLeast returns the higher of p and other. Priorities only ever escalate.
func (p Priority) AtLeast(other Priority) Priority {
	if other.Rank() > p.Rank() {
		return other
	}
	return p
}

func (p Priority) IsCritical() bool {
	return p == PriorityCritical
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}

// PriorityFromRank is the inverse of Rank.
func PriorityFromRank(rank int) (Priority, error) {
	for p, r := range priorityRanks {
		if r == rank {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority rank: %d", rank)
}
