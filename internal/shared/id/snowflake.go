package id

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator issues time-ordered complaint IDs unique across instances as
// long as every instance runs with its own node ID.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// NewID returns a complaint ID such as "cmp_BGxV9rKsvw".
func (g *Generator) NewID() string {
	return FormatWithPrefix(PrefixComplaint, g.node.Generate().Base58())
}
