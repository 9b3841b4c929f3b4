package ticket

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// SerialGenerator mints human-presentable, globally unique ticket serial
// numbers. Snowflake IDs are collision-free per node without a store
// round-trip; the node id must be unique per running instance.
type SerialGenerator struct {
	node *snowflake.Node
}

func NewSerialGenerator(nodeID int64) (*SerialGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("newSerialGenerator: snowflake.NewNode: %w", err)
	}
	return &SerialGenerator{node: node}, nil
}

// Next returns the next serial, e.g. "AFCM-1PZX4K9QH2M81".
func (g *SerialGenerator) Next() string {
	return "AFCM-" + strings.ToUpper(g.node.Generate().Base36())
}
