package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

// NewID returns a time-ordered numeric identifier for products and users.
// Later ids compare greater, which the "newest" sort relies on.
func NewID() string {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		idNode = node
	})
	return idNode.Generate().String()
}

// NewOrderID returns a random order identifier
func NewOrderID() string {
	return uuid.New().String()
}
