package world

import "sync/atomic"

// ObjectIDGenerator hands out unique object IDs.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Players and other perceivable entities
//	0x20000000 - 0x2FFFFFFF: Agents
type ObjectIDGenerator struct {
	nextEntityID atomic.Uint32
	nextAgentID  atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextEntityID.Store(0x10000000)
	gen.nextAgentID.Store(0x20000000)
	return gen
}

// NextEntityID generates the next entity object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextEntityID() uint32 {
	return g.nextEntityID.Add(1)
}

// NextAgentID generates the next agent object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextAgentID() uint32 {
	return g.nextAgentID.Add(1)
}

// IsAgentID reports whether id falls in the agent range.
func IsAgentID(id uint32) bool {
	return id >= 0x20000000 && id < 0x30000000
}
