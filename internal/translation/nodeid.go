package translation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// IDSource hands out fresh node identifiers.
type IDSource interface {
	NextID() schemas.NodeID
}

// UUIDSource issues random UUIDs. It is the default source.
type UUIDSource struct{}

// NextID implements IDSource.
func (UUIDSource) NextID() schemas.NodeID {
	return schemas.NodeID(uuid.NewString())
}

// SequentialSource issues prefix-0, prefix-1, ... It is not safe for concurrent
// use; give each session its own instance.
type SequentialSource struct {
	prefix string
	next   int
}

// NewSequentialSource returns a source starting at zero.
func NewSequentialSource(prefix string) *SequentialSource {
	if prefix == "" {
		prefix = "n"
	}
	return &SequentialSource{prefix: prefix}
}

// NextID implements IDSource.
func (s *SequentialSource) NextID() schemas.NodeID {
	id := schemas.NodeID(fmt.Sprintf("%s-%d", s.prefix, s.next))
	s.next++
	return id
}

// NodeIDMapper assigns one identifier per structurally distinct object.
// The mapping lives as long as the mapper; sessions never share one.
type NodeIDMapper struct {
	source IDSource
	ids    map[string]schemas.NodeID
}

// NewNodeIDMapper returns a mapper drawing from src, or from UUIDSource when src is nil.
func NewNodeIDMapper(src IDSource) *NodeIDMapper {
	if src == nil {
		src = UUIDSource{}
	}
	return &NodeIDMapper{source: src, ids: make(map[string]schemas.NodeID)}
}

// IdentityFor returns the identifier for obj, allocating one on first sight.
// Structurally equal objects always receive the same identifier.
func (m *NodeIDMapper) IdentityFor(obj owl.Object) schemas.NodeID {
	return m.identityForKey(objectKey(obj))
}

func (m *NodeIDMapper) identityForKey(key string) schemas.NodeID {
	if id, ok := m.ids[key]; ok {
		return id
	}
	id := m.source.NextID()
	m.ids[key] = id
	return id
}

// Len reports how many identities have been assigned.
func (m *NodeIDMapper) Len() int { return len(m.ids) }

func objectKey(obj owl.Object) string {
	return string(obj.Kind()) + "|" + obj.String()
}
