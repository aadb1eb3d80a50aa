// Package readpath rebuilds domain objects from graph paths returned by a store.
//
// Paths are merged into a NodeIndex, then a Decoder walks the indexed
// structure below a node and reassembles the object it encodes. When the
// index holds only part of that structure, the decoder asks its Reloader for
// the missing subgraph once per node before giving up.
package readpath

import (
	"sort"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
)

// NodeIndex is an additive, deduplicated view over the nodes and edges of
// one or more paths. It is not safe for concurrent use.
type NodeIndex struct {
	nodes   map[schemas.NodeID]schemas.Node
	byLabel map[schemas.NodeLabel]map[schemas.NodeID]struct{}
	out     map[schemas.NodeID][]schemas.Edge
	edges   map[string]struct{}
}

// NewNodeIndex returns an empty index.
func NewNodeIndex() *NodeIndex {
	return &NodeIndex{
		nodes:   make(map[schemas.NodeID]schemas.Node),
		byLabel: make(map[schemas.NodeLabel]map[schemas.NodeID]struct{}),
		out:     make(map[schemas.NodeID][]schemas.Edge),
		edges:   make(map[string]struct{}),
	}
}

// AddPath merges every node and edge of p.
func (x *NodeIndex) AddPath(p schemas.Path) {
	for _, n := range p.Nodes {
		x.addNode(n)
	}
	for _, e := range p.Edges {
		x.addNode(e.From)
		x.addNode(e.To)
		key := e.ID
		if key == "" {
			key = e.Key()
		}
		if _, dup := x.edges[key]; dup {
			continue
		}
		x.edges[key] = struct{}{}
		x.out[e.From.ID] = append(x.out[e.From.ID], e)
	}
}

// AddPaths merges each path in turn.
func (x *NodeIndex) AddPaths(paths []schemas.Path) {
	for _, p := range paths {
		x.AddPath(p)
	}
}

func (x *NodeIndex) addNode(n schemas.Node) {
	if _, ok := x.nodes[n.ID]; ok {
		return
	}
	x.nodes[n.ID] = n
	for _, l := range n.Labels {
		ids, ok := x.byLabel[l]
		if !ok {
			ids = make(map[schemas.NodeID]struct{})
			x.byLabel[l] = ids
		}
		ids[n.ID] = struct{}{}
	}
}

// Node is a point lookup.
func (x *NodeIndex) Node(id schemas.NodeID) (schemas.Node, bool) {
	n, ok := x.nodes[id]
	return n, ok
}

// NodesWithLabel returns the indexed nodes carrying label, ordered by id.
func (x *NodeIndex) NodesWithLabel(label schemas.NodeLabel) []schemas.Node {
	ids := x.byLabel[label]
	out := make([]schemas.Node, 0, len(ids))
	for id := range ids {
		out = append(out, x.nodes[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EdgesFrom returns the outgoing edges of id ordered by label, then target id.
func (x *NodeIndex) EdgesFrom(id schemas.NodeID) []schemas.Edge {
	edges := append([]schemas.Edge(nil), x.out[id]...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Label != edges[j].Label {
			return edges[i].Label < edges[j].Label
		}
		return edges[i].To.ID < edges[j].To.ID
	})
	return edges
}

// Len returns the number of indexed nodes.
func (x *NodeIndex) Len() int { return len(x.nodes) }

// Roots returns the distinct first nodes of paths in order of appearance.
// For a read query these are the nodes the document links to.
func Roots(paths []schemas.Path) []schemas.Node {
	seen := make(map[schemas.NodeID]struct{})
	var out []schemas.Node
	for _, p := range paths {
		if len(p.Nodes) == 0 {
			continue
		}
		n := p.Nodes[0]
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}
