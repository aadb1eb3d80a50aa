package translation

import (
	"fmt"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// Translation is the graph fragment produced for one domain object.
//
// Edges holds the edges this translation contributes; their endpoints are the
// main node of this translation or of a (transitively) nested one. Children
// are shared between parents when a sub-object recurs, so a translation tree
// is really a DAG.
type Translation struct {
	// Object is the source object, nil for versioning container nodes.
	Object   owl.Object
	MainNode schemas.Node
	Edges    []schemas.Edge
	Children []*Translation
}

// IsDeclaration reports whether the translation may carry ownership edges
// into a write or delete pass.
func (t *Translation) IsDeclaration() bool {
	switch t.Object.(type) {
	case owl.Declaration, owl.Ontology:
		return true
	}
	return false
}

// Walk visits every translation in the DAG once, parents before children.
func (t *Translation) Walk(fn func(*Translation)) {
	seen := make(map[*Translation]struct{})
	var visit func(*Translation)
	visit = func(cur *Translation) {
		if cur == nil {
			return
		}
		if _, ok := seen[cur]; ok {
			return
		}
		seen[cur] = struct{}{}
		fn(cur)
		for _, c := range cur.Children {
			visit(c)
		}
	}
	visit(t)
}

// Nodes returns the distinct main nodes of the DAG in walk order.
func (t *Translation) Nodes() []schemas.Node {
	var out []schemas.Node
	seen := make(map[schemas.NodeID]struct{})
	t.Walk(func(cur *Translation) {
		if _, ok := seen[cur.MainNode.ID]; ok {
			return
		}
		seen[cur.MainNode.ID] = struct{}{}
		out = append(out, cur.MainNode)
	})
	return out
}

// AllEdges returns the distinct edges of the DAG in walk order.
func (t *Translation) AllEdges() []schemas.Edge {
	var out []schemas.Edge
	seen := make(map[string]struct{})
	t.Walk(func(cur *Translation) {
		for _, e := range cur.Edges {
			k := e.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, e)
		}
	})
	return out
}

// Validate checks the translation is well formed: every translation has a main
// node and no edge dangles outside the DAG.
func (t *Translation) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil translation", schemas.ErrSynthesis)
	}
	var err error
	nodes := make(map[schemas.NodeID]struct{})
	t.Walk(func(cur *Translation) {
		if cur.MainNode.ID == "" || len(cur.MainNode.Labels) == 0 {
			if err == nil {
				err = fmt.Errorf("%w: translation of %v has no main node", schemas.ErrSynthesis, cur.Object)
			}
			return
		}
		nodes[cur.MainNode.ID] = struct{}{}
	})
	if err != nil {
		return err
	}
	for _, e := range t.AllEdges() {
		if _, ok := nodes[e.From.ID]; !ok {
			return fmt.Errorf("%w: edge %s starts outside the translation", schemas.ErrSynthesis, e)
		}
		if _, ok := nodes[e.To.ID]; !ok {
			return fmt.Errorf("%w: edge %s ends outside the translation", schemas.ErrSynthesis, e)
		}
	}
	return nil
}

// TopologicalEdges returns the edges accepted by keep, ordered so that every
// edge into a node precedes every edge out of it.
func (t *Translation) TopologicalEdges(keep func(schemas.Edge) bool) []schemas.Edge {
	var edges []schemas.Edge
	for _, e := range t.AllEdges() {
		if keep == nil || keep(e) {
			edges = append(edges, e)
		}
	}

	indegree := make(map[schemas.NodeID]int)
	outgoing := make(map[schemas.NodeID][]int)
	for i, e := range edges {
		indegree[e.To.ID]++
		outgoing[e.From.ID] = append(outgoing[e.From.ID], i)
	}

	var queue []schemas.NodeID
	for _, n := range t.Nodes() {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	ordered := make([]schemas.Edge, 0, len(edges))
	emitted := make([]bool, len(edges))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, i := range outgoing[id] {
			ordered = append(ordered, edges[i])
			emitted[i] = true
			to := edges[i].To.ID
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	// Unreachable for a DAG; keeps every edge if the input was cyclic.
	for i, e := range edges {
		if !emitted[i] {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

// OntologyTranslation is an ontology header plus its axioms, all produced by
// one session so recurring sub-objects share nodes across axioms.
type OntologyTranslation struct {
	Header *Translation
	Axioms []*Translation
}
