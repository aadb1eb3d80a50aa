package cypher

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
)

// Anchor narrows a read to container-linked nodes that reach a given node.
type Anchor struct {
	// Edge, when set, requires a direct relationship of this type from the
	// linked node to the anchor node.
	Edge schemas.EdgeLabel
	// MaxHops bounds the chain length when Edge is empty. Zero means one hop.
	MaxHops int
	Labels  []schemas.NodeLabel
	Props   schemas.Properties
}

// ReadQuery selects nodes linked from a document and returns every outgoing
// path below them.
type ReadQuery struct {
	Context schemas.DocumentContext
	// Link is the container relationship to follow. Defaults to AXIOM.
	Link schemas.EdgeLabel
	// Label restricts the linked nodes. Empty selects every linked node.
	Label  schemas.NodeLabel
	Anchor *Anchor
	// Depth bounds the returned paths. Zero or less means unbounded.
	Depth int
}

// LinkLabel returns the effective container relationship.
func (q ReadQuery) LinkLabel() schemas.EdgeLabel {
	if q.Link == "" {
		return schemas.EdgeAxiom
	}
	return q.Link
}

func (q ReadQuery) hops() int {
	if q.Anchor == nil || q.Anchor.MaxHops <= 0 {
		return 1
	}
	return q.Anchor.MaxHops
}

func varLength(lo, hi int) string {
	if hi <= 0 {
		return fmt.Sprintf("*%d..", lo)
	}
	return fmt.Sprintf("*%d..%d", lo, hi)
}

// pathFilter keeps traversals inside the document's structure.
const pathFilter = "WHERE none(x IN nodes(p)[1..] WHERE x:" + string(schemas.LabelOntologyDocument) + ")"

// Cypher renders the query and its parameters.
func (q ReadQuery) Cypher() (string, map[string]any, error) {
	if err := q.Context.Validate(); err != nil {
		return "", nil, err
	}
	params := q.Context.Params()

	target := NodePattern{Var: "a"}
	if q.Label != "" {
		target.Labels = []schemas.NodeLabel{q.Label}
	}
	container := containerMatch("o")
	container.Nodes = append(container.Nodes, target)
	container.Rels = append(container.Rels, RelPattern{Label: q.LinkLabel()})

	lines := []string{container.cypher()}
	if q.Anchor != nil {
		anchor := NodePattern{Labels: q.Anchor.Labels, Params: make(map[string]string)}
		for _, k := range q.Anchor.Props.Keys() {
			name := "anchor_" + k
			v, _ := q.Anchor.Props.Get(k)
			anchor.Params[k] = name
			params[name] = v
		}
		if q.Anchor.Edge != "" {
			lines = append(lines, "MATCH (a)-[:"+string(q.Anchor.Edge)+"]->"+anchor.render())
		} else {
			lines = append(lines,
				"MATCH q = (a)-["+varLength(1, q.hops())+"]->"+anchor.render(),
				"WHERE none(x IN nodes(q) WHERE x:"+string(schemas.LabelOntologyDocument)+")")
		}
		lines = append(lines, "WITH DISTINCT a")
	}
	lines = append(lines,
		"MATCH p = (a)-["+varLength(0, q.Depth)+"]->()",
		pathFilter,
		"RETURN p")
	return strings.Join(lines, "\n"), params, nil
}

// ReloadCypher renders the query fetching every path of up to hops
// relationships below a stored node.
func ReloadCypher(id schemas.NodeID, hops int) (string, map[string]any) {
	lines := []string{
		"MATCH p = (n)-[" + varLength(0, hops) + "]->()",
		pathFilter + " AND elementId(n) = $id",
		"RETURN p",
	}
	return strings.Join(lines, "\n"), map[string]any{"id": string(id)}
}
