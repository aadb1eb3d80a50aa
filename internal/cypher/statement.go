// Package cypher synthesizes graph write and read statements from translations.
//
// Statements are structured values. They render to Cypher for Neo4j and can be
// interpreted directly against any Backend, which is how the in-memory and
// PostgreSQL stores execute them.
package cypher

import (
	"sort"
	"strings"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
)

// NodePattern matches or creates a node by labels and properties.
// A pattern with only Var refers to a node bound by an earlier clause.
type NodePattern struct {
	Var    string
	Labels []schemas.NodeLabel
	Props  schemas.Properties
	// Params maps property keys to statement parameter names.
	Params map[string]string
}

// IsRef reports whether the pattern only refers to a bound variable.
func (p NodePattern) IsRef() bool {
	return p.Var != "" && len(p.Labels) == 0 && p.Props.Len() == 0 && len(p.Params) == 0
}

func (p NodePattern) render() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(p.Var)
	for _, l := range p.Labels {
		b.WriteByte(':')
		b.WriteString(string(l))
	}
	if m := p.mapLiteral(); m != "" {
		if p.Var != "" || len(p.Labels) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m)
	}
	b.WriteByte(')')
	return b.String()
}

func (p NodePattern) mapLiteral() string {
	if p.Props.Len() == 0 && len(p.Params) == 0 {
		return ""
	}
	entries := make(map[string]string, p.Props.Len()+len(p.Params))
	for _, k := range p.Props.Keys() {
		v, _ := p.Props.Get(k)
		entries[k] = schemas.Literal(v)
	}
	for k, param := range p.Params {
		entries[k] = "$" + param
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+entries[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RelPattern matches or creates a relationship.
type RelPattern struct {
	Var   string
	Label schemas.EdgeLabel
	Props schemas.Properties
}

func (r RelPattern) render() string {
	var b strings.Builder
	b.WriteString("-[")
	b.WriteString(r.Var)
	if r.Label != "" {
		b.WriteByte(':')
		b.WriteString(string(r.Label))
	}
	if r.Props.Len() > 0 {
		b.WriteByte(' ')
		b.WriteString(r.Props.Print())
	}
	b.WriteString("]->")
	return b.String()
}

// -- Clauses --

// Clause is one step of a statement.
type Clause interface {
	cypher() string
}

// Match binds a chain of node patterns joined by outgoing relationships.
// len(Rels) must equal len(Nodes)-1.
type Match struct {
	Nodes []NodePattern
	Rels  []RelPattern
}

func (m Match) cypher() string {
	var b strings.Builder
	b.WriteString("MATCH ")
	for i, n := range m.Nodes {
		if i > 0 {
			b.WriteString(m.Rels[i-1].render())
		}
		b.WriteString(n.render())
	}
	return b.String()
}

// Merge upserts a node keyed by its full label and property signature.
type Merge struct {
	Node NodePattern
}

func (m Merge) cypher() string { return "MERGE " + m.Node.render() }

// MergeRel upserts a relationship between two bound nodes.
type MergeRel struct {
	From string
	To   string
	Rel  RelPattern
}

func (m MergeRel) cypher() string {
	return "MERGE (" + m.From + ")" + m.Rel.render() + "(" + m.To + ")"
}

// WhereNoIncoming keeps only rows whose node has no incoming relationship.
type WhereNoIncoming struct {
	Var string
}

func (w WhereNoIncoming) cypher() string { return "WHERE NOT ()-->(" + w.Var + ")" }

// WhereNoOutgoing keeps only rows whose node has no outgoing relationship
// labelled Label.
type WhereNoOutgoing struct {
	Var   string
	Label schemas.EdgeLabel
}

func (w WhereNoOutgoing) cypher() string {
	return "WHERE NOT (" + w.Var + ")-[:" + string(w.Label) + "]->()"
}

// Delete removes the relationship bound to Var.
type Delete struct {
	Var string
}

func (d Delete) cypher() string { return "DELETE " + d.Var }

// SweepOrphans removes every node left without relationships.
type SweepOrphans struct{}

func (SweepOrphans) cypher() string { return "MATCH (n) WHERE NOT (n)--() DELETE n" }

// -- Statements --

// Statement is an ordered list of clauses plus its parameters.
type Statement struct {
	Clauses []Clause
	Params  map[string]any
}

// Cypher renders the statement, one clause per line.
func (s Statement) Cypher() string {
	lines := make([]string, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		lines = append(lines, c.cypher())
	}
	return strings.Join(lines, "\n")
}

func (s Statement) String() string { return s.Cypher() }

// containerMatch matches project, branch and document by statement parameters,
// binding the document to docVar.
func containerMatch(docVar string) Match {
	return Match{
		Nodes: []NodePattern{
			{Labels: []schemas.NodeLabel{schemas.LabelProject}, Params: map[string]string{schemas.PropProjectID: schemas.PropProjectID}},
			{Labels: []schemas.NodeLabel{schemas.LabelBranch}, Params: map[string]string{schemas.PropBranchID: schemas.PropBranchID}},
			{Var: docVar, Labels: []schemas.NodeLabel{schemas.LabelOntologyDocument}, Params: map[string]string{schemas.PropOntologyDocumentID: schemas.PropOntologyDocumentID}},
		},
		Rels: []RelPattern{
			{Label: schemas.EdgeBranch},
			{Label: schemas.EdgeOntologyDocument},
		},
	}
}

// ContainerStatements idempotently creates the project, branch and document
// nodes of a document context and links them.
func ContainerStatements(docCtx schemas.DocumentContext) ([]Statement, error) {
	if err := docCtx.Validate(); err != nil {
		return nil, err
	}
	return []Statement{{
		Clauses: []Clause{
			Merge{Node: NodePattern{Var: "p", Labels: []schemas.NodeLabel{schemas.LabelProject}, Params: map[string]string{schemas.PropProjectID: schemas.PropProjectID}}},
			Merge{Node: NodePattern{Var: "b", Labels: []schemas.NodeLabel{schemas.LabelBranch}, Params: map[string]string{schemas.PropBranchID: schemas.PropBranchID}}},
			Merge{Node: NodePattern{Var: "d", Labels: []schemas.NodeLabel{schemas.LabelOntologyDocument}, Params: map[string]string{schemas.PropOntologyDocumentID: schemas.PropOntologyDocumentID}}},
			MergeRel{From: "p", To: "b", Rel: RelPattern{Label: schemas.EdgeBranch}},
			MergeRel{From: "b", To: "d", Rel: RelPattern{Label: schemas.EdgeOntologyDocument}},
		},
		Params: docCtx.Params(),
	}}, nil
}
