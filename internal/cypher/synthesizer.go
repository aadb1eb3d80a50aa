package cypher

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// VariableNames is a statement variable counter. It is local to one
// synthesis pass.
type VariableNames struct {
	prefix string
	next   int
}

// NewVariableNames returns a counter producing prefix0, prefix1, ...
func NewVariableNames(prefix string) *VariableNames {
	return &VariableNames{prefix: prefix}
}

// Next returns a fresh variable name.
func (v *VariableNames) Next() string {
	name := v.prefix + strconv.Itoa(v.next)
	v.next++
	return name
}

// Synthesizer turns translations into idempotent create and delete statements
// scoped to one document.
type Synthesizer struct {
	docCtx schemas.DocumentContext
	logger *zap.Logger
}

// NewSynthesizer returns a synthesizer for docCtx.
func NewSynthesizer(docCtx schemas.DocumentContext, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{docCtx: docCtx, logger: logger.Named("synthesizer")}
}

// ownershipFilter keeps every edge of a declaration style translation and drops
// ownership edges otherwise.
func ownershipFilter(t *translation.Translation) func(schemas.Edge) bool {
	declaration := t.IsDeclaration()
	return func(e schemas.Edge) bool {
		return declaration || !e.IsOwnership()
	}
}

// linkLabel picks the container edge a translation hangs from.
func linkLabel(t *translation.Translation) (schemas.EdgeLabel, error) {
	switch t.Object.(type) {
	case owl.Ontology:
		return schemas.EdgeOntology, nil
	case owl.Axiom:
		return schemas.EdgeAxiom, nil
	}
	return "", fmt.Errorf("%w: only axioms and ontology headers can be linked into a document, got %v", schemas.ErrSynthesis, t.Object)
}

func (s *Synthesizer) check(t *translation.Translation) (schemas.EdgeLabel, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if err := s.docCtx.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", schemas.ErrSynthesis, err)
	}
	return linkLabel(t)
}

func linkProps() schemas.Properties {
	return schemas.Props(map[string]any{schemas.PropStructuralSpec: true})
}

func pattern(v string, n schemas.Node) NodePattern {
	return NodePattern{Var: v, Labels: n.Labels, Props: n.Properties}
}

// Create returns the upsert statements for t: one statement merging every node
// and edge, then one statement linking the main node into the document.
func (s *Synthesizer) Create(t *translation.Translation) ([]Statement, error) {
	link, err := s.check(t)
	if err != nil {
		return nil, err
	}

	vars := NewVariableNames("n")
	declared := make(map[schemas.NodeID]string)
	var clauses []Clause
	nodeVar := func(n schemas.Node) string {
		if v, ok := declared[n.ID]; ok {
			return v
		}
		v := vars.Next()
		declared[n.ID] = v
		clauses = append(clauses, Merge{Node: pattern(v, n)})
		return v
	}

	mainVar := nodeVar(t.MainNode)
	edges := t.TopologicalEdges(ownershipFilter(t))
	for _, e := range edges {
		from := nodeVar(e.From)
		to := nodeVar(e.To)
		clauses = append(clauses, MergeRel{From: from, To: to, Rel: RelPattern{Label: e.Label, Props: e.Properties}})
	}

	linkStmt := Statement{
		Clauses: []Clause{
			containerMatch("o"),
			Match{Nodes: []NodePattern{pattern(mainVar, t.MainNode)}},
			MergeRel{From: "o", To: mainVar, Rel: RelPattern{Label: link, Props: linkProps()}},
		},
		Params: s.docCtx.Params(),
	}

	s.logger.Debug("Synthesized create statements",
		zap.String("kind", string(t.Object.Kind())),
		zap.Int("nodes", len(declared)),
		zap.Int("edges", len(edges)))
	return []Statement{{Clauses: clauses}, linkStmt}, nil
}

// Delete returns the statements removing t from the document: the container
// link first, then each structural edge parent-before-child, then the
// ownership edges of a declaration, then the orphan sweep. A structural edge
// is only removed while its source node has no remaining incoming
// relationship, so structure still referenced elsewhere survives.
func (s *Synthesizer) Delete(t *translation.Translation) ([]Statement, error) {
	link, err := s.check(t)
	if err != nil {
		return nil, err
	}

	rels := NewVariableNames("r")
	nodes := NewVariableNames("n")

	unlink := rels.Next()
	mainVar := nodes.Next()
	container := containerMatch("o")
	container.Nodes = append(container.Nodes, pattern(mainVar, t.MainNode))
	container.Rels = append(container.Rels, RelPattern{Var: unlink, Label: link, Props: linkProps()})
	stmts := []Statement{{
		Clauses: []Clause{container, Delete{Var: unlink}},
		Params:  s.docCtx.Params(),
	}}

	edges := t.TopologicalEdges(func(e schemas.Edge) bool { return !e.IsOwnership() })
	for _, e := range edges {
		r := rels.Next()
		from, to := nodes.Next(), nodes.Next()
		stmts = append(stmts, Statement{Clauses: []Clause{
			Match{
				Nodes: []NodePattern{pattern(from, e.From), pattern(to, e.To)},
				Rels:  []RelPattern{{Var: r, Label: e.Label, Props: e.Properties}},
			},
			WhereNoIncoming{Var: from},
			Delete{Var: r},
		}})
	}

	var owned []schemas.Edge
	if t.IsDeclaration() {
		owned = t.TopologicalEdges(schemas.Edge.IsOwnership)
		// Signature edges go first so the IRI guard sees only other documents.
		sort.SliceStable(owned, func(i, j int) bool {
			return owned[i].Label == schemas.EdgeEntitySignatureOf && owned[j].Label != schemas.EdgeEntitySignatureOf
		})
	}
	_, declaration := t.Object.(owl.Declaration)
	for _, e := range owned {
		stmts = append(stmts, s.deleteOwnership(e, declaration, rels.Next(), nodes))
	}
	stmts = append(stmts, Statement{Clauses: []Clause{SweepOrphans{}}})

	s.logger.Debug("Synthesized delete statements",
		zap.String("kind", string(t.Object.Kind())),
		zap.Int("edges", len(edges)),
		zap.Int("ownership_edges", len(owned)))
	return stmts, nil
}

// deleteOwnership removes one ownership edge. The signature edge belongs to
// this document alone and goes unconditionally. A declared entity keeps its
// IRI edge while any document still has it in its signature. Ontology header
// edges stay while another document still links the header.
func (s *Synthesizer) deleteOwnership(e schemas.Edge, declaration bool, r string, nodes *VariableNames) Statement {
	from := nodes.Next()
	if e.Label == schemas.EdgeEntitySignatureOf {
		return Statement{
			Clauses: []Clause{
				containerMatch("o"),
				Match{
					Nodes: []NodePattern{pattern(from, e.From), {Var: "o"}},
					Rels:  []RelPattern{{Var: r, Label: e.Label, Props: e.Properties}},
				},
				Delete{Var: r},
			},
			Params: s.docCtx.Params(),
		}
	}

	to := nodes.Next()
	var guard Clause = WhereNoIncoming{Var: from}
	if declaration && e.Label == schemas.EdgeEntityIRI {
		guard = WhereNoOutgoing{Var: from, Label: schemas.EdgeEntitySignatureOf}
	}
	return Statement{Clauses: []Clause{
		Match{
			Nodes: []NodePattern{pattern(from, e.From), pattern(to, e.To)},
			Rels:  []RelPattern{{Var: r, Label: e.Label, Props: e.Properties}},
		},
		guard,
		Delete{Var: r},
	}}
}
