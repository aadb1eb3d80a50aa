package translation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

var (
	docCtx = schemas.DocumentContext{ProjectID: "p1", BranchID: "main", DocumentID: "pizza"}

	classA     = owl.Class{IRI: "http://example.org/A"}
	classB     = owl.Class{IRI: "http://example.org/B"}
	hasTopping = owl.ObjectProperty{IRI: "http://example.org/hasTopping"}
)

// bogus is an object outside the model's kinds.
type bogus struct{}

func (bogus) Kind() owl.Kind { return "Bogus" }
func (bogus) String() string { return "Bogus()" }

func newSession(t *testing.T, ctx schemas.DocumentContext) *translation.Session {
	t.Helper()
	s, err := translation.NewSession(ctx,
		translation.WithIDSource(translation.NewSequentialSource("t")),
		translation.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s
}

func edgeLabels(edges []schemas.Edge) []schemas.EdgeLabel {
	out := make([]schemas.EdgeLabel, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Label)
	}
	return out
}

func TestCheckRules(t *testing.T) {
	require.NoError(t, translation.CheckRules())
}

func TestTranslateSharesIdentity(t *testing.T) {
	s := newSession(t, docCtx)
	ax := owl.SubClassOf{SubClass: classA, SuperClass: owl.ObjectSomeValuesFrom{Property: hasTopping, Filler: classA}}

	tr, err := s.Translate(ax)
	require.NoError(t, err)
	require.NoError(t, tr.Validate())

	t.Run("should map equal sub-objects to one node", func(t *testing.T) {
		assert.Len(t, tr.Nodes(), 6)
		assert.Len(t, tr.AllEdges(), 6)

		var classNodes int
		for _, n := range tr.Nodes() {
			if n.MainLabel() == "Class" {
				classNodes++
			}
		}
		assert.Equal(t, 1, classNodes)
	})

	t.Run("should return the cached translation", func(t *testing.T) {
		again, err := s.Translate(owl.SubClassOf{SubClass: classA, SuperClass: owl.ObjectSomeValuesFrom{Property: hasTopping, Filler: classA}})
		require.NoError(t, err)
		assert.Same(t, tr, again)
		assert.Equal(t, s.IdentityFor(classA), tr.Children[0].MainNode.ID)
	})

	t.Run("should label the main node with its kind and category", func(t *testing.T) {
		assert.Equal(t, []schemas.NodeLabel{"SubClassOf", schemas.LabelAxiom}, tr.MainNode.Labels)
		assert.Equal(t, schemas.NodeID("t-0"), tr.MainNode.ID)
		digest, ok := tr.MainNode.Properties.GetString(schemas.PropDigest)
		require.True(t, ok)
		assert.Equal(t, translation.Digest(ax), digest)
		assert.Len(t, digest, 64)
	})

	t.Run("should order edges parents first", func(t *testing.T) {
		edges := tr.TopologicalEdges(nil)
		require.Len(t, edges, 6)
		position := make(map[schemas.NodeID]int)
		for i, e := range edges {
			if _, ok := position[e.To.ID]; !ok {
				position[e.To.ID] = i
			}
		}
		for i, e := range edges {
			if first, ok := position[e.From.ID]; ok {
				assert.Less(t, first, i, "edge %s follows an edge into its source", e)
			}
		}

		structural := tr.TopologicalEdges(func(e schemas.Edge) bool { return !e.IsOwnership() })
		assert.Len(t, structural, 4)
	})
}

func TestDeclarations(t *testing.T) {
	t.Run("should attach the entity to the document signature", func(t *testing.T) {
		s := newSession(t, docCtx)
		tr, err := s.Translate(owl.Declaration{Entity: classA})
		require.NoError(t, err)
		assert.True(t, tr.IsDeclaration())
		assert.ElementsMatch(t,
			[]schemas.EdgeLabel{schemas.EdgeEntity, schemas.EdgeEntityIRI, schemas.EdgeEntitySignatureOf},
			edgeLabels(tr.AllEdges()))

		var doc schemas.Node
		for _, n := range tr.Nodes() {
			if n.Matches(schemas.LabelOntologyDocument) {
				doc = n
			}
		}
		id, _ := doc.Properties.GetString(schemas.PropOntologyDocumentID)
		assert.Equal(t, "pizza", id)
	})

	t.Run("should keep signature edges out of other axioms", func(t *testing.T) {
		s := newSession(t, docCtx)
		tr, err := s.Translate(owl.SubClassOf{SubClass: classA, SuperClass: classB})
		require.NoError(t, err)
		assert.False(t, tr.IsDeclaration())
		assert.NotContains(t, edgeLabels(tr.AllEdges()), schemas.EdgeEntitySignatureOf)
	})

	t.Run("should need a document", func(t *testing.T) {
		s := newSession(t, schemas.DocumentContext{ProjectID: "p1", BranchID: "main"})
		_, err := s.Translate(owl.Declaration{Entity: classA})
		assert.ErrorIs(t, err, schemas.ErrEncoding)
	})
}

func TestTranslateOntology(t *testing.T) {
	s := newSession(t, docCtx)
	comment := owl.Annotation{Property: owl.AnnotationProperty{IRI: owl.RDFSComment}, Value: owl.StringLiteral("fixture")}
	ont := owl.Ontology{
		ID:          owl.OntologyID{OntologyIRI: "http://example.org/onto"},
		Annotations: []owl.Annotation{comment},
		Axioms: []owl.Axiom{
			owl.Declaration{Entity: classA},
			owl.SubClassOf{SubClass: classA, SuperClass: classB},
		},
	}

	out, err := s.TranslateOntology(ont)
	require.NoError(t, err)
	require.Len(t, out.Axioms, 2)
	assert.True(t, out.Header.IsDeclaration())
	assert.ElementsMatch(t,
		[]schemas.EdgeLabel{schemas.EdgeOntologyID, schemas.EdgeOntologyAnnotation},
		edgeLabels(out.Header.Edges))

	t.Run("should share nodes across axioms", func(t *testing.T) {
		declared := out.Axioms[0].Children[0].MainNode
		sub := out.Axioms[1].Children[0].MainNode
		assert.Equal(t, declared.ID, sub.ID)
	})

	t.Run("should wrap axiom failures", func(t *testing.T) {
		bad := ont
		bad.Axioms = []owl.Axiom{owl.SubClassOf{SubClass: classA}}
		_, err := newSession(t, docCtx).TranslateOntology(bad)
		assert.ErrorIs(t, err, schemas.ErrEncoding)
		assert.ErrorContains(t, err, "failed to translate axiom SubClassOf")
	})
}

func TestEncodingErrors(t *testing.T) {
	tests := []struct {
		name string
		obj  owl.Object
		want string
	}{
		{"nil object", nil, "nil object"},
		{"incomplete object", owl.ObjectSomeValuesFrom{Property: hasTopping}, "incomplete ObjectSomeValuesFrom"},
		{"unknown kind", bogus{}, "no translation rule for Bogus"},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := newSession(t, docCtx).Translate(tt.obj)
			assert.ErrorIs(t, err, schemas.ErrEncoding)
			assert.ErrorContains(t, err, tt.want)
			assert.NotErrorIs(t, err, schemas.ErrCycle)
		})
	}
}

func TestCycles(t *testing.T) {
	t.Run("should fail fast on a self-containing expression", func(t *testing.T) {
		x := owl.ObjectIntersectionOf{Operands: make([]owl.ClassExpression, 1)}
		x.Operands[0] = x

		_, err := newSession(t, docCtx).Translate(x)
		assert.ErrorIs(t, err, schemas.ErrCycle)
		assert.ErrorIs(t, err, schemas.ErrEncoding, "a cycle is an encoding error")
		assert.ErrorContains(t, err, "ObjectIntersectionOf contains itself")
	})

	t.Run("should find a cycle below an axiom", func(t *testing.T) {
		ops := make([]owl.ClassExpression, 2)
		ops[0] = classB
		ops[1] = owl.ObjectComplementOf{Operand: owl.ObjectUnionOf{Operands: ops}}
		ax := owl.SubClassOf{SubClass: classA, SuperClass: owl.ObjectUnionOf{Operands: ops}}

		s := newSession(t, docCtx)
		_, err := s.Translate(ax)
		assert.ErrorIs(t, err, schemas.ErrCycle)

		t.Run("and keep the session usable", func(t *testing.T) {
			tr, err := s.Translate(owl.SubClassOf{SubClass: classA, SuperClass: classB})
			require.NoError(t, err)
			assert.NoError(t, tr.Validate())
		})
	})

	t.Run("should accept shared operand slices", func(t *testing.T) {
		ops := []owl.ClassExpression{classA, classB}
		ax := owl.EquivalentClasses{Classes: []owl.ClassExpression{
			owl.ObjectIntersectionOf{Operands: ops},
			owl.ObjectUnionOf{Operands: ops},
		}}
		_, err := newSession(t, docCtx).Translate(ax)
		assert.NoError(t, err)
	})
}

func TestNodeProperties(t *testing.T) {
	t.Run("should key literals by form, language and digest", func(t *testing.T) {
		lit := owl.LangLiteral("Margherita", "it")
		p := translation.PropertiesFor(lit)
		assert.Equal(t, []string{schemas.PropDigest, schemas.PropLanguage, schemas.PropLexicalForm}, p.Keys())
		lang, _ := p.GetString(schemas.PropLanguage)
		assert.Equal(t, "it", lang)
	})

	t.Run("should carry cardinalities", func(t *testing.T) {
		p := translation.PropertiesFor(owl.ObjectExactCardinality{Cardinality: 3, Property: hasTopping, Filler: classB})
		n, ok := p.GetInt(schemas.PropCardinality)
		require.True(t, ok)
		assert.Equal(t, int64(3), n)
	})

	t.Run("should key entities by iri only", func(t *testing.T) {
		p := translation.PropertiesFor(classA)
		assert.Equal(t, []string{schemas.PropIRI}, p.Keys())
		p = translation.PropertiesFor(owl.OntologyID{OntologyIRI: "http://example.org/onto"})
		v, _ := p.GetString(schemas.PropVersionIRI)
		assert.Empty(t, v)
	})

	t.Run("should resolve kinds from labels", func(t *testing.T) {
		for _, k := range owl.Kinds() {
			n := schemas.Node{ID: "n0", Labels: translation.LabelsFor(k)}
			got, ok := translation.KindOf(n)
			require.True(t, ok, k)
			assert.Equal(t, k, got)
		}
		_, ok := translation.KindOf(schemas.Node{ID: "n0", Labels: []schemas.NodeLabel{schemas.LabelAxiom}})
		assert.False(t, ok)

		label, ok := translation.CategoryLabel(owl.KindAnyIndividual)
		assert.True(t, ok)
		assert.Equal(t, schemas.LabelIndividual, label)
	})
}

func TestIDSources(t *testing.T) {
	seq := translation.NewSequentialSource("")
	assert.Equal(t, schemas.NodeID("n-0"), seq.NextID())
	assert.Equal(t, schemas.NodeID("n-1"), seq.NextID())

	m := translation.NewNodeIDMapper(nil)
	a := m.IdentityFor(classA)
	assert.NotEmpty(t, a)
	assert.Equal(t, a, m.IdentityFor(owl.Class{IRI: classA.IRI}))
	assert.NotEqual(t, a, m.IdentityFor(owl.Datatype{IRI: classA.IRI}))
	assert.Equal(t, 2, m.Len())
}

func TestValidate(t *testing.T) {
	a := schemas.MustNode("a", []schemas.NodeLabel{"Class", schemas.LabelEntity}, schemas.Props(map[string]any{schemas.PropIRI: "x"}))
	outside := schemas.MustNode("z", []schemas.NodeLabel{schemas.LabelIRI}, schemas.Props(map[string]any{schemas.PropIRI: "x"}))
	edge, err := schemas.NewEdge(a, outside, schemas.EdgeEntityIRI, schemas.NoProperties)
	require.NoError(t, err)

	tr := &translation.Translation{Object: classA, MainNode: a, Edges: []schemas.Edge{edge}}
	assert.ErrorIs(t, tr.Validate(), schemas.ErrSynthesis)

	var missing *translation.Translation
	assert.ErrorIs(t, missing.Validate(), schemas.ErrSynthesis)

	empty := &translation.Translation{Object: classA}
	assert.ErrorIs(t, empty.Validate(), schemas.ErrSynthesis)
}
