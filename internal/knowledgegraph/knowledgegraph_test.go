// internal/knowledgegraph/knowledgegraph_test.go
package knowledgegraph

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// -- Test Fixture Setup --
// kgTestFixture holds shared resources for the knowledge graph tests.
type kgTestFixture struct {
	Logger *zap.Logger
}

// globalFixture is the single, shared instance for the test suite.
var globalFixture *kgTestFixture

// TestMain sets up and tears down the global test fixture.
func TestMain(m *testing.M) {
	logger, _ := zap.NewDevelopment()
	globalFixture = &kgTestFixture{
		Logger: logger,
	}

	exitCode := m.Run()

	_ = globalFixture.Logger.Sync()
	os.Exit(exitCode)
}

// -- Test Helper Functions --

var (
	docOne = schemas.DocumentContext{ProjectID: "p1", BranchID: "main", DocumentID: "doc-1"}
	docTwo = schemas.DocumentContext{ProjectID: "p1", BranchID: "main", DocumentID: "doc-2"}

	classC = owl.Class{IRI: "http://example.org/C"}
	classD = owl.Class{IRI: "http://example.org/D"}
)

// getTestKG returns an empty graph with the container nodes of docs in place.
func getTestKG(t *testing.T, docs ...schemas.DocumentContext) *KnowledgeGraph {
	t.Helper()
	kg := New(globalFixture.Logger)
	for _, doc := range docs {
		stmts, err := cypher.ContainerStatements(doc)
		require.NoError(t, err)
		require.NoError(t, kg.Run(context.Background(), stmts))
	}
	return kg
}

// statements translates obj in a fresh session and synthesizes its create or
// delete statements.
func statements(t *testing.T, doc schemas.DocumentContext, obj owl.Object, create bool) []cypher.Statement {
	t.Helper()
	session, err := translation.NewSession(doc)
	require.NoError(t, err)
	tr, err := session.Translate(obj)
	require.NoError(t, err)
	synth := cypher.NewSynthesizer(doc, globalFixture.Logger)
	if create {
		stmts, err := synth.Create(tr)
		require.NoError(t, err)
		return stmts
	}
	stmts, err := synth.Delete(tr)
	require.NoError(t, err)
	return stmts
}

func add(t *testing.T, kg *KnowledgeGraph, doc schemas.DocumentContext, objs ...owl.Object) {
	t.Helper()
	for _, obj := range objs {
		require.NoError(t, kg.Run(context.Background(), statements(t, doc, obj, true)))
	}
}

func remove(t *testing.T, kg *KnowledgeGraph, doc schemas.DocumentContext, objs ...owl.Object) {
	t.Helper()
	for _, obj := range objs {
		require.NoError(t, kg.Run(context.Background(), statements(t, doc, obj, false)))
	}
}

func countLabel(t *testing.T, kg *KnowledgeGraph, label schemas.EdgeLabel) int {
	t.Helper()
	n := 0
	for _, e := range kg.Edges() {
		if e.Label == label {
			n++
		}
	}
	return n
}

func findOne(t *testing.T, kg *KnowledgeGraph, label schemas.NodeLabel, props schemas.Properties) schemas.Node {
	t.Helper()
	nodes, err := kg.FindNodes(context.Background(), []schemas.NodeLabel{label}, props)
	require.NoError(t, err)
	require.Len(t, nodes, 1, "expected exactly one %s node", label)
	return nodes[0]
}

// signatureDocs lists the documents whose signature holds the entity with iri.
func signatureDocs(t *testing.T, kg *KnowledgeGraph, iri owl.IRI) []string {
	t.Helper()
	var docs []string
	for _, e := range kg.Edges() {
		if e.Label != schemas.EdgeEntitySignatureOf {
			continue
		}
		if got, _ := e.From.Properties.GetString(schemas.PropIRI); got != string(iri) {
			continue
		}
		id, _ := e.To.Properties.GetString(schemas.PropOntologyDocumentID)
		docs = append(docs, id)
	}
	return docs
}

func iriProps(iri owl.IRI) schemas.Properties {
	return schemas.Props(map[string]any{schemas.PropIRI: string(iri)})
}

// -- Test Cases --

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("should create an empty graph", func(t *testing.T) {
		t.Parallel()
		kg := New(globalFixture.Logger)
		assert.Equal(t, 0, kg.NodeCount())
		assert.Equal(t, 0, kg.EdgeCount())
	})

	t.Run("should not panic if nil logger is provided", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, New(nil))
	})
}

func TestContainers(t *testing.T) {
	t.Parallel()
	kg := getTestKG(t, docOne, docTwo)

	// One project and branch shared by two documents.
	assert.Equal(t, 4, kg.NodeCount())
	assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeBranch))
	assert.Equal(t, 2, countLabel(t, kg, schemas.EdgeOntologyDocument))
}

func TestSubClassOfScenario(t *testing.T) {
	t.Parallel()
	kg := getTestKG(t, docOne)
	add(t, kg, docOne,
		owl.Declaration{Entity: classC},
		owl.Declaration{Entity: classD},
		owl.SubClassOf{SubClass: classC, SuperClass: classD})

	// Container (3), two declarations, two classes, two IRIs, one axiom.
	assert.Equal(t, 10, kg.NodeCount())
	assert.Equal(t, 13, kg.EdgeCount())

	c := findOne(t, kg, "Class", iriProps(classC.IRI))
	d := findOne(t, kg, "Class", iriProps(classD.IRI))
	findOne(t, kg, schemas.LabelIRI, iriProps(classC.IRI))
	findOne(t, kg, schemas.LabelIRI, iriProps(classD.IRI))
	axiom := findOne(t, kg, "SubClassOf", schemas.NoProperties)

	byLabel := make(map[schemas.EdgeLabel]schemas.NodeID)
	for _, e := range kg.Edges() {
		if e.From.ID == axiom.ID {
			byLabel[e.Label] = e.To.ID
		}
	}
	assert.Equal(t, map[schemas.EdgeLabel]schemas.NodeID{
		schemas.EdgeSubClassExpression:   c.ID,
		schemas.EdgeSuperClassExpression: d.ID,
	}, byLabel)
	assert.Equal(t, 2, countLabel(t, kg, schemas.EdgeEntityIRI))
	assert.Equal(t, 2, countLabel(t, kg, schemas.EdgeEntitySignatureOf))
}

func TestIdempotentCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kg := getTestKG(t, docOne)
	objs := []owl.Object{
		owl.Declaration{Entity: classC},
		owl.SubClassOf{SubClass: classC, SuperClass: owl.ObjectSomeValuesFrom{
			Property: owl.ObjectProperty{IRI: "http://example.org/p"},
			Filler:   owl.NewObjectIntersectionOf(classC, classD),
		}},
	}
	add(t, kg, docOne, objs...)
	nodes, edges := kg.NodeCount(), kg.Edges()

	add(t, kg, docOne, objs...)
	containers, err := cypher.ContainerStatements(docOne)
	require.NoError(t, err)
	require.NoError(t, kg.Run(ctx, containers))

	assert.Equal(t, nodes, kg.NodeCount())
	assert.Equal(t, edges, kg.Edges())
}

func TestOwnershipIsolation(t *testing.T) {
	t.Parallel()
	kg := getTestKG(t, docOne)
	add(t, kg, docOne,
		owl.Declaration{Entity: classC},
		owl.Declaration{Entity: classD},
		owl.SubClassOf{SubClass: classC, SuperClass: classD})

	remove(t, kg, docOne, owl.SubClassOf{SubClass: classC, SuperClass: classD})

	assert.Equal(t, 9, kg.NodeCount(), "only the axiom node should be swept")
	assert.Equal(t, 10, kg.EdgeCount())
	assert.Equal(t, 2, countLabel(t, kg, schemas.EdgeEntityIRI))
	findOne(t, kg, "Class", iriProps(classC.IRI))

	t.Run("should remove identity edges with the declaration", func(t *testing.T) {
		remove(t, kg, docOne, owl.Declaration{Entity: classC})
		assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeEntityIRI))
		nodes, err := kg.FindNodes(context.Background(), []schemas.NodeLabel{"Class"}, iriProps(classC.IRI))
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})
}

func TestDeclarationDeleteOwnership(t *testing.T) {
	t.Parallel()

	t.Run("should drop only this document from a shared signature", func(t *testing.T) {
		t.Parallel()
		kg := getTestKG(t, docOne, docTwo)
		add(t, kg, docOne, owl.Declaration{Entity: classC})
		add(t, kg, docTwo, owl.Declaration{Entity: classC})
		require.ElementsMatch(t, []string{"doc-1", "doc-2"}, signatureDocs(t, kg, classC.IRI))

		remove(t, kg, docOne, owl.Declaration{Entity: classC})
		assert.Equal(t, []string{"doc-2"}, signatureDocs(t, kg, classC.IRI))
		assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeEntityIRI), "doc-2 still declares C")
		assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeEntity))
		assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeAxiom))

		remove(t, kg, docTwo, owl.Declaration{Entity: classC})
		assert.Empty(t, signatureDocs(t, kg, classC.IRI))
		assert.Equal(t, 4, kg.NodeCount(), "only the containers should remain")
	})

	t.Run("should leave the signature while the entity is still used", func(t *testing.T) {
		t.Parallel()
		kg := getTestKG(t, docOne)
		sub := owl.SubClassOf{SubClass: classC, SuperClass: classD}
		add(t, kg, docOne, owl.Declaration{Entity: classC}, sub)
		require.Equal(t, []string{"doc-1"}, signatureDocs(t, kg, classC.IRI))

		remove(t, kg, docOne, owl.Declaration{Entity: classC})
		assert.Empty(t, signatureDocs(t, kg, classC.IRI))
		assert.Zero(t, countLabel(t, kg, schemas.EdgeEntityIRI))
		findOne(t, kg, "Class", iriProps(classC.IRI))
		assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeSubClassExpression), "the axiom keeps its structure")
	})

	t.Run("should be a no-op when repeated", func(t *testing.T) {
		t.Parallel()
		kg := getTestKG(t, docOne, docTwo)
		add(t, kg, docOne, owl.Declaration{Entity: classC})
		add(t, kg, docTwo, owl.Declaration{Entity: classC})

		remove(t, kg, docOne, owl.Declaration{Entity: classC})
		nodes, edges := kg.NodeCount(), kg.EdgeCount()
		remove(t, kg, docOne, owl.Declaration{Entity: classC})
		assert.Equal(t, nodes, kg.NodeCount())
		assert.Equal(t, edges, kg.EdgeCount())
		assert.Equal(t, []string{"doc-2"}, signatureDocs(t, kg, classC.IRI))
	})
}

func TestOrphanSweepKeepsSharedStructure(t *testing.T) {
	t.Parallel()
	kg := getTestKG(t, docOne)
	shared := owl.ObjectComplementOf{Operand: classD}
	first := owl.SubClassOf{SubClass: classC, SuperClass: shared}
	second := owl.NewDisjointClasses(owl.Class{IRI: "http://example.org/E"}, shared)
	add(t, kg, docOne, first, second)

	// The complement node is written once and referenced twice.
	complement := findOne(t, kg, "ObjectComplementOf", schemas.NoProperties)
	incoming := 0
	for _, e := range kg.Edges() {
		if e.To.ID == complement.ID {
			incoming++
		}
	}
	assert.Equal(t, 2, incoming)

	remove(t, kg, docOne, first)
	findOne(t, kg, "ObjectComplementOf", schemas.NoProperties)
	findOne(t, kg, "Class", iriProps(classD.IRI))
	nodes, err := kg.FindNodes(context.Background(), []schemas.NodeLabel{"Class"}, iriProps(classC.IRI))
	require.NoError(t, err)
	assert.Empty(t, nodes, "a node referenced by nothing should be swept")

	remove(t, kg, docOne, second)
	assert.Equal(t, 3, kg.NodeCount(), "only the containers should remain")
	assert.Equal(t, 2, kg.EdgeCount())
}

func TestDeleteKeepsOtherDocuments(t *testing.T) {
	t.Parallel()
	kg := getTestKG(t, docOne, docTwo)
	ax := owl.SubClassOf{SubClass: classC, SuperClass: classD}
	add(t, kg, docOne, ax)
	add(t, kg, docTwo, ax)
	assert.Equal(t, 2, countLabel(t, kg, schemas.EdgeAxiom))

	remove(t, kg, docOne, ax)
	assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeAxiom))
	assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeSubClassExpression))
	assert.Equal(t, 1, countLabel(t, kg, schemas.EdgeSuperClassExpression))
}

func TestRunRollsBackFailedStatement(t *testing.T) {
	t.Parallel()
	kg := getTestKG(t)
	stmt := cypher.Statement{Clauses: []cypher.Clause{
		cypher.Merge{Node: cypher.NodePattern{Var: "a", Labels: []schemas.NodeLabel{schemas.LabelIRI}, Props: iriProps("http://example.org/x")}},
		cypher.MergeRel{From: "a", To: "missing", Rel: cypher.RelPattern{Label: schemas.EdgeEntityIRI}},
	}}
	err := kg.Run(context.Background(), []cypher.Statement{stmt})
	require.Error(t, err)
	assert.Equal(t, 0, kg.NodeCount())
}

func TestReadPaths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kg := getTestKG(t, docOne)
	add(t, kg, docOne,
		owl.Declaration{Entity: classC},
		owl.SubClassOf{SubClass: classC, SuperClass: classD},
		owl.SubClassOf{SubClass: classD, SuperClass: owl.Class{IRI: owl.OWLThing}})

	nodesOf := func(paths []schemas.Path) map[schemas.NodeID]schemas.Node {
		out := make(map[schemas.NodeID]schemas.Node)
		for _, p := range paths {
			for _, n := range p.Nodes {
				out[n.ID] = n
			}
		}
		return out
	}

	t.Run("should return every path below matching axioms", func(t *testing.T) {
		paths, err := kg.ReadPaths(ctx, cypher.ReadQuery{Context: docOne, Label: "SubClassOf"})
		require.NoError(t, err)
		// The empty path and one path per child for each axiom, plus the
		// declared class's identity edge below the first one.
		assert.Len(t, paths, 7)
		assert.Len(t, nodesOf(paths), 6)
	})

	t.Run("should never walk into the document", func(t *testing.T) {
		paths, err := kg.ReadPaths(ctx, cypher.ReadQuery{Context: docOne, Label: "Declaration"})
		require.NoError(t, err)
		require.NotEmpty(t, paths)
		for _, n := range nodesOf(paths) {
			assert.False(t, n.Matches(schemas.LabelOntologyDocument))
		}
	})

	t.Run("should filter by a direct anchor", func(t *testing.T) {
		q := cypher.ReadQuery{
			Context: docOne,
			Label:   "SubClassOf",
			Anchor:  &cypher.Anchor{Edge: schemas.EdgeSubClassExpression, Labels: []schemas.NodeLabel{"Class"}, Props: iriProps(classD.IRI)},
		}
		paths, err := kg.ReadPaths(ctx, q)
		require.NoError(t, err)
		assert.Len(t, paths, 3)
		assert.Contains(t, nodesOf(paths), findOne(t, kg, "Class", iriProps(owl.OWLThing)).ID)
	})

	t.Run("should filter by a bounded chain", func(t *testing.T) {
		q := cypher.ReadQuery{Context: docOne, Anchor: &cypher.Anchor{MaxHops: 2, Props: iriProps(owl.OWLThing)}}
		paths, err := kg.ReadPaths(ctx, q)
		require.NoError(t, err)
		assert.Len(t, paths, 3)
	})

	t.Run("should bound path depth", func(t *testing.T) {
		paths, err := kg.ReadPaths(ctx, cypher.ReadQuery{Context: docOne, Label: "Declaration", Depth: 1})
		require.NoError(t, err)
		for _, p := range paths {
			assert.LessOrEqual(t, len(p.Edges), 1)
		}
	})

	t.Run("should reload below a node", func(t *testing.T) {
		c := findOne(t, kg, "Class", iriProps(classC.IRI))
		paths, err := kg.Reload(ctx, c.ID, 1)
		require.NoError(t, err)
		// The empty path plus ENTITY_IRI; the signature edge leads into the document.
		assert.Len(t, paths, 2)
	})

	t.Run("should report unknown nodes", func(t *testing.T) {
		_, err := kg.Reload(ctx, "missing", 1)
		assert.ErrorIs(t, err, schemas.ErrNotFound)
	})
}
