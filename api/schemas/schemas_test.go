package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
)

// -- Test Helpers --

func literalNode(t *testing.T, id schemas.NodeID) schemas.Node {
	t.Helper()
	n, err := schemas.NewNode(id, []schemas.NodeLabel{schemas.LabelLiteral}, schemas.Props(map[string]any{
		schemas.PropLexicalForm: "Margherita",
		schemas.PropLanguage:    "en",
		schemas.PropDigest:      "abc",
	}))
	require.NoError(t, err)
	return n
}

// -- Test Cases --

func TestNewNode(t *testing.T) {
	t.Run("should enforce the label schema", func(t *testing.T) {
		_, err := schemas.NewNode("n0", []schemas.NodeLabel{schemas.LabelLiteral}, schemas.Props(map[string]any{
			schemas.PropLexicalForm: "x",
			schemas.PropLanguage:    "",
		}))
		assert.ErrorContains(t, err, `missing required property "digest"`)

		_, err = schemas.NewNode("n0", []schemas.NodeLabel{"ObjectMinCardinality", schemas.LabelClassExpression},
			schemas.Props(map[string]any{schemas.PropDigest: "d"}))
		assert.ErrorContains(t, err, "cardinality")
	})

	t.Run("should reject an empty id or label set", func(t *testing.T) {
		_, err := schemas.NewNode("", []schemas.NodeLabel{schemas.LabelIRI}, schemas.NoProperties)
		assert.Error(t, err)
		_, err = schemas.NewNode("n0", nil, schemas.NoProperties)
		assert.Error(t, err)
	})

	t.Run("should accept labels without required properties", func(t *testing.T) {
		n, err := schemas.NewNode("n0", []schemas.NodeLabel{"ObjectIntersectionOf", schemas.LabelClassExpression}, schemas.NoProperties)
		require.NoError(t, err)
		assert.Equal(t, schemas.NodeLabel("ObjectIntersectionOf"), n.MainLabel())
		assert.True(t, n.Matches(schemas.LabelClassExpression))
		assert.False(t, n.Matches(schemas.LabelAxiom))
	})

	t.Run("should copy the label slice", func(t *testing.T) {
		labels := []schemas.NodeLabel{"Class", schemas.LabelEntity}
		n := schemas.MustNode("n0", labels, schemas.Props(map[string]any{schemas.PropIRI: "http://example.org/A"}))
		labels[0] = "Datatype"
		assert.Equal(t, schemas.NodeLabel("Class"), n.MainLabel())
	})

	t.Run("should panic through MustNode", func(t *testing.T) {
		assert.Panics(t, func() {
			schemas.MustNode("n0", []schemas.NodeLabel{schemas.LabelIRI}, schemas.NoProperties)
		})
	})
}

func TestNodeIdentity(t *testing.T) {
	a := literalNode(t, "n1")
	b := literalNode(t, "n1")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(literalNode(t, "n2")))

	reordered := schemas.MustNode("n0", []schemas.NodeLabel{schemas.LabelEntity, "Class"},
		schemas.Props(map[string]any{schemas.PropIRI: "http://example.org/A"}))
	ordered := schemas.MustNode("n0", []schemas.NodeLabel{"Class", schemas.LabelEntity},
		schemas.Props(map[string]any{schemas.PropIRI: "http://example.org/A"}))
	assert.True(t, ordered.Equal(reordered), "label order does not affect equality")
	assert.NotEqual(t, ordered.Signature(), reordered.Signature(), "signatures keep declared label order")

	assert.Equal(t, `:Class:Entity {iri: "http://example.org/A"}`, ordered.Signature())
	assert.Equal(t, `(n0:Class:Entity {iri: "http://example.org/A"})`, ordered.String())
}

func TestProperties(t *testing.T) {
	t.Run("should normalize integers", func(t *testing.T) {
		p, err := schemas.NewProperties(map[string]any{"cardinality": 2, "small": int8(3), "ratio": float32(0.5)})
		require.NoError(t, err)
		v, _ := p.Get("cardinality")
		assert.IsType(t, int64(0), v)
		n, ok := p.GetInt("small")
		assert.True(t, ok)
		assert.Equal(t, int64(3), n)
		r, _ := p.Get("ratio")
		assert.Equal(t, 0.5, r)
	})

	t.Run("should reject non-scalar values and empty keys", func(t *testing.T) {
		_, err := schemas.NewProperties(map[string]any{"list": []string{"a"}})
		assert.ErrorContains(t, err, `property "list"`)
		_, err = schemas.NewProperties(map[string]any{"": "x"})
		assert.Error(t, err)
		assert.Panics(t, func() { schemas.Props(map[string]any{"m": map[string]any{}}) })
	})

	t.Run("should compare integers and floats by value", func(t *testing.T) {
		stored := schemas.Props(map[string]any{"cardinality": 2.0, "digest": "d"})
		query := schemas.Props(map[string]any{"cardinality": 2})
		assert.True(t, stored.Contains(query))
		assert.False(t, stored.Equal(query))
		assert.True(t, stored.Equal(schemas.Props(map[string]any{"cardinality": int64(2), "digest": "d"})))
		assert.False(t, stored.Contains(schemas.Props(map[string]any{"cardinality": 2.5})))
		assert.True(t, stored.Contains(schemas.NoProperties))
	})

	t.Run("should read integral floats as ints", func(t *testing.T) {
		p := schemas.Props(map[string]any{"a": 4.0, "b": 4.5, "c": "4"})
		n, ok := p.GetInt("a")
		assert.True(t, ok)
		assert.Equal(t, int64(4), n)
		_, ok = p.GetInt("b")
		assert.False(t, ok)
		_, ok = p.GetInt("c")
		assert.False(t, ok)
		_, ok = p.GetString("a")
		assert.False(t, ok)
	})

	t.Run("should be immutable", func(t *testing.T) {
		p := schemas.Props(map[string]any{"a": "x"})
		q, err := p.With("b", true)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Len())
		assert.Equal(t, []string{"a", "b"}, q.Keys())

		m := p.Map()
		m["a"] = "changed"
		s, _ := p.GetString("a")
		assert.Equal(t, "x", s)
	})

	t.Run("should print a sorted cypher map", func(t *testing.T) {
		p := schemas.Props(map[string]any{"z": true, "iri": "http://example.org/A", "n": 3, "f": 3.0})
		assert.Equal(t, `{f: 3.0, iri: "http://example.org/A", n: 3, z: true}`, p.Print())
		assert.Equal(t, "{}", schemas.NoProperties.Print())
	})

	t.Run("should marshal as a plain object", func(t *testing.T) {
		data, err := json.Marshal(schemas.Props(map[string]any{"iri": "x"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"iri": "x"}`, string(data))

		data, err = json.Marshal(schemas.NoProperties)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain string", "abc", `"abc"`},
		{"quotes and backslashes", `say "hi" \ bye`, `"say \"hi\" \\ bye"`},
		{"line breaks", "a\nb\r\tc", `"a\nb\r\tc"`},
		{"control characters", "a\x01b", `"a\u0001b"`},
		{"unicode", "café", `"café"`},
		{"integer", int64(-7), "-7"},
		{"integral float", 2.0, "2.0"},
		{"fractional float", 2.5, "2.5"},
		{"exponent float", 1e21, "1e+21"},
		{"true", true, "true"},
		{"false", false, "false"},
	}
	for _, tt := range tests {
		t.Run("should render "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schemas.Literal(tt.in))
		})
	}
}

func TestEdge(t *testing.T) {
	entity := schemas.MustNode("n0", []schemas.NodeLabel{"Class", schemas.LabelEntity},
		schemas.Props(map[string]any{schemas.PropIRI: "http://example.org/A"}))
	iri := schemas.MustNode("n1", []schemas.NodeLabel{schemas.LabelIRI},
		schemas.Props(map[string]any{schemas.PropIRI: "http://example.org/A"}))

	t.Run("should classify ownership edges", func(t *testing.T) {
		e, err := schemas.NewEdge(entity, iri, schemas.EdgeEntityIRI, schemas.Props(map[string]any{schemas.PropStructuralSpec: true}))
		require.NoError(t, err)
		assert.True(t, e.IsOwnership())
		assert.Equal(t, "n0-[ENTITY_IRI {structuralSpec: true}]->n1", e.Key())

		for _, label := range []schemas.EdgeLabel{schemas.EdgeEntitySignatureOf, schemas.EdgeOntologyID} {
			assert.True(t, schemas.IsOwnershipEdge(label), label)
		}
		for _, label := range []schemas.EdgeLabel{schemas.EdgeEntity, schemas.EdgeAxiom, schemas.EdgeSubClassExpression} {
			assert.False(t, schemas.IsOwnershipEdge(label), label)
		}
	})

	t.Run("should require endpoints and a label", func(t *testing.T) {
		_, err := schemas.NewEdge(schemas.Node{}, iri, schemas.EdgeEntityIRI, schemas.NoProperties)
		assert.Error(t, err)
		_, err = schemas.NewEdge(entity, iri, "", schemas.NoProperties)
		assert.Error(t, err)
	})
}

func TestVocabulary(t *testing.T) {
	assert.Equal(t, []string{schemas.PropLexicalForm, schemas.PropLanguage, schemas.PropDigest},
		schemas.RequiredProperties(schemas.LabelLiteral))
	assert.Equal(t, []string{schemas.PropOntologyIRI, schemas.PropVersionIRI},
		schemas.RequiredProperties(schemas.LabelOntologyID))
	assert.Empty(t, schemas.RequiredProperties("ObjectUnionOf"))

	assert.True(t, schemas.IsCategoryLabel(schemas.LabelAxiom))
	assert.True(t, schemas.IsCategoryLabel(schemas.LabelDataRange))
	assert.False(t, schemas.IsCategoryLabel("SubClassOf"))
	assert.False(t, schemas.IsCategoryLabel(schemas.LabelLiteral))
}

func TestDocumentContext(t *testing.T) {
	ctx := schemas.DocumentContext{ProjectID: "p", BranchID: "b", DocumentID: "d"}
	require.NoError(t, ctx.Validate())
	assert.Equal(t, map[string]any{
		"projectId":          "p",
		"branchId":           "b",
		"ontologyDocumentId": "d",
	}, ctx.Params())
	assert.Equal(t, "project=p branch=b document=d", ctx.String())
	id, ok := ctx.DocumentProperties().GetString(schemas.PropOntologyDocumentID)
	assert.True(t, ok)
	assert.Equal(t, "d", id)

	for _, bad := range []schemas.DocumentContext{
		{BranchID: "b", DocumentID: "d"},
		{ProjectID: "p", DocumentID: "d"},
		{ProjectID: "p", BranchID: "b"},
	} {
		assert.Error(t, bad.Validate(), bad.String())
	}
}
