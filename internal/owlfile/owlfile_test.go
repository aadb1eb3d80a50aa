package owlfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

const pizzaDoc = `
prefixes:
  ex: http://example.org/pizza#
ontology:
  iri: ex:onto
  version: http://example.org/pizza/1.0
annotations:
  - property: rdfs:comment
    value: {value: Pizzas, lang: en}
axioms:
  - Declaration: {Class: ex:Pizza}
  - SubClassOf: [ex:Margherita, ex:Pizza]
  - SubClassOf:
      - ex:Pizza
      - {ObjectSomeValuesFrom: [ex:hasTopping, {ObjectUnionOf: [ex:Cheese, ex:Tomato]}]}
  - EquivalentClasses:
      - ex:Vegetarian
      - {ObjectAllValuesFrom: [{ObjectInverseOf: ex:toppingOf}, {ObjectComplementOf: ex:Meat}]}
  - SubClassOf: [ex:Pizza, {ObjectMinCardinality: [1, ex:hasBase]}]
  - DataPropertyRange: [ex:price, {DataIntersectionOf: [xsd:decimal, {DataOneOf: [{value: "9.5", datatype: xsd:decimal}]}]}]
  - ClassAssertion: [ex:Margherita, ex:myPizza]
  - ObjectPropertyAssertion: [ex:hasTopping, ex:myPizza, "_:t1"]
  - DataPropertyAssertion: [ex:price, ex:myPizza, {value: "9.5", datatype: xsd:decimal}]
  - AnnotationAssertion: [rdfs:label, ex:Pizza, {value: Pizza, lang: it}]
    annotations:
      - property: rdfs:comment
        value: {IRI: ex:source}
`

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("should load a complete document", func(t *testing.T) {
		t.Parallel()
		ont, err := Load(strings.NewReader(pizzaDoc))
		require.NoError(t, err)

		ex := func(local string) owl.IRI { return owl.IRI("http://example.org/pizza#" + local) }
		pizza := owl.Class{IRI: ex("Pizza")}
		decimal := owl.NewLiteral("9.5", owl.XSDDecimal)
		want := owl.Ontology{
			ID: owl.OntologyID{OntologyIRI: ex("onto"), VersionIRI: "http://example.org/pizza/1.0"},
			Annotations: []owl.Annotation{
				{Property: owl.AnnotationProperty{IRI: owl.RDFSComment}, Value: owl.LangLiteral("Pizzas", "en")},
			},
			Axioms: []owl.Axiom{
				owl.Declaration{Entity: pizza},
				owl.SubClassOf{SubClass: owl.Class{IRI: ex("Margherita")}, SuperClass: pizza},
				owl.SubClassOf{SubClass: pizza, SuperClass: owl.ObjectSomeValuesFrom{
					Property: owl.ObjectProperty{IRI: ex("hasTopping")},
					Filler:   owl.NewObjectUnionOf(owl.Class{IRI: ex("Cheese")}, owl.Class{IRI: ex("Tomato")}),
				}},
				owl.NewEquivalentClasses(owl.Class{IRI: ex("Vegetarian")}, owl.ObjectAllValuesFrom{
					Property: owl.ObjectInverseOf{Property: owl.ObjectProperty{IRI: ex("toppingOf")}},
					Filler:   owl.ObjectComplementOf{Operand: owl.Class{IRI: ex("Meat")}},
				}),
				owl.SubClassOf{SubClass: pizza, SuperClass: owl.ObjectMinCardinality{
					Cardinality: 1, Property: owl.ObjectProperty{IRI: ex("hasBase")}, Filler: owl.Class{IRI: owl.OWLThing},
				}},
				owl.DataPropertyRange{Property: owl.DataProperty{IRI: ex("price")}, Range: owl.NewDataIntersectionOf(
					owl.Datatype{IRI: owl.XSDDecimal}, owl.NewDataOneOf(decimal),
				)},
				owl.ClassAssertion{Class: owl.Class{IRI: ex("Margherita")}, Individual: owl.NamedIndividual{IRI: ex("myPizza")}},
				owl.ObjectPropertyAssertion{
					Property: owl.ObjectProperty{IRI: ex("hasTopping")},
					Subject:  owl.NamedIndividual{IRI: ex("myPizza")},
					Object:   owl.AnonymousIndividual{NodeID: "t1"},
				},
				owl.DataPropertyAssertion{Property: owl.DataProperty{IRI: ex("price")}, Subject: owl.NamedIndividual{IRI: ex("myPizza")}, Object: decimal},
				owl.AnnotationAssertion{
					Property: owl.AnnotationProperty{IRI: owl.RDFSLabel},
					Subject:  pizza.IRI,
					Value:    owl.LangLiteral("Pizza", "it"),
					Annotations: []owl.Annotation{
						{Property: owl.AnnotationProperty{IRI: owl.RDFSComment}, Value: ex("source")},
					},
				},
			},
		}

		assert.Equal(t, want.String(), ont.String())
		require.Len(t, ont.Axioms, len(want.Axioms))
		for i := range want.Axioms {
			if diff := cmp.Diff(want.Axioms[i].String(), ont.Axioms[i].String()); diff != "" {
				t.Errorf("axiom %d mismatch (-want +got):\n%s", i, diff)
			}
		}
	})

	t.Run("should accept a document without axioms", func(t *testing.T) {
		t.Parallel()
		ont, err := Load(strings.NewReader("ontology: {iri: http://example.org/o}\n"))
		require.NoError(t, err)
		assert.Equal(t, owl.IRI("http://example.org/o"), ont.ID.OntologyIRI)
		assert.Empty(t, ont.Axioms)
	})

	testCases := []struct {
		name string
		doc  string
		msg  string
	}{
		{"an empty document", "", "empty ontology document"},
		{"unknown top level keys", "ontolgy: {iri: x}\n", "failed to parse"},
		{"a version without an iri", "ontology: {version: v1}\n", "requires an ontology iri"},
		{"an unknown axiom kind", "axioms:\n  - SameAs: [a, b]\n", "unknown axiom kind SameAs"},
		{"two axiom kinds in one entry", "axioms:\n  - {SubClassOf: [a, b], ClassAssertion: [a, i]}\n", "axiom has both"},
		{"a wrong arity", "axioms:\n  - SubClassOf: [a]\n", "SubClassOf takes 2 arguments, got 1"},
		{"a bad cardinality", "axioms:\n  - SubClassOf: [a, {ObjectMaxCardinality: [-1, p]}]\n", "non-negative cardinality"},
		{"a non entity declaration", "axioms:\n  - Declaration: {ObjectInverseOf: p}\n", "is not an entity kind"},
		{"a literal with language and datatype", "axioms:\n  - DataPropertyAssertion: [p, i, {value: x, lang: en, datatype: xsd:string}]\n", "both a language and a datatype"},
		{"a single operand union", "axioms:\n  - SubClassOf: [a, {ObjectUnionOf: [b]}]\n", "at least two operands"},
	}
	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}

	t.Run("should report the offending line", func(t *testing.T) {
		t.Parallel()
		_, err := Load(strings.NewReader("axioms:\n  - SubClassOf: [a, b]\n  - SubClassOf: [a, {Foo: b}]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pizza.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pizzaDoc), 0o600))

	ont, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, ont.Axioms, 10)
	assert.Len(t, ont.Signature(), 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
