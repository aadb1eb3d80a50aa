package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/owl2lpg/internal/knowledgegraph"
)

const ontologyDoc = `
prefixes:
  ex: http://example.org/
ontology:
  iri: ex:onto
annotations:
  - {property: rdfs:comment, value: cli fixture}
axioms:
  - Declaration: {Class: ex:C}
  - SubClassOf: [ex:C, ex:D]
  - SubClassOf: [ex:C, {ObjectSomeValuesFrom: [ex:p, ex:E]}]
  - ObjectPropertyDomain: [ex:p, ex:C]
  - ClassAssertion: [ex:C, ex:a]
  - ClassAssertion: [ex:C, "_:x1"]
  - ObjectPropertyAssertion: [ex:p, ex:a, ex:b]
  - DataPropertyAssertion: [ex:dp, ex:a, {value: "3", datatype: xsd:integer}]
`

const removalDoc = `
prefixes:
  ex: http://example.org/
axioms:
  - SubClassOf: [ex:C, ex:D]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes one command line against factory and returns its stdout.
func run(t *testing.T, factory ComponentFactory, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, NewComponentFactory(), "version")
	require.NoError(t, err)
	assert.Equal(t, "owl2lpg "+Version+"\n", out)
}

func TestExportCmd(t *testing.T) {
	input := writeFile(t, "onto.yaml", ontologyDoc)

	t.Run("should print the script", func(t *testing.T) {
		out, err := run(t, NewComponentFactory(), "export", input, "--document", "exported")
		require.NoError(t, err)
		assert.Contains(t, out, `:param ontologyDocumentId => "exported"`)
		assert.Contains(t, out, "MERGE (n0:Declaration:Axiom")
	})

	t.Run("should write the script to a file", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "onto.cypher")
		out, err := run(t, NewComponentFactory(), "export", input, "-o", output)
		require.NoError(t, err)
		assert.Empty(t, out)
		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, 13, strings.Count(string(data), ";\n"))
	})

	t.Run("should fail on a missing input", func(t *testing.T) {
		_, err := run(t, NewComponentFactory(), "export", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestStoreCommands(t *testing.T) {
	factory := StaticFactory{Store: knowledgegraph.New(zaptest.NewLogger(t))}
	input := writeFile(t, "onto.yaml", ontologyDoc)
	doc := []string{"--project", "cli", "--document", "pizza"}
	with := func(args ...string) []string { return append(args, doc...) }

	out, err := run(t, factory, with("load", input)...)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 8 axioms")

	t.Run("should answer index queries", func(t *testing.T) {
		out, err := run(t, factory, with("query", "subclass", "http://example.org/C")...)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"SubClassOf(Class(<http://example.org/C>) Class(<http://example.org/D>))",
			"SubClassOf(Class(<http://example.org/C>) ObjectSomeValuesFrom(ObjectProperty(<http://example.org/p>) Class(<http://example.org/E>)))",
		}, lines(out))

		out, err = run(t, factory, with("query", "domain", "ObjectProperty", "http://example.org/p")...)
		require.NoError(t, err)
		assert.Len(t, lines(out), 1)

		out, err = run(t, factory, with("query", "references", "Class", "http://example.org/C")...)
		require.NoError(t, err)
		assert.Len(t, lines(out), 6)

		out, err = run(t, factory, with("query", "header")...)
		require.NoError(t, err)
		assert.Contains(t, out, "OntologyID(<http://example.org/onto>)")
		assert.Contains(t, out, "cli fixture")
	})

	t.Run("should answer individual queries", func(t *testing.T) {
		out, err := run(t, factory, with("query", "instances", "http://example.org/C")...)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"NamedIndividual(<http://example.org/a>)", "_:x1"}, lines(out))

		out, err = run(t, factory, with("query", "classassertions", "http://example.org/C")...)
		require.NoError(t, err)
		assert.Len(t, lines(out), 2)

		out, err = run(t, factory, with("query", "objectassertions", "http://example.org/a")...)
		require.NoError(t, err)
		require.Len(t, lines(out), 1)
		assert.Contains(t, out, "ObjectPropertyAssertion(")

		out, err = run(t, factory, with("query", "dataassertions", "http://example.org/a")...)
		require.NoError(t, err)
		require.Len(t, lines(out), 1)
		assert.Contains(t, out, `"3"^^<http://www.w3.org/2001/XMLSchema#integer>`)

		out, err = run(t, factory, with("query", "objectassertions", "http://example.org/b")...)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(out))

		out, err = run(t, factory, with("query", "assertions", "_:x1")...)
		require.NoError(t, err)
		assert.Len(t, lines(out), 1)
	})

	t.Run("should reject bad query arguments", func(t *testing.T) {
		_, err := run(t, factory, with("query", "domain", "Class", "http://example.org/C")...)
		assert.Error(t, err)
		_, err = run(t, factory, with("query", "references", "Thing", "http://example.org/C")...)
		assert.ErrorContains(t, err, "not an entity kind")
	})

	t.Run("should keep documents apart", func(t *testing.T) {
		out, err := run(t, factory, "query", "type", "Axiom", "--project", "cli", "--document", "other")
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(out))
	})

	t.Run("should remove axioms", func(t *testing.T) {
		out, err := run(t, factory, with("remove", writeFile(t, "remove.yaml", removalDoc))...)
		require.NoError(t, err)
		assert.Contains(t, out, "removed 1 axioms")

		out, err = run(t, factory, with("query", "type", "SubClassOf")...)
		require.NoError(t, err)
		assert.Len(t, lines(out), 1)
	})
}

func TestInvalidConfiguration(t *testing.T) {
	t.Run("should fail on an unreadable config file", func(t *testing.T) {
		_, err := run(t, NewComponentFactory(), "version", "--config", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorContains(t, err, "failed to initialize configuration")
	})

	t.Run("should fail validation", func(t *testing.T) {
		cfg := writeFile(t, "config.yaml", "store:\n  backend: sqlite\n")
		_, err := run(t, NewComponentFactory(), "version", "--config", cfg)
		assert.ErrorContains(t, err, "invalid configuration")
	})
}
