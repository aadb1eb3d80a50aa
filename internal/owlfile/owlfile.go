// Package owlfile loads ontologies written as YAML documents.
//
// A document names the ontology, optional prefixes, ontology annotations and a
// list of axioms. Every axiom and every compound expression is a mapping with
// a single key naming its kind, whose value holds the arguments in functional
// syntax order:
//
//	prefixes:
//	  ex: http://example.org/
//	ontology:
//	  iri: ex:onto
//	axioms:
//	  - Declaration: {Class: ex:C}
//	  - SubClassOf: [ex:C, {ObjectSomeValuesFrom: [ex:p, ex:D]}]
//	  - AnnotationAssertion: [rdfs:label, ex:C, {value: Cee, lang: en}]
//	    annotations:
//	      - {property: rdfs:comment, value: reviewed}
//
// Bare scalars are read by position: a class, property, individual or
// datatype IRI, a string literal, or "_:id" for an anonymous individual.
package owlfile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// builtinPrefixes are always available and may be overridden by a document.
var builtinPrefixes = map[string]string{
	"owl":  "http://www.w3.org/2002/07/owl#",
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":  "http://www.w3.org/2001/XMLSchema#",
}

type document struct {
	Prefixes map[string]string `yaml:"prefixes"`
	Ontology struct {
		IRI     string `yaml:"iri"`
		Version string `yaml:"version"`
	} `yaml:"ontology"`
	Annotations []yaml.Node `yaml:"annotations"`
	Axioms      []yaml.Node `yaml:"axioms"`
}

// Load parses one YAML ontology document from r.
func Load(r io.Reader) (*owl.Ontology, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty ontology document")
		}
		return nil, fmt.Errorf("failed to parse ontology document: %w", err)
	}

	p := &parser{prefixes: make(map[string]string, len(builtinPrefixes)+len(doc.Prefixes))}
	for k, v := range builtinPrefixes {
		p.prefixes[k] = v
	}
	for k, v := range doc.Prefixes {
		p.prefixes[k] = v
	}

	ont := &owl.Ontology{
		ID: owl.OntologyID{OntologyIRI: p.expand(doc.Ontology.IRI), VersionIRI: p.expand(doc.Ontology.Version)},
	}
	if ont.ID.OntologyIRI == "" && ont.ID.VersionIRI != "" {
		return nil, fmt.Errorf("ontology version %s requires an ontology iri", ont.ID.VersionIRI)
	}
	for i := range doc.Annotations {
		a, err := p.annotation(&doc.Annotations[i])
		if err != nil {
			return nil, err
		}
		ont.Annotations = append(ont.Annotations, a)
	}
	for i := range doc.Axioms {
		ax, err := p.axiom(&doc.Axioms[i])
		if err != nil {
			return nil, err
		}
		ont.Axioms = append(ont.Axioms, ax)
	}
	return ont, nil
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*owl.Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ontology document: %w", err)
	}
	defer f.Close()
	ont, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ont, nil
}

type parser struct {
	prefixes map[string]string
}

func errAt(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

// expand resolves a prefixed name. Anything else is returned unchanged.
func (p *parser) expand(s string) owl.IRI {
	if pfx, local, ok := strings.Cut(s, ":"); ok && !strings.HasPrefix(local, "//") {
		if ns, known := p.prefixes[pfx]; known {
			return owl.IRI(ns + local)
		}
	}
	return owl.IRI(s)
}

func (p *parser) iri(n *yaml.Node) (owl.IRI, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return "", errAt(n, "expected an iri")
	}
	return p.expand(n.Value), nil
}

// tagged splits a single-key mapping into its kind and argument node.
func tagged(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, errAt(n, "expected a mapping with exactly one kind key")
	}
	return n.Content[0].Value, n.Content[1], nil
}

// arguments returns the elements of a sequence, or the node itself.
func arguments(n *yaml.Node) []*yaml.Node {
	if n.Kind == yaml.SequenceNode {
		return n.Content
	}
	return []*yaml.Node{n}
}

func arity(n *yaml.Node, kind string, want int) ([]*yaml.Node, error) {
	args := arguments(n)
	if len(args) != want {
		return nil, errAt(n, "%s takes %d arguments, got %d", kind, want, len(args))
	}
	return args, nil
}

// -- Entities and values --

func (p *parser) entity(n *yaml.Node) (owl.Entity, error) {
	kind, arg, err := tagged(n)
	if err != nil {
		return nil, err
	}
	iri, err := p.iri(arg)
	if err != nil {
		return nil, err
	}
	e, ok := owl.NewEntity(owl.Kind(kind), iri)
	if !ok {
		return nil, errAt(n, "%s is not an entity kind", kind)
	}
	return e, nil
}

// named reads a bare iri or a mapping tagged with the given entity kind.
func (p *parser) named(n *yaml.Node, kind owl.Kind) (owl.IRI, error) {
	if n.Kind == yaml.ScalarNode {
		return p.iri(n)
	}
	k, arg, err := tagged(n)
	if err != nil {
		return "", err
	}
	if owl.Kind(k) != kind {
		return "", errAt(n, "expected %s, got %s", kind, k)
	}
	return p.iri(arg)
}

func (p *parser) dataProperty(n *yaml.Node) (owl.DataProperty, error) {
	iri, err := p.named(n, owl.KindDataProperty)
	return owl.DataProperty{IRI: iri}, err
}

func (p *parser) annotationProperty(n *yaml.Node) (owl.AnnotationProperty, error) {
	iri, err := p.named(n, owl.KindAnnotationProperty)
	return owl.AnnotationProperty{IRI: iri}, err
}

func (p *parser) objectProperty(n *yaml.Node) (owl.ObjectPropertyExpression, error) {
	if n.Kind == yaml.ScalarNode {
		iri, err := p.iri(n)
		return owl.ObjectProperty{IRI: iri}, err
	}
	kind, arg, err := tagged(n)
	if err != nil {
		return nil, err
	}
	switch owl.Kind(kind) {
	case owl.KindObjectProperty:
		iri, err := p.iri(arg)
		return owl.ObjectProperty{IRI: iri}, err
	case owl.KindObjectInverseOf:
		iri, err := p.named(arg, owl.KindObjectProperty)
		return owl.ObjectInverseOf{Property: owl.ObjectProperty{IRI: iri}}, err
	}
	return nil, errAt(n, "%s is not an object property expression", kind)
}

func (p *parser) individual(n *yaml.Node) (owl.Individual, error) {
	if n.Kind == yaml.ScalarNode {
		if id, ok := strings.CutPrefix(n.Value, "_:"); ok && id != "" {
			return owl.AnonymousIndividual{NodeID: id}, nil
		}
		iri, err := p.iri(n)
		return owl.NamedIndividual{IRI: iri}, err
	}
	kind, arg, err := tagged(n)
	if err != nil {
		return nil, err
	}
	switch owl.Kind(kind) {
	case owl.KindNamedIndividual:
		iri, err := p.iri(arg)
		return owl.NamedIndividual{IRI: iri}, err
	case owl.KindAnonymousIndividual:
		return anonymous(arg)
	}
	return nil, errAt(n, "%s is not an individual", kind)
}

func anonymous(n *yaml.Node) (owl.AnonymousIndividual, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return owl.AnonymousIndividual{}, errAt(n, "expected an anonymous individual id")
	}
	return owl.AnonymousIndividual{NodeID: strings.TrimPrefix(n.Value, "_:")}, nil
}

// literal reads a bare string or a {value, lang, datatype} mapping.
func (p *parser) literal(n *yaml.Node) (owl.Literal, error) {
	if n.Kind == yaml.ScalarNode {
		return owl.StringLiteral(n.Value), nil
	}
	var spec struct {
		Value    *string `yaml:"value"`
		Lang     string  `yaml:"lang"`
		Datatype string  `yaml:"datatype"`
	}
	if err := n.Decode(&spec); err != nil {
		return owl.Literal{}, errAt(n, "invalid literal: %v", err)
	}
	if spec.Value == nil {
		return owl.Literal{}, errAt(n, "literal requires a value")
	}
	switch {
	case spec.Lang != "" && spec.Datatype != "":
		return owl.Literal{}, errAt(n, "literal cannot have both a language and a datatype")
	case spec.Lang != "":
		return owl.LangLiteral(*spec.Value, spec.Lang), nil
	case spec.Datatype != "":
		return owl.NewLiteral(*spec.Value, p.expand(spec.Datatype)), nil
	}
	return owl.StringLiteral(*spec.Value), nil
}

func (p *parser) literals(args []*yaml.Node) ([]owl.Literal, error) {
	out := make([]owl.Literal, 0, len(args))
	for _, a := range args {
		l, err := p.literal(a)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (p *parser) annotationSubject(n *yaml.Node) (owl.AnnotationSubject, error) {
	if n.Kind == yaml.ScalarNode {
		if id, ok := strings.CutPrefix(n.Value, "_:"); ok && id != "" {
			return owl.AnonymousIndividual{NodeID: id}, nil
		}
		return p.iri(n)
	}
	kind, arg, err := tagged(n)
	if err != nil {
		return nil, err
	}
	switch owl.Kind(kind) {
	case owl.KindIRI:
		return p.iri(arg)
	case owl.KindAnonymousIndividual:
		return anonymous(arg)
	}
	return nil, errAt(n, "%s cannot be an annotation subject", kind)
}

// annotationValue reads {IRI: x}, {AnonymousIndividual: id} or a literal.
func (p *parser) annotationValue(n *yaml.Node) (owl.AnnotationValue, error) {
	if n.Kind == yaml.MappingNode && len(n.Content) == 2 {
		switch owl.Kind(n.Content[0].Value) {
		case owl.KindIRI:
			return p.iri(n.Content[1])
		case owl.KindAnonymousIndividual:
			return anonymous(n.Content[1])
		}
	}
	return p.literal(n)
}

func (p *parser) annotation(n *yaml.Node) (owl.Annotation, error) {
	var spec struct {
		Property    yaml.Node   `yaml:"property"`
		Value       yaml.Node   `yaml:"value"`
		Annotations []yaml.Node `yaml:"annotations"`
	}
	if err := n.Decode(&spec); err != nil {
		return owl.Annotation{}, errAt(n, "invalid annotation: %v", err)
	}
	if spec.Property.Kind == 0 || spec.Value.Kind == 0 {
		return owl.Annotation{}, errAt(n, "annotation requires a property and a value")
	}
	prop, err := p.annotationProperty(&spec.Property)
	if err != nil {
		return owl.Annotation{}, err
	}
	val, err := p.annotationValue(&spec.Value)
	if err != nil {
		return owl.Annotation{}, err
	}
	nested, err := p.annotations(spec.Annotations)
	if err != nil {
		return owl.Annotation{}, err
	}
	return owl.Annotation{Property: prop, Value: val, Annotations: nested}, nil
}

func (p *parser) annotations(nodes []yaml.Node) ([]owl.Annotation, error) {
	var out []owl.Annotation
	for i := range nodes {
		a, err := p.annotation(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func cardinality(n *yaml.Node) (int, error) {
	v, err := strconv.Atoi(n.Value)
	if n.Kind != yaml.ScalarNode || err != nil || v < 0 {
		return 0, errAt(n, "expected a non-negative cardinality, got %q", n.Value)
	}
	return v, nil
}
