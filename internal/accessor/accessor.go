// Package accessor answers the axiom index queries an ontology editor needs
// against one document stored as a property graph.
package accessor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
	"github.com/xkilldash9x/owl2lpg/internal/readpath"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// Options tunes how much structure each query reads.
type Options struct {
	// ReadDepth bounds the paths of the initial read. Zero or less is unbounded.
	ReadDepth int
	// ReloadHops bounds each targeted reload. Zero or less is unbounded.
	ReloadHops int
	// ReferenceHops bounds how deep an entity may sit inside a referencing axiom.
	ReferenceHops int
}

// DefaultOptions reads whole axioms up front.
func DefaultOptions() Options {
	return Options{ReferenceHops: 8}
}

// Accessor runs read queries for a single document.
type Accessor struct {
	docCtx schemas.DocumentContext
	store  cypher.PathReader
	opts   Options
	logger *zap.Logger
}

// New binds an accessor to a document. It validates the document context.
func New(docCtx schemas.DocumentContext, store cypher.PathReader, opts Options, logger *zap.Logger) (*Accessor, error) {
	if err := docCtx.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessor{docCtx: docCtx, store: store, opts: opts, logger: logger.Named("accessor")}, nil
}

// AxiomsByType returns every axiom of kind in the document. owl.KindAnyAxiom
// selects all axioms.
func (a *Accessor) AxiomsByType(ctx context.Context, kind owl.Kind) ([]owl.Axiom, error) {
	label := schemas.NodeLabel(kind)
	if kind == owl.KindAnyAxiom {
		label = schemas.LabelAxiom
	} else if !owl.IsAxiomKind(kind) {
		return nil, fmt.Errorf("%s is not an axiom kind", kind)
	}
	return a.axioms(ctx, a.query(label, nil), kind)
}

// SubClassOfAxiomsBySubClass returns the SubClassOf axioms whose sub class is cls.
func (a *Accessor) SubClassOfAxiomsBySubClass(ctx context.Context, cls owl.Class) ([]owl.Axiom, error) {
	return a.axioms(ctx, a.query(label(owl.KindSubClassOf), directAnchor(schemas.EdgeSubClassExpression, cls)), owl.KindSubClassOf)
}

// SubObjectPropertyOfAxiomsBySubProperty returns the SubObjectPropertyOf
// axioms whose sub property is p.
func (a *Accessor) SubObjectPropertyOfAxiomsBySubProperty(ctx context.Context, p owl.ObjectProperty) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindSubObjectPropertyOf), directAnchor(schemas.EdgeSubObjectPropertyExpression, p))
	return a.axioms(ctx, q, owl.KindSubObjectPropertyOf)
}

// SubDataPropertyOfAxiomsBySubProperty returns the SubDataPropertyOf axioms
// whose sub property is p.
func (a *Accessor) SubDataPropertyOfAxiomsBySubProperty(ctx context.Context, p owl.DataProperty) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindSubDataPropertyOf), directAnchor(schemas.EdgeSubDataPropertyExpression, p))
	return a.axioms(ctx, q, owl.KindSubDataPropertyOf)
}

// propertyAxiom maps a property entity to the domain or range axiom kind
// that constrains it and the edge linking that axiom to the property.
func propertyAxiom(p owl.Entity, domain bool) (owl.Kind, schemas.EdgeLabel, error) {
	switch p.(type) {
	case owl.ObjectProperty:
		if domain {
			return owl.KindObjectPropertyDomain, schemas.EdgeObjectPropertyExpression, nil
		}
		return owl.KindObjectPropertyRange, schemas.EdgeObjectPropertyExpression, nil
	case owl.DataProperty:
		if domain {
			return owl.KindDataPropertyDomain, schemas.EdgeDataPropertyExpression, nil
		}
		return owl.KindDataPropertyRange, schemas.EdgeDataPropertyExpression, nil
	case owl.AnnotationProperty:
		if domain {
			return owl.KindAnnotationPropertyDomain, schemas.EdgeAnnotationProperty, nil
		}
		return owl.KindAnnotationPropertyRange, schemas.EdgeAnnotationProperty, nil
	}
	return "", "", fmt.Errorf("%s has no domain or range axioms", p.Kind())
}

// DomainAxioms returns the domain axioms of an object, data or annotation property.
func (a *Accessor) DomainAxioms(ctx context.Context, property owl.Entity) ([]owl.Axiom, error) {
	kind, edge, err := propertyAxiom(property, true)
	if err != nil {
		return nil, err
	}
	return a.axioms(ctx, a.query(label(kind), directAnchor(edge, property)), kind)
}

// RangeAxioms returns the range axioms of an object, data or annotation property.
func (a *Accessor) RangeAxioms(ctx context.Context, property owl.Entity) ([]owl.Axiom, error) {
	kind, edge, err := propertyAxiom(property, false)
	if err != nil {
		return nil, err
	}
	return a.axioms(ctx, a.query(label(kind), directAnchor(edge, property)), kind)
}

// ClassAssertionAxiomsByIndividual returns the class assertions about ind.
func (a *Accessor) ClassAssertionAxiomsByIndividual(ctx context.Context, ind owl.Individual) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindClassAssertion), directAnchor(schemas.EdgeIndividual, ind))
	return a.axioms(ctx, q, owl.KindClassAssertion)
}

// ClassAssertionAxiomsByClass returns the class assertions whose class is cls.
// cls may be a complex expression.
func (a *Accessor) ClassAssertionAxiomsByClass(ctx context.Context, cls owl.ClassExpression) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindClassAssertion), directAnchor(schemas.EdgeClassExpression, cls))
	return a.axioms(ctx, q, owl.KindClassAssertion)
}

// IndividualsByType returns the individuals asserted to be instances of cls,
// ordered by canonical string.
func (a *Accessor) IndividualsByType(ctx context.Context, cls owl.ClassExpression) ([]owl.Individual, error) {
	assertions, err := a.ClassAssertionAxiomsByClass(ctx, cls)
	if err != nil {
		return nil, err
	}
	individuals := make([]owl.Individual, 0, len(assertions))
	for _, ax := range assertions {
		if ca, ok := ax.(owl.ClassAssertion); ok {
			individuals = append(individuals, ca.Individual)
		}
	}
	return owl.SortedSet(individuals), nil
}

// ObjectPropertyAssertionAxiomsBySubject returns the object property
// assertions whose subject is ind.
func (a *Accessor) ObjectPropertyAssertionAxiomsBySubject(ctx context.Context, ind owl.Individual) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindObjectPropertyAssertion), directAnchor(schemas.EdgeSourceIndividual, ind))
	return a.axioms(ctx, q, owl.KindObjectPropertyAssertion)
}

// DataPropertyAssertionAxiomsBySubject returns the data property assertions
// whose subject is ind.
func (a *Accessor) DataPropertyAssertionAxiomsBySubject(ctx context.Context, ind owl.Individual) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindDataPropertyAssertion), directAnchor(schemas.EdgeSourceIndividual, ind))
	return a.axioms(ctx, q, owl.KindDataPropertyAssertion)
}

// AnnotationAssertionAxiomsBySubject returns the annotation assertions about subject.
func (a *Accessor) AnnotationAssertionAxiomsBySubject(ctx context.Context, subject owl.AnnotationSubject) ([]owl.Axiom, error) {
	q := a.query(label(owl.KindAnnotationAssertion), directAnchor(schemas.EdgeAnnotationSubject, subject))
	return a.axioms(ctx, q, owl.KindAnnotationAssertion)
}

// AxiomsByReference returns every axiom mentioning entity in its structure,
// plus the annotation assertions whose subject is the entity's IRI.
func (a *Accessor) AxiomsByReference(ctx context.Context, entity owl.Entity) ([]owl.Axiom, error) {
	hops := a.opts.ReferenceHops
	if hops <= 0 {
		hops = DefaultOptions().ReferenceHops
	}
	anchor := &cypher.Anchor{
		MaxHops: hops,
		Labels:  translation.LabelsFor(entity.Kind()),
		Props:   translation.PropertiesFor(entity),
	}
	referencing, err := a.axioms(ctx, a.query(schemas.LabelAxiom, anchor), owl.KindAnyAxiom)
	if err != nil {
		return nil, err
	}
	annotations, err := a.AnnotationAssertionAxiomsBySubject(ctx, entity.EntityIRI())
	if err != nil {
		return nil, err
	}
	return owl.SortedSet(append(referencing, annotations...)), nil
}

// OntologyHeader returns the ontology id and annotations linked to the
// document. It reports schemas.ErrNotFound when no header is stored.
func (a *Accessor) OntologyHeader(ctx context.Context) (owl.Ontology, error) {
	q := a.query(schemas.LabelOntology, nil)
	q.Link = schemas.EdgeOntology
	objs, err := a.decode(ctx, q, owl.KindOntology)
	if err != nil {
		return owl.Ontology{}, err
	}
	if len(objs) == 0 {
		return owl.Ontology{}, fmt.Errorf("ontology header of %s: %w", a.docCtx, schemas.ErrNotFound)
	}
	if len(objs) > 1 {
		a.logger.Warn("Document links more than one ontology header, using the first",
			zap.Int("headers", len(objs)))
	}
	return objs[0].(owl.Ontology), nil
}

// -- Query helpers --

func label(k owl.Kind) schemas.NodeLabel { return schemas.NodeLabel(k) }

func directAnchor(edge schemas.EdgeLabel, target owl.Object) *cypher.Anchor {
	return &cypher.Anchor{
		Edge:   edge,
		Labels: translation.LabelsFor(target.Kind()),
		Props:  translation.PropertiesFor(target),
	}
}

func (a *Accessor) query(l schemas.NodeLabel, anchor *cypher.Anchor) cypher.ReadQuery {
	return cypher.ReadQuery{Context: a.docCtx, Label: l, Anchor: anchor, Depth: a.opts.ReadDepth}
}

func (a *Accessor) decode(ctx context.Context, q cypher.ReadQuery, kind owl.Kind) ([]owl.Object, error) {
	paths, err := a.store.ReadPaths(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s nodes: %w", q.Label, err)
	}
	index := readpath.NewNodeIndex()
	index.AddPaths(paths)
	decoder := readpath.NewDecoder(index, a.store,
		readpath.WithReloadHops(a.opts.ReloadHops),
		readpath.WithLogger(a.logger))

	objs, err := decoder.DecodeAll(ctx, readpath.Roots(paths), kind)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Decoded query results",
		zap.String("label", string(q.Label)),
		zap.Int("paths", len(paths)),
		zap.Int("results", len(objs)),
		zap.Int("reloads", decoder.Reloads()))
	return objs, nil
}

func (a *Accessor) axioms(ctx context.Context, q cypher.ReadQuery, kind owl.Kind) ([]owl.Axiom, error) {
	objs, err := a.decode(ctx, q, kind)
	if err != nil {
		return nil, err
	}
	out := make([]owl.Axiom, 0, len(objs))
	for _, obj := range objs {
		ax, ok := obj.(owl.Axiom)
		if !ok {
			return nil, fmt.Errorf("decoded %s is not an axiom", obj.Kind())
		}
		out = append(out, ax)
	}
	return out, nil
}
