package readpath

import (
	"fmt"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

type decodeFunc func(f *frame) (owl.Object, error)

// decoders holds exactly one decoding rule per concrete kind. It is filled in
// init because the rules recurse through Decoder.decodeNode.
var decoders map[owl.Kind]decodeFunc

var (
	classExpr   = []owl.Kind{owl.KindAnyClassExpression}
	objProperty = []owl.Kind{owl.KindAnyObjectPropertyExpression}
	dataRange   = []owl.Kind{owl.KindAnyDataRange}
	individual  = []owl.Kind{owl.KindAnyIndividual}
	dataProp    = []owl.Kind{owl.KindDataProperty}
	annProp     = []owl.Kind{owl.KindAnnotationProperty}
	literal     = []owl.Kind{owl.KindLiteral}
	iri         = []owl.Kind{owl.KindIRI}
	annSubject  = []owl.Kind{owl.KindIRI, owl.KindAnonymousIndividual}
	annValue    = []owl.Kind{owl.KindIRI, owl.KindLiteral, owl.KindAnonymousIndividual}
)

func init() {
	decoders = map[owl.Kind]decodeFunc{
		owl.KindIRI: object(func(f *frame) owl.Object {
			return owl.IRI(f.str(schemas.PropIRI))
		}),
		owl.KindAnonymousIndividual: object(func(f *frame) owl.Object {
			return owl.AnonymousIndividual{NodeID: f.str(schemas.PropNodeID)}
		}),
		owl.KindOntologyID: object(func(f *frame) owl.Object {
			return owl.OntologyID{
				OntologyIRI: owl.IRI(f.str(schemas.PropOntologyIRI)),
				VersionIRI:  owl.IRI(f.str(schemas.PropVersionIRI)),
			}
		}),

		owl.KindClass:              entity,
		owl.KindObjectProperty:     entity,
		owl.KindDataProperty:       entity,
		owl.KindAnnotationProperty: entity,
		owl.KindNamedIndividual:    entity,
		owl.KindDatatype:           entity,

		owl.KindLiteral: object(func(f *frame) owl.Object {
			return owl.Literal{
				Lexical:  f.str(schemas.PropLexicalForm),
				Lang:     f.str(schemas.PropLanguage),
				Datatype: one[owl.Datatype](f, schemas.EdgeDatatype, owl.KindDatatype),
			}
		}),
		owl.KindObjectInverseOf: object(func(f *frame) owl.Object {
			return owl.ObjectInverseOf{Property: one[owl.ObjectProperty](f, schemas.EdgeObjectPropertyExpression, owl.KindObjectProperty)}
		}),

		// Class expressions.
		owl.KindObjectIntersectionOf: object(func(f *frame) owl.Object {
			return owl.ObjectIntersectionOf{Operands: many[owl.ClassExpression](f, schemas.EdgeClassExpression, 1, classExpr...)}
		}),
		owl.KindObjectUnionOf: object(func(f *frame) owl.Object {
			return owl.ObjectUnionOf{Operands: many[owl.ClassExpression](f, schemas.EdgeClassExpression, 1, classExpr...)}
		}),
		owl.KindObjectComplementOf: object(func(f *frame) owl.Object {
			return owl.ObjectComplementOf{Operand: one[owl.ClassExpression](f, schemas.EdgeClassExpression, classExpr...)}
		}),
		owl.KindObjectOneOf: object(func(f *frame) owl.Object {
			return owl.ObjectOneOf{Individuals: many[owl.Individual](f, schemas.EdgeIndividual, 1, individual...)}
		}),
		owl.KindObjectSomeValuesFrom: object(func(f *frame) owl.Object {
			return owl.ObjectSomeValuesFrom{Property: objectProperty(f), Filler: classFiller(f)}
		}),
		owl.KindObjectAllValuesFrom: object(func(f *frame) owl.Object {
			return owl.ObjectAllValuesFrom{Property: objectProperty(f), Filler: classFiller(f)}
		}),
		owl.KindObjectHasValue: object(func(f *frame) owl.Object {
			return owl.ObjectHasValue{
				Property: objectProperty(f),
				Value:    one[owl.Individual](f, schemas.EdgeIndividual, individual...),
			}
		}),
		owl.KindObjectHasSelf: object(func(f *frame) owl.Object {
			return owl.ObjectHasSelf{Property: objectProperty(f)}
		}),
		owl.KindObjectMinCardinality: object(func(f *frame) owl.Object {
			return owl.ObjectMinCardinality{Cardinality: cardinality(f), Property: objectProperty(f), Filler: classFiller(f)}
		}),
		owl.KindObjectMaxCardinality: object(func(f *frame) owl.Object {
			return owl.ObjectMaxCardinality{Cardinality: cardinality(f), Property: objectProperty(f), Filler: classFiller(f)}
		}),
		owl.KindObjectExactCardinality: object(func(f *frame) owl.Object {
			return owl.ObjectExactCardinality{Cardinality: cardinality(f), Property: objectProperty(f), Filler: classFiller(f)}
		}),
		owl.KindDataSomeValuesFrom: object(func(f *frame) owl.Object {
			return owl.DataSomeValuesFrom{Property: dataProperty(f), Filler: rangeFiller(f)}
		}),
		owl.KindDataAllValuesFrom: object(func(f *frame) owl.Object {
			return owl.DataAllValuesFrom{Property: dataProperty(f), Filler: rangeFiller(f)}
		}),
		owl.KindDataHasValue: object(func(f *frame) owl.Object {
			return owl.DataHasValue{
				Property: dataProperty(f),
				Value:    one[owl.Literal](f, schemas.EdgeLiteral, literal...),
			}
		}),
		owl.KindDataMinCardinality: object(func(f *frame) owl.Object {
			return owl.DataMinCardinality{Cardinality: cardinality(f), Property: dataProperty(f), Filler: rangeFiller(f)}
		}),
		owl.KindDataMaxCardinality: object(func(f *frame) owl.Object {
			return owl.DataMaxCardinality{Cardinality: cardinality(f), Property: dataProperty(f), Filler: rangeFiller(f)}
		}),
		owl.KindDataExactCardinality: object(func(f *frame) owl.Object {
			return owl.DataExactCardinality{Cardinality: cardinality(f), Property: dataProperty(f), Filler: rangeFiller(f)}
		}),

		// Data ranges.
		owl.KindDataIntersectionOf: object(func(f *frame) owl.Object {
			return owl.DataIntersectionOf{Operands: many[owl.DataRange](f, schemas.EdgeDataRange, 1, dataRange...)}
		}),
		owl.KindDataUnionOf: object(func(f *frame) owl.Object {
			return owl.DataUnionOf{Operands: many[owl.DataRange](f, schemas.EdgeDataRange, 1, dataRange...)}
		}),
		owl.KindDataComplementOf: object(func(f *frame) owl.Object {
			return owl.DataComplementOf{Operand: rangeFiller(f)}
		}),
		owl.KindDataOneOf: object(func(f *frame) owl.Object {
			return owl.DataOneOf{Literals: many[owl.Literal](f, schemas.EdgeLiteral, 1, literal...)}
		}),

		// Axioms.
		owl.KindDeclaration: axiom(func(f *frame) owl.Axiom {
			return owl.Declaration{Entity: one[owl.Entity](f, schemas.EdgeEntity, owl.KindAnyEntity)}
		}),
		owl.KindSubClassOf: axiom(func(f *frame) owl.Axiom {
			return owl.SubClassOf{
				SubClass:   one[owl.ClassExpression](f, schemas.EdgeSubClassExpression, classExpr...),
				SuperClass: one[owl.ClassExpression](f, schemas.EdgeSuperClassExpression, classExpr...),
			}
		}),
		owl.KindEquivalentClasses: axiom(func(f *frame) owl.Axiom {
			return owl.EquivalentClasses{Classes: many[owl.ClassExpression](f, schemas.EdgeClassExpression, 1, classExpr...)}
		}),
		owl.KindDisjointClasses: axiom(func(f *frame) owl.Axiom {
			return owl.DisjointClasses{Classes: many[owl.ClassExpression](f, schemas.EdgeClassExpression, 1, classExpr...)}
		}),
		owl.KindSubObjectPropertyOf: axiom(func(f *frame) owl.Axiom {
			return owl.SubObjectPropertyOf{
				SubProperty:   one[owl.ObjectPropertyExpression](f, schemas.EdgeSubObjectPropertyExpression, objProperty...),
				SuperProperty: one[owl.ObjectPropertyExpression](f, schemas.EdgeSuperObjectPropertyExpression, objProperty...),
			}
		}),
		owl.KindSubDataPropertyOf: axiom(func(f *frame) owl.Axiom {
			return owl.SubDataPropertyOf{
				SubProperty:   one[owl.DataProperty](f, schemas.EdgeSubDataPropertyExpression, dataProp...),
				SuperProperty: one[owl.DataProperty](f, schemas.EdgeSuperDataPropertyExpression, dataProp...),
			}
		}),
		owl.KindSubAnnotationPropertyOf: axiom(func(f *frame) owl.Axiom {
			return owl.SubAnnotationPropertyOf{
				SubProperty:   one[owl.AnnotationProperty](f, schemas.EdgeSubAnnotationProperty, annProp...),
				SuperProperty: one[owl.AnnotationProperty](f, schemas.EdgeSuperAnnotationProperty, annProp...),
			}
		}),
		owl.KindObjectPropertyDomain: axiom(func(f *frame) owl.Axiom {
			return owl.ObjectPropertyDomain{
				Property: objectProperty(f),
				Domain:   one[owl.ClassExpression](f, schemas.EdgeDomain, classExpr...),
			}
		}),
		owl.KindObjectPropertyRange: axiom(func(f *frame) owl.Axiom {
			return owl.ObjectPropertyRange{
				Property: objectProperty(f),
				Range:    one[owl.ClassExpression](f, schemas.EdgeRange, classExpr...),
			}
		}),
		owl.KindDataPropertyDomain: axiom(func(f *frame) owl.Axiom {
			return owl.DataPropertyDomain{
				Property: dataProperty(f),
				Domain:   one[owl.ClassExpression](f, schemas.EdgeDomain, classExpr...),
			}
		}),
		owl.KindDataPropertyRange: axiom(func(f *frame) owl.Axiom {
			return owl.DataPropertyRange{
				Property: dataProperty(f),
				Range:    one[owl.DataRange](f, schemas.EdgeRange, dataRange...),
			}
		}),
		owl.KindAnnotationPropertyDomain: axiom(func(f *frame) owl.Axiom {
			return owl.AnnotationPropertyDomain{
				Property: annotationProperty(f),
				Domain:   one[owl.IRI](f, schemas.EdgeDomain, iri...),
			}
		}),
		owl.KindAnnotationPropertyRange: axiom(func(f *frame) owl.Axiom {
			return owl.AnnotationPropertyRange{
				Property: annotationProperty(f),
				Range:    one[owl.IRI](f, schemas.EdgeRange, iri...),
			}
		}),
		owl.KindClassAssertion: axiom(func(f *frame) owl.Axiom {
			return owl.ClassAssertion{
				Class:      one[owl.ClassExpression](f, schemas.EdgeClassExpression, classExpr...),
				Individual: one[owl.Individual](f, schemas.EdgeIndividual, individual...),
			}
		}),
		owl.KindObjectPropertyAssertion: axiom(func(f *frame) owl.Axiom {
			return owl.ObjectPropertyAssertion{
				Property: objectProperty(f),
				Subject:  one[owl.Individual](f, schemas.EdgeSourceIndividual, individual...),
				Object:   one[owl.Individual](f, schemas.EdgeTargetIndividual, individual...),
			}
		}),
		owl.KindDataPropertyAssertion: axiom(func(f *frame) owl.Axiom {
			return owl.DataPropertyAssertion{
				Property: dataProperty(f),
				Subject:  one[owl.Individual](f, schemas.EdgeSourceIndividual, individual...),
				Object:   one[owl.Literal](f, schemas.EdgeTargetValue, literal...),
			}
		}),
		owl.KindAnnotationAssertion: axiom(func(f *frame) owl.Axiom {
			return owl.AnnotationAssertion{
				Property: annotationProperty(f),
				Subject:  one[owl.AnnotationSubject](f, schemas.EdgeAnnotationSubject, annSubject...),
				Value:    one[owl.AnnotationValue](f, schemas.EdgeAnnotationValue, annValue...),
			}
		}),

		// Annotations and ontology headers.
		owl.KindAnnotation: object(func(f *frame) owl.Object {
			return owl.Annotation{
				Property:    annotationProperty(f),
				Value:       one[owl.AnnotationValue](f, schemas.EdgeAnnotationValue, annValue...),
				Annotations: many[owl.Annotation](f, schemas.EdgeAnnotationAnnotation, 0, owl.KindAnnotation),
			}
		}),
		owl.KindOntology: object(func(f *frame) owl.Object {
			return owl.Ontology{
				ID:          one[owl.OntologyID](f, schemas.EdgeOntologyID, owl.KindOntologyID),
				Annotations: many[owl.Annotation](f, schemas.EdgeOntologyAnnotation, 0, owl.KindAnnotation),
			}
		}),
	}
}

// CheckDecoders verifies that every concrete kind has exactly one decoding rule.
func CheckDecoders() error {
	for _, k := range owl.Kinds() {
		if _, ok := decoders[k]; !ok {
			return fmt.Errorf("no decoding rule for kind %s", k)
		}
	}
	return nil
}

// -- Rule helpers --

// object adapts a builder that records failures on its frame.
func object(build func(f *frame) owl.Object) decodeFunc {
	return func(f *frame) (owl.Object, error) {
		obj := build(f)
		if f.err != nil {
			return nil, f.err
		}
		return obj, nil
	}
}

// axiom adds the axiom's annotations to what build decodes.
func axiom(build func(f *frame) owl.Axiom) decodeFunc {
	return func(f *frame) (owl.Object, error) {
		ax := build(f)
		annotations := many[owl.Annotation](f, schemas.EdgeAxiomAnnotation, 0, owl.KindAnnotation)
		if f.err != nil {
			return nil, f.err
		}
		return owl.WithAnnotations(ax, annotations), nil
	}
}

func entity(f *frame) (owl.Object, error) {
	name := f.str(schemas.PropIRI)
	if f.err != nil {
		return nil, f.err
	}
	e, ok := owl.NewEntity(f.kind, owl.IRI(name))
	if !ok {
		return nil, fmt.Errorf("kind %s is not an entity", f.kind)
	}
	return e, nil
}

func cardinality(f *frame) int { return f.integer(schemas.PropCardinality) }

func objectProperty(f *frame) owl.ObjectPropertyExpression {
	return one[owl.ObjectPropertyExpression](f, schemas.EdgeObjectPropertyExpression, objProperty...)
}

func dataProperty(f *frame) owl.DataProperty {
	return one[owl.DataProperty](f, schemas.EdgeDataPropertyExpression, dataProp...)
}

func annotationProperty(f *frame) owl.AnnotationProperty {
	return one[owl.AnnotationProperty](f, schemas.EdgeAnnotationProperty, annProp...)
}

func classFiller(f *frame) owl.ClassExpression {
	return one[owl.ClassExpression](f, schemas.EdgeClassExpression, classExpr...)
}

func rangeFiller(f *frame) owl.DataRange {
	return one[owl.DataRange](f, schemas.EdgeDataRange, dataRange...)
}
