package translation

import (
	"fmt"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// rule adds the children and edges of one variant to the builder.
type rule func(b *builder, obj owl.Object) error

// rules holds exactly one encoding rule per concrete kind. It is filled in
// init because the rules recurse through Session.Translate.
var rules map[owl.Kind]rule

func init() {
	rules = map[owl.Kind]rule{
		owl.KindIRI:                 leaf,
		owl.KindAnonymousIndividual: leaf,
		owl.KindOntologyID:          leaf,

		owl.KindClass:              entityRule,
		owl.KindObjectProperty:     entityRule,
		owl.KindDataProperty:       entityRule,
		owl.KindAnnotationProperty: entityRule,
		owl.KindNamedIndividual:    entityRule,
		owl.KindDatatype:           entityRule,

		owl.KindLiteral: func(b *builder, obj owl.Object) error {
			_, err := b.child(schemas.EdgeDatatype, obj.(owl.Literal).Datatype)
			return err
		},
		owl.KindObjectInverseOf: func(b *builder, obj owl.Object) error {
			_, err := b.child(schemas.EdgeObjectPropertyExpression, obj.(owl.ObjectInverseOf).Property)
			return err
		},

		// Class expressions.
		owl.KindObjectIntersectionOf: func(b *builder, obj owl.Object) error {
			return children(b, schemas.EdgeClassExpression, obj.(owl.ObjectIntersectionOf).Operands)
		},
		owl.KindObjectUnionOf: func(b *builder, obj owl.Object) error {
			return children(b, schemas.EdgeClassExpression, obj.(owl.ObjectUnionOf).Operands)
		},
		owl.KindObjectComplementOf: func(b *builder, obj owl.Object) error {
			_, err := b.child(schemas.EdgeClassExpression, obj.(owl.ObjectComplementOf).Operand)
			return err
		},
		owl.KindObjectOneOf: func(b *builder, obj owl.Object) error {
			return children(b, schemas.EdgeIndividual, obj.(owl.ObjectOneOf).Individuals)
		},
		owl.KindObjectSomeValuesFrom: func(b *builder, obj owl.Object) error {
			o := obj.(owl.ObjectSomeValuesFrom)
			return b.each(
				edgeTo(schemas.EdgeObjectPropertyExpression, o.Property),
				edgeTo(schemas.EdgeClassExpression, o.Filler))
		},
		owl.KindObjectAllValuesFrom: func(b *builder, obj owl.Object) error {
			o := obj.(owl.ObjectAllValuesFrom)
			return b.each(
				edgeTo(schemas.EdgeObjectPropertyExpression, o.Property),
				edgeTo(schemas.EdgeClassExpression, o.Filler))
		},
		owl.KindObjectHasValue: func(b *builder, obj owl.Object) error {
			o := obj.(owl.ObjectHasValue)
			return b.each(
				edgeTo(schemas.EdgeObjectPropertyExpression, o.Property),
				edgeTo(schemas.EdgeIndividual, o.Value))
		},
		owl.KindObjectHasSelf: func(b *builder, obj owl.Object) error {
			_, err := b.child(schemas.EdgeObjectPropertyExpression, obj.(owl.ObjectHasSelf).Property)
			return err
		},
		owl.KindObjectMinCardinality: func(b *builder, obj owl.Object) error {
			o := obj.(owl.ObjectMinCardinality)
			return objectCardinality(b, o.Property, o.Filler)
		},
		owl.KindObjectMaxCardinality: func(b *builder, obj owl.Object) error {
			o := obj.(owl.ObjectMaxCardinality)
			return objectCardinality(b, o.Property, o.Filler)
		},
		owl.KindObjectExactCardinality: func(b *builder, obj owl.Object) error {
			o := obj.(owl.ObjectExactCardinality)
			return objectCardinality(b, o.Property, o.Filler)
		},
		owl.KindDataSomeValuesFrom: func(b *builder, obj owl.Object) error {
			d := obj.(owl.DataSomeValuesFrom)
			return dataRestriction(b, d.Property, d.Filler)
		},
		owl.KindDataAllValuesFrom: func(b *builder, obj owl.Object) error {
			d := obj.(owl.DataAllValuesFrom)
			return dataRestriction(b, d.Property, d.Filler)
		},
		owl.KindDataHasValue: func(b *builder, obj owl.Object) error {
			d := obj.(owl.DataHasValue)
			return b.each(
				edgeTo(schemas.EdgeDataPropertyExpression, d.Property),
				edgeTo(schemas.EdgeLiteral, d.Value))
		},
		owl.KindDataMinCardinality: func(b *builder, obj owl.Object) error {
			d := obj.(owl.DataMinCardinality)
			return dataRestriction(b, d.Property, d.Filler)
		},
		owl.KindDataMaxCardinality: func(b *builder, obj owl.Object) error {
			d := obj.(owl.DataMaxCardinality)
			return dataRestriction(b, d.Property, d.Filler)
		},
		owl.KindDataExactCardinality: func(b *builder, obj owl.Object) error {
			d := obj.(owl.DataExactCardinality)
			return dataRestriction(b, d.Property, d.Filler)
		},

		// Data ranges.
		owl.KindDataIntersectionOf: func(b *builder, obj owl.Object) error {
			return children(b, schemas.EdgeDataRange, obj.(owl.DataIntersectionOf).Operands)
		},
		owl.KindDataUnionOf: func(b *builder, obj owl.Object) error {
			return children(b, schemas.EdgeDataRange, obj.(owl.DataUnionOf).Operands)
		},
		owl.KindDataComplementOf: func(b *builder, obj owl.Object) error {
			_, err := b.child(schemas.EdgeDataRange, obj.(owl.DataComplementOf).Operand)
			return err
		},
		owl.KindDataOneOf: func(b *builder, obj owl.Object) error {
			return children(b, schemas.EdgeLiteral, obj.(owl.DataOneOf).Literals)
		},

		// Axioms.
		owl.KindDeclaration: declarationRule,
		owl.KindSubClassOf: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.SubClassOf)
			return []link{
				edgeTo(schemas.EdgeSubClassExpression, a.SubClass),
				edgeTo(schemas.EdgeSuperClassExpression, a.SuperClass),
			}
		}),
		owl.KindEquivalentClasses: axiomRule(func(ax owl.Axiom) []link {
			return edgesTo(schemas.EdgeClassExpression, ax.(owl.EquivalentClasses).Classes)
		}),
		owl.KindDisjointClasses: axiomRule(func(ax owl.Axiom) []link {
			return edgesTo(schemas.EdgeClassExpression, ax.(owl.DisjointClasses).Classes)
		}),
		owl.KindSubObjectPropertyOf: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.SubObjectPropertyOf)
			return []link{
				edgeTo(schemas.EdgeSubObjectPropertyExpression, a.SubProperty),
				edgeTo(schemas.EdgeSuperObjectPropertyExpression, a.SuperProperty),
			}
		}),
		owl.KindSubDataPropertyOf: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.SubDataPropertyOf)
			return []link{
				edgeTo(schemas.EdgeSubDataPropertyExpression, a.SubProperty),
				edgeTo(schemas.EdgeSuperDataPropertyExpression, a.SuperProperty),
			}
		}),
		owl.KindSubAnnotationPropertyOf: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.SubAnnotationPropertyOf)
			return []link{
				edgeTo(schemas.EdgeSubAnnotationProperty, a.SubProperty),
				edgeTo(schemas.EdgeSuperAnnotationProperty, a.SuperProperty),
			}
		}),
		owl.KindObjectPropertyDomain: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.ObjectPropertyDomain)
			return []link{
				edgeTo(schemas.EdgeObjectPropertyExpression, a.Property),
				edgeTo(schemas.EdgeDomain, a.Domain),
			}
		}),
		owl.KindObjectPropertyRange: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.ObjectPropertyRange)
			return []link{
				edgeTo(schemas.EdgeObjectPropertyExpression, a.Property),
				edgeTo(schemas.EdgeRange, a.Range),
			}
		}),
		owl.KindDataPropertyDomain: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.DataPropertyDomain)
			return []link{
				edgeTo(schemas.EdgeDataPropertyExpression, a.Property),
				edgeTo(schemas.EdgeDomain, a.Domain),
			}
		}),
		owl.KindDataPropertyRange: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.DataPropertyRange)
			return []link{
				edgeTo(schemas.EdgeDataPropertyExpression, a.Property),
				edgeTo(schemas.EdgeRange, a.Range),
			}
		}),
		owl.KindAnnotationPropertyDomain: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.AnnotationPropertyDomain)
			return []link{
				edgeTo(schemas.EdgeAnnotationProperty, a.Property),
				edgeTo(schemas.EdgeDomain, a.Domain),
			}
		}),
		owl.KindAnnotationPropertyRange: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.AnnotationPropertyRange)
			return []link{
				edgeTo(schemas.EdgeAnnotationProperty, a.Property),
				edgeTo(schemas.EdgeRange, a.Range),
			}
		}),
		owl.KindClassAssertion: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.ClassAssertion)
			return []link{
				edgeTo(schemas.EdgeClassExpression, a.Class),
				edgeTo(schemas.EdgeIndividual, a.Individual),
			}
		}),
		owl.KindObjectPropertyAssertion: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.ObjectPropertyAssertion)
			return []link{
				edgeTo(schemas.EdgeObjectPropertyExpression, a.Property),
				edgeTo(schemas.EdgeSourceIndividual, a.Subject),
				edgeTo(schemas.EdgeTargetIndividual, a.Object),
			}
		}),
		owl.KindDataPropertyAssertion: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.DataPropertyAssertion)
			return []link{
				edgeTo(schemas.EdgeDataPropertyExpression, a.Property),
				edgeTo(schemas.EdgeSourceIndividual, a.Subject),
				edgeTo(schemas.EdgeTargetValue, a.Object),
			}
		}),
		owl.KindAnnotationAssertion: axiomRule(func(ax owl.Axiom) []link {
			a := ax.(owl.AnnotationAssertion)
			return []link{
				edgeTo(schemas.EdgeAnnotationProperty, a.Property),
				edgeTo(schemas.EdgeAnnotationSubject, a.Subject),
				edgeTo(schemas.EdgeAnnotationValue, a.Value),
			}
		}),

		// Annotations and ontology headers.
		owl.KindAnnotation: func(b *builder, obj owl.Object) error {
			a := obj.(owl.Annotation)
			links := []link{
				edgeTo(schemas.EdgeAnnotationProperty, a.Property),
				edgeTo(schemas.EdgeAnnotationValue, a.Value),
			}
			links = append(links, edgesTo(schemas.EdgeAnnotationAnnotation, a.Annotations)...)
			return b.each(links...)
		},
		owl.KindOntology: func(b *builder, obj owl.Object) error {
			o := obj.(owl.Ontology)
			links := []link{edgeTo(schemas.EdgeOntologyID, o.ID)}
			links = append(links, edgesTo(schemas.EdgeOntologyAnnotation, o.Annotations)...)
			return b.each(links...)
		},
	}
}

// CheckRules verifies that every concrete kind has exactly one encoding rule.
func CheckRules() error {
	for _, k := range owl.Kinds() {
		if _, ok := rules[k]; !ok {
			return fmt.Errorf("%w: no translation rule for kind %s", schemas.ErrEncoding, k)
		}
	}
	return nil
}

// -- Rule helpers --

// link is a pending (edge label, child object) pair.
type link struct {
	label schemas.EdgeLabel
	obj   owl.Object
}

func edgeTo(label schemas.EdgeLabel, obj owl.Object) link {
	return link{label: label, obj: obj}
}

func edgesTo[T owl.Object](label schemas.EdgeLabel, objs []T) []link {
	out := make([]link, 0, len(objs))
	for _, o := range objs {
		out = append(out, edgeTo(label, o))
	}
	return out
}

func (b *builder) each(links ...link) error {
	for _, l := range links {
		if _, err := b.child(l.label, l.obj); err != nil {
			return err
		}
	}
	return nil
}

func leaf(*builder, owl.Object) error { return nil }

func entityRule(b *builder, obj owl.Object) error {
	_, err := b.child(schemas.EdgeEntityIRI, obj.(owl.Entity).EntityIRI())
	return err
}

func objectCardinality(b *builder, p owl.ObjectPropertyExpression, filler owl.ClassExpression) error {
	return b.each(
		edgeTo(schemas.EdgeObjectPropertyExpression, p),
		edgeTo(schemas.EdgeClassExpression, filler))
}

func dataRestriction(b *builder, p owl.DataProperty, filler owl.DataRange) error {
	return b.each(
		edgeTo(schemas.EdgeDataPropertyExpression, p),
		edgeTo(schemas.EdgeDataRange, filler))
}

// axiomRule wraps the structural links of an axiom with its annotation links.
func axiomRule(structure func(owl.Axiom) []link) rule {
	return func(b *builder, obj owl.Object) error {
		ax := obj.(owl.Axiom)
		links := append(structure(ax), edgesTo(schemas.EdgeAxiomAnnotation, ax.AxiomAnnotations())...)
		return b.each(links...)
	}
}

// declarationRule links the declared entity and attaches it to the document
// signature. The signature edge is owned by the entity, so only declaration
// writes and deletes may touch it.
func declarationRule(b *builder, obj owl.Object) error {
	d := obj.(owl.Declaration)
	entity, err := b.child(schemas.EdgeEntity, d.Entity)
	if err != nil {
		return err
	}
	doc, err := b.s.documentTranslation()
	if err != nil {
		return err
	}
	b.adopt(doc)
	if err := b.edge(entity, doc, schemas.EdgeEntitySignatureOf); err != nil {
		return err
	}
	return b.each(edgesTo(schemas.EdgeAxiomAnnotation, d.Annotations)...)
}
