package owl

// -- Concrete kinds --

const (
	KindIRI                 Kind = "IRI"
	KindClass               Kind = "Class"
	KindObjectProperty      Kind = "ObjectProperty"
	KindDataProperty        Kind = "DataProperty"
	KindAnnotationProperty  Kind = "AnnotationProperty"
	KindNamedIndividual     Kind = "NamedIndividual"
	KindDatatype            Kind = "Datatype"
	KindLiteral             Kind = "Literal"
	KindAnonymousIndividual Kind = "AnonymousIndividual"
	KindObjectInverseOf     Kind = "ObjectInverseOf"

	KindObjectIntersectionOf   Kind = "ObjectIntersectionOf"
	KindObjectUnionOf          Kind = "ObjectUnionOf"
	KindObjectComplementOf     Kind = "ObjectComplementOf"
	KindObjectOneOf            Kind = "ObjectOneOf"
	KindObjectSomeValuesFrom   Kind = "ObjectSomeValuesFrom"
	KindObjectAllValuesFrom    Kind = "ObjectAllValuesFrom"
	KindObjectHasValue         Kind = "ObjectHasValue"
	KindObjectHasSelf          Kind = "ObjectHasSelf"
	KindObjectMinCardinality   Kind = "ObjectMinCardinality"
	KindObjectMaxCardinality   Kind = "ObjectMaxCardinality"
	KindObjectExactCardinality Kind = "ObjectExactCardinality"
	KindDataSomeValuesFrom     Kind = "DataSomeValuesFrom"
	KindDataAllValuesFrom      Kind = "DataAllValuesFrom"
	KindDataHasValue           Kind = "DataHasValue"
	KindDataMinCardinality     Kind = "DataMinCardinality"
	KindDataMaxCardinality     Kind = "DataMaxCardinality"
	KindDataExactCardinality   Kind = "DataExactCardinality"

	KindDataIntersectionOf Kind = "DataIntersectionOf"
	KindDataUnionOf        Kind = "DataUnionOf"
	KindDataComplementOf   Kind = "DataComplementOf"
	KindDataOneOf          Kind = "DataOneOf"

	KindDeclaration              Kind = "Declaration"
	KindSubClassOf               Kind = "SubClassOf"
	KindEquivalentClasses        Kind = "EquivalentClasses"
	KindDisjointClasses          Kind = "DisjointClasses"
	KindSubObjectPropertyOf      Kind = "SubObjectPropertyOf"
	KindSubDataPropertyOf        Kind = "SubDataPropertyOf"
	KindSubAnnotationPropertyOf  Kind = "SubAnnotationPropertyOf"
	KindObjectPropertyDomain     Kind = "ObjectPropertyDomain"
	KindObjectPropertyRange      Kind = "ObjectPropertyRange"
	KindDataPropertyDomain       Kind = "DataPropertyDomain"
	KindDataPropertyRange        Kind = "DataPropertyRange"
	KindAnnotationPropertyDomain Kind = "AnnotationPropertyDomain"
	KindAnnotationPropertyRange  Kind = "AnnotationPropertyRange"
	KindClassAssertion           Kind = "ClassAssertion"
	KindObjectPropertyAssertion  Kind = "ObjectPropertyAssertion"
	KindDataPropertyAssertion    Kind = "DataPropertyAssertion"
	KindAnnotationAssertion      Kind = "AnnotationAssertion"

	KindAnnotation Kind = "Annotation"
	KindOntologyID Kind = "OntologyID"
	KindOntology   Kind = "Ontology"
)

// -- Category kinds --
// Category kinds are decode targets that accept any member variant.

const (
	KindAnyEntity                   Kind = "Entity"
	KindAnyClassExpression          Kind = "ClassExpression"
	KindAnyObjectPropertyExpression Kind = "ObjectPropertyExpression"
	KindAnyDataRange                Kind = "DataRange"
	KindAnyIndividual               Kind = "Individual"
	KindAnyAxiom                    Kind = "Axiom"
)

var allKinds = []Kind{
	KindIRI, KindClass, KindObjectProperty, KindDataProperty, KindAnnotationProperty,
	KindNamedIndividual, KindDatatype, KindLiteral, KindAnonymousIndividual, KindObjectInverseOf,

	KindObjectIntersectionOf, KindObjectUnionOf, KindObjectComplementOf, KindObjectOneOf,
	KindObjectSomeValuesFrom, KindObjectAllValuesFrom, KindObjectHasValue, KindObjectHasSelf,
	KindObjectMinCardinality, KindObjectMaxCardinality, KindObjectExactCardinality,
	KindDataSomeValuesFrom, KindDataAllValuesFrom, KindDataHasValue,
	KindDataMinCardinality, KindDataMaxCardinality, KindDataExactCardinality,

	KindDataIntersectionOf, KindDataUnionOf, KindDataComplementOf, KindDataOneOf,

	KindDeclaration, KindSubClassOf, KindEquivalentClasses, KindDisjointClasses,
	KindSubObjectPropertyOf, KindSubDataPropertyOf, KindSubAnnotationPropertyOf,
	KindObjectPropertyDomain, KindObjectPropertyRange, KindDataPropertyDomain, KindDataPropertyRange,
	KindAnnotationPropertyDomain, KindAnnotationPropertyRange,
	KindClassAssertion, KindObjectPropertyAssertion, KindDataPropertyAssertion, KindAnnotationAssertion,

	KindAnnotation, KindOntologyID, KindOntology,
}

// Kinds returns every concrete kind in the model.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

var entityKinds = map[Kind]bool{
	KindClass: true, KindObjectProperty: true, KindDataProperty: true,
	KindAnnotationProperty: true, KindNamedIndividual: true, KindDatatype: true,
}

// IsEntityKind reports whether k names an entity variant.
func IsEntityKind(k Kind) bool { return entityKinds[k] }

// IsCategory reports whether k is a category kind rather than a concrete variant.
func IsCategory(k Kind) bool {
	switch k {
	case KindAnyEntity, KindAnyClassExpression, KindAnyObjectPropertyExpression,
		KindAnyDataRange, KindAnyIndividual, KindAnyAxiom:
		return true
	}
	return false
}

// IsAxiomKind reports whether k names an axiom variant.
func IsAxiomKind(k Kind) bool {
	switch k {
	case KindDeclaration, KindSubClassOf, KindEquivalentClasses, KindDisjointClasses,
		KindSubObjectPropertyOf, KindSubDataPropertyOf, KindSubAnnotationPropertyOf,
		KindObjectPropertyDomain, KindObjectPropertyRange, KindDataPropertyDomain, KindDataPropertyRange,
		KindAnnotationPropertyDomain, KindAnnotationPropertyRange,
		KindClassAssertion, KindObjectPropertyAssertion, KindDataPropertyAssertion, KindAnnotationAssertion:
		return true
	}
	return false
}
