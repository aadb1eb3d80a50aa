package owl

// -- Annotations --

// Annotation attaches a property/value pair to an axiom, ontology or another annotation.
type Annotation struct {
	Property    AnnotationProperty
	Value       AnnotationValue
	Annotations []Annotation
}

func (Annotation) Kind() Kind { return KindAnnotation }
func (a Annotation) String() string {
	return withAnnotations("Annotation", a.Annotations, a.Property.String(), a.Value.String())
}

// -- Declarations and class axioms --

// Declaration declares an entity in the ontology signature.
type Declaration struct {
	Entity      Entity
	Annotations []Annotation
}

func (Declaration) Kind() Kind { return KindDeclaration }
func (d Declaration) String() string {
	return withAnnotations("Declaration", d.Annotations, d.Entity.String())
}
func (d Declaration) AxiomAnnotations() []Annotation { return d.Annotations }
func (Declaration) isAxiom()                         {}

// SubClassOf states that every instance of SubClass is an instance of SuperClass.
type SubClassOf struct {
	SubClass    ClassExpression
	SuperClass  ClassExpression
	Annotations []Annotation
}

func (SubClassOf) Kind() Kind { return KindSubClassOf }
func (s SubClassOf) String() string {
	return withAnnotations("SubClassOf", s.Annotations, s.SubClass.String(), s.SuperClass.String())
}
func (s SubClassOf) AxiomAnnotations() []Annotation { return s.Annotations }
func (SubClassOf) isAxiom()                         {}

// EquivalentClasses states that all its class expressions are equivalent.
type EquivalentClasses struct {
	Classes     []ClassExpression
	Annotations []Annotation
}

// NewEquivalentClasses normalizes the class set.
func NewEquivalentClasses(classes ...ClassExpression) EquivalentClasses {
	return EquivalentClasses{Classes: SortedSet(classes)}
}

func (EquivalentClasses) Kind() Kind { return KindEquivalentClasses }
func (e EquivalentClasses) String() string {
	return withAnnotations("EquivalentClasses", e.Annotations, setStrings(e.Classes)...)
}
func (e EquivalentClasses) AxiomAnnotations() []Annotation { return e.Annotations }
func (EquivalentClasses) isAxiom()                         {}

// DisjointClasses states that its class expressions are pairwise disjoint.
type DisjointClasses struct {
	Classes     []ClassExpression
	Annotations []Annotation
}

// NewDisjointClasses normalizes the class set.
func NewDisjointClasses(classes ...ClassExpression) DisjointClasses {
	return DisjointClasses{Classes: SortedSet(classes)}
}

func (DisjointClasses) Kind() Kind { return KindDisjointClasses }
func (d DisjointClasses) String() string {
	return withAnnotations("DisjointClasses", d.Annotations, setStrings(d.Classes)...)
}
func (d DisjointClasses) AxiomAnnotations() []Annotation { return d.Annotations }
func (DisjointClasses) isAxiom()                         {}

// -- Property axioms --

// SubObjectPropertyOf is object property subsumption.
type SubObjectPropertyOf struct {
	SubProperty   ObjectPropertyExpression
	SuperProperty ObjectPropertyExpression
	Annotations   []Annotation
}

func (SubObjectPropertyOf) Kind() Kind { return KindSubObjectPropertyOf }
func (s SubObjectPropertyOf) String() string {
	return withAnnotations("SubObjectPropertyOf", s.Annotations, s.SubProperty.String(), s.SuperProperty.String())
}
func (s SubObjectPropertyOf) AxiomAnnotations() []Annotation { return s.Annotations }
func (SubObjectPropertyOf) isAxiom()                         {}

// SubDataPropertyOf is data property subsumption.
type SubDataPropertyOf struct {
	SubProperty   DataProperty
	SuperProperty DataProperty
	Annotations   []Annotation
}

func (SubDataPropertyOf) Kind() Kind { return KindSubDataPropertyOf }
func (s SubDataPropertyOf) String() string {
	return withAnnotations("SubDataPropertyOf", s.Annotations, s.SubProperty.String(), s.SuperProperty.String())
}
func (s SubDataPropertyOf) AxiomAnnotations() []Annotation { return s.Annotations }
func (SubDataPropertyOf) isAxiom()                         {}

// SubAnnotationPropertyOf is annotation property subsumption.
type SubAnnotationPropertyOf struct {
	SubProperty   AnnotationProperty
	SuperProperty AnnotationProperty
	Annotations   []Annotation
}

func (SubAnnotationPropertyOf) Kind() Kind { return KindSubAnnotationPropertyOf }
func (s SubAnnotationPropertyOf) String() string {
	return withAnnotations("SubAnnotationPropertyOf", s.Annotations, s.SubProperty.String(), s.SuperProperty.String())
}
func (s SubAnnotationPropertyOf) AxiomAnnotations() []Annotation { return s.Annotations }
func (SubAnnotationPropertyOf) isAxiom()                         {}

// ObjectPropertyDomain restricts the subjects of an object property.
type ObjectPropertyDomain struct {
	Property    ObjectPropertyExpression
	Domain      ClassExpression
	Annotations []Annotation
}

func (ObjectPropertyDomain) Kind() Kind { return KindObjectPropertyDomain }
func (o ObjectPropertyDomain) String() string {
	return withAnnotations("ObjectPropertyDomain", o.Annotations, o.Property.String(), o.Domain.String())
}
func (o ObjectPropertyDomain) AxiomAnnotations() []Annotation { return o.Annotations }
func (ObjectPropertyDomain) isAxiom()                         {}

// ObjectPropertyRange restricts the objects of an object property.
type ObjectPropertyRange struct {
	Property    ObjectPropertyExpression
	Range       ClassExpression
	Annotations []Annotation
}

func (ObjectPropertyRange) Kind() Kind { return KindObjectPropertyRange }
func (o ObjectPropertyRange) String() string {
	return withAnnotations("ObjectPropertyRange", o.Annotations, o.Property.String(), o.Range.String())
}
func (o ObjectPropertyRange) AxiomAnnotations() []Annotation { return o.Annotations }
func (ObjectPropertyRange) isAxiom()                         {}

// DataPropertyDomain restricts the subjects of a data property.
type DataPropertyDomain struct {
	Property    DataProperty
	Domain      ClassExpression
	Annotations []Annotation
}

func (DataPropertyDomain) Kind() Kind { return KindDataPropertyDomain }
func (d DataPropertyDomain) String() string {
	return withAnnotations("DataPropertyDomain", d.Annotations, d.Property.String(), d.Domain.String())
}
func (d DataPropertyDomain) AxiomAnnotations() []Annotation { return d.Annotations }
func (DataPropertyDomain) isAxiom()                         {}

// DataPropertyRange restricts the values of a data property.
type DataPropertyRange struct {
	Property    DataProperty
	Range       DataRange
	Annotations []Annotation
}

func (DataPropertyRange) Kind() Kind { return KindDataPropertyRange }
func (d DataPropertyRange) String() string {
	return withAnnotations("DataPropertyRange", d.Annotations, d.Property.String(), d.Range.String())
}
func (d DataPropertyRange) AxiomAnnotations() []Annotation { return d.Annotations }
func (DataPropertyRange) isAxiom()                         {}

// AnnotationPropertyDomain restricts the subjects of an annotation property.
type AnnotationPropertyDomain struct {
	Property    AnnotationProperty
	Domain      IRI
	Annotations []Annotation
}

func (AnnotationPropertyDomain) Kind() Kind { return KindAnnotationPropertyDomain }
func (a AnnotationPropertyDomain) String() string {
	return withAnnotations("AnnotationPropertyDomain", a.Annotations, a.Property.String(), a.Domain.String())
}
func (a AnnotationPropertyDomain) AxiomAnnotations() []Annotation { return a.Annotations }
func (AnnotationPropertyDomain) isAxiom()                         {}

// AnnotationPropertyRange restricts the values of an annotation property.
type AnnotationPropertyRange struct {
	Property    AnnotationProperty
	Range       IRI
	Annotations []Annotation
}

func (AnnotationPropertyRange) Kind() Kind { return KindAnnotationPropertyRange }
func (a AnnotationPropertyRange) String() string {
	return withAnnotations("AnnotationPropertyRange", a.Annotations, a.Property.String(), a.Range.String())
}
func (a AnnotationPropertyRange) AxiomAnnotations() []Annotation { return a.Annotations }
func (AnnotationPropertyRange) isAxiom()                         {}

// -- Assertions --

// ClassAssertion states that an individual is an instance of a class expression.
type ClassAssertion struct {
	Class       ClassExpression
	Individual  Individual
	Annotations []Annotation
}

func (ClassAssertion) Kind() Kind { return KindClassAssertion }
func (c ClassAssertion) String() string {
	return withAnnotations("ClassAssertion", c.Annotations, c.Class.String(), c.Individual.String())
}
func (c ClassAssertion) AxiomAnnotations() []Annotation { return c.Annotations }
func (ClassAssertion) isAxiom()                         {}

// ObjectPropertyAssertion relates two individuals.
type ObjectPropertyAssertion struct {
	Property    ObjectPropertyExpression
	Subject     Individual
	Object      Individual
	Annotations []Annotation
}

func (ObjectPropertyAssertion) Kind() Kind { return KindObjectPropertyAssertion }
func (o ObjectPropertyAssertion) String() string {
	return withAnnotations("ObjectPropertyAssertion", o.Annotations, o.Property.String(), o.Subject.String(), o.Object.String())
}
func (o ObjectPropertyAssertion) AxiomAnnotations() []Annotation { return o.Annotations }
func (ObjectPropertyAssertion) isAxiom()                         {}

// DataPropertyAssertion relates an individual to a literal.
type DataPropertyAssertion struct {
	Property    DataProperty
	Subject     Individual
	Object      Literal
	Annotations []Annotation
}

func (DataPropertyAssertion) Kind() Kind { return KindDataPropertyAssertion }
func (d DataPropertyAssertion) String() string {
	return withAnnotations("DataPropertyAssertion", d.Annotations, d.Property.String(), d.Subject.String(), d.Object.String())
}
func (d DataPropertyAssertion) AxiomAnnotations() []Annotation { return d.Annotations }
func (DataPropertyAssertion) isAxiom()                         {}

// AnnotationAssertion annotates an IRI or anonymous individual.
type AnnotationAssertion struct {
	Property    AnnotationProperty
	Subject     AnnotationSubject
	Value       AnnotationValue
	Annotations []Annotation
}

func (AnnotationAssertion) Kind() Kind { return KindAnnotationAssertion }
func (a AnnotationAssertion) String() string {
	return withAnnotations("AnnotationAssertion", a.Annotations, a.Property.String(), a.Subject.String(), a.Value.String())
}
func (a AnnotationAssertion) AxiomAnnotations() []Annotation { return a.Annotations }
func (AnnotationAssertion) isAxiom()                         {}

// WithAnnotations returns a copy of ax carrying the given annotation set.
func WithAnnotations(ax Axiom, annotations []Annotation) Axiom {
	as := SortedSet(annotations)
	switch a := ax.(type) {
	case Declaration:
		a.Annotations = as
		return a
	case SubClassOf:
		a.Annotations = as
		return a
	case EquivalentClasses:
		a.Annotations = as
		return a
	case DisjointClasses:
		a.Annotations = as
		return a
	case SubObjectPropertyOf:
		a.Annotations = as
		return a
	case SubDataPropertyOf:
		a.Annotations = as
		return a
	case SubAnnotationPropertyOf:
		a.Annotations = as
		return a
	case ObjectPropertyDomain:
		a.Annotations = as
		return a
	case ObjectPropertyRange:
		a.Annotations = as
		return a
	case DataPropertyDomain:
		a.Annotations = as
		return a
	case DataPropertyRange:
		a.Annotations = as
		return a
	case AnnotationPropertyDomain:
		a.Annotations = as
		return a
	case AnnotationPropertyRange:
		a.Annotations = as
		return a
	case ClassAssertion:
		a.Annotations = as
		return a
	case ObjectPropertyAssertion:
		a.Annotations = as
		return a
	case DataPropertyAssertion:
		a.Annotations = as
		return a
	case AnnotationAssertion:
		a.Annotations = as
		return a
	}
	return ax
}

// -- Ontology --

// OntologyID names an ontology and optionally its version.
type OntologyID struct {
	OntologyIRI IRI
	VersionIRI  IRI
}

func (OntologyID) Kind() Kind { return KindOntologyID }
func (o OntologyID) String() string {
	if o.VersionIRI == "" {
		return render("OntologyID", o.OntologyIRI.String())
	}
	return render("OntologyID", o.OntologyIRI.String(), o.VersionIRI.String())
}

// IsAnonymous reports whether the ontology has no IRI.
func (o OntologyID) IsAnonymous() bool { return o.OntologyIRI == "" }

// Ontology is an identified set of axioms with ontology level annotations.
type Ontology struct {
	ID          OntologyID
	Annotations []Annotation
	Axioms      []Axiom
}

func (Ontology) Kind() Kind { return KindOntology }

// String renders the ontology header. Axioms are not part of an ontology's identity.
func (o Ontology) String() string {
	return withAnnotations("Ontology", o.Annotations, o.ID.String())
}

// Signature returns the declared entities of the ontology, sorted.
func (o Ontology) Signature() []Entity {
	var out []Entity
	for _, ax := range o.Axioms {
		if d, ok := ax.(Declaration); ok {
			out = append(out, d.Entity)
		}
	}
	return SortedSet(out)
}
