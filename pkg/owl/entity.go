package owl

import "strconv"

// Well known IRIs.
const (
	OWLThing          IRI = "http://www.w3.org/2002/07/owl#Thing"
	OWLNothing        IRI = "http://www.w3.org/2002/07/owl#Nothing"
	RDFSLabel         IRI = "http://www.w3.org/2000/01/rdf-schema#label"
	RDFSComment       IRI = "http://www.w3.org/2000/01/rdf-schema#comment"
	RDFLangString     IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
	RDFSLiteral       IRI = "http://www.w3.org/2000/01/rdf-schema#Literal"
	XSDString         IRI = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger        IRI = "http://www.w3.org/2001/XMLSchema#integer"
	XSDBoolean        IRI = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDecimal        IRI = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDNonNegativeInt IRI = "http://www.w3.org/2001/XMLSchema#nonNegativeInteger"
)

// IRI is an internationalized resource identifier.
type IRI string

func (IRI) Kind() Kind           { return KindIRI }
func (i IRI) String() string     { return "<" + string(i) + ">" }
func (IRI) isAnnotationSubject() {}
func (IRI) isAnnotationValue()   {}

// -- Entities --

// Class is a named class.
type Class struct{ IRI IRI }

func (Class) Kind() Kind         { return KindClass }
func (c Class) String() string   { return render("Class", c.IRI.String()) }
func (c Class) EntityIRI() IRI   { return c.IRI }
func (Class) isEntity()          {}
func (Class) isClassExpression() {}

// IsThing reports whether c is owl:Thing.
func (c Class) IsThing() bool { return c.IRI == OWLThing }

// ObjectProperty is a named object property.
type ObjectProperty struct{ IRI IRI }

func (ObjectProperty) Kind() Kind                  { return KindObjectProperty }
func (p ObjectProperty) String() string            { return render("ObjectProperty", p.IRI.String()) }
func (p ObjectProperty) EntityIRI() IRI            { return p.IRI }
func (ObjectProperty) isEntity()                   {}
func (ObjectProperty) isObjectPropertyExpression() {}

// DataProperty is a named data property.
type DataProperty struct{ IRI IRI }

func (DataProperty) Kind() Kind       { return KindDataProperty }
func (p DataProperty) String() string { return render("DataProperty", p.IRI.String()) }
func (p DataProperty) EntityIRI() IRI { return p.IRI }
func (DataProperty) isEntity()        {}

// AnnotationProperty is a named annotation property.
type AnnotationProperty struct{ IRI IRI }

func (AnnotationProperty) Kind() Kind       { return KindAnnotationProperty }
func (p AnnotationProperty) String() string { return render("AnnotationProperty", p.IRI.String()) }
func (p AnnotationProperty) EntityIRI() IRI { return p.IRI }
func (AnnotationProperty) isEntity()        {}

// NamedIndividual is an IRI-identified individual.
type NamedIndividual struct{ IRI IRI }

func (NamedIndividual) Kind() Kind       { return KindNamedIndividual }
func (i NamedIndividual) String() string { return render("NamedIndividual", i.IRI.String()) }
func (i NamedIndividual) EntityIRI() IRI { return i.IRI }
func (NamedIndividual) isEntity()        {}
func (NamedIndividual) isIndividual()    {}

// Datatype is a named datatype.
type Datatype struct{ IRI IRI }

func (Datatype) Kind() Kind       { return KindDatatype }
func (d Datatype) String() string { return render("Datatype", d.IRI.String()) }
func (d Datatype) EntityIRI() IRI { return d.IRI }
func (Datatype) isEntity()        {}
func (Datatype) isDataRange()     {}

// NewEntity builds the entity of kind k named by iri.
func NewEntity(k Kind, iri IRI) (Entity, bool) {
	switch k {
	case KindClass:
		return Class{IRI: iri}, true
	case KindObjectProperty:
		return ObjectProperty{IRI: iri}, true
	case KindDataProperty:
		return DataProperty{IRI: iri}, true
	case KindAnnotationProperty:
		return AnnotationProperty{IRI: iri}, true
	case KindNamedIndividual:
		return NamedIndividual{IRI: iri}, true
	case KindDatatype:
		return Datatype{IRI: iri}, true
	}
	return nil, false
}

// -- Literals and anonymous individuals --

// Literal is a lexical form paired with a datatype and an optional language tag.
type Literal struct {
	Lexical  string
	Datatype Datatype
	Lang     string
}

// NewLiteral returns a typed literal.
func NewLiteral(lexical string, datatype IRI) Literal {
	return Literal{Lexical: lexical, Datatype: Datatype{IRI: datatype}}
}

// LangLiteral returns a language tagged string literal.
func LangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Datatype: Datatype{IRI: RDFLangString}, Lang: lang}
}

// StringLiteral returns an xsd:string literal.
func StringLiteral(lexical string) Literal {
	return NewLiteral(lexical, XSDString)
}

func (Literal) Kind() Kind { return KindLiteral }
func (l Literal) String() string {
	s := strconv.Quote(l.Lexical)
	if l.Lang != "" {
		s += "@" + l.Lang
	}
	return s + "^^" + l.Datatype.IRI.String()
}
func (Literal) isAnnotationValue() {}

// AnonymousIndividual is a blank-node individual scoped to its document.
type AnonymousIndividual struct{ NodeID string }

func (AnonymousIndividual) Kind() Kind           { return KindAnonymousIndividual }
func (a AnonymousIndividual) String() string     { return "_:" + a.NodeID }
func (AnonymousIndividual) isIndividual()        {}
func (AnonymousIndividual) isAnnotationSubject() {}
func (AnonymousIndividual) isAnnotationValue()   {}

// ObjectInverseOf is the inverse of a named object property.
type ObjectInverseOf struct{ Property ObjectProperty }

func (ObjectInverseOf) Kind() Kind                  { return KindObjectInverseOf }
func (o ObjectInverseOf) String() string            { return render("ObjectInverseOf", o.Property.String()) }
func (ObjectInverseOf) isObjectPropertyExpression() {}
