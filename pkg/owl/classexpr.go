package owl

import "strconv"

// -- Boolean class constructors --

// ObjectIntersectionOf is the conjunction of its operands.
type ObjectIntersectionOf struct{ Operands []ClassExpression }

// NewObjectIntersectionOf normalizes the operand set.
func NewObjectIntersectionOf(ops ...ClassExpression) ObjectIntersectionOf {
	return ObjectIntersectionOf{Operands: SortedSet(ops)}
}

func (ObjectIntersectionOf) Kind() Kind { return KindObjectIntersectionOf }
func (o ObjectIntersectionOf) String() string {
	return render("ObjectIntersectionOf", setStrings(o.Operands)...)
}
func (ObjectIntersectionOf) isClassExpression() {}

// ObjectUnionOf is the disjunction of its operands.
type ObjectUnionOf struct{ Operands []ClassExpression }

// NewObjectUnionOf normalizes the operand set.
func NewObjectUnionOf(ops ...ClassExpression) ObjectUnionOf {
	return ObjectUnionOf{Operands: SortedSet(ops)}
}

func (ObjectUnionOf) Kind() Kind         { return KindObjectUnionOf }
func (o ObjectUnionOf) String() string   { return render("ObjectUnionOf", setStrings(o.Operands)...) }
func (ObjectUnionOf) isClassExpression() {}

// ObjectComplementOf is the negation of its operand.
type ObjectComplementOf struct{ Operand ClassExpression }

func (ObjectComplementOf) Kind() Kind         { return KindObjectComplementOf }
func (o ObjectComplementOf) String() string   { return render("ObjectComplementOf", o.Operand.String()) }
func (ObjectComplementOf) isClassExpression() {}

// ObjectOneOf enumerates its member individuals.
type ObjectOneOf struct{ Individuals []Individual }

// NewObjectOneOf normalizes the member set.
func NewObjectOneOf(inds ...Individual) ObjectOneOf {
	return ObjectOneOf{Individuals: SortedSet(inds)}
}

func (ObjectOneOf) Kind() Kind         { return KindObjectOneOf }
func (o ObjectOneOf) String() string   { return render("ObjectOneOf", setStrings(o.Individuals)...) }
func (ObjectOneOf) isClassExpression() {}

// -- Object property restrictions --

// ObjectSomeValuesFrom is an existential restriction.
type ObjectSomeValuesFrom struct {
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (ObjectSomeValuesFrom) Kind() Kind { return KindObjectSomeValuesFrom }
func (o ObjectSomeValuesFrom) String() string {
	return render("ObjectSomeValuesFrom", o.Property.String(), o.Filler.String())
}
func (ObjectSomeValuesFrom) isClassExpression() {}

// ObjectAllValuesFrom is a universal restriction.
type ObjectAllValuesFrom struct {
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (ObjectAllValuesFrom) Kind() Kind { return KindObjectAllValuesFrom }
func (o ObjectAllValuesFrom) String() string {
	return render("ObjectAllValuesFrom", o.Property.String(), o.Filler.String())
}
func (ObjectAllValuesFrom) isClassExpression() {}

// ObjectHasValue restricts a property to a specific individual.
type ObjectHasValue struct {
	Property ObjectPropertyExpression
	Value    Individual
}

func (ObjectHasValue) Kind() Kind { return KindObjectHasValue }
func (o ObjectHasValue) String() string {
	return render("ObjectHasValue", o.Property.String(), o.Value.String())
}
func (ObjectHasValue) isClassExpression() {}

// ObjectHasSelf is the local reflexivity restriction.
type ObjectHasSelf struct{ Property ObjectPropertyExpression }

func (ObjectHasSelf) Kind() Kind         { return KindObjectHasSelf }
func (o ObjectHasSelf) String() string   { return render("ObjectHasSelf", o.Property.String()) }
func (ObjectHasSelf) isClassExpression() {}

// ObjectMinCardinality is a qualified minimum cardinality restriction.
type ObjectMinCardinality struct {
	Cardinality int
	Property    ObjectPropertyExpression
	Filler      ClassExpression
}

func (ObjectMinCardinality) Kind() Kind { return KindObjectMinCardinality }
func (o ObjectMinCardinality) String() string {
	return render("ObjectMinCardinality", strconv.Itoa(o.Cardinality), o.Property.String(), o.Filler.String())
}
func (ObjectMinCardinality) isClassExpression() {}

// ObjectMaxCardinality is a qualified maximum cardinality restriction.
type ObjectMaxCardinality struct {
	Cardinality int
	Property    ObjectPropertyExpression
	Filler      ClassExpression
}

func (ObjectMaxCardinality) Kind() Kind { return KindObjectMaxCardinality }
func (o ObjectMaxCardinality) String() string {
	return render("ObjectMaxCardinality", strconv.Itoa(o.Cardinality), o.Property.String(), o.Filler.String())
}
func (ObjectMaxCardinality) isClassExpression() {}

// ObjectExactCardinality is a qualified exact cardinality restriction.
type ObjectExactCardinality struct {
	Cardinality int
	Property    ObjectPropertyExpression
	Filler      ClassExpression
}

func (ObjectExactCardinality) Kind() Kind { return KindObjectExactCardinality }
func (o ObjectExactCardinality) String() string {
	return render("ObjectExactCardinality", strconv.Itoa(o.Cardinality), o.Property.String(), o.Filler.String())
}
func (ObjectExactCardinality) isClassExpression() {}

// -- Data property restrictions --

// DataSomeValuesFrom is an existential data restriction.
type DataSomeValuesFrom struct {
	Property DataProperty
	Filler   DataRange
}

func (DataSomeValuesFrom) Kind() Kind { return KindDataSomeValuesFrom }
func (d DataSomeValuesFrom) String() string {
	return render("DataSomeValuesFrom", d.Property.String(), d.Filler.String())
}
func (DataSomeValuesFrom) isClassExpression() {}

// DataAllValuesFrom is a universal data restriction.
type DataAllValuesFrom struct {
	Property DataProperty
	Filler   DataRange
}

func (DataAllValuesFrom) Kind() Kind { return KindDataAllValuesFrom }
func (d DataAllValuesFrom) String() string {
	return render("DataAllValuesFrom", d.Property.String(), d.Filler.String())
}
func (DataAllValuesFrom) isClassExpression() {}

// DataHasValue restricts a data property to a literal.
type DataHasValue struct {
	Property DataProperty
	Value    Literal
}

func (DataHasValue) Kind() Kind { return KindDataHasValue }
func (d DataHasValue) String() string {
	return render("DataHasValue", d.Property.String(), d.Value.String())
}
func (DataHasValue) isClassExpression() {}

// DataMinCardinality is a qualified minimum data cardinality restriction.
type DataMinCardinality struct {
	Cardinality int
	Property    DataProperty
	Filler      DataRange
}

func (DataMinCardinality) Kind() Kind { return KindDataMinCardinality }
func (d DataMinCardinality) String() string {
	return render("DataMinCardinality", strconv.Itoa(d.Cardinality), d.Property.String(), d.Filler.String())
}
func (DataMinCardinality) isClassExpression() {}

// DataMaxCardinality is a qualified maximum data cardinality restriction.
type DataMaxCardinality struct {
	Cardinality int
	Property    DataProperty
	Filler      DataRange
}

func (DataMaxCardinality) Kind() Kind { return KindDataMaxCardinality }
func (d DataMaxCardinality) String() string {
	return render("DataMaxCardinality", strconv.Itoa(d.Cardinality), d.Property.String(), d.Filler.String())
}
func (DataMaxCardinality) isClassExpression() {}

// DataExactCardinality is a qualified exact data cardinality restriction.
type DataExactCardinality struct {
	Cardinality int
	Property    DataProperty
	Filler      DataRange
}

func (DataExactCardinality) Kind() Kind { return KindDataExactCardinality }
func (d DataExactCardinality) String() string {
	return render("DataExactCardinality", strconv.Itoa(d.Cardinality), d.Property.String(), d.Filler.String())
}
func (DataExactCardinality) isClassExpression() {}

// -- Data ranges --

// DataIntersectionOf is the intersection of data ranges.
type DataIntersectionOf struct{ Operands []DataRange }

// NewDataIntersectionOf normalizes the operand set.
func NewDataIntersectionOf(ops ...DataRange) DataIntersectionOf {
	return DataIntersectionOf{Operands: SortedSet(ops)}
}

func (DataIntersectionOf) Kind() Kind { return KindDataIntersectionOf }
func (d DataIntersectionOf) String() string {
	return render("DataIntersectionOf", setStrings(d.Operands)...)
}
func (DataIntersectionOf) isDataRange() {}

// DataUnionOf is the union of data ranges.
type DataUnionOf struct{ Operands []DataRange }

// NewDataUnionOf normalizes the operand set.
func NewDataUnionOf(ops ...DataRange) DataUnionOf {
	return DataUnionOf{Operands: SortedSet(ops)}
}

func (DataUnionOf) Kind() Kind       { return KindDataUnionOf }
func (d DataUnionOf) String() string { return render("DataUnionOf", setStrings(d.Operands)...) }
func (DataUnionOf) isDataRange()     {}

// DataComplementOf is the complement of a data range.
type DataComplementOf struct{ Operand DataRange }

func (DataComplementOf) Kind() Kind       { return KindDataComplementOf }
func (d DataComplementOf) String() string { return render("DataComplementOf", d.Operand.String()) }
func (DataComplementOf) isDataRange()     {}

// DataOneOf enumerates literals.
type DataOneOf struct{ Literals []Literal }

// NewDataOneOf normalizes the literal set.
func NewDataOneOf(lits ...Literal) DataOneOf {
	return DataOneOf{Literals: SortedSet(lits)}
}

func (DataOneOf) Kind() Kind       { return KindDataOneOf }
func (d DataOneOf) String() string { return render("DataOneOf", setStrings(d.Literals)...) }
func (DataOneOf) isDataRange()     {}
