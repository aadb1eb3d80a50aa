package owlfile

import (
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// -- Class expressions --

func (p *parser) classExpression(n *yaml.Node) (owl.ClassExpression, error) {
	if n.Kind == yaml.ScalarNode {
		iri, err := p.iri(n)
		return owl.Class{IRI: iri}, err
	}
	kind, arg, err := tagged(n)
	if err != nil {
		return nil, err
	}
	switch k := owl.Kind(kind); k {
	case owl.KindClass:
		iri, err := p.iri(arg)
		return owl.Class{IRI: iri}, err
	case owl.KindObjectIntersectionOf, owl.KindObjectUnionOf:
		ops, err := p.classExpressions(arguments(arg))
		if err != nil {
			return nil, err
		}
		if len(ops) < 2 {
			return nil, errAt(n, "%s needs at least two operands", k)
		}
		if k == owl.KindObjectIntersectionOf {
			return owl.NewObjectIntersectionOf(ops...), nil
		}
		return owl.NewObjectUnionOf(ops...), nil
	case owl.KindObjectComplementOf:
		op, err := p.classExpression(arg)
		return owl.ObjectComplementOf{Operand: op}, err
	case owl.KindObjectOneOf:
		var inds []owl.Individual
		for _, a := range arguments(arg) {
			ind, err := p.individual(a)
			if err != nil {
				return nil, err
			}
			inds = append(inds, ind)
		}
		return owl.NewObjectOneOf(inds...), nil
	case owl.KindObjectSomeValuesFrom, owl.KindObjectAllValuesFrom:
		args, err := arity(arg, kind, 2)
		if err != nil {
			return nil, err
		}
		prop, filler, err := p.objectRestriction(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if k == owl.KindObjectSomeValuesFrom {
			return owl.ObjectSomeValuesFrom{Property: prop, Filler: filler}, nil
		}
		return owl.ObjectAllValuesFrom{Property: prop, Filler: filler}, nil
	case owl.KindObjectHasValue:
		args, err := arity(arg, kind, 2)
		if err != nil {
			return nil, err
		}
		prop, err := p.objectProperty(args[0])
		if err != nil {
			return nil, err
		}
		ind, err := p.individual(args[1])
		return owl.ObjectHasValue{Property: prop, Value: ind}, err
	case owl.KindObjectHasSelf:
		prop, err := p.objectProperty(arg)
		return owl.ObjectHasSelf{Property: prop}, err
	case owl.KindObjectMinCardinality, owl.KindObjectMaxCardinality, owl.KindObjectExactCardinality:
		return p.objectCardinality(k, arg)
	case owl.KindDataSomeValuesFrom, owl.KindDataAllValuesFrom:
		args, err := arity(arg, kind, 2)
		if err != nil {
			return nil, err
		}
		prop, filler, err := p.dataRestriction(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if k == owl.KindDataSomeValuesFrom {
			return owl.DataSomeValuesFrom{Property: prop, Filler: filler}, nil
		}
		return owl.DataAllValuesFrom{Property: prop, Filler: filler}, nil
	case owl.KindDataHasValue:
		args, err := arity(arg, kind, 2)
		if err != nil {
			return nil, err
		}
		prop, err := p.dataProperty(args[0])
		if err != nil {
			return nil, err
		}
		lit, err := p.literal(args[1])
		return owl.DataHasValue{Property: prop, Value: lit}, err
	case owl.KindDataMinCardinality, owl.KindDataMaxCardinality, owl.KindDataExactCardinality:
		return p.dataCardinality(k, arg)
	}
	return nil, errAt(n, "%s is not a class expression", kind)
}

func (p *parser) classExpressions(args []*yaml.Node) ([]owl.ClassExpression, error) {
	out := make([]owl.ClassExpression, 0, len(args))
	for _, a := range args {
		ce, err := p.classExpression(a)
		if err != nil {
			return nil, err
		}
		out = append(out, ce)
	}
	return out, nil
}

func (p *parser) objectRestriction(propNode, fillerNode *yaml.Node) (owl.ObjectPropertyExpression, owl.ClassExpression, error) {
	prop, err := p.objectProperty(propNode)
	if err != nil {
		return nil, nil, err
	}
	filler, err := p.classExpression(fillerNode)
	return prop, filler, err
}

func (p *parser) dataRestriction(propNode, fillerNode *yaml.Node) (owl.DataProperty, owl.DataRange, error) {
	prop, err := p.dataProperty(propNode)
	if err != nil {
		return owl.DataProperty{}, nil, err
	}
	filler, err := p.dataRange(fillerNode)
	return prop, filler, err
}

// objectCardinality reads [n, property] or [n, property, filler]. The filler
// defaults to owl:Thing.
func (p *parser) objectCardinality(k owl.Kind, arg *yaml.Node) (owl.ClassExpression, error) {
	args := arguments(arg)
	if len(args) != 2 && len(args) != 3 {
		return nil, errAt(arg, "%s takes 2 or 3 arguments, got %d", k, len(args))
	}
	c, err := cardinality(args[0])
	if err != nil {
		return nil, err
	}
	var filler owl.ClassExpression = owl.Class{IRI: owl.OWLThing}
	prop, err := p.objectProperty(args[1])
	if err != nil {
		return nil, err
	}
	if len(args) == 3 {
		if filler, err = p.classExpression(args[2]); err != nil {
			return nil, err
		}
	}
	switch k {
	case owl.KindObjectMinCardinality:
		return owl.ObjectMinCardinality{Cardinality: c, Property: prop, Filler: filler}, nil
	case owl.KindObjectMaxCardinality:
		return owl.ObjectMaxCardinality{Cardinality: c, Property: prop, Filler: filler}, nil
	}
	return owl.ObjectExactCardinality{Cardinality: c, Property: prop, Filler: filler}, nil
}

// dataCardinality reads [n, property] or [n, property, range]. The range
// defaults to rdfs:Literal.
func (p *parser) dataCardinality(k owl.Kind, arg *yaml.Node) (owl.ClassExpression, error) {
	args := arguments(arg)
	if len(args) != 2 && len(args) != 3 {
		return nil, errAt(arg, "%s takes 2 or 3 arguments, got %d", k, len(args))
	}
	c, err := cardinality(args[0])
	if err != nil {
		return nil, err
	}
	var filler owl.DataRange = owl.Datatype{IRI: owl.RDFSLiteral}
	prop, err := p.dataProperty(args[1])
	if err != nil {
		return nil, err
	}
	if len(args) == 3 {
		if filler, err = p.dataRange(args[2]); err != nil {
			return nil, err
		}
	}
	switch k {
	case owl.KindDataMinCardinality:
		return owl.DataMinCardinality{Cardinality: c, Property: prop, Filler: filler}, nil
	case owl.KindDataMaxCardinality:
		return owl.DataMaxCardinality{Cardinality: c, Property: prop, Filler: filler}, nil
	}
	return owl.DataExactCardinality{Cardinality: c, Property: prop, Filler: filler}, nil
}

// -- Data ranges --

func (p *parser) dataRange(n *yaml.Node) (owl.DataRange, error) {
	if n.Kind == yaml.ScalarNode {
		iri, err := p.iri(n)
		return owl.Datatype{IRI: iri}, err
	}
	kind, arg, err := tagged(n)
	if err != nil {
		return nil, err
	}
	switch k := owl.Kind(kind); k {
	case owl.KindDatatype:
		iri, err := p.iri(arg)
		return owl.Datatype{IRI: iri}, err
	case owl.KindDataIntersectionOf, owl.KindDataUnionOf:
		var ops []owl.DataRange
		for _, a := range arguments(arg) {
			op, err := p.dataRange(a)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		if len(ops) < 2 {
			return nil, errAt(n, "%s needs at least two operands", k)
		}
		if k == owl.KindDataIntersectionOf {
			return owl.NewDataIntersectionOf(ops...), nil
		}
		return owl.NewDataUnionOf(ops...), nil
	case owl.KindDataComplementOf:
		op, err := p.dataRange(arg)
		return owl.DataComplementOf{Operand: op}, err
	case owl.KindDataOneOf:
		lits, err := p.literals(arguments(arg))
		if err != nil {
			return nil, err
		}
		return owl.NewDataOneOf(lits...), nil
	}
	return nil, errAt(n, "%s is not a data range", kind)
}
