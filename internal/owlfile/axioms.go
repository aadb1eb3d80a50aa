package owlfile

import (
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

const annotationsKey = "annotations"

// axiom reads a mapping holding one axiom kind key and an optional
// annotations list.
func (p *parser) axiom(n *yaml.Node) (owl.Axiom, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errAt(n, "expected an axiom mapping")
	}
	var (
		kind string
		arg  *yaml.Node
		anns []owl.Annotation
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Value == annotationsKey {
			if val.Kind != yaml.SequenceNode {
				return nil, errAt(val, "annotations must be a list")
			}
			nodes := make([]yaml.Node, 0, len(val.Content))
			for _, c := range val.Content {
				nodes = append(nodes, *c)
			}
			var err error
			if anns, err = p.annotations(nodes); err != nil {
				return nil, err
			}
			continue
		}
		if kind != "" {
			return nil, errAt(key, "axiom has both %s and %s", kind, key.Value)
		}
		kind, arg = key.Value, val
	}
	if kind == "" {
		return nil, errAt(n, "axiom kind missing")
	}

	ax, err := p.axiomBody(n, owl.Kind(kind), arg)
	if err != nil {
		return nil, err
	}
	return owl.WithAnnotations(ax, anns), nil
}

func (p *parser) axiomBody(n *yaml.Node, k owl.Kind, arg *yaml.Node) (owl.Axiom, error) {
	switch k {
	case owl.KindDeclaration:
		e, err := p.entity(arg)
		return owl.Declaration{Entity: e}, err

	case owl.KindSubClassOf:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		ces, err := p.classExpressions(args)
		if err != nil {
			return nil, err
		}
		return owl.SubClassOf{SubClass: ces[0], SuperClass: ces[1]}, nil

	case owl.KindEquivalentClasses, owl.KindDisjointClasses:
		ces, err := p.classExpressions(arguments(arg))
		if err != nil {
			return nil, err
		}
		if len(ces) < 2 {
			return nil, errAt(n, "%s needs at least two classes", k)
		}
		if k == owl.KindEquivalentClasses {
			return owl.NewEquivalentClasses(ces...), nil
		}
		return owl.NewDisjointClasses(ces...), nil

	case owl.KindSubObjectPropertyOf:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		sub, err := p.objectProperty(args[0])
		if err != nil {
			return nil, err
		}
		super, err := p.objectProperty(args[1])
		return owl.SubObjectPropertyOf{SubProperty: sub, SuperProperty: super}, err

	case owl.KindSubDataPropertyOf:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		sub, err := p.dataProperty(args[0])
		if err != nil {
			return nil, err
		}
		super, err := p.dataProperty(args[1])
		return owl.SubDataPropertyOf{SubProperty: sub, SuperProperty: super}, err

	case owl.KindSubAnnotationPropertyOf:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		sub, err := p.annotationProperty(args[0])
		if err != nil {
			return nil, err
		}
		super, err := p.annotationProperty(args[1])
		return owl.SubAnnotationPropertyOf{SubProperty: sub, SuperProperty: super}, err

	case owl.KindObjectPropertyDomain, owl.KindObjectPropertyRange:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		prop, ce, err := p.objectRestriction(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if k == owl.KindObjectPropertyDomain {
			return owl.ObjectPropertyDomain{Property: prop, Domain: ce}, nil
		}
		return owl.ObjectPropertyRange{Property: prop, Range: ce}, nil

	case owl.KindDataPropertyDomain:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		prop, err := p.dataProperty(args[0])
		if err != nil {
			return nil, err
		}
		ce, err := p.classExpression(args[1])
		return owl.DataPropertyDomain{Property: prop, Domain: ce}, err

	case owl.KindDataPropertyRange:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		prop, dr, err := p.dataRestriction(args[0], args[1])
		return owl.DataPropertyRange{Property: prop, Range: dr}, err

	case owl.KindAnnotationPropertyDomain, owl.KindAnnotationPropertyRange:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		prop, err := p.annotationProperty(args[0])
		if err != nil {
			return nil, err
		}
		iri, err := p.iri(args[1])
		if err != nil {
			return nil, err
		}
		if k == owl.KindAnnotationPropertyDomain {
			return owl.AnnotationPropertyDomain{Property: prop, Domain: iri}, nil
		}
		return owl.AnnotationPropertyRange{Property: prop, Range: iri}, nil

	case owl.KindClassAssertion:
		args, err := arity(arg, string(k), 2)
		if err != nil {
			return nil, err
		}
		ce, err := p.classExpression(args[0])
		if err != nil {
			return nil, err
		}
		ind, err := p.individual(args[1])
		return owl.ClassAssertion{Class: ce, Individual: ind}, err

	case owl.KindObjectPropertyAssertion:
		args, err := arity(arg, string(k), 3)
		if err != nil {
			return nil, err
		}
		prop, err := p.objectProperty(args[0])
		if err != nil {
			return nil, err
		}
		subj, err := p.individual(args[1])
		if err != nil {
			return nil, err
		}
		obj, err := p.individual(args[2])
		return owl.ObjectPropertyAssertion{Property: prop, Subject: subj, Object: obj}, err

	case owl.KindDataPropertyAssertion:
		args, err := arity(arg, string(k), 3)
		if err != nil {
			return nil, err
		}
		prop, err := p.dataProperty(args[0])
		if err != nil {
			return nil, err
		}
		subj, err := p.individual(args[1])
		if err != nil {
			return nil, err
		}
		lit, err := p.literal(args[2])
		return owl.DataPropertyAssertion{Property: prop, Subject: subj, Object: lit}, err

	case owl.KindAnnotationAssertion:
		args, err := arity(arg, string(k), 3)
		if err != nil {
			return nil, err
		}
		prop, err := p.annotationProperty(args[0])
		if err != nil {
			return nil, err
		}
		subj, err := p.annotationSubject(args[1])
		if err != nil {
			return nil, err
		}
		val, err := p.annotationValue(args[2])
		return owl.AnnotationAssertion{Property: prop, Subject: subj, Value: val}, err
	}
	return nil, errAt(n, "unknown axiom kind %s", k)
}
