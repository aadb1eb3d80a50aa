package translation

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// LabelsFor returns the node labels for a kind, variant label first.
func LabelsFor(k owl.Kind) []schemas.NodeLabel {
	main := schemas.NodeLabel(k)
	switch k {
	case owl.KindClass:
		return []schemas.NodeLabel{main, schemas.LabelClassExpression, schemas.LabelEntity}
	case owl.KindObjectProperty:
		return []schemas.NodeLabel{main, schemas.LabelObjectPropertyExpression, schemas.LabelEntity}
	case owl.KindDataProperty:
		return []schemas.NodeLabel{main, schemas.LabelDataPropertyExpression, schemas.LabelEntity}
	case owl.KindAnnotationProperty:
		return []schemas.NodeLabel{main, schemas.LabelEntity}
	case owl.KindNamedIndividual:
		return []schemas.NodeLabel{main, schemas.LabelIndividual, schemas.LabelEntity}
	case owl.KindDatatype:
		return []schemas.NodeLabel{main, schemas.LabelDataRange, schemas.LabelEntity}
	case owl.KindAnonymousIndividual:
		return []schemas.NodeLabel{main, schemas.LabelIndividual}
	case owl.KindObjectInverseOf:
		return []schemas.NodeLabel{main, schemas.LabelObjectPropertyExpression}
	case owl.KindDataIntersectionOf, owl.KindDataUnionOf, owl.KindDataComplementOf, owl.KindDataOneOf:
		return []schemas.NodeLabel{main, schemas.LabelDataRange}
	case owl.KindIRI, owl.KindLiteral, owl.KindAnnotation, owl.KindOntologyID, owl.KindOntology:
		return []schemas.NodeLabel{main}
	}
	if owl.IsAxiomKind(k) {
		return []schemas.NodeLabel{main, schemas.LabelAxiom}
	}
	return []schemas.NodeLabel{main, schemas.LabelClassExpression}
}

// CategoryLabel maps a category kind to its node label.
func CategoryLabel(k owl.Kind) (schemas.NodeLabel, bool) {
	switch k {
	case owl.KindAnyEntity:
		return schemas.LabelEntity, true
	case owl.KindAnyClassExpression:
		return schemas.LabelClassExpression, true
	case owl.KindAnyObjectPropertyExpression:
		return schemas.LabelObjectPropertyExpression, true
	case owl.KindAnyDataRange:
		return schemas.LabelDataRange, true
	case owl.KindAnyIndividual:
		return schemas.LabelIndividual, true
	case owl.KindAnyAxiom:
		return schemas.LabelAxiom, true
	}
	return "", false
}

var knownKinds = func() map[owl.Kind]bool {
	m := make(map[owl.Kind]bool)
	for _, k := range owl.Kinds() {
		m[k] = true
	}
	return m
}()

// KindOf resolves the variant kind of a node from its labels.
func KindOf(n schemas.Node) (owl.Kind, bool) {
	for _, l := range n.Labels {
		if schemas.IsCategoryLabel(l) {
			continue
		}
		if k := owl.Kind(l); knownKinds[k] {
			return k, true
		}
	}
	return "", false
}

// Digest is the hex SHA-256 of an object's canonical rendering.
func Digest(obj owl.Object) string {
	sum := sha256.Sum256([]byte(obj.String()))
	return hex.EncodeToString(sum[:])
}

// PropertiesFor returns the identity properties of obj's node.
func PropertiesFor(obj owl.Object) schemas.Properties {
	switch o := obj.(type) {
	case owl.IRI:
		return schemas.Props(map[string]any{schemas.PropIRI: string(o)})
	case owl.Entity:
		return schemas.Props(map[string]any{schemas.PropIRI: string(o.EntityIRI())})
	case owl.Literal:
		return schemas.Props(map[string]any{
			schemas.PropLexicalForm: o.Lexical,
			schemas.PropLanguage:    o.Lang,
			schemas.PropDigest:      Digest(o),
		})
	case owl.AnonymousIndividual:
		return schemas.Props(map[string]any{schemas.PropNodeID: o.NodeID})
	case owl.OntologyID:
		return schemas.Props(map[string]any{
			schemas.PropOntologyIRI: string(o.OntologyIRI),
			schemas.PropVersionIRI:  string(o.VersionIRI),
		})
	case owl.ObjectMinCardinality:
		return cardinalityProps(o, o.Cardinality)
	case owl.ObjectMaxCardinality:
		return cardinalityProps(o, o.Cardinality)
	case owl.ObjectExactCardinality:
		return cardinalityProps(o, o.Cardinality)
	case owl.DataMinCardinality:
		return cardinalityProps(o, o.Cardinality)
	case owl.DataMaxCardinality:
		return cardinalityProps(o, o.Cardinality)
	case owl.DataExactCardinality:
		return cardinalityProps(o, o.Cardinality)
	}
	return schemas.Props(map[string]any{schemas.PropDigest: Digest(obj)})
}

func cardinalityProps(obj owl.Object, n int) schemas.Properties {
	return schemas.Props(map[string]any{
		schemas.PropDigest:      Digest(obj),
		schemas.PropCardinality: n,
	})
}
