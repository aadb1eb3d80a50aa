package schemas

// NodeLabel is a graph node label.
type NodeLabel string

// EdgeLabel is a graph relationship type.
type EdgeLabel string

// -- Node labels --

const (
	// Category labels, carried alongside a variant label.
	LabelEntity                   NodeLabel = "Entity"
	LabelClassExpression          NodeLabel = "ClassExpression"
	LabelObjectPropertyExpression NodeLabel = "ObjectPropertyExpression"
	LabelDataPropertyExpression   NodeLabel = "DataPropertyExpression"
	LabelDataRange                NodeLabel = "DataRange"
	LabelIndividual               NodeLabel = "Individual"
	LabelAxiom                    NodeLabel = "Axiom"

	// Primitives.
	LabelIRI                 NodeLabel = "IRI"
	LabelLiteral             NodeLabel = "Literal"
	LabelAnonymousIndividual NodeLabel = "AnonymousIndividual"
	LabelAnnotation          NodeLabel = "Annotation"
	LabelOntologyID          NodeLabel = "OntologyID"
	LabelOntology            NodeLabel = "Ontology"

	// Versioning containers.
	LabelProject          NodeLabel = "Project"
	LabelBranch           NodeLabel = "Branch"
	LabelOntologyDocument NodeLabel = "OntologyDocument"
)

// -- Edge labels --

const (
	EdgeEntityIRI         EdgeLabel = "ENTITY_IRI"
	EdgeEntitySignatureOf EdgeLabel = "ENTITY_SIGNATURE_OF"
	EdgeOntologyID        EdgeLabel = "ONTOLOGY_ID"

	EdgeEntity                        EdgeLabel = "ENTITY"
	EdgeSubClassExpression            EdgeLabel = "SUB_CLASS_EXPRESSION"
	EdgeSuperClassExpression          EdgeLabel = "SUPER_CLASS_EXPRESSION"
	EdgeClassExpression               EdgeLabel = "CLASS_EXPRESSION"
	EdgeObjectPropertyExpression      EdgeLabel = "OBJECT_PROPERTY_EXPRESSION"
	EdgeDataPropertyExpression        EdgeLabel = "DATA_PROPERTY_EXPRESSION"
	EdgeSubObjectPropertyExpression   EdgeLabel = "SUB_OBJECT_PROPERTY_EXPRESSION"
	EdgeSuperObjectPropertyExpression EdgeLabel = "SUPER_OBJECT_PROPERTY_EXPRESSION"
	EdgeSubDataPropertyExpression     EdgeLabel = "SUB_DATA_PROPERTY_EXPRESSION"
	EdgeSuperDataPropertyExpression   EdgeLabel = "SUPER_DATA_PROPERTY_EXPRESSION"
	EdgeSubAnnotationProperty         EdgeLabel = "SUB_ANNOTATION_PROPERTY"
	EdgeSuperAnnotationProperty       EdgeLabel = "SUPER_ANNOTATION_PROPERTY"
	EdgeDomain                        EdgeLabel = "DOMAIN"
	EdgeRange                         EdgeLabel = "RANGE"
	EdgeIndividual                    EdgeLabel = "INDIVIDUAL"
	EdgeSourceIndividual              EdgeLabel = "SOURCE_INDIVIDUAL"
	EdgeTargetIndividual              EdgeLabel = "TARGET_INDIVIDUAL"
	EdgeTargetValue                   EdgeLabel = "TARGET_VALUE"
	EdgeDataRange                     EdgeLabel = "DATA_RANGE"
	EdgeLiteral                       EdgeLabel = "LITERAL"
	EdgeDatatype                      EdgeLabel = "DATATYPE"
	EdgeAnnotationProperty            EdgeLabel = "ANNOTATION_PROPERTY"
	EdgeAnnotationSubject             EdgeLabel = "ANNOTATION_SUBJECT"
	EdgeAnnotationValue               EdgeLabel = "ANNOTATION_VALUE"
	EdgeAxiomAnnotation               EdgeLabel = "AXIOM_ANNOTATION"
	EdgeAnnotationAnnotation          EdgeLabel = "ANNOTATION_ANNOTATION"
	EdgeOntologyAnnotation            EdgeLabel = "ONTOLOGY_ANNOTATION"

	// Container structure and links from a document to its contents.
	EdgeBranch           EdgeLabel = "BRANCH"
	EdgeOntologyDocument EdgeLabel = "ONTOLOGY_DOCUMENT"
	EdgeAxiom            EdgeLabel = "AXIOM"
	EdgeOntology         EdgeLabel = "ONTOLOGY"
)

// -- Property keys --

const (
	PropIRI                = "iri"
	PropDigest             = "digest"
	PropLexicalForm        = "lexicalForm"
	PropLanguage           = "language"
	PropNodeID             = "nodeId"
	PropCardinality        = "cardinality"
	PropOntologyIRI        = "ontologyIri"
	PropVersionIRI         = "versionIri"
	PropProjectID          = "projectId"
	PropBranchID           = "branchId"
	PropOntologyDocumentID = "ontologyDocumentId"
	PropStructuralSpec     = "structuralSpec"
)

// ownershipEdges are edges an entity or ontology owns. Only a declaration
// style translation may create or remove them.
var ownershipEdges = map[EdgeLabel]struct{}{
	EdgeEntityIRI:         {},
	EdgeEntitySignatureOf: {},
	EdgeOntologyID:        {},
}

// IsOwnershipEdge reports whether label names an ownership edge.
func IsOwnershipEdge(label EdgeLabel) bool {
	_, ok := ownershipEdges[label]
	return ok
}

// labelSchema lists the properties every node with a given label must carry.
// Labels without an entry have no required properties.
var labelSchema = map[NodeLabel][]string{
	LabelEntity:              {PropIRI},
	LabelIRI:                 {PropIRI},
	LabelLiteral:             {PropLexicalForm, PropLanguage, PropDigest},
	LabelAnonymousIndividual: {PropNodeID},
	LabelAnnotation:          {PropDigest},
	LabelAxiom:               {PropDigest},
	LabelOntologyID:          {PropOntologyIRI, PropVersionIRI},
	LabelOntology:            {PropDigest},
	LabelProject:             {PropProjectID},
	LabelBranch:              {PropBranchID},
	LabelOntologyDocument:    {PropOntologyDocumentID},

	"ObjectMinCardinality":   {PropDigest, PropCardinality},
	"ObjectMaxCardinality":   {PropDigest, PropCardinality},
	"ObjectExactCardinality": {PropDigest, PropCardinality},
	"DataMinCardinality":     {PropDigest, PropCardinality},
	"DataMaxCardinality":     {PropDigest, PropCardinality},
	"DataExactCardinality":   {PropDigest, PropCardinality},
}

// RequiredProperties returns the property keys a node with label must carry.
func RequiredProperties(label NodeLabel) []string {
	return labelSchema[label]
}

// IsCategoryLabel reports whether label is a grouping label rather than a variant label.
func IsCategoryLabel(label NodeLabel) bool {
	switch label {
	case LabelEntity, LabelClassExpression, LabelObjectPropertyExpression,
		LabelDataPropertyExpression, LabelDataRange, LabelIndividual, LabelAxiom:
		return true
	}
	return false
}
