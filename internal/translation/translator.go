package translation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// Session translates domain objects into graph fragments.
//
// Within a session structurally equal objects map to one node and one cached
// translation. A session is single threaded and must not be shared; run
// independent sessions in parallel instead.
type Session struct {
	docCtx     schemas.DocumentContext
	ids        *NodeIDMapper
	cache      map[string]*Translation
	inProgress map[string]struct{}
	document   *Translation
	logger     *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithIDSource sets the identifier source for the session's node ids.
func WithIDSource(src IDSource) Option {
	return func(s *Session) { s.ids = NewNodeIDMapper(src) }
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger.Named("translator")
		}
	}
}

// NewSession creates a translation session scoped to one ontology document.
func NewSession(docCtx schemas.DocumentContext, opts ...Option) (*Session, error) {
	if err := CheckRules(); err != nil {
		return nil, err
	}
	s := &Session{
		docCtx:     docCtx,
		ids:        NewNodeIDMapper(nil),
		cache:      make(map[string]*Translation),
		inProgress: make(map[string]struct{}),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IdentityFor exposes the session's identity assigner.
func (s *Session) IdentityFor(obj owl.Object) schemas.NodeID {
	return s.ids.IdentityFor(obj)
}

// Translate produces the translation of obj, reusing cached translations of
// structurally equal sub-objects.
func (s *Session) Translate(obj owl.Object) (*Translation, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil object", schemas.ErrEncoding)
	}
	// Sub-objects of an acyclic root are acyclic, so only the outermost call walks.
	if len(s.inProgress) == 0 && !owl.Acyclic(obj) {
		return nil, fmt.Errorf("%w: %s contains itself", schemas.ErrCycle, obj.Kind())
	}
	key, err := safeKey(obj)
	if err != nil {
		return nil, err
	}
	if t, ok := s.cache[key]; ok {
		return t, nil
	}
	if _, busy := s.inProgress[key]; busy {
		return nil, fmt.Errorf("%w: %s refers to itself", schemas.ErrCycle, obj.Kind())
	}
	r, ok := rules[obj.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: no translation rule for %s (%T)", schemas.ErrEncoding, obj.Kind(), obj)
	}

	s.inProgress[key] = struct{}{}
	defer delete(s.inProgress, key)

	node, err := schemas.NewNode(s.ids.identityForKey(key), LabelsFor(obj.Kind()), PropertiesFor(obj))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schemas.ErrEncoding, err)
	}
	b := &builder{s: s, t: &Translation{Object: obj, MainNode: node}}
	if err := r(b, obj); err != nil {
		return nil, err
	}
	s.cache[key] = b.t
	return b.t, nil
}

// TranslateOntology translates the ontology header and every axiom in one session.
func (s *Session) TranslateOntology(ont owl.Ontology) (*OntologyTranslation, error) {
	header, err := s.Translate(ont)
	if err != nil {
		return nil, fmt.Errorf("failed to translate ontology header: %w", err)
	}
	out := &OntologyTranslation{Header: header, Axioms: make([]*Translation, 0, len(ont.Axioms))}
	for _, ax := range ont.Axioms {
		t, err := s.Translate(ax)
		if err != nil {
			return nil, fmt.Errorf("failed to translate axiom %s: %w", ax.Kind(), err)
		}
		out.Axioms = append(out.Axioms, t)
	}
	s.logger.Debug("Translated ontology",
		zap.String("ontology", ont.ID.String()),
		zap.Int("axioms", len(out.Axioms)),
		zap.Int("nodes", s.ids.Len()))
	return out, nil
}

// safeKey renders obj's identity key, reporting incomplete objects (nil
// members) as encoding errors.
func safeKey(obj owl.Object) (key string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: incomplete %s: %v", schemas.ErrEncoding, obj.Kind(), r)
		}
	}()
	return objectKey(obj), nil
}

// documentTranslation is the container node that declarations attach their
// entities to.
func (s *Session) documentTranslation() (*Translation, error) {
	if s.document != nil {
		return s.document, nil
	}
	if s.docCtx.DocumentID == "" {
		return nil, fmt.Errorf("%w: declarations need a document context", schemas.ErrEncoding)
	}
	id := s.ids.identityForKey(string(schemas.LabelOntologyDocument) + "|" + s.docCtx.DocumentID)
	node, err := schemas.NewNode(id, []schemas.NodeLabel{schemas.LabelOntologyDocument}, s.docCtx.DocumentProperties())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schemas.ErrEncoding, err)
	}
	s.document = &Translation{MainNode: node}
	return s.document, nil
}

// -- Builder --

// builder accumulates the children and edges of one translation.
type builder struct {
	s *Session
	t *Translation
}

// child translates obj and links it from the main node with label.
func (b *builder) child(label schemas.EdgeLabel, obj owl.Object) (*Translation, error) {
	ct, err := b.s.Translate(obj)
	if err != nil {
		return nil, err
	}
	b.adopt(ct)
	if err := b.edge(b.t, ct, label); err != nil {
		return nil, err
	}
	return ct, nil
}

func (b *builder) adopt(ct *Translation) {
	for _, c := range b.t.Children {
		if c == ct {
			return
		}
	}
	b.t.Children = append(b.t.Children, ct)
}

func (b *builder) edge(from, to *Translation, label schemas.EdgeLabel) error {
	e, err := schemas.NewEdge(from.MainNode, to.MainNode, label, schemas.NoProperties)
	if err != nil {
		return fmt.Errorf("%w: %v", schemas.ErrEncoding, err)
	}
	for _, existing := range b.t.Edges {
		if existing.Key() == e.Key() {
			return nil
		}
	}
	b.t.Edges = append(b.t.Edges, e)
	return nil
}

func children[T owl.Object](b *builder, label schemas.EdgeLabel, objs []T) error {
	for _, o := range objs {
		if _, err := b.child(label, o); err != nil {
			return err
		}
	}
	return nil
}
