// Package knowledgegraph provides the graph stores statements run against: an
// indexed in-memory graph, a PostgreSQL graph and a Neo4j driver adapter.
package knowledgegraph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
)

// -- Internal data structures --

// Set is a simple way to store unique ids.
type Set map[string]struct{}

func (s Set) Add(item string)           { s[item] = struct{}{} }
func (s Set) Remove(item string)        { delete(s, item) }
func (s Set) Contains(item string) bool { _, exists := s[item]; return exists }
func (s Set) Size() int                 { return len(s) }

// PropertyIndex maps a property key and string value to node ids.
type PropertyIndex map[string]map[string]Set

// Indexes bundles up all indexes for fast lookups.
type Indexes struct {
	ByLabel       map[schemas.NodeLabel]Set
	ByProperty    PropertyIndex
	OutboundEdges map[schemas.NodeID]Set // node id -> edge ids
	InboundEdges  map[schemas.NodeID]Set
}

type storedEdge struct {
	id    string
	from  schemas.NodeID
	to    schemas.NodeID
	label schemas.EdgeLabel
	props schemas.Properties
}

// KnowledgeGraph is the thread safe in-memory graph store. Statements run
// under the write lock and are rolled back on failure.
type KnowledgeGraph struct {
	nodes   map[schemas.NodeID]schemas.Node
	edges   map[string]storedEdge
	indexes Indexes
	logger  *zap.Logger
	mutex   sync.RWMutex
}

var (
	_ cypher.Store   = (*KnowledgeGraph)(nil)
	_ cypher.Backend = (*graphView)(nil)
)

// New initializes an empty KnowledgeGraph.
func New(logger *zap.Logger) *KnowledgeGraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeGraph{
		nodes: make(map[schemas.NodeID]schemas.Node),
		edges: make(map[string]storedEdge),
		indexes: Indexes{
			ByLabel:       make(map[schemas.NodeLabel]Set),
			ByProperty:    make(PropertyIndex),
			OutboundEdges: make(map[schemas.NodeID]Set),
			InboundEdges:  make(map[schemas.NodeID]Set),
		},
		logger: logger.Named("knowledge_graph"),
	}
}

// -- Store --

// Run executes statements in order. A failing statement is rolled back and
// stops the run; earlier statements stay applied.
func (kg *KnowledgeGraph) Run(ctx context.Context, stmts []cypher.Statement) error {
	kg.mutex.Lock()
	defer kg.mutex.Unlock()

	for i, stmt := range stmts {
		view := &graphView{kg: kg, journal: &journal{}}
		if err := cypher.Execute(ctx, view, stmt); err != nil {
			view.journal.rollback()
			return fmt.Errorf("statement %d of %d failed: %w", i+1, len(stmts), err)
		}
	}
	kg.logger.Debug("Ran statements", zap.Int("count", len(stmts)), zap.Int("nodes", len(kg.nodes)), zap.Int("edges", len(kg.edges)))
	return nil
}

// ReadPaths answers a read query.
func (kg *KnowledgeGraph) ReadPaths(ctx context.Context, q cypher.ReadQuery) ([]schemas.Path, error) {
	kg.mutex.RLock()
	defer kg.mutex.RUnlock()
	return cypher.EvaluatePaths(ctx, &graphView{kg: kg}, q)
}

// Reload returns every path below a stored node.
func (kg *KnowledgeGraph) Reload(ctx context.Context, id schemas.NodeID, hops int) ([]schemas.Path, error) {
	kg.mutex.RLock()
	defer kg.mutex.RUnlock()
	return cypher.ReloadPaths(ctx, &graphView{kg: kg}, id, hops)
}

// -- Inspection --

// NodeCount returns the number of stored nodes.
func (kg *KnowledgeGraph) NodeCount() int {
	kg.mutex.RLock()
	defer kg.mutex.RUnlock()
	return len(kg.nodes)
}

// EdgeCount returns the number of stored relationships.
func (kg *KnowledgeGraph) EdgeCount() int {
	kg.mutex.RLock()
	defer kg.mutex.RUnlock()
	return len(kg.edges)
}

// FindNodes returns the nodes carrying every label and property given.
func (kg *KnowledgeGraph) FindNodes(ctx context.Context, labels []schemas.NodeLabel, props schemas.Properties) ([]schemas.Node, error) {
	kg.mutex.RLock()
	defer kg.mutex.RUnlock()
	return (&graphView{kg: kg}).FindNodes(ctx, labels, props)
}

// Edges returns every stored relationship, ordered by source, label and target.
func (kg *KnowledgeGraph) Edges() []schemas.Edge {
	kg.mutex.RLock()
	defer kg.mutex.RUnlock()
	out := make([]schemas.Edge, 0, len(kg.edges))
	for _, se := range kg.edges {
		out = append(out, kg.materialize(se))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From.ID != out[j].From.ID {
			return out[i].From.ID < out[j].From.ID
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].To.ID < out[j].To.ID
	})
	return out
}

func (kg *KnowledgeGraph) materialize(se storedEdge) schemas.Edge {
	return schemas.Edge{ID: se.id, From: kg.nodes[se.from], To: kg.nodes[se.to], Label: se.label, Properties: se.props}
}

// -- Index maintenance --

func (kg *KnowledgeGraph) insertNode(n schemas.Node) {
	kg.nodes[n.ID] = n
	for _, l := range n.Labels {
		set, ok := kg.indexes.ByLabel[l]
		if !ok {
			set = make(Set)
			kg.indexes.ByLabel[l] = set
		}
		set.Add(string(n.ID))
	}
	for _, k := range n.Properties.Keys() {
		s, ok := n.Properties.GetString(k)
		if !ok {
			continue
		}
		byValue, ok := kg.indexes.ByProperty[k]
		if !ok {
			byValue = make(map[string]Set)
			kg.indexes.ByProperty[k] = byValue
		}
		set, ok := byValue[s]
		if !ok {
			set = make(Set)
			byValue[s] = set
		}
		set.Add(string(n.ID))
	}
}

func (kg *KnowledgeGraph) removeNode(id schemas.NodeID) {
	n, ok := kg.nodes[id]
	if !ok {
		return
	}
	for _, l := range n.Labels {
		kg.indexes.ByLabel[l].Remove(string(id))
	}
	for _, k := range n.Properties.Keys() {
		if s, ok := n.Properties.GetString(k); ok {
			kg.indexes.ByProperty[k][s].Remove(string(id))
		}
	}
	delete(kg.indexes.OutboundEdges, id)
	delete(kg.indexes.InboundEdges, id)
	delete(kg.nodes, id)
}

func (kg *KnowledgeGraph) insertEdge(se storedEdge) {
	kg.edges[se.id] = se
	link(kg.indexes.OutboundEdges, se.from, se.id)
	link(kg.indexes.InboundEdges, se.to, se.id)
}

func (kg *KnowledgeGraph) removeEdge(id string) (storedEdge, bool) {
	se, ok := kg.edges[id]
	if !ok {
		return storedEdge{}, false
	}
	if set, ok := kg.indexes.OutboundEdges[se.from]; ok {
		set.Remove(id)
	}
	if set, ok := kg.indexes.InboundEdges[se.to]; ok {
		set.Remove(id)
	}
	delete(kg.edges, id)
	return se, true
}

func link(index map[schemas.NodeID]Set, node schemas.NodeID, edge string) {
	set, ok := index[node]
	if !ok {
		set = make(Set)
		index[node] = set
	}
	set.Add(edge)
}

// -- Statement backend --

// journal records undo actions for one statement.
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// graphView runs interpreter primitives against the graph. The caller holds
// the appropriate lock.
type graphView struct {
	kg      *KnowledgeGraph
	journal *journal
}

func (v *graphView) FindNodes(_ context.Context, labels []schemas.NodeLabel, props schemas.Properties) ([]schemas.Node, error) {
	candidates := v.candidateIDs(labels, props)
	var out []schemas.Node
	for _, id := range candidates {
		n := v.kg.nodes[schemas.NodeID(id)]
		if n.HasLabels(labels) && n.Properties.Contains(props) {
			out = append(out, n)
		}
	}
	return out, nil
}

// candidateIDs picks the smallest index bucket covering the pattern, sorted
// for stable results.
func (v *graphView) candidateIDs(labels []schemas.NodeLabel, props schemas.Properties) []string {
	var best Set
	found := false
	consider := func(s Set) {
		if !found || s.Size() < best.Size() {
			best, found = s, true
		}
	}
	for _, l := range labels {
		consider(v.kg.indexes.ByLabel[l])
	}
	for _, k := range props.Keys() {
		if s, ok := props.GetString(k); ok {
			consider(v.kg.indexes.ByProperty[k][s])
		}
	}

	var ids []string
	if found {
		ids = make([]string, 0, best.Size())
		for id := range best {
			ids = append(ids, id)
		}
	} else {
		ids = make([]string, 0, len(v.kg.nodes))
		for id := range v.kg.nodes {
			ids = append(ids, string(id))
		}
	}
	sort.Strings(ids)
	return ids
}

func (v *graphView) CreateNode(_ context.Context, labels []schemas.NodeLabel, props schemas.Properties) (schemas.Node, error) {
	n, err := schemas.NewNode(schemas.NodeID(uuid.NewString()), labels, props)
	if err != nil {
		return schemas.Node{}, err
	}
	v.kg.insertNode(n)
	v.journal.record(func() { v.kg.removeNode(n.ID) })
	return n, nil
}

func (v *graphView) Node(_ context.Context, id schemas.NodeID) (schemas.Node, error) {
	n, ok := v.kg.nodes[id]
	if !ok {
		return schemas.Node{}, fmt.Errorf("node %s: %w", id, schemas.ErrNotFound)
	}
	return n, nil
}

func (v *graphView) OutEdges(_ context.Context, id schemas.NodeID) ([]schemas.Edge, error) {
	ids := make([]string, 0, v.kg.indexes.OutboundEdges[id].Size())
	for eid := range v.kg.indexes.OutboundEdges[id] {
		ids = append(ids, eid)
	}
	sort.Strings(ids)
	out := make([]schemas.Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, v.kg.materialize(v.kg.edges[eid]))
	}
	return out, nil
}

func (v *graphView) InDegree(_ context.Context, id schemas.NodeID) (int, error) {
	return v.kg.indexes.InboundEdges[id].Size(), nil
}

func (v *graphView) CreateEdge(_ context.Context, from, to schemas.Node, label schemas.EdgeLabel, props schemas.Properties) (schemas.Edge, error) {
	if _, ok := v.kg.nodes[from.ID]; !ok {
		return schemas.Edge{}, fmt.Errorf("source node %s: %w", from.ID, schemas.ErrNotFound)
	}
	if _, ok := v.kg.nodes[to.ID]; !ok {
		return schemas.Edge{}, fmt.Errorf("destination node %s: %w", to.ID, schemas.ErrNotFound)
	}
	se := storedEdge{id: uuid.NewString(), from: from.ID, to: to.ID, label: label, props: props}
	v.kg.insertEdge(se)
	v.journal.record(func() { v.kg.removeEdge(se.id) })
	return v.kg.materialize(se), nil
}

func (v *graphView) DeleteEdge(_ context.Context, id string) error {
	se, ok := v.kg.removeEdge(id)
	if !ok {
		return fmt.Errorf("edge %s: %w", id, schemas.ErrNotFound)
	}
	v.journal.record(func() { v.kg.insertEdge(se) })
	return nil
}

func (v *graphView) SweepOrphans(_ context.Context) (int, error) {
	var orphans []schemas.Node
	for id, n := range v.kg.nodes {
		if v.kg.indexes.OutboundEdges[id].Size() == 0 && v.kg.indexes.InboundEdges[id].Size() == 0 {
			orphans = append(orphans, n)
		}
	}
	for _, n := range orphans {
		n := n
		v.kg.removeNode(n.ID)
		v.journal.record(func() { v.kg.insertNode(n) })
	}
	return len(orphans), nil
}
