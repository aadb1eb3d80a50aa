package cypher

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
)

// Runner executes write statements in order. Each statement is atomic.
type Runner interface {
	Run(ctx context.Context, stmts []Statement) error
}

// PathReader answers read queries with graph paths.
type PathReader interface {
	ReadPaths(ctx context.Context, q ReadQuery) ([]schemas.Path, error)
	// Reload returns every path of up to hops relationships below id.
	Reload(ctx context.Context, id schemas.NodeID, hops int) ([]schemas.Path, error)
}

// Store is a graph store able to run statements and answer reads.
type Store interface {
	Runner
	PathReader
}

// Backend is the primitive graph API the statement interpreter runs on.
// Node matching is containment: a stored node matches when it carries every
// requested label and every requested property.
type Backend interface {
	FindNodes(ctx context.Context, labels []schemas.NodeLabel, props schemas.Properties) ([]schemas.Node, error)
	CreateNode(ctx context.Context, labels []schemas.NodeLabel, props schemas.Properties) (schemas.Node, error)
	// Node returns schemas.ErrNotFound for unknown ids.
	Node(ctx context.Context, id schemas.NodeID) (schemas.Node, error)
	OutEdges(ctx context.Context, id schemas.NodeID) ([]schemas.Edge, error)
	InDegree(ctx context.Context, id schemas.NodeID) (int, error)
	CreateEdge(ctx context.Context, from, to schemas.Node, label schemas.EdgeLabel, props schemas.Properties) (schemas.Edge, error)
	DeleteEdge(ctx context.Context, id string) error
	// SweepOrphans deletes every node without relationships and reports how many.
	SweepOrphans(ctx context.Context) (int, error)
}

// row is one set of variable bindings.
type row struct {
	nodes map[string]schemas.Node
	rels  map[string]schemas.Edge
}

func (r row) clone() row {
	out := row{nodes: make(map[string]schemas.Node, len(r.nodes)+1), rels: make(map[string]schemas.Edge, len(r.rels))}
	for k, v := range r.nodes {
		out.nodes[k] = v
	}
	for k, v := range r.rels {
		out.rels[k] = v
	}
	return out
}

// Execute interprets stmt against b. A MERGE matching several nodes binds the
// first one returned by the backend.
func Execute(ctx context.Context, b Backend, stmt Statement) error {
	rows := []row{{nodes: map[string]schemas.Node{}, rels: map[string]schemas.Edge{}}}
	var err error
	for _, c := range stmt.Clauses {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch c := c.(type) {
		case Match:
			rows, err = execMatch(ctx, b, c, stmt.Params, rows)
		case Merge:
			rows, err = execMerge(ctx, b, c, stmt.Params, rows)
		case MergeRel:
			rows, err = execMergeRel(ctx, b, c, rows)
		case WhereNoIncoming:
			rows, err = execWhereNoIncoming(ctx, b, c, rows)
		case WhereNoOutgoing:
			rows, err = execWhereNoOutgoing(ctx, b, c, rows)
		case Delete:
			err = execDelete(ctx, b, c, rows)
		case SweepOrphans:
			_, err = b.SweepOrphans(ctx)
		default:
			err = fmt.Errorf("unsupported clause %T", c)
		}
		if err != nil {
			return fmt.Errorf("failed to execute %q: %w", c.cypher(), err)
		}
	}
	return nil
}

// resolve merges literal and parameter properties of a pattern.
func resolve(p NodePattern, params map[string]any) (schemas.Properties, error) {
	if len(p.Params) == 0 {
		return p.Props, nil
	}
	kv := p.Props.Map()
	for k, name := range p.Params {
		v, ok := params[name]
		if !ok {
			return schemas.NoProperties, fmt.Errorf("missing parameter $%s", name)
		}
		kv[k] = v
	}
	return schemas.NewProperties(kv)
}

func matchesPattern(n schemas.Node, labels []schemas.NodeLabel, props schemas.Properties) bool {
	return n.HasLabels(labels) && n.Properties.Contains(props)
}

// candidates returns the nodes the pattern can bind to in row r.
func candidates(ctx context.Context, b Backend, p NodePattern, params map[string]any, r row) ([]schemas.Node, error) {
	props, err := resolve(p, params)
	if err != nil {
		return nil, err
	}
	if bound, ok := r.nodes[p.Var]; ok && p.Var != "" {
		if matchesPattern(bound, p.Labels, props) {
			return []schemas.Node{bound}, nil
		}
		return nil, nil
	}
	return b.FindNodes(ctx, p.Labels, props)
}

func execMatch(ctx context.Context, b Backend, m Match, params map[string]any, rows []row) ([]row, error) {
	if len(m.Nodes) == 0 || len(m.Rels) != len(m.Nodes)-1 {
		return nil, fmt.Errorf("malformed match with %d nodes and %d relationships", len(m.Nodes), len(m.Rels))
	}
	var out []row
	for _, r := range rows {
		starts, err := candidates(ctx, b, m.Nodes[0], params, r)
		if err != nil {
			return nil, err
		}
		for _, start := range starts {
			nr := r.clone()
			bind(nr, m.Nodes[0].Var, start)
			expanded, err := expandChain(ctx, b, m, params, 1, start, nr)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
	}
	return out, nil
}

// expandChain follows m.Rels[i-1] from cur to candidates for m.Nodes[i].
func expandChain(ctx context.Context, b Backend, m Match, params map[string]any, i int, cur schemas.Node, r row) ([]row, error) {
	if i == len(m.Nodes) {
		return []row{r}, nil
	}
	rel := m.Rels[i-1]
	next := m.Nodes[i]
	props, err := resolve(next, params)
	if err != nil {
		return nil, err
	}
	edges, err := b.OutEdges(ctx, cur.ID)
	if err != nil {
		return nil, err
	}
	var out []row
	for _, e := range edges {
		if rel.Label != "" && e.Label != rel.Label {
			continue
		}
		if !e.Properties.Contains(rel.Props) || !matchesPattern(e.To, next.Labels, props) {
			continue
		}
		if bound, ok := r.nodes[next.Var]; ok && next.Var != "" && bound.ID != e.To.ID {
			continue
		}
		nr := r.clone()
		bind(nr, next.Var, e.To)
		if rel.Var != "" {
			nr.rels[rel.Var] = e
		}
		expanded, err := expandChain(ctx, b, m, params, i+1, e.To, nr)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func bind(r row, v string, n schemas.Node) {
	if v != "" {
		r.nodes[v] = n
	}
}

func execMerge(ctx context.Context, b Backend, m Merge, params map[string]any, rows []row) ([]row, error) {
	props, err := resolve(m.Node, params)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		found, err := b.FindNodes(ctx, m.Node.Labels, props)
		if err != nil {
			return nil, err
		}
		var n schemas.Node
		if len(found) > 0 {
			n = found[0]
		} else if n, err = b.CreateNode(ctx, m.Node.Labels, props); err != nil {
			return nil, err
		}
		bind(r, m.Node.Var, n)
	}
	return rows, nil
}

func execMergeRel(ctx context.Context, b Backend, m MergeRel, rows []row) ([]row, error) {
	for _, r := range rows {
		from, ok := r.nodes[m.From]
		if !ok {
			return nil, fmt.Errorf("unbound variable %s", m.From)
		}
		to, ok := r.nodes[m.To]
		if !ok {
			return nil, fmt.Errorf("unbound variable %s", m.To)
		}
		edges, err := b.OutEdges(ctx, from.ID)
		if err != nil {
			return nil, err
		}
		var rel *schemas.Edge
		for i := range edges {
			e := edges[i]
			if e.To.ID == to.ID && e.Label == m.Rel.Label && e.Properties.Contains(m.Rel.Props) {
				rel = &e
				break
			}
		}
		if rel == nil {
			e, err := b.CreateEdge(ctx, from, to, m.Rel.Label, m.Rel.Props)
			if err != nil {
				return nil, err
			}
			rel = &e
		}
		if m.Rel.Var != "" {
			r.rels[m.Rel.Var] = *rel
		}
	}
	return rows, nil
}

func execWhereNoIncoming(ctx context.Context, b Backend, w WhereNoIncoming, rows []row) ([]row, error) {
	var out []row
	for _, r := range rows {
		n, ok := r.nodes[w.Var]
		if !ok {
			return nil, fmt.Errorf("unbound variable %s", w.Var)
		}
		in, err := b.InDegree(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		if in == 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

func execWhereNoOutgoing(ctx context.Context, b Backend, w WhereNoOutgoing, rows []row) ([]row, error) {
	var out []row
	for _, r := range rows {
		n, ok := r.nodes[w.Var]
		if !ok {
			return nil, fmt.Errorf("unbound variable %s", w.Var)
		}
		edges, err := b.OutEdges(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		if !hasLabel(edges, w.Label) {
			out = append(out, r)
		}
	}
	return out, nil
}

func hasLabel(edges []schemas.Edge, label schemas.EdgeLabel) bool {
	for _, e := range edges {
		if e.Label == label {
			return true
		}
	}
	return false
}

func execDelete(ctx context.Context, b Backend, d Delete, rows []row) error {
	deleted := make(map[string]struct{})
	for _, r := range rows {
		e, ok := r.rels[d.Var]
		if !ok {
			return fmt.Errorf("unbound relationship variable %s", d.Var)
		}
		if _, done := deleted[e.ID]; done {
			continue
		}
		if err := b.DeleteEdge(ctx, e.ID); err != nil {
			return err
		}
		deleted[e.ID] = struct{}{}
	}
	return nil
}

// -- Path reads --

// EvaluatePaths answers q against b the way the rendered Cypher would.
func EvaluatePaths(ctx context.Context, b Backend, q ReadQuery) ([]schemas.Path, error) {
	if err := q.Context.Validate(); err != nil {
		return nil, err
	}
	docs, err := execMatch(ctx, b, containerMatch("o"), q.Context.Params(), []row{{nodes: map[string]schemas.Node{}, rels: map[string]schemas.Edge{}}})
	if err != nil {
		return nil, err
	}

	seen := make(map[schemas.NodeID]struct{})
	var paths []schemas.Path
	for _, d := range docs {
		edges, err := b.OutEdges(ctx, d.nodes["o"].ID)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if e.Label != q.LinkLabel() || (q.Label != "" && !e.To.Matches(q.Label)) {
				continue
			}
			if _, dup := seen[e.To.ID]; dup {
				continue
			}
			seen[e.To.ID] = struct{}{}
			if q.Anchor != nil {
				ok, err := reachesAnchor(ctx, b, e.To, q.Anchor, q.hops())
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			below, err := pathsFrom(ctx, b, e.To, q.Depth)
			if err != nil {
				return nil, err
			}
			paths = append(paths, below...)
		}
	}
	return paths, nil
}

// ReloadPaths returns every path of up to hops relationships below id.
func ReloadPaths(ctx context.Context, b Backend, id schemas.NodeID, hops int) ([]schemas.Path, error) {
	n, err := b.Node(ctx, id)
	if err != nil {
		return nil, err
	}
	return pathsFrom(ctx, b, n, hops)
}

func reachesAnchor(ctx context.Context, b Backend, start schemas.Node, a *Anchor, hops int) (bool, error) {
	if a.Edge != "" {
		edges, err := b.OutEdges(ctx, start.ID)
		if err != nil {
			return false, err
		}
		for _, e := range edges {
			if e.Label == a.Edge && matchesPattern(e.To, a.Labels, a.Props) {
				return true, nil
			}
		}
		return false, nil
	}

	visited := map[schemas.NodeID]struct{}{start.ID: {}}
	frontier := []schemas.Node{start}
	for depth := 0; depth < hops && len(frontier) > 0; depth++ {
		var next []schemas.Node
		for _, n := range frontier {
			edges, err := b.OutEdges(ctx, n.ID)
			if err != nil {
				return false, err
			}
			for _, e := range edges {
				if e.To.Matches(schemas.LabelOntologyDocument) {
					continue
				}
				if matchesPattern(e.To, a.Labels, a.Props) {
					return true, nil
				}
				if _, ok := visited[e.To.ID]; !ok {
					visited[e.To.ID] = struct{}{}
					next = append(next, e.To)
				}
			}
		}
		frontier = next
	}
	return false, nil
}

// pathsFrom enumerates every outgoing path from start, including the empty
// one, up to depth relationships (unbounded when depth <= 0). Paths never
// enter a document node.
func pathsFrom(ctx context.Context, b Backend, start schemas.Node, depth int) ([]schemas.Path, error) {
	var out []schemas.Path
	onPath := make(map[schemas.NodeID]bool)
	var walk func(nodes []schemas.Node, edges []schemas.Edge) error
	walk = func(nodes []schemas.Node, edges []schemas.Edge) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out = append(out, schemas.Path{
			Nodes: append([]schemas.Node(nil), nodes...),
			Edges: append([]schemas.Edge(nil), edges...),
		})
		if depth > 0 && len(edges) >= depth {
			return nil
		}
		cur := nodes[len(nodes)-1]
		outEdges, err := b.OutEdges(ctx, cur.ID)
		if err != nil {
			return err
		}
		for _, e := range outEdges {
			if onPath[e.To.ID] || e.To.Matches(schemas.LabelOntologyDocument) {
				continue
			}
			onPath[e.To.ID] = true
			err := walk(append(nodes, e.To), append(edges, e))
			onPath[e.To.ID] = false
			if err != nil {
				return err
			}
		}
		return nil
	}
	onPath[start.ID] = true
	if err := walk([]schemas.Node{start}, nil); err != nil {
		return nil, err
	}
	return out, nil
}
