package readpath

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// Reloader fetches the paths below a stored node. cypher.PathReader satisfies it.
type Reloader interface {
	Reload(ctx context.Context, id schemas.NodeID, hops int) ([]schemas.Path, error)
}

// DecodeError reports structure the decoder could not find. It wraps
// schemas.ErrDecodeIncomplete.
type DecodeError struct {
	NodeID schemas.NodeID
	Kind   owl.Kind
	Reason string

	// reloadable marks gaps a reload of NodeID may fill.
	reloadable bool
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s node %s: %s", e.Kind, e.NodeID, e.Reason)
}

func (e *DecodeError) Unwrap() error { return schemas.ErrDecodeIncomplete }

// Option configures a Decoder.
type Option func(*Decoder)

// WithReloadHops bounds the depth of each reload. Zero or less reloads the
// whole structure below the node.
func WithReloadHops(hops int) Option {
	return func(d *Decoder) { d.hops = hops }
}

// WithLogger sets the decoder's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Decoder reassembles domain objects from an index. Each node is reloaded at
// most once over the decoder's lifetime. It is not safe for concurrent use.
type Decoder struct {
	index    *NodeIndex
	reloader Reloader
	hops     int
	reloaded map[schemas.NodeID]bool
	logger   *zap.Logger
}

// NewDecoder decodes from index. A nil reloader disables reloads.
func NewDecoder(index *NodeIndex, reloader Reloader, opts ...Option) *Decoder {
	d := &Decoder{
		index:    index,
		reloader: reloader,
		reloaded: make(map[schemas.NodeID]bool),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("decoder")
	return d
}

// Reloads returns how many nodes have been reloaded so far.
func (d *Decoder) Reloads() int { return len(d.reloaded) }

// Decode rebuilds the object encoded at node. kind is a concrete kind or a
// category kind such as owl.KindAnyAxiom.
func (d *Decoder) Decode(ctx context.Context, node schemas.Node, kind owl.Kind) (owl.Object, error) {
	if _, ok := d.index.Node(node.ID); !ok {
		d.index.addNode(node)
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		obj, err := d.decodeNode(node.ID, []owl.Kind{kind}, make(map[schemas.NodeID]bool))
		if err == nil {
			return obj, nil
		}

		var gap *DecodeError
		if !errors.As(err, &gap) || !gap.reloadable || d.reloader == nil || d.reloaded[gap.NodeID] {
			return nil, err
		}
		if err := d.reload(ctx, gap); err != nil {
			return nil, err
		}
	}
}

// DecodeAll decodes every node and returns the distinct results ordered by
// canonical form.
func (d *Decoder) DecodeAll(ctx context.Context, nodes []schemas.Node, kind owl.Kind) ([]owl.Object, error) {
	out := make([]owl.Object, 0, len(nodes))
	for _, n := range nodes {
		obj, err := d.Decode(ctx, n, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return owl.SortedSet(out), nil
}

func (d *Decoder) reload(ctx context.Context, gap *DecodeError) error {
	d.reloaded[gap.NodeID] = true
	d.logger.Debug("Reloading partially indexed node",
		zap.String("node_id", string(gap.NodeID)),
		zap.String("kind", string(gap.Kind)),
		zap.String("reason", gap.Reason))

	paths, err := d.reloader.Reload(ctx, gap.NodeID, d.hops)
	if err != nil {
		return fmt.Errorf("failed to reload node %s: %w", gap.NodeID, err)
	}
	d.index.AddPaths(paths)
	return nil
}

func (d *Decoder) decodeNode(id schemas.NodeID, accept []owl.Kind, stack map[schemas.NodeID]bool) (owl.Object, error) {
	node, ok := d.index.Node(id)
	if !ok {
		return nil, &DecodeError{NodeID: id, Kind: accept[0], Reason: "node is not indexed", reloadable: true}
	}
	kind, ok := translation.KindOf(node)
	if !ok {
		return nil, &DecodeError{NodeID: id, Kind: accept[0], Reason: fmt.Sprintf("no variant label in %v", node.Labels)}
	}
	if !accepts(node, kind, accept) {
		return nil, &DecodeError{NodeID: id, Kind: kind, Reason: fmt.Sprintf("expected one of %v", accept)}
	}
	if stack[id] {
		return nil, &DecodeError{NodeID: id, Kind: kind, Reason: "cyclic structure"}
	}
	stack[id] = true
	defer delete(stack, id)

	f := &frame{d: d, node: node, kind: kind, stack: stack}
	obj, err := decoders[kind](f)
	if err != nil {
		return nil, err
	}

	if want, ok := node.Properties.GetString(schemas.PropDigest); ok {
		if got := translation.Digest(obj); got != want {
			return nil, &DecodeError{NodeID: id, Kind: kind, Reason: "decoded structure does not match its digest", reloadable: true}
		}
	}
	return obj, nil
}

func accepts(node schemas.Node, kind owl.Kind, accept []owl.Kind) bool {
	for _, a := range accept {
		if a == kind {
			return true
		}
		if label, ok := translation.CategoryLabel(a); ok && node.Matches(label) {
			return true
		}
	}
	return false
}

// -- Decoding frame --

// frame carries one node's decoding state. The first failure sticks and
// short-circuits every later lookup.
type frame struct {
	d     *Decoder
	node  schemas.Node
	kind  owl.Kind
	stack map[schemas.NodeID]bool
	err   error
}

func (f *frame) fail(reason string, reloadable bool) {
	if f.err == nil {
		f.err = &DecodeError{NodeID: f.node.ID, Kind: f.kind, Reason: reason, reloadable: reloadable}
	}
}

func (f *frame) edges(label schemas.EdgeLabel) []schemas.Edge {
	var out []schemas.Edge
	for _, e := range f.d.index.EdgesFrom(f.node.ID) {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

func (f *frame) child(e schemas.Edge, accept []owl.Kind) owl.Object {
	obj, err := f.d.decodeNode(e.To.ID, accept, f.stack)
	if err != nil {
		f.err = err
		return nil
	}
	return obj
}

func (f *frame) str(key string) string {
	if f.err != nil {
		return ""
	}
	v, ok := f.node.Properties.GetString(key)
	if !ok {
		f.fail(fmt.Sprintf("missing property %q", key), false)
	}
	return v
}

func (f *frame) integer(key string) int {
	if f.err != nil {
		return 0
	}
	v, ok := f.node.Properties.GetInt(key)
	if !ok {
		f.fail(fmt.Sprintf("missing integer property %q", key), false)
	}
	return int(v)
}

// one decodes the single required target of label.
func one[T owl.Object](f *frame, label schemas.EdgeLabel, accept ...owl.Kind) T {
	var zero T
	if f.err != nil {
		return zero
	}
	edges := f.edges(label)
	if len(edges) == 0 {
		f.fail(fmt.Sprintf("no %s relationship", label), true)
		return zero
	}
	obj := f.child(edges[0], accept)
	if f.err != nil {
		return zero
	}
	v, ok := obj.(T)
	if !ok {
		f.fail(fmt.Sprintf("%s target is a %s", label, obj.Kind()), false)
		return zero
	}
	return v
}

// many decodes every target of label, requiring at least atLeast of them.
func many[T owl.Object](f *frame, label schemas.EdgeLabel, atLeast int, accept ...owl.Kind) []T {
	if f.err != nil {
		return nil
	}
	edges := f.edges(label)
	if len(edges) < atLeast {
		f.fail(fmt.Sprintf("expected at least %d %s relationships, found %d", atLeast, label, len(edges)), true)
		return nil
	}
	out := make([]T, 0, len(edges))
	for _, e := range edges {
		obj := f.child(e, accept)
		if f.err != nil {
			return nil
		}
		v, ok := obj.(T)
		if !ok {
			f.fail(fmt.Sprintf("%s target is a %s", label, obj.Kind()), false)
			return nil
		}
		out = append(out, v)
	}
	return owl.SortedSet(out)
}
