package schemas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// -- Core Graph Models --
// These types represent graph fragments, either produced by the translator or
// returned by a store as the result of a path query.

// NodeID is an opaque node identifier. Translator nodes carry session scoped
// identifiers; nodes read back from a store carry the store's own identifier.
type NodeID string

// Node is a labeled property graph vertex.
type Node struct {
	ID         NodeID      `json:"id"`
	Labels     []NodeLabel `json:"labels"`
	Properties Properties  `json:"properties"`
}

// NewNode builds a node and checks it against the per-label property schema.
func NewNode(id NodeID, labels []NodeLabel, props Properties) (Node, error) {
	if id == "" {
		return Node{}, fmt.Errorf("node id cannot be empty")
	}
	if len(labels) == 0 {
		return Node{}, fmt.Errorf("node %s must carry at least one label", id)
	}
	for _, l := range labels {
		for _, key := range RequiredProperties(l) {
			if _, ok := props.Get(key); !ok {
				return Node{}, fmt.Errorf("node %s with label %s is missing required property %q", id, l, key)
			}
		}
	}
	ls := make([]NodeLabel, len(labels))
	copy(ls, labels)
	return Node{ID: id, Labels: ls, Properties: props}, nil
}

// MustNode is NewNode for statically known inputs. It panics on schema violations.
func MustNode(id NodeID, labels []NodeLabel, props Properties) Node {
	n, err := NewNode(id, labels, props)
	if err != nil {
		panic(err)
	}
	return n
}

// Matches reports whether the node carries the given label.
func (n Node) Matches(label NodeLabel) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// MainLabel returns the first label, which translators use as the variant label.
func (n Node) MainLabel() NodeLabel {
	if len(n.Labels) == 0 {
		return ""
	}
	return n.Labels[0]
}

// HasLabels reports whether the node carries every label in ls.
func (n Node) HasLabels(ls []NodeLabel) bool {
	for _, l := range ls {
		if !n.Matches(l) {
			return false
		}
	}
	return true
}

// Equal compares identifier, label set and properties.
func (n Node) Equal(o Node) bool {
	if n.ID != o.ID || len(n.Labels) != len(o.Labels) {
		return false
	}
	return n.HasLabels(o.Labels) && o.HasLabels(n.Labels) && n.Properties.Equal(o.Properties)
}

// Signature renders the label set and properties, the identity used by
// write statements. Labels keep their declared order.
func (n Node) Signature() string {
	var b strings.Builder
	for _, l := range n.Labels {
		b.WriteByte(':')
		b.WriteString(string(l))
	}
	if n.Properties.Len() > 0 {
		b.WriteByte(' ')
		b.WriteString(n.Properties.Print())
	}
	return b.String()
}

func (n Node) String() string {
	return fmt.Sprintf("(%s%s)", n.ID, n.Signature())
}

// Edge is a directed, labeled relationship between two nodes.
// ID is empty for translator edges and carries the store identifier on reads.
type Edge struct {
	ID         string     `json:"id,omitempty"`
	From       Node       `json:"from"`
	To         Node       `json:"to"`
	Label      EdgeLabel  `json:"label"`
	Properties Properties `json:"properties"`
}

// NewEdge validates and builds an edge.
func NewEdge(from, to Node, label EdgeLabel, props Properties) (Edge, error) {
	if from.ID == "" || to.ID == "" {
		return Edge{}, fmt.Errorf("edge %s must have both endpoints", label)
	}
	if label == "" {
		return Edge{}, fmt.Errorf("edge from %s to %s must have a label", from.ID, to.ID)
	}
	return Edge{From: from, To: to, Label: label, Properties: props}, nil
}

// IsOwnership reports whether the edge belongs to the entity or ontology that
// owns it rather than to the object referencing it.
func (e Edge) IsOwnership() bool {
	return IsOwnershipEdge(e.Label)
}

// Key identifies an edge by endpoint ids, label and properties.
func (e Edge) Key() string {
	return fmt.Sprintf("%s-[%s %s]->%s", e.From.ID, e.Label, e.Properties.Print(), e.To.ID)
}

func (e Edge) String() string {
	return fmt.Sprintf("%s-[:%s]->%s", e.From, e.Label, e.To)
}

// Path is an alternating sequence of nodes and edges returned by a query.
// len(Edges) == len(Nodes)-1 for a well formed path.
type Path struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// -- Properties --

// Properties is an immutable scalar map. Values are string, int64, float64 or bool.
type Properties struct {
	m map[string]any
}

// NoProperties is the empty property map.
var NoProperties = Properties{}

// NewProperties copies kv, normalizing integers to int64. Non-scalar values are rejected.
func NewProperties(kv map[string]any) (Properties, error) {
	if len(kv) == 0 {
		return Properties{}, nil
	}
	m := make(map[string]any, len(kv))
	for k, v := range kv {
		if k == "" {
			return Properties{}, fmt.Errorf("property key cannot be empty")
		}
		nv, err := normalizeScalar(v)
		if err != nil {
			return Properties{}, fmt.Errorf("property %q: %w", k, err)
		}
		m[k] = nv
	}
	return Properties{m: m}, nil
}

// Props is NewProperties for statically known inputs; it panics on bad values.
func Props(kv map[string]any) Properties {
	p, err := NewProperties(kv)
	if err != nil {
		panic(err)
	}
	return p
}

func normalizeScalar(v any) (any, error) {
	switch x := v.(type) {
	case string, int64, float64, bool:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case float32:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("unsupported property value type %T", v)
	}
}

// Get is a point lookup.
func (p Properties) Get(key string) (any, bool) {
	v, ok := p.m[key]
	return v, ok
}

// GetString returns the value for key when it is a string.
func (p Properties) GetString(key string) (string, bool) {
	v, ok := p.m[key].(string)
	return v, ok
}

// GetInt returns the value for key when it is numeric and integral.
func (p Properties) GetInt(key string) (int64, bool) {
	switch v := p.m[key].(type) {
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.m) }

// Keys returns the property keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying values.
func (p Properties) Map() map[string]any {
	out := make(map[string]any, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}

// With returns a copy with key set to value.
func (p Properties) With(key string, value any) (Properties, error) {
	m := p.Map()
	m[key] = value
	return NewProperties(m)
}

// Contains reports whether every entry of o is present in p with an equal value.
func (p Properties) Contains(o Properties) bool {
	for k, v := range o.m {
		pv, ok := p.m[k]
		if !ok || !scalarEqual(pv, v) {
			return false
		}
	}
	return true
}

// Equal reports whether both maps hold the same entries.
func (p Properties) Equal(o Properties) bool {
	return len(p.m) == len(o.m) && p.Contains(o)
}

func scalarEqual(a, b any) bool {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(float64); ok {
			return float64(x) == y
		}
	case float64:
		if y, ok := b.(int64); ok {
			return x == float64(y)
		}
	}
	return a == b
}

// Print renders the map as a Cypher literal map, keys sorted: {k: "v", n: 1}.
func (p Properties) Print() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(Literal(p.m[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func (p Properties) String() string { return p.Print() }

// MarshalJSON encodes the properties as a plain JSON object.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.m)
}

// Literal renders a scalar as a Cypher literal.
func Literal(v any) string {
	switch x := v.(type) {
	case string:
		return quote(x)
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		s := fmt.Sprintf("%v", x)
		if !strings.ContainsAny(s, ".eEN") {
			s += ".0"
		}
		return s
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
