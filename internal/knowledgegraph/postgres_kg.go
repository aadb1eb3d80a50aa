// internal/knowledgegraph/postgres_kg.go

package knowledgegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
)

// querier is the query surface shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DBPool abstracts the pgxpool.Pool methods the graph needs, so tests can
// swap in a mock pool.
type DBPool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var (
	_ DBPool         = (*pgxpool.Pool)(nil)
	_ cypher.Store   = (*PostgresKG)(nil)
	_ cypher.Backend = (*pgBackend)(nil)
)

// Schema creates the node and relationship tables. Labels are a text array
// and properties a jsonb document so pattern matching maps to @> containment.
const Schema = `
CREATE TABLE IF NOT EXISTS lpg_nodes (
	id         TEXT PRIMARY KEY,
	labels     TEXT[] NOT NULL,
	properties JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS lpg_nodes_labels_idx ON lpg_nodes USING GIN (labels);
CREATE INDEX IF NOT EXISTS lpg_nodes_properties_idx ON lpg_nodes USING GIN (properties jsonb_path_ops);
CREATE TABLE IF NOT EXISTS lpg_edges (
	id         TEXT PRIMARY KEY,
	from_id    TEXT NOT NULL REFERENCES lpg_nodes (id) ON DELETE CASCADE,
	to_id      TEXT NOT NULL REFERENCES lpg_nodes (id) ON DELETE CASCADE,
	label      TEXT NOT NULL,
	properties JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS lpg_edges_from_idx ON lpg_edges (from_id);
CREATE INDEX IF NOT EXISTS lpg_edges_to_idx ON lpg_edges (to_id);`

const (
	sqlFindNodes = `SELECT id, labels, properties FROM lpg_nodes WHERE labels @> $1::text[] AND properties @> $2::jsonb ORDER BY id`
	sqlNode      = `SELECT id, labels, properties FROM lpg_nodes WHERE id = $1`
	sqlNewNode   = `INSERT INTO lpg_nodes (id, labels, properties) VALUES ($1, $2, $3)`
	sqlOutEdges  = `SELECT e.id, e.label, e.properties, f.id, f.labels, f.properties, t.id, t.labels, t.properties
		FROM lpg_edges e
		JOIN lpg_nodes f ON f.id = e.from_id
		JOIN lpg_nodes t ON t.id = e.to_id
		WHERE e.from_id = $1 ORDER BY e.id`
	sqlInDegree   = `SELECT count(*) FROM lpg_edges WHERE to_id = $1`
	sqlNewEdge    = `INSERT INTO lpg_edges (id, from_id, to_id, label, properties) VALUES ($1, $2, $3, $4, $5)`
	sqlDeleteEdge = `DELETE FROM lpg_edges WHERE id = $1`
	sqlSweep      = `DELETE FROM lpg_nodes n WHERE NOT EXISTS (SELECT 1 FROM lpg_edges e WHERE e.from_id = n.id OR e.to_id = n.id)`
)

// PostgresKG is a persistent graph store on PostgreSQL. Each statement runs
// in its own transaction.
type PostgresKG struct {
	pool   DBPool
	logger *zap.Logger
}

// NewPostgresKG wraps a pool, real or mocked.
func NewPostgresKG(pool DBPool, logger *zap.Logger) *PostgresKG {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresKG{pool: pool, logger: logger.Named("postgres_kg")}
}

// OpenPostgresKG checks connectivity and ensures the schema before handing
// out the store.
func OpenPostgresKG(ctx context.Context, pool DBPool, logger *zap.Logger) (*PostgresKG, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	kg := NewPostgresKG(pool, logger)
	if err := kg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return kg, nil
}

// EnsureSchema creates the graph tables if they do not exist.
func (p *PostgresKG) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create graph schema: %w", err)
	}
	return nil
}

// Run executes statements in order, one transaction per statement.
func (p *PostgresKG) Run(ctx context.Context, stmts []cypher.Statement) error {
	for i, stmt := range stmts {
		if err := p.runStatement(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d of %d failed: %w", i+1, len(stmts), err)
		}
	}
	p.logger.Debug("Ran statements", zap.Int("count", len(stmts)))
	return nil
}

func (p *PostgresKG) runStatement(ctx context.Context, stmt cypher.Statement) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			p.logger.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := cypher.Execute(ctx, &pgBackend{q: tx}, stmt); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReadPaths answers a read query.
func (p *PostgresKG) ReadPaths(ctx context.Context, q cypher.ReadQuery) ([]schemas.Path, error) {
	return cypher.EvaluatePaths(ctx, &pgBackend{q: p.pool}, q)
}

// Reload returns every path below a stored node.
func (p *PostgresKG) Reload(ctx context.Context, id schemas.NodeID, hops int) ([]schemas.Path, error) {
	return cypher.ReloadPaths(ctx, &pgBackend{q: p.pool}, id, hops)
}

// Close releases the pool.
func (p *PostgresKG) Close() {
	p.pool.Close()
}

// -- Backend --

type pgBackend struct {
	q querier
}

func (b *pgBackend) FindNodes(ctx context.Context, labels []schemas.NodeLabel, props schemas.Properties) ([]schemas.Node, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node properties: %w", err)
	}
	rows, err := b.q.Query(ctx, sqlFindNodes, labelStrings(labels), raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []schemas.Node
	for rows.Next() {
		var (
			id   string
			ls   []string
			data []byte
		)
		if err := rows.Scan(&id, &ls, &data); err != nil {
			return nil, err
		}
		n, err := toNode(id, ls, data)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (b *pgBackend) CreateNode(ctx context.Context, labels []schemas.NodeLabel, props schemas.Properties) (schemas.Node, error) {
	n, err := schemas.NewNode(schemas.NodeID(uuid.NewString()), labels, props)
	if err != nil {
		return schemas.Node{}, err
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return schemas.Node{}, fmt.Errorf("failed to marshal node properties: %w", err)
	}
	if _, err := b.q.Exec(ctx, sqlNewNode, string(n.ID), labelStrings(labels), raw); err != nil {
		return schemas.Node{}, err
	}
	return n, nil
}

func (b *pgBackend) Node(ctx context.Context, id schemas.NodeID) (schemas.Node, error) {
	var (
		nid   string
		ls    []string
		props []byte
	)
	err := b.q.QueryRow(ctx, sqlNode, string(id)).Scan(&nid, &ls, &props)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schemas.Node{}, fmt.Errorf("node %s: %w", id, schemas.ErrNotFound)
		}
		return schemas.Node{}, err
	}
	return toNode(nid, ls, props)
}

func (b *pgBackend) OutEdges(ctx context.Context, id schemas.NodeID) ([]schemas.Edge, error) {
	rows, err := b.q.Query(ctx, sqlOutEdges, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []schemas.Edge
	for rows.Next() {
		var (
			eid, label, fromID, toID string
			eprops, fprops, tprops   []byte
			fls, tls                 []string
		)
		if err := rows.Scan(&eid, &label, &eprops, &fromID, &fls, &fprops, &toID, &tls, &tprops); err != nil {
			return nil, err
		}
		from, err := toNode(fromID, fls, fprops)
		if err != nil {
			return nil, err
		}
		to, err := toNode(toID, tls, tprops)
		if err != nil {
			return nil, err
		}
		props, err := decodeProps(eprops)
		if err != nil {
			return nil, err
		}
		edges = append(edges, schemas.Edge{ID: eid, From: from, To: to, Label: schemas.EdgeLabel(label), Properties: props})
	}
	return edges, rows.Err()
}

func (b *pgBackend) InDegree(ctx context.Context, id schemas.NodeID) (int, error) {
	var n int64
	if err := b.q.QueryRow(ctx, sqlInDegree, string(id)).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (b *pgBackend) CreateEdge(ctx context.Context, from, to schemas.Node, label schemas.EdgeLabel, props schemas.Properties) (schemas.Edge, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return schemas.Edge{}, fmt.Errorf("failed to marshal edge properties: %w", err)
	}
	id := uuid.NewString()
	if _, err := b.q.Exec(ctx, sqlNewEdge, id, string(from.ID), string(to.ID), string(label), raw); err != nil {
		return schemas.Edge{}, err
	}
	return schemas.Edge{ID: id, From: from, To: to, Label: label, Properties: props}, nil
}

func (b *pgBackend) DeleteEdge(ctx context.Context, id string) error {
	tag, err := b.q.Exec(ctx, sqlDeleteEdge, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("edge %s: %w", id, schemas.ErrNotFound)
	}
	return nil
}

func (b *pgBackend) SweepOrphans(ctx context.Context) (int, error) {
	tag, err := b.q.Exec(ctx, sqlSweep)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// -- Row decoding --

func labelStrings(labels []schemas.NodeLabel) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}

func toNode(id string, labels []string, rawProps []byte) (schemas.Node, error) {
	props, err := decodeProps(rawProps)
	if err != nil {
		return schemas.Node{}, err
	}
	ls := make([]schemas.NodeLabel, len(labels))
	for i, l := range labels {
		ls[i] = schemas.NodeLabel(l)
	}
	return schemas.Node{ID: schemas.NodeID(id), Labels: ls, Properties: props}, nil
}

// decodeProps reads a jsonb object, keeping integral numbers as int64.
func decodeProps(raw []byte) (schemas.Properties, error) {
	if len(raw) == 0 {
		return schemas.NoProperties, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var kv map[string]any
	if err := dec.Decode(&kv); err != nil {
		return schemas.NoProperties, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	for k, v := range kv {
		num, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := num.Int64(); err == nil {
			kv[k] = i
		} else if f, err := num.Float64(); err == nil {
			kv[k] = f
		} else {
			return schemas.NoProperties, fmt.Errorf("property %q: %w", k, err)
		}
	}
	return schemas.NewProperties(kv)
}
