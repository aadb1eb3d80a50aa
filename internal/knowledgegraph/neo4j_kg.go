package knowledgegraph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
)

var _ cypher.Store = (*Neo4jKG)(nil)

// Neo4jKG runs rendered Cypher against a Neo4j database. Nodes read back carry
// their element ids.
type Neo4jKG struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewNeo4jKG wraps an existing driver.
func NewNeo4jKG(driver neo4j.DriverWithContext, database string, logger *zap.Logger) *Neo4jKG {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Neo4jKG{driver: driver, database: database, logger: logger.Named("neo4j_kg")}
}

// OpenNeo4jKG connects with basic auth and verifies connectivity.
func OpenNeo4jKG(ctx context.Context, uri, username, password, database string, logger *zap.Logger) (*Neo4jKG, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}
	return NewNeo4jKG(driver, database, logger), nil
}

func (n *Neo4jKG) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return n.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: n.database})
}

// Run executes each statement in its own managed write transaction.
func (n *Neo4jKG) Run(ctx context.Context, stmts []cypher.Statement) error {
	session := n.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for i, stmt := range stmts {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, stmt.Cypher(), stmt.Params)
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("statement %d of %d failed: %w", i+1, len(stmts), err)
		}
	}
	n.logger.Debug("Ran statements", zap.Int("count", len(stmts)))
	return nil
}

// ReadPaths runs the rendered read query.
func (n *Neo4jKG) ReadPaths(ctx context.Context, q cypher.ReadQuery) ([]schemas.Path, error) {
	query, params, err := q.Cypher()
	if err != nil {
		return nil, err
	}
	return n.readPaths(ctx, query, params)
}

// Reload fetches every path below a node by element id.
func (n *Neo4jKG) Reload(ctx context.Context, id schemas.NodeID, hops int) ([]schemas.Path, error) {
	query, params := cypher.ReloadCypher(id, hops)
	paths, err := n.readPaths(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("node %s: %w", id, schemas.ErrNotFound)
	}
	return paths, nil
}

func (n *Neo4jKG) readPaths(ctx context.Context, query string, params map[string]any) ([]schemas.Path, error) {
	session := n.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		paths := make([]schemas.Path, 0, len(records))
		for _, record := range records {
			v, ok := record.Get("p")
			if !ok {
				return nil, fmt.Errorf("record has no path column")
			}
			p, ok := v.(neo4j.Path)
			if !ok {
				return nil, fmt.Errorf("expected a path, got %T", v)
			}
			converted, err := ConvertPath(p)
			if err != nil {
				return nil, err
			}
			paths = append(paths, converted)
		}
		return paths, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read paths: %w", err)
	}
	return out.([]schemas.Path), nil
}

// Close shuts the driver down.
func (n *Neo4jKG) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

// ConvertPath turns a driver path into graph model nodes and edges.
func ConvertPath(p neo4j.Path) (schemas.Path, error) {
	byElement := make(map[string]schemas.Node, len(p.Nodes))
	out := schemas.Path{Nodes: make([]schemas.Node, 0, len(p.Nodes))}
	for _, dn := range p.Nodes {
		node, err := convertNode(dn)
		if err != nil {
			return schemas.Path{}, err
		}
		byElement[dn.ElementId] = node
		out.Nodes = append(out.Nodes, node)
	}
	for _, rel := range p.Relationships {
		from, ok := byElement[rel.StartElementId]
		if !ok {
			return schemas.Path{}, fmt.Errorf("relationship %s starts outside its path", rel.ElementId)
		}
		to, ok := byElement[rel.EndElementId]
		if !ok {
			return schemas.Path{}, fmt.Errorf("relationship %s ends outside its path", rel.ElementId)
		}
		props, err := schemas.NewProperties(rel.Props)
		if err != nil {
			return schemas.Path{}, fmt.Errorf("relationship %s: %w", rel.ElementId, err)
		}
		out.Edges = append(out.Edges, schemas.Edge{
			ID:         rel.ElementId,
			From:       from,
			To:         to,
			Label:      schemas.EdgeLabel(rel.Type),
			Properties: props,
		})
	}
	return out, nil
}

func convertNode(dn neo4j.Node) (schemas.Node, error) {
	props, err := schemas.NewProperties(dn.Props)
	if err != nil {
		return schemas.Node{}, fmt.Errorf("node %s: %w", dn.ElementId, err)
	}
	labels := make([]schemas.NodeLabel, len(dn.Labels))
	for i, l := range dn.Labels {
		labels[i] = schemas.NodeLabel(l)
	}
	return schemas.Node{ID: schemas.NodeID(dn.ElementId), Labels: labels, Properties: props}, nil
}
