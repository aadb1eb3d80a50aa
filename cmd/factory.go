package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/internal/accessor"
	"github.com/xkilldash9x/owl2lpg/internal/config"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
	"github.com/xkilldash9x/owl2lpg/internal/knowledgegraph"
	"github.com/xkilldash9x/owl2lpg/internal/observability"
	"github.com/xkilldash9x/owl2lpg/internal/writer"
)

// Components holds the services a store backed command needs.
type Components struct {
	Store    cypher.Store
	Writer   *writer.Writer
	Accessor *accessor.Accessor

	closers []func(ctx context.Context) error
}

// Shutdown releases the store connections.
func (c *Components) Shutdown() {
	logger := observability.GetLogger()
	// A separate context so shutdown completes even after cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			logger.Warn("Error during store shutdown.", zap.Error(err))
		}
	}
	logger.Debug("Components shut down.")
}

// ComponentFactory creates the components for one command run. Tests
// substitute their own to avoid real databases.
type ComponentFactory interface {
	Create(ctx context.Context, cfg *config.Config) (*Components, error)
}

type concreteFactory struct{}

// NewComponentFactory returns the production factory.
func NewComponentFactory() ComponentFactory {
	return &concreteFactory{}
}

// Create opens the configured backend and binds a writer and an accessor to
// the configured document.
func (f *concreteFactory) Create(ctx context.Context, cfg *config.Config) (*Components, error) {
	logger := observability.GetLogger()
	components := &Components{}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		kg, err := knowledgegraph.OpenPostgresKG(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		components.Store = kg
		components.closers = append(components.closers, func(context.Context) error { kg.Close(); return nil })
	case config.BackendNeo4j:
		kg, err := knowledgegraph.OpenNeo4jKG(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database, logger)
		if err != nil {
			return nil, err
		}
		components.Store = kg
		components.closers = append(components.closers, kg.Close)
	default:
		logger.Warn("Using the in-memory store; nothing is persisted after this command exits.")
		components.Store = knowledgegraph.New(logger)
	}
	logger.Debug("Graph store initialized.", zap.String("backend", cfg.Store.Backend))

	return bind(components, cfg, logger)
}

// bind attaches the writer and accessor to an opened store.
func bind(c *Components, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	w, err := writer.New(cfg.Context, c.Store, writerOptions(cfg), logger)
	if err != nil {
		c.Shutdown()
		return nil, err
	}
	a, err := accessor.New(cfg.Context, c.Store, accessorOptions(cfg), logger)
	if err != nil {
		c.Shutdown()
		return nil, err
	}
	c.Writer, c.Accessor = w, a
	return c, nil
}

func writerOptions(cfg *config.Config) writer.Options {
	opts := writer.Options{Concurrency: cfg.Writer.Concurrency, IDSource: writer.UUIDs}
	if cfg.Translation.IDSource == config.IDSourceSequential {
		opts.IDSource = writer.Sequential("n")
	}
	return opts
}

func accessorOptions(cfg *config.Config) accessor.Options {
	return accessor.Options{
		ReadDepth:     cfg.Decoder.ReadDepth,
		ReloadHops:    cfg.Decoder.ReloadHops,
		ReferenceHops: cfg.Decoder.ReferenceHops,
	}
}

// StaticFactory hands out components around an already opened store. The
// store outlives every command run.
type StaticFactory struct {
	Store cypher.Store
}

// Create binds a writer and accessor to the shared store.
func (f StaticFactory) Create(_ context.Context, cfg *config.Config) (*Components, error) {
	return bind(&Components{Store: f.Store}, cfg, observability.GetLogger())
}
