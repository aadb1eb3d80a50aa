// Package writer turns axiom and ontology changes into Cypher statements and
// hands them to a runner in a stable order.
package writer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// IDSourceFactory returns a fresh identifier source for one session.
type IDSourceFactory func() translation.IDSource

// UUIDs is the default factory.
func UUIDs() translation.IDSource { return translation.UUIDSource{} }

// Sequential returns a factory whose sessions each count from zero.
func Sequential(prefix string) IDSourceFactory {
	return func() translation.IDSource { return translation.NewSequentialSource(prefix) }
}

// Options configures a Writer.
type Options struct {
	// Concurrency bounds how many axioms are translated at once. Zero or less
	// means no limit.
	Concurrency int
	IDSource    IDSourceFactory
}

// Writer synthesizes and runs the statements for one document.
type Writer struct {
	docCtx schemas.DocumentContext
	runner cypher.Runner
	synth  *cypher.Synthesizer
	opts   Options
	logger *zap.Logger
}

// New returns a writer for docCtx. It validates the context.
func New(docCtx schemas.DocumentContext, runner cypher.Runner, opts Options, logger *zap.Logger) (*Writer, error) {
	if err := docCtx.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.IDSource == nil {
		opts.IDSource = UUIDs
	}
	return &Writer{
		docCtx: docCtx,
		runner: runner,
		synth:  cypher.NewSynthesizer(docCtx, logger),
		opts:   opts,
		logger: logger.Named("writer"),
	}, nil
}

func (w *Writer) session() (*translation.Session, error) {
	return translation.NewSession(w.docCtx,
		translation.WithIDSource(w.opts.IDSource()),
		translation.WithLogger(w.logger))
}

// EnsureDocument creates the project, branch and document nodes if missing.
func (w *Writer) EnsureDocument(ctx context.Context) error {
	stmts, err := cypher.ContainerStatements(w.docCtx)
	if err != nil {
		return err
	}
	return w.runner.Run(ctx, stmts)
}

// AddAxioms writes each axiom into the document.
func (w *Writer) AddAxioms(ctx context.Context, axioms []owl.Axiom) error {
	return w.apply(ctx, axioms, w.synth.Create, "add")
}

// RemoveAxioms unlinks each axiom from the document and removes whatever
// structure no other axiom still uses.
func (w *Writer) RemoveAxioms(ctx context.Context, axioms []owl.Axiom) error {
	return w.apply(ctx, axioms, w.synth.Delete, "remove")
}

// apply translates every axiom in its own session, in parallel, then runs the
// resulting statement batches in input order.
func (w *Writer) apply(ctx context.Context, axioms []owl.Axiom, synthesize func(*translation.Translation) ([]cypher.Statement, error), op string) error {
	batches := make([][]cypher.Statement, len(axioms))

	g, gctx := errgroup.WithContext(ctx)
	if w.opts.Concurrency > 0 {
		g.SetLimit(w.opts.Concurrency)
	}
	for i, ax := range axioms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := w.session()
			if err != nil {
				return err
			}
			t, err := s.Translate(ax)
			if err != nil {
				return fmt.Errorf("axiom %d: %w", i, err)
			}
			stmts, err := synthesize(t)
			if err != nil {
				return fmt.Errorf("axiom %d: %w", i, err)
			}
			batches[i] = stmts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to %s axioms: %w", op, err)
	}

	for i, stmts := range batches {
		if err := w.runner.Run(ctx, stmts); err != nil {
			return fmt.Errorf("failed to %s axiom %d of %d: %w", op, i+1, len(batches), err)
		}
	}
	w.logger.Info("Applied axiom changes",
		zap.String("op", op),
		zap.String("document", w.docCtx.String()),
		zap.Int("axioms", len(axioms)))
	return nil
}

// ImportOntology writes the document scaffold, the ontology header and every
// axiom. All of it is translated in one session so shared sub-objects are
// translated once.
func (w *Writer) ImportOntology(ctx context.Context, ont owl.Ontology) error {
	if err := w.EnsureDocument(ctx); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	s, err := w.session()
	if err != nil {
		return err
	}
	ot, err := s.TranslateOntology(ont)
	if err != nil {
		return err
	}

	for _, t := range append([]*translation.Translation{ot.Header}, ot.Axioms...) {
		stmts, err := w.synth.Create(t)
		if err != nil {
			return err
		}
		if err := w.runner.Run(ctx, stmts); err != nil {
			return fmt.Errorf("failed to import %s: %w", t.Object.Kind(), err)
		}
	}
	w.logger.Info("Imported ontology",
		zap.String("ontology", ont.ID.String()),
		zap.String("document", w.docCtx.String()),
		zap.Int("axioms", len(ot.Axioms)))
	return nil
}
