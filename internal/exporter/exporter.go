// Package exporter renders an ontology as a standalone Cypher script that
// cypher-shell can replay against an empty Neo4j database.
package exporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
	"github.com/xkilldash9x/owl2lpg/internal/writer"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// Exporter writes import scripts for one document context.
type Exporter struct {
	docCtx schemas.DocumentContext
	logger *zap.Logger
}

// New returns an exporter for docCtx.
func New(docCtx schemas.DocumentContext, logger *zap.Logger) (*Exporter, error) {
	if err := docCtx.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{docCtx: docCtx, logger: logger.Named("exporter")}, nil
}

// Export writes the document scaffold, the ontology header and every axiom of
// ont to w, one ';'-terminated statement at a time.
func (e *Exporter) Export(ctx context.Context, ont owl.Ontology, w io.Writer) error {
	buf := bufio.NewWriter(w)
	script := &scriptRunner{w: buf, params: make(map[string]string)}
	if _, err := fmt.Fprintf(buf, "// ontology %s\n// %s\n", ont.ID, e.docCtx); err != nil {
		return err
	}

	wr, err := writer.New(e.docCtx, script, writer.Options{Concurrency: 1}, e.logger)
	if err != nil {
		return err
	}
	if err := wr.ImportOntology(ctx, ont); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush script: %w", err)
	}
	e.logger.Info("Exported ontology script",
		zap.String("ontology", ont.ID.String()),
		zap.Int("statements", script.count))
	return nil
}

// ExportFile writes the script to path, replacing any existing file.
func (e *Exporter) ExportFile(ctx context.Context, ont owl.Ontology, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return e.Export(ctx, ont, f)
}

// scriptRunner is a cypher.Runner that prints statements instead of running
// them. Parameters are declared with :param before the first statement that
// needs them and again whenever their value changes.
type scriptRunner struct {
	w      io.Writer
	params map[string]string
	count  int
}

var _ cypher.Runner = (*scriptRunner)(nil)

func (s *scriptRunner) Run(ctx context.Context, stmts []cypher.Statement) error {
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		keys := make([]string, 0, len(stmt.Params))
		for k := range stmt.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lit := schemas.Literal(stmt.Params[k])
			if s.params[k] == lit {
				continue
			}
			if _, err := fmt.Fprintf(s.w, ":param %s => %s\n", k, lit); err != nil {
				return err
			}
			s.params[k] = lit
		}
		if _, err := fmt.Fprintf(s.w, "%s;\n", stmt.Cypher()); err != nil {
			return err
		}
		s.count++
	}
	return nil
}
