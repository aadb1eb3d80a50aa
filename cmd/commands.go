package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/internal/config"
	"github.com/xkilldash9x/owl2lpg/internal/exporter"
	"github.com/xkilldash9x/owl2lpg/internal/observability"
	"github.com/xkilldash9x/owl2lpg/internal/owlfile"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "owl2lpg %s\n", Version)
			return err
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export ONTOLOGY.yaml",
		Short: "Write an ontology as a Cypher import script",
		Long:  `Translates every axiom of a YAML ontology document and writes the idempotent create statements as a ';'-terminated Cypher script, to stdout or to --output.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ont, err := owlfile.LoadFile(args[0])
			if err != nil {
				return err
			}
			e, err := exporter.New(config.Get().Context, observability.GetLogger())
			if err != nil {
				return err
			}
			if output != "" {
				return e.ExportFile(cmd.Context(), *ont, output)
			}
			return e.Export(cmd.Context(), *ont, cmd.OutOrStdout())
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "script file to write (default stdout)")
	return exportCmd
}

// withComponents creates components for one run and always shuts them down.
func withComponents(ctx context.Context, factory ComponentFactory, fn func(*Components) error) error {
	c, err := factory.Create(ctx, config.Get())
	if err != nil {
		return err
	}
	defer c.Shutdown()
	return fn(c)
}

func newLoadCmd(factory ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "load ONTOLOGY.yaml",
		Short: "Import an ontology into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ont, err := owlfile.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withComponents(cmd.Context(), factory, func(c *Components) error {
				if err := c.Writer.ImportOntology(cmd.Context(), *ont); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d axioms into %s\n", len(ont.Axioms), config.Get().Context)
				return err
			})
		},
	}
}

func newRemoveCmd(factory ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "remove AXIOMS.yaml",
		Short: "Remove the axioms listed in a document from the configured store",
		Long:  `Unlinks every listed axiom from the configured document and deletes whatever structure no other axiom still uses. The document's ontology header is ignored.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ont, err := owlfile.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withComponents(cmd.Context(), factory, func(c *Components) error {
				if err := c.Writer.RemoveAxioms(cmd.Context(), ont.Axioms); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %d axioms from %s\n", len(ont.Axioms), config.Get().Context)
				return err
			})
		},
	}
}

func printObjects[T owl.Object](w io.Writer, objs []T) error {
	for _, o := range objs {
		if _, err := fmt.Fprintln(w, o.String()); err != nil {
			return err
		}
	}
	observability.GetLogger().Debug("Printed query results", zap.Int("count", len(objs)))
	return nil
}
