package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/owl2lpg/internal/accessor"
	"github.com/xkilldash9x/owl2lpg/pkg/owl"
)

func newQueryCmd(factory ComponentFactory) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Read axioms of the configured document",
		Long:  `Runs one axiom index query against the configured store and prints each result in functional syntax, one per line, sorted.`,
	}

	// axiomQuery wraps a query returning axioms into a command.
	axiomQuery := func(use, short string, args cobra.PositionalArgs, run func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), factory, func(c *Components) error {
					axioms, err := run(cmd.Context(), c.Accessor, args)
					if err != nil {
						return err
					}
					return printObjects(cmd.OutOrStdout(), axioms)
				})
			},
		}
	}

	queryCmd.AddCommand(
		axiomQuery("type KIND", "Axioms of one kind, or every axiom for kind Axiom", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.AxiomsByType(ctx, owl.Kind(args[0]))
			}),
		axiomQuery("subclass CLASS_IRI", "SubClassOf axioms by sub class", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.SubClassOfAxiomsBySubClass(ctx, owl.Class{IRI: owl.IRI(args[0])})
			}),
		axiomQuery("subobjectproperty PROPERTY_IRI", "SubObjectPropertyOf axioms by sub property", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.SubObjectPropertyOfAxiomsBySubProperty(ctx, owl.ObjectProperty{IRI: owl.IRI(args[0])})
			}),
		axiomQuery("subdataproperty PROPERTY_IRI", "SubDataPropertyOf axioms by sub property", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.SubDataPropertyOfAxiomsBySubProperty(ctx, owl.DataProperty{IRI: owl.IRI(args[0])})
			}),
		axiomQuery("domain PROPERTY_KIND PROPERTY_IRI", "Domain axioms of a property", cobra.ExactArgs(2),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				e, err := parseEntity(args[0], args[1])
				if err != nil {
					return nil, err
				}
				return a.DomainAxioms(ctx, e)
			}),
		axiomQuery("range PROPERTY_KIND PROPERTY_IRI", "Range axioms of a property", cobra.ExactArgs(2),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				e, err := parseEntity(args[0], args[1])
				if err != nil {
					return nil, err
				}
				return a.RangeAxioms(ctx, e)
			}),
		axiomQuery("assertions INDIVIDUAL", "Class assertions about an individual; _:id names an anonymous one", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.ClassAssertionAxiomsByIndividual(ctx, parseIndividual(args[0]))
			}),
		axiomQuery("classassertions CLASS_IRI", "Class assertions by class", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.ClassAssertionAxiomsByClass(ctx, owl.Class{IRI: owl.IRI(args[0])})
			}),
		axiomQuery("objectassertions INDIVIDUAL", "Object property assertions by subject", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.ObjectPropertyAssertionAxiomsBySubject(ctx, parseIndividual(args[0]))
			}),
		axiomQuery("dataassertions INDIVIDUAL", "Data property assertions by subject", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.DataPropertyAssertionAxiomsBySubject(ctx, parseIndividual(args[0]))
			}),
		&cobra.Command{
			Use:   "instances CLASS_IRI",
			Short: "Individuals asserted to be of a class",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), factory, func(c *Components) error {
					individuals, err := c.Accessor.IndividualsByType(cmd.Context(), owl.Class{IRI: owl.IRI(args[0])})
					if err != nil {
						return err
					}
					return printObjects(cmd.OutOrStdout(), individuals)
				})
			},
		},
		axiomQuery("annotations SUBJECT_IRI", "Annotation assertions about an IRI", cobra.ExactArgs(1),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				return a.AnnotationAssertionAxiomsBySubject(ctx, owl.IRI(args[0]))
			}),
		axiomQuery("references ENTITY_KIND ENTITY_IRI", "Axioms mentioning an entity", cobra.ExactArgs(2),
			func(ctx context.Context, a *accessor.Accessor, args []string) ([]owl.Axiom, error) {
				e, err := parseEntity(args[0], args[1])
				if err != nil {
					return nil, err
				}
				return a.AxiomsByReference(ctx, e)
			}),
		&cobra.Command{
			Use:   "header",
			Short: "The ontology id and annotations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), factory, func(c *Components) error {
					header, err := c.Accessor.OntologyHeader(cmd.Context())
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), header.String())
					return err
				})
			},
		},
	)
	return queryCmd
}

func parseEntity(kind, iri string) (owl.Entity, error) {
	e, ok := owl.NewEntity(owl.Kind(kind), owl.IRI(iri))
	if !ok {
		return nil, fmt.Errorf("%s is not an entity kind", kind)
	}
	return e, nil
}

// parseIndividual reads _:id as an anonymous individual and anything else as
// a named one.
func parseIndividual(arg string) owl.Individual {
	if id, ok := strings.CutPrefix(arg, "_:"); ok {
		return owl.AnonymousIndividual{NodeID: id}
	}
	return owl.NamedIndividual{IRI: owl.IRI(arg)}
}
