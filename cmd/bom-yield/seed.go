package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
	"bom-yield/internal/store"
)

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the contents of a catalog database",
		Long: `Replace the contents of a catalog database with a YAML catalog, or with
the bicycle sample when no catalog is given. Rows are numbered in
declaration order, so the first bundle becomes bundle 1. Unlike a YAML
catalog, a database cannot hold references to unknown parts or bundles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, _ := cmd.Flags().GetString(flagDB)

			f := store.BicycleFile()

			if path, _ := cmd.Flags().GetString(flagCatalog); path != "" {
				var err error
				if f, err = catalog.LoadFile(path); err != nil {
					return err
				}
			}

			// Reject what LoadCatalog would refuse to read back.
			_, diags, err := catalog.FromFileWithDiagnostics(f)
			if err != nil {
				return err
			}

			if err := danglingReferences(diags); err != nil {
				return err
			}

			s, err := store.New(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Seed(cmd.Context(), f); err != nil {
				return err
			}

			slogcontext.FromCtx(cmd.Context()).Info("seeded", "db", dbPath,
				"parts", len(f.Parts), "bundles", len(f.Bundles))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d parts and %d bundles into %s\n",
				len(f.Parts), len(f.Bundles), dbPath)

			return err
		},
	}

	cmd.Flags().String(flagDB, "", "path to the SQLite catalog database")
	cmd.Flags().String(flagCatalog, "", "YAML catalog to load (defaults to the bicycle sample)")
	_ = cmd.MarkFlagRequired(flagDB)

	return cmd
}

// danglingReferences turns the unknown part and bundle warnings of a YAML
// catalog into an error. Requirement rows hold foreign keys, so a database
// cannot store a reference to something it does not contain.
func danglingReferences(diags *diagnostic.Diagnostics) error {
	var errs []error

	for _, w := range diags.Warnings {
		switch w.Code {
		case catalog.CodeUnknownPart:
			errs = append(errs, fmt.Errorf("bundle %q: %w %q", w.Bundle, catalog.ErrUnknownPart, w.Ref))
		case catalog.CodeUnknownBundle:
			errs = append(errs, fmt.Errorf("bundle %q: %w %q", w.Bundle, catalog.ErrUnknownBundle, w.Ref))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("cannot seed a catalog with dangling references: %w", errors.Join(errs...))
}
