package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
	"bom-yield/internal/render"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog for structural defects and cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, diags, loadErr := loadCatalog(cmd)
			if diags == nil {
				// Unreadable source; nothing was validated.
				return loadErr
			}

			err := loadErr
			if err == nil {
				var order diagnostic.Diagnostics

				err = checkOrder(cat, &order)
				diags.Merge(order)
			}

			if rerr := render.Diagnostics(cmd.OutOrStdout(), outputFlag(cmd), diags); rerr != nil {
				return rerr
			}

			if err != nil {
				return err
			}

			if outputFlag(cmd) == render.FormatTable {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), summaryLine(diags))
			}

			return err
		},
	}

	addSourceFlags(cmd)
	addOutputFlag(cmd)

	return cmd
}

func summaryLine(diags *diagnostic.Diagnostics) string {
	if len(diags.Warnings) == 0 {
		return "catalog is valid"
	}

	return "catalog is valid with warnings"
}

// checkOrder reports a cycle in cat as an error diagnostic.
func checkOrder(cat *catalog.Catalog, diags *diagnostic.Diagnostics) error {
	_, err := cat.AssemblyOrder()

	var cycle *catalog.CycleError
	if errors.As(err, &cycle) {
		diags.AddError(catalog.CodeCyclicDependency, err.Error(), string(cycle.Path[0]), "")
	}

	return err
}
