package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bom-yield/internal/catalog"
	"bom-yield/internal/render"
	"bom-yield/internal/yield"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the assembly tree, per-bundle allocation and leftover inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := strategyFlag(cmd)
			if err != nil {
				return err
			}

			bundle, _ := cmd.Flags().GetString(flagBundle)
			if bundle == "" {
				return errors.New("--bundle is required")
			}

			cat, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			target := catalog.ID(bundle)

			order, err := cat.BuildOrder(target)
			if err != nil {
				return err
			}

			format := outputFlag(cmd)
			out := cmd.OutOrStdout()

			if format == render.FormatTable {
				render.Tree(out, cat, target)

				if _, err := fmt.Fprintf(out, "\nassembly order: %v\n\n", order); err != nil {
					return err
				}
			}

			res, err := yield.New(cat, yield.WithStrategy(st)).Resolve(cmd.Context(), target)
			if err != nil {
				return err
			}

			if err := render.Result(out, format, res); err != nil {
				return err
			}

			if format == render.FormatTable {
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}

				render.Remaining(out, res)
			}

			return nil
		},
	}

	addSourceFlags(cmd)
	addStrategyFlag(cmd)
	addOutputFlag(cmd)
	cmd.Flags().String(flagBundle, "", "bundle to plan")

	return cmd
}
