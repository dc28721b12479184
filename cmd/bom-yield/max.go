package main

import (
	"errors"

	"github.com/spf13/cobra"

	"bom-yield/internal/catalog"
	"bom-yield/internal/render"
	"bom-yield/internal/yield"
)

func newMaxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "max",
		Short: "Print the maximum number of units of a bundle that can be built",
		Example: `  bom-yield max --catalog bike.yaml --bundle bike
  bom-yield max --db data/catalog.db --bundle 1 --strategy explode -o json
  bom-yield max --catalog bike.yaml --all`,
		Args: cobra.NoArgs,
		RunE: runMax,
	}

	addSourceFlags(cmd)
	addStrategyFlag(cmd)
	addOutputFlag(cmd)
	cmd.Flags().String(flagBundle, "", "bundle to maximize")
	cmd.Flags().Bool("all", false, "resolve every bundle independently")
	cmd.MarkFlagsMutuallyExclusive(flagBundle, "all")

	return cmd
}

func runMax(cmd *cobra.Command, _ []string) error {
	st, err := strategyFlag(cmd)
	if err != nil {
		return err
	}

	cat, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		results, err := yield.MaxBuildableAll(cmd.Context(), cat, cat.BundleIDs(), yield.WithStrategy(st))
		if err != nil {
			return err
		}

		summary := yield.Summarize(results)
		summary.Strategy = st

		return render.Summary(cmd.OutOrStdout(), outputFlag(cmd), summary)
	}

	bundle, _ := cmd.Flags().GetString(flagBundle)
	if bundle == "" {
		return errors.New("--bundle or --all is required")
	}

	res, err := yield.New(cat, yield.WithStrategy(st)).Resolve(cmd.Context(), catalog.ID(bundle))
	if err != nil {
		return err
	}

	return render.Result(cmd.OutOrStdout(), outputFlag(cmd), res)
}
