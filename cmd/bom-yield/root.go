package main

import (
	"errors"

	"github.com/spf13/cobra"

	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
	"bom-yield/internal/log"
	"bom-yield/internal/render"
	"bom-yield/internal/store"
	"bom-yield/internal/yield"
)

const (
	flagCatalog  = "catalog"
	flagDB       = "db"
	flagBundle   = "bundle"
	flagStrategy = "strategy"
	flagOutput   = "output"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bom-yield [sub-command]",
		Short: "Compute the maximum buildable count of a bill of materials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := log.GetBaseLogger(cmd)
			if err != nil {
				return err
			}

			cmd.SetContext(log.WithLogger(cmd.Context(), logger))

			return nil
		},
		SilenceUsage: true,
	}

	log.RegisterLoggingFlags(cmd)

	cmd.AddCommand(newMaxCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newPlanCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newExportCommand())

	return cmd
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagCatalog, "", "path to a YAML catalog")
	cmd.Flags().String(flagDB, "", "path to a SQLite catalog database")
	cmd.MarkFlagsMutuallyExclusive(flagCatalog, flagDB)
}

func addStrategyFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagStrategy, yield.StrategyGreedy.String(), "resolution strategy (greedy, explode)")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagOutput, "o", render.FormatTable, "output format (table, yaml, json)")
}

// loadCatalog reads the catalog named by the source flags.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, *diagnostic.Diagnostics, error) {
	path, _ := cmd.Flags().GetString(flagCatalog)
	if path != "" {
		return catalog.Load(path)
	}

	dbPath, _ := cmd.Flags().GetString(flagDB)
	if dbPath == "" {
		return nil, nil, errors.New("one of --catalog or --db is required")
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	return s.LoadCatalog(cmd.Context())
}

func strategyFlag(cmd *cobra.Command) (yield.Strategy, error) {
	name, _ := cmd.Flags().GetString(flagStrategy)
	return yield.ParseStrategy(name)
}

func outputFlag(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString(flagOutput)
	return format
}
