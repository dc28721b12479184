package main

import (
	"github.com/spf13/cobra"

	"bom-yield/internal/catalog"
	"bom-yield/internal/store"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a catalog as normalized YAML",
		Long: `Write a catalog as YAML. A database is exported with its row ids; a YAML
catalog is normalized (merged requirement lines, sorted ids).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := exportFile(cmd)
			if err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString("file"); path != "" {
				return catalog.WriteFile(f, path)
			}

			data, err := catalog.Marshal(f)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().String("file", "", "write to this path instead of stdout")

	return cmd
}

func exportFile(cmd *cobra.Command) (*catalog.File, error) {
	if dbPath, _ := cmd.Flags().GetString(flagDB); dbPath != "" {
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer s.Close()

		return s.ReadFile(cmd.Context())
	}

	cat, _, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}

	return catalog.ToFile(cat), nil
}
