package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"bom-yield/internal/catalog"
	"bom-yield/internal/config"
	"bom-yield/internal/server"
	"bom-yield/internal/store"
	"bom-yield/internal/yield"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GET /maxBundles over HTTP",
		Long: `Serve GET /maxBundles over HTTP. A request without ?bundle= resolves the
default bundle: --bundle, else resolver.default_bundle, else bundle 1 of a
seeded database or the first bundle declared in a --catalog file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}

			if cmd.Flags().Changed(flagDB) {
				cfg.Data.DBPath, _ = cmd.Flags().GetString(flagDB)
				cfg.Data.CatalogPath = ""
			}

			if cmd.Flags().Changed(flagCatalog) {
				cfg.Data.CatalogPath, _ = cmd.Flags().GetString(flagCatalog)
			}

			if cmd.Flags().Changed(flagBundle) {
				cfg.Resolver.DefaultBundle, _ = cmd.Flags().GetString(flagBundle)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("config", "config.toml", "path to the TOML configuration")
	cmd.Flags().Int("port", 0, "listen port, overriding the configuration")
	cmd.Flags().String(flagDB, "", "SQLite catalog database, overriding the configuration")
	cmd.Flags().String(flagCatalog, "", "YAML catalog, overriding the configuration")
	cmd.Flags().String(flagBundle, "", "default bundle, overriding the configuration")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := slogcontext.FromCtx(ctx)

	st, err := yield.ParseStrategy(cfg.Resolver.Strategy)
	if err != nil {
		return err
	}

	var src server.Source

	defaultBundle := cfg.Resolver.DefaultBundle

	if cfg.Data.CatalogPath != "" {
		src = server.FileSource{Path: cfg.Data.CatalogPath}

		if defaultBundle, err = catalogDefaultBundle(cfg.Data.CatalogPath, defaultBundle); err != nil {
			return err
		}
	} else {
		s, err := store.New(cfg.Data.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		if cfg.Data.SeedOnStart {
			if err := s.Seed(ctx, store.BicycleFile()); err != nil {
				return err
			}

			logger.Info("seeded sample catalog", "db", cfg.Data.DBPath)
		}

		src = s
	}

	srv := server.New(src, server.Options{
		DefaultBundle: defaultBundle,
		Strategy:      st,
		DevMode:       cfg.Server.DevMode,
		Logger:        logger,
	})

	return srv.Run(ctx, cfg.Addr())
}

// catalogDefaultBundle keeps configured when the YAML catalog at path declares
// it. The built-in default names a database row id, so for a file without
// that bundle the first declared bundle is used instead.
func catalogDefaultBundle(path, configured string) (string, error) {
	f, err := catalog.LoadFile(path)
	if err != nil {
		return "", err
	}

	for _, b := range f.Bundles {
		if string(b.ID) == configured {
			return configured, nil
		}
	}

	if configured == config.DefaultConfig().Resolver.DefaultBundle && len(f.Bundles) > 0 {
		return string(f.Bundles[0].ID), nil
	}

	return configured, nil
}
