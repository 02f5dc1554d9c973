package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/dumpimport/internal/config"
	"github.com/JonMunkholm/dumpimport/internal/core"
	"github.com/JonMunkholm/dumpimport/internal/logging"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

type rootOptions struct {
	schema      string
	dryRun      bool
	tables      []string
	driver      string
	databaseURL string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "dumpimport [dump-file]",
		Short: "Import COPY blocks from a database dump",
		Long: "Reads the COPY blocks of a plain-text dump and upserts tags, technologies, " +
			"the landing page, social links, blog posts and project posts in one transaction.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.overrides(cmd, args)...)
			if err != nil {
				slog.Error("failed to load configuration", "error", err)
				return err
			}

			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			slog.Debug("configuration loaded", "config", cfg.String())

			return runImport(cmd.Context(), cfg)
		},
	}

	opts.addFlags(cmd.Flags())

	return cmd
}

func (o *rootOptions) addFlags(f *pflag.FlagSet) {
	f.StringVar(&o.schema, "schema", "", "Schema COPY headers must name (default public)")
	f.BoolVar(&o.dryRun, "dry-run", false, "Run the import and roll it back")
	f.StringSliceVar(&o.tables, "tables", nil, "Only import these destination tables (comma-separated)")
	f.StringVar(&o.driver, "driver", "", "Destination driver: postgres or sqlite")
	f.StringVar(&o.databaseURL, "database-url", "", "Destination connection string or sqlite file")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: text or json")
}

// overrides turns the flags the user actually set into config overrides,
// so unset flags leave the environment values alone.
func (o *rootOptions) overrides(cmd *cobra.Command, args []string) []func(*config.Config) {
	var out []func(*config.Config)
	changed := cmd.Flags().Changed

	if len(args) == 1 {
		path := args[0]
		out = append(out, func(c *config.Config) { c.Import.DumpPath = path })
	}
	if changed("schema") {
		out = append(out, func(c *config.Config) { c.Import.Schema = o.schema })
	}
	if changed("dry-run") {
		out = append(out, func(c *config.Config) { c.Import.DryRun = o.dryRun })
	}
	if changed("tables") {
		out = append(out, func(c *config.Config) { c.Import.Tables = o.tables })
	}
	if changed("driver") {
		out = append(out, func(c *config.Config) { c.Database.Driver = o.driver })
	}
	if changed("database-url") {
		out = append(out, func(c *config.Config) { c.Database.URL = o.databaseURL })
	}
	if changed("log-level") {
		out = append(out, func(c *config.Config) { c.Logging.Level = o.logLevel })
	}
	if changed("log-format") {
		out = append(out, func(c *config.Config) { c.Logging.Format = o.logFormat })
	}
	return out
}

func runImport(ctx context.Context, cfg *config.Config) error {
	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		return err
	}
	defer st.Close()

	slog.Info("connected to database", "driver", st.Driver())

	service, err := core.NewService(st, cfg.Import)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		return err
	}

	slog.Info("tables registered", "count", core.TableCount(), "selected", len(service.Tables()))

	result, err := service.Import(ctx, cfg.Import.DumpPath)
	if result != nil {
		result.LogSummary(logging.ContextWithRunID(ctx, result.RunID))
	}
	if err != nil {
		slog.Error("import failed, no changes were kept",
			"dump", cfg.Import.DumpPath,
			"error", err,
			"hint", core.FormatUserError(err),
		)
		return fmt.Errorf("import: %w", err)
	}
	return nil
}
