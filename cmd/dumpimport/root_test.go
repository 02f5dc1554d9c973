package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dumpimport/internal/config"
)

func TestOverrides(t *testing.T) {
	var opts rootOptions
	cmd := &cobra.Command{}
	opts.addFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{
		"--dry-run",
		"--tables", "tags,blog_posts",
		"--driver", "sqlite",
	}))

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverPostgres, URL: "from-env"},
		Import:   config.ImportConfig{Schema: "public"},
	}
	for _, o := range opts.overrides(cmd, []string{"backup.sql"}) {
		o(cfg)
	}

	assert.Equal(t, "backup.sql", cfg.Import.DumpPath)
	assert.True(t, cfg.Import.DryRun)
	assert.Equal(t, []string{"tags", "blog_posts"}, cfg.Import.Tables)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Database.URL, "unset flag must not override")
	assert.Equal(t, "public", cfg.Import.Schema, "unset flag must not override")
}

func TestOverrides_NoArgs(t *testing.T) {
	var opts rootOptions
	cmd := &cobra.Command{}
	opts.addFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Empty(t, opts.overrides(cmd, nil))
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.sql", "b.sql"})
	assert.Error(t, cmd.Execute())
}
