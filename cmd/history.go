package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/internal/iocache"
	"github.com/greenbyte/sustain/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistorySettings reads and validates the history backend settings only.
func loadHistorySettings() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := loadHistorySettings()
	if err != nil {
		return err
	}

	if err := iocache.InitHistory(historyBackend(backend), connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT open the store, so no tables are created before migrations run.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadHistorySettings()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
//
// Note: history subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup, so they work without analyzers or LLM settings.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage score history tracking and exports",
	Long: `Manage the history of score, gate and optimize runs.

Every run stores its command, configuration and timing, plus one row per file
with the language, code lines, score and metrics. The optimizer records both
the original and the optimized version of each file.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  sustain history status

  # Export for analysis in pandas/DuckDB
  sustain history export --output-file history`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored history",
	Long: `Delete all stored runs and file scores.

For SQLite the database file is removed. For MySQL and PostgreSQL the history
tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  sustain history export --output-file backup
  sustain history clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		backend, connStr, err := loadHistorySettings()
		if err != nil {
			return err
		}
		cfg.HistoryBackend = backend
		cfg.HistoryDBConnect = connStr
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetHistoryDBFilePath()
		if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
			dbFilePath = cfg.HistoryDBConnect
		}
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, the number of stored runs, the newest and oldest run
times, the number of file scores and the size of each table.

Examples:
  sustain history status
  sustain history status --history-backend none`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			iocache.PrintHistoryStatus(os.Stdout, schema.HistoryStatus{Backend: string(schema.NoneBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to Parquet for BI tools and analytics",
	Long: `Export all stored history to Parquet.

Two files are written next to each other:
- <name>.runs.parquet with one row per run
- <name>.file_scores.parquet with one row per scored file version

Requires: --output-file parameter

Examples:
  sustain history export --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.file_scores.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  sustain history migrate

  # Roll back to the initial state
  sustain history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
