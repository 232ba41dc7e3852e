package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/infrastructure/config"
	"github.com/emiliopalmerini/orpheus/internal/migrate"
	"github.com/emiliopalmerini/orpheus/internal/util"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations for the libsql feedback store (ORPHEUS_STORE=libsql).

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  orpheus migrate      # Run all pending migrations
  orpheus migrate 1    # Migrate to version 1
  orpheus migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	target := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		target = v
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}
	if settings.Store != config.StoreLibSQL {
		return fmt.Errorf("migrations only apply to the libsql store (set ORPHEUS_STORE=libsql)")
	}
	dir, err := util.ResolveDataDir(settings.DataDir)
	if err != nil {
		return err
	}

	db, err := openDatabase(settings, dir)
	if err != nil {
		return err
	}
	defer db.Close()

	m := migrate.New(db.DB, cmd.OutOrStdout())
	current, _, err := m.CurrentVersion(ctx)
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\n", current)
	}
	return m.To(ctx, target)
}
