package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/infrastructure/config"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty feedback log",
	Long: `Create an empty feedback log sized for the profile's sequence length.

An existing log is left alone unless --force is given.

Examples:
  orpheus init                  # Create the log
  orpheus init --force          # Start over with an empty log
  orpheus init --write-profile  # Also write the default profile for editing`,
	RunE: runInit,
}

// Flags
var (
	initForce        bool
	initWriteProfile bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing feedback log")
	initCmd.Flags().BoolVar(&initWriteProfile, "write-profile", false, "Write the default profile to <data dir>/profile.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if initWriteProfile {
		path, err := writeDefaultProfile(app.DataDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote profile to %s\n", path)
	}

	width := app.Profile.Length
	if err := app.Store.Init(ctx, width, initForce); err != nil {
		if errors.Is(err, domain.ErrLogExists) {
			return existingLogError(ctx, app.Store, width, err)
		}
		return fmt.Errorf("failed to initialize feedback log: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s feedback log for %d-event sequences in %s\n",
		app.Settings.Store, width, app.DataDir)
	return nil
}

// widthReporter is implemented by stores that know the width of an
// existing log.
type widthReporter interface {
	Width(ctx context.Context) (int, error)
}

// existingLogError describes the log that blocked init, including a width
// mismatch with the profile when the store can report one.
func existingLogError(ctx context.Context, store ports.FeedbackStore, want int, err error) error {
	wr, ok := store.(widthReporter)
	if !ok {
		return fmt.Errorf("%w (use --force to start over)", err)
	}
	have, werr := wr.Width(ctx)
	switch {
	case werr != nil || have == 0:
		return fmt.Errorf("%w (use --force to start over)", err)
	case have != want:
		return fmt.Errorf("%w with %d-event sequences but the profile asks for %d (use --force to start over)", err, have, want)
	default:
		return fmt.Errorf("%w with %d-event sequences (use --force to start over)", err, have)
	}
}

// writeDefaultProfile never overwrites an existing profile.
func writeDefaultProfile(dir string) (string, error) {
	path := filepath.Join(dir, profileFile)
	data, err := yaml.Marshal(config.DefaultProfile())
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("profile %s already exists", path)
		}
		return "", fmt.Errorf("failed to create profile: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write profile: %w", err)
	}
	return path, f.Close()
}
