package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orpheus",
	Short: "Learn which melodies you like by listening to them",
	Long: `orpheus plays short generated melodies, asks whether you liked each one,
and fits a sparse logistic model over windows of recent notes to steer
what it generates next.

The feedback log lives in the data directory ($ORPHEUS_DATA_DIR, or
$XDG_DATA_HOME/orpheus) as feedback.csv, or in a libsql database when
ORPHEUS_STORE=libsql.`,
	SilenceUsage: true,
}

// Persistent flags
var (
	verbose     bool
	profilePath string
	dataDir     string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Session profile YAML (default: $ORPHEUS_PROFILE or <data dir>/profile.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: $ORPHEUS_DATA_DIR or XDG data dir)")
}
