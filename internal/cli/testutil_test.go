package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
)

// testEnv points the CLI at a fresh data directory, clears ORPHEUS_*
// variables that could leak in from the host and resets flag values left
// over from earlier commands.
func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, k := range []string{
		"ORPHEUS_STORE", "ORPHEUS_DATABASE_URL", "ORPHEUS_AUTH_TOKEN", "ORPHEUS_PROFILE",
		"ORPHEUS_LOG_LEVEL", "ORPHEUS_LOG_JSON", "ORPHEUS_OTEL_ENABLED", "ORPHEUS_OTEL_ENDPOINT",
		"ORPHEUS_OTEL_INSECURE", "ORPHEUS_METRICS_FILE", "ORPHEUS_SERVE_ADDR",
	} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unset %s: %v", k, err)
		}
	}
	t.Setenv("ORPHEUS_DATA_DIR", dir)
	t.Setenv("ORPHEUS_LOG_LEVEL", "error")

	verbose, profilePath, dataDir = false, "", ""
	initForce, initWriteProfile = false, false
	listenRounds, listenPriorOnly, listenTUI, listenMIDI = 0, false, false, ""
	generateCount, generatePriorOnly, generateMIDI = 1, false, ""
	trainTop = 10
	statsTop, statsJSON = 10, false
	exportFormat, exportOutput = "json", ""
	serveAddr = ""

	return dir
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}
