package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feedback log as a read-only JSON API",
	Long: `Start a local HTTP server exposing the feedback log.

Endpoints:
  GET /health
  GET /api/feedback?label=liked&limit=20
  GET /api/stats?top=10

Examples:
  orpheus serve                        # Listen on $ORPHEUS_SERVE_ADDR (127.0.0.1:8080)
  orpheus serve --addr 127.0.0.1:3000  # Listen on port 3000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := server.Config{Addr: app.Settings.ServeAddr}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	srv := server.NewHTTPServer(cfg, app.Store, app.Logger)
	return server.Run(ctx, srv, cfg.ShutdownTimeout, app.Logger)
}
