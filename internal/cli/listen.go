package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/adapters/audio"
	"github.com/emiliopalmerini/orpheus/internal/adapters/prompter"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Play generated melodies and record whether you liked them",
	Long: `Run the listening loop: retrain on the whole feedback log, generate a
melody, play it, and ask whether you liked it.

Training needs liked and disliked windows in the log. Start a fresh log
with --prior-only, which draws every note from the profile's prior.

Examples:
  orpheus listen --prior-only --rounds 10  # Bootstrap a new log
  orpheus listen                           # Keep going until Ctrl+C
  orpheus listen --tui --midi session.mid  # TUI prompt, save what was played`,
	RunE: runListen,
}

// Flags
var (
	listenRounds    int
	listenPriorOnly bool
	listenTUI       bool
	listenMIDI      string
)

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().IntVarP(&listenRounds, "rounds", "n", 0, "Number of melodies to judge (0: until interrupted)")
	listenCmd.Flags().BoolVar(&listenPriorOnly, "prior-only", false, "Skip training and draw every note from the prior")
	listenCmd.Flags().BoolVar(&listenTUI, "tui", false, "Ask with an interactive TUI instead of a line prompt")
	listenCmd.Flags().StringVar(&listenMIDI, "midi", "", "Also record everything played to this MIDI file")
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var ask ports.Prompter
	if listenTUI {
		ask = prompter.NewBubbleTeaPrompter(app.Logger)
	} else {
		tty := prompter.NewTTYPrompter(app.Logger)
		defer tty.Close()
		ask = tty
	}

	var player ports.TonePlayer = audio.NewTerminalPlayer(cmd.OutOrStdout())
	var recorder *audio.SMFRecorder
	if listenMIDI != "" {
		recorder = audio.NewSMFRecorder(app.Profile.BPM)
		player = audio.Multi{player, recorder}
	}

	svc, err := app.NewService(ask, player)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Listening session %s (Ctrl-C to stop)\n", svc.SessionID())
	listenErr := svc.Listen(ctx, listenRounds, listenPriorOnly)

	if recorder != nil && recorder.Notes() > 0 {
		if err := recorder.WriteFile(listenMIDI); err != nil {
			app.Logger.Warn("failed to write MIDI file", "path", listenMIDI, "error", err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d notes to %s\n", recorder.Notes(), listenMIDI)
		}
	}

	if listenErr != nil && ctx.Err() != nil {
		// Interrupted by the listener; what was recorded so far is kept.
		return nil
	}
	return listenErr
}
