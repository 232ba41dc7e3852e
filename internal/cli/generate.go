package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/adapters/audio"
	"github.com/emiliopalmerini/orpheus/internal/pipeline"
	"github.com/emiliopalmerini/orpheus/internal/playback"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print generated melodies without asking for feedback",
	Long: `Train on the feedback log and print generated melodies, one per line.

Examples:
  orpheus generate                     # One melody from the trained model
  orpheus generate -n 5 --prior-only   # Five melodies from the prior
  orpheus generate --midi out.mid      # Also write them to a MIDI file`,
	RunE: runGenerate,
}

// Flags
var (
	generateCount     int
	generatePriorOnly bool
	generateMIDI      string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of melodies to generate")
	generateCmd.Flags().BoolVar(&generatePriorOnly, "prior-only", false, "Skip training and draw every note from the prior")
	generateCmd.Flags().StringVar(&generateMIDI, "midi", "", "Write the melodies to this MIDI file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if generateCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var recorder *audio.SMFRecorder
	if generateMIDI != "" {
		recorder = audio.NewSMFRecorder(app.Profile.BPM)
	}

	svc, err := app.NewService(nil, nil)
	if err != nil {
		return err
	}

	var trained *pipeline.Trained
	if !generatePriorOnly {
		if trained, err = svc.Train(ctx); err != nil {
			return fmt.Errorf("%w (use --prior-only to sample the prior)", err)
		}
	}

	for i := 0; i < generateCount; i++ {
		seq, err := svc.Generate(ctx, trained)
		if err != nil {
			return err
		}
		tokens, err := seq.Tokens()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), joinTokens(tokens))

		if recorder != nil {
			if err := playback.Play(ctx, seq, recorder); err != nil {
				return fmt.Errorf("failed to record melody %d: %w", i+1, err)
			}
		}
	}

	if recorder != nil {
		if err := recorder.WriteFile(generateMIDI); err != nil {
			return fmt.Errorf("failed to write MIDI file: %w", err)
		}
		app.Logger.Info("MIDI file written", "path", generateMIDI, "notes", recorder.Notes())
	}
	return nil
}
