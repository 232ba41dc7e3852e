package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/adapters/storage"
	"github.com/emiliopalmerini/orpheus/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feedback statistics",
	Long: `Show summary statistics for the feedback log.

Examples:
  orpheus stats            # Counts, the 10 most frequent tokens and the last model
  orpheus stats --top 20   # Show 20 tokens
  orpheus stats --json     # Machine-readable output`,
	RunE: runStats,
}

// Flags
var (
	statsTop  int
	statsJSON bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVarP(&statsTop, "top", "t", 10, "Number of frequent tokens to show")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read feedback log: %w", err)
	}
	report := statsReport{FeedbackStats: domain.SummarizeFeedback(records, statsTop)}

	snap, err := app.Artifacts.LoadModel(ctx)
	switch {
	case err == nil:
		report.Model = summarizeSnapshot(snap, statsTop)
	case errors.Is(err, fs.ErrNotExist):
	default:
		app.Logger.Warn("failed to load model snapshot", "error", err)
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printStats(cmd.OutOrStdout(), report.FeedbackStats)
	if report.Model != nil {
		printModelSummary(cmd.OutOrStdout(), report.Model)
	}
	return nil
}

// statsReport adds the last trained model, when there is one, to the
// feedback statistics.
type statsReport struct {
	domain.FeedbackStats
	Model *modelSummary `json:"model,omitempty"`
}

type modelSummary struct {
	Columns   int             `json:"columns"`
	NonZero   int             `json:"non_zero"`
	Intercept float64         `json:"intercept"`
	C         float64         `json:"c"`
	Top       []featureWeight `json:"top,omitempty"`
}

type featureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

func summarizeSnapshot(snap *storage.Snapshot, top int) *modelSummary {
	sum := &modelSummary{
		Columns:   len(snap.Columns),
		NonZero:   snap.NonZero,
		Intercept: snap.Intercept,
		C:         snap.C,
	}
	for c, w := range snap.Weights {
		if w == 0 || c >= len(snap.Columns) {
			continue
		}
		sum.Top = append(sum.Top, featureWeight{Feature: snap.Columns[c], Weight: w})
	}
	sort.SliceStable(sum.Top, func(i, j int) bool {
		return math.Abs(sum.Top[i].Weight) > math.Abs(sum.Top[j].Weight)
	})
	if top > 0 && len(sum.Top) > top {
		sum.Top = sum.Top[:top]
	}
	return sum
}

func printModelSummary(out io.Writer, m *modelSummary) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Model:     %d of %d columns non-zero (C=%g, intercept %.4f)\n", m.NonZero, m.Columns, m.C, m.Intercept)
	if len(m.Top) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tWEIGHT")
	for _, fw := range m.Top {
		fmt.Fprintf(w, "%s\t%+.4f\n", fw.Feature, fw.Weight)
	}
	_ = w.Flush()
}

func printStats(out io.Writer, s domain.FeedbackStats) {
	fmt.Fprintf(out, "Records:   %d\n", s.Records)
	fmt.Fprintf(out, "Liked:     %d (%.1f%%)\n", s.Liked, s.LikedRatio()*100)
	fmt.Fprintf(out, "Disliked:  %d\n", s.Disliked)
	fmt.Fprintf(out, "Tokens:    %d\n", s.Tokens)
	if len(s.Top) == 0 {
		return
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tCOUNT\tIN LIKED")
	for _, tc := range s.Top {
		fmt.Fprintf(w, "%s\t%d\t%d\n", tc.Token, tc.Count, tc.Liked)
	}
	_ = w.Flush()
}
