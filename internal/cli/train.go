package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the preference model and show its strongest features",
	Long: `Fit the preference model on the whole feedback log, store the expanded,
interaction and indicator tables plus model.json under <data dir>/artifacts,
and print the features with the largest weights.

Examples:
  orpheus train            # Top 10 features
  orpheus train --top 25   # Top 25 features`,
	RunE: runTrain,
}

var trainTop int

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().IntVarP(&trainTop, "top", "t", 10, "Number of features to show")
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	svc, err := app.NewService(nil, nil)
	if err != nil {
		return err
	}
	trained, err := svc.Train(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Session:      %s\n", svc.SessionID())
	printTrained(cmd.OutOrStdout(), trained, trainTop)
	return nil
}

type weightedColumn struct {
	name   string
	weight float64
}

// topWeights returns non-zero weights ordered by magnitude.
func topWeights(t *pipeline.Trained, n int) []weightedColumn {
	var cols []weightedColumn
	for c, w := range t.Model.Weights {
		if w == 0 {
			continue
		}
		cols = append(cols, weightedColumn{name: t.Dataset.Schema.ColumnName(c), weight: w})
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return math.Abs(cols[i].weight) > math.Abs(cols[j].weight)
	})
	if n > 0 && len(cols) > n {
		cols = cols[:n]
	}
	return cols
}

func printTrained(out io.Writer, t *pipeline.Trained, top int) {
	m := t.Model
	fmt.Fprintf(out, "Samples:      %d\n", len(t.Dataset.Samples))
	fmt.Fprintf(out, "Columns:      %d\n", len(t.Dataset.Schema.Columns))
	fmt.Fprintf(out, "Non-zero:     %d\n", m.NonZero())
	fmt.Fprintf(out, "Intercept:    %.4f\n", m.Intercept)
	fmt.Fprintf(out, "Objective:    %.4f (%d iterations, C=%g)\n", m.Objective, m.Iterations, m.C)

	cols := topWeights(t, top)
	if len(cols) == 0 {
		fmt.Fprintln(out, "\nEvery weight was shrunk to zero; collect more feedback or raise c.")
		return
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tWEIGHT")
	for _, c := range cols {
		fmt.Fprintf(w, "%s\t%+.4f\n", c.name, c.weight)
	}
	_ = w.Flush()
}
