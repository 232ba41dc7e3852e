package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/features"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to JSON or CSV",
	Long: `Export the feedback log or its expanded training windows for external
analysis. CSV output of "feedback" is a valid feedback log, so it also moves
a libsql log back to a file.

Examples:
  orpheus export feedback --format json --output feedback.json
  orpheus export feedback --format csv --output feedback.csv
  orpheus export windows --format csv`,
}

var exportFeedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Export judged sequences",
	RunE:  runExportFeedback,
}

var exportWindowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Export the labelled windows the model trains on",
	RunE:  runExportWindows,
}

// Flags
var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportFeedbackCmd)
	exportCmd.AddCommand(exportWindowsCmd)

	exportCmd.PersistentFlags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

type ExportRecord struct {
	Label  int      `json:"listener_response"`
	Tokens []string `json:"tokens"`
}

type ExportWindow struct {
	Label  int      `json:"listener_response"`
	Window []string `json:"window"`
}

func runExportFeedback(cmd *cobra.Command, args []string) error {
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

	exportData := make([]ExportRecord, 0, len(records))
	width := 0
	for _, r := range records {
		exportData = append(exportData, ExportRecord{Label: int(r.Label), Tokens: r.Tokens})
		width = max(width, len(r.Tokens))
	}
	table := features.Table{Header: domain.BeatHeader(width)}
	for _, r := range records {
		table.Rows = append(table.Rows, append([]string{r.Label.Field()}, r.Tokens...))
	}

	return writeExport(cmd, exportData, table, len(records), "records")
}

func runExportWindows(cmd *cobra.Command, args []string) error {
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
	width := app.Profile.WindowWidth
	samples, err := features.Expand(records, width, app.Profile.ExpandOptions())
	if err != nil {
		return err
	}

	exportData := make([]ExportWindow, 0, len(samples))
	for _, s := range samples {
		exportData = append(exportData, ExportWindow{Label: int(s.Label), Window: s.Window})
	}

	return writeExport(cmd, exportData, features.ExpandedTable(samples, width), len(samples), "windows")
}

// writeExport encodes jsonData or table depending on --format.
func writeExport(cmd *cobra.Command, jsonData any, table features.Table, n int, noun string) error {
	var output io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		output = f
	}

	switch exportFormat {
	case "json":
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(jsonData); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case "csv":
		writer := csv.NewWriter(output)
		if err := writer.Write(table.Header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		if err := writer.WriteAll(table.Rows); err != nil {
			return fmt.Errorf("failed to write CSV rows: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s (use json or csv)", exportFormat)
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d %s to %s\n", n, noun, exportOutput)
	}
	return nil
}
