package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/lineage/internal/checkpoint"
	"github.com/ppiankov/lineage/internal/model"
	"github.com/ppiankov/lineage/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportCheckpointDir string
	reportCSVPath       string
)

// reportCmd rebuilds the outputs from an existing checkpoint
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize an existing checkpoint without fetching anything",
	Long: `Report rebuilds the CSV and summary tables from
legislator_relations.json. No network requests and no LLM calls are made.

Example:
  lineage report
  lineage report --checkpoint-dir ./data --csv relations.csv`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportCheckpointDir, "checkpoint-dir", ".", "directory with checkpoint files")
	reportCmd.Flags().StringVar(&reportCSVPath, "csv", "", "also write the per-MP CSV to this path")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Checkpoint.Dir = reportCheckpointDir

	store := checkpoint.NewStore(cfg.Checkpoint)
	results, err := store.LoadResults()
	if err != nil {
		return err
	}
	if results.Len() == 0 {
		return fmt.Errorf("no records in %s; run `lineage run` first", store.RelationsPath())
	}

	records := results.Records()
	if reportCSVPath != "" {
		if err := report.WriteCSV(reportCSVPath, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n\n", reportCSVPath)
	}

	report.RenderTables(os.Stdout, report.Build(records))
	return nil
}
