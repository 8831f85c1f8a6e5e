package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ppiankov/acroeval/internal/pipeline"
	"github.com/ppiankov/acroeval/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Evaluate several (language, truth, predictions) runs in parallel",
	Long: `Batch evaluates every run listed in a YAML manifest:
- Read runs from the manifest (paths relative to the manifest directory)
- Evaluate runs in parallel with a configurable worker count
- Write one set of reports per run into the output directory

Manifest:
  runs:
    - name: en
      language: EN
      truth: truth_en.tsv
      predictions: output_en.tsv

Example:
  acroeval batch runs.yaml
  acroeval batch runs.yaml --concurrency 4 --output-dir ./reports
  acroeval batch runs.yaml --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().String("output-dir", "./acroeval-reports", "output directory for reports")
	batchCmd.Flags().Duration("timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the curve cache (force fresh scoring)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("output.dir", batchCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("concurrency.timeout", batchCmd.Flags().Lookup("timeout"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	outputDir := cfg.Output.Dir

	manifest, err := worker.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Acroeval Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", manifestPath)
	fmt.Fprintf(os.Stderr, "  Runs:         %d\n", len(manifest.Runs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", cfg.Concurrency.Timeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, logger)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.Timeout)

	fmt.Fprintf(os.Stderr, "⚙️  Evaluating %d runs with %d workers...\n", len(manifest.Runs), cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessRuns(cmd.Context(), manifest.Runs)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		name := result.Run.DisplayName()
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, result.Error)
			logger.Warn("run failed", zap.String("run", name), zap.Error(result.Error))
			continue
		}

		prefix := filepath.Join(outputDir, result.Run.OutputName())
		if _, err := p.RenderReport(result.Report, prefix); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
			continue
		}

		successCount++
		s := result.Report.Summary
		fmt.Fprintf(os.Stderr, "✓ %s [%s] (F1: %.4f, best %.4f at k=%d, %v)\n",
			name, result.Report.Language, s.FinalF1, s.BestF1, s.BestF1Rank, result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d runs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d runs failed", failureCount, len(results))
	}
	return nil
}
