package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/acroeval/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	truthPath  string
	predPath   string
	language   string
	outPrefix  string
	runName    string
	strictLang bool
	noCache    bool
	noFooter   bool
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score one prediction table against a ground-truth table",
	Long: `Eval scores a ranked prediction table for one language:
- Group annotated acrostics into recall and precision sets
- Consume candidates from the least confident to the most confident one
- Match every truth group at most once (substring or LCS threshold)
- Write the precision/recall/F1 curve as JSON, TSV and Markdown

Curves are cached by input contents. With --log-level debug the cache is
not consulted, so per-rank hit/miss/uncovered diagnostics are always logged.

Example:
  acroeval eval --truth truth_en.tsv --predictions output_en.tsv --lang EN
  acroeval eval --truth truth_la.tsv --predictions output_la.tsv --lang LA --out reports/la
  acroeval eval --truth truth_ru.tsv --predictions output_ru.tsv --lang RU --no-cache --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	// Input flags
	evalCmd.Flags().StringVar(&truthPath, "truth", "", "ground-truth TSV path")
	evalCmd.Flags().StringVar(&predPath, "predictions", "", "ranked prediction TSV path (most confident first)")
	evalCmd.Flags().StringVar(&language, "lang", "", "language code (EN, LA, RU, FR)")
	_ = evalCmd.MarkFlagRequired("truth")
	_ = evalCmd.MarkFlagRequired("predictions")
	_ = evalCmd.MarkFlagRequired("lang")

	// Output flags
	evalCmd.Flags().StringVar(&outPrefix, "out", "", "output path prefix (default: <output.dir>/<name>)")
	evalCmd.Flags().StringVar(&runName, "name", "", "run name (default: predictions file name)")
	evalCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Behaviour flags
	evalCmd.Flags().BoolVar(&strictLang, "strict-lang", false, "reject unknown language codes")
	evalCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the curve cache (force fresh scoring)")

	_ = viper.BindPFlag("scoring.strict_language", evalCmd.Flags().Lookup("strict-lang"))
}

func runEval(cmd *cobra.Command, args []string) error {
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

	run := pipeline.Run{
		Name:        runName,
		Language:    language,
		Truth:       truthPath,
		Predictions: predPath,
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Evaluating: %s\n", run.DisplayName())
		fmt.Fprintf(os.Stderr, "Truth:       %s\n", run.Truth)
		fmt.Fprintf(os.Stderr, "Predictions: %s\n", run.Predictions)
		fmt.Fprintf(os.Stderr, "Cache:       %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, logger)

	result, err := p.Evaluate(cmd.Context(), run)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	prefix := outPrefix
	if prefix == "" {
		prefix = filepath.Join(cfg.Output.Dir, pipeline.SanitizeFilename(result.Report.Name))
	}

	written, err := p.RenderReport(result.Report, prefix)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	p.Renderer().RenderSummary(cmd.OutOrStdout(), result.Report)

	if cfg.Output.Verbose {
		for _, path := range written {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
		}
	}
	logger.Info("evaluation complete",
		zap.String("run", result.Report.Name),
		zap.Bool("cached", result.Report.Cached),
		zap.Strings("outputs", written))

	return nil
}
