package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/acroeval/internal/model"
	"github.com/ppiankov/acroeval/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// ErrEmptyManifest is returned for a manifest without runs
var ErrEmptyManifest = errors.New("manifest lists no runs")

// Evaluator defines the interface for evaluating one run
type Evaluator interface {
	Evaluate(ctx context.Context, run pipeline.Run) (*pipeline.EvalResult, error)
}

// EvalJob evaluates one (language, truth, predictions) tuple
type EvalJob struct {
	Run       pipeline.Run
	Evaluator Evaluator
}

// Execute executes the evaluation job
func (j *EvalJob) Execute(ctx context.Context) Result {
	start := time.Now()
	result, err := j.Evaluator.Evaluate(ctx, j.Run)
	if err != nil {
		return &RunResult{
			Run:      j.Run,
			Error:    err,
			Duration: time.Since(start),
		}
	}
	return &RunResult{
		Run:      j.Run,
		Report:   result.Report,
		Duration: time.Since(start),
	}
}

// RunResult represents the result of an evaluation job
type RunResult struct {
	Run      pipeline.Run
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the run result
func (r *RunResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates multiple runs concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a new batch processor. A positive timeout
// bounds the whole batch.
func NewBatchProcessor(evaluator Evaluator, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// ProcessRuns evaluates runs concurrently and returns their results in
// manifest order
func (b *BatchProcessor) ProcessRuns(ctx context.Context, runs []pipeline.Run) []*RunResult {
	if len(runs) == 0 {
		return []*RunResult{}
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, run := range runs {
		pool.Submit(&EvalJob{
			Run:       run,
			Evaluator: b.evaluator,
		})
	}

	results := pool.Wait()

	runResults := make([]*RunResult, len(results))
	for i, result := range results {
		if result == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			runResults[i] = &RunResult{Run: runs[i], Error: fmt.Errorf("not started: %w", err)}
			continue
		}
		runResults[i] = result.(*RunResult)
	}

	return runResults
}

// ProcessManifest loads a manifest and evaluates its runs
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*RunResult, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return b.ProcessRuns(ctx, manifest.Runs), nil
}

// Manifest lists the runs of a batch
type Manifest struct {
	Runs []pipeline.Run `yaml:"runs"`
}

// LoadManifest reads a YAML manifest. Relative truth and predictions paths
// are resolved against the manifest directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Runs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyManifest)
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool)
	for i := range m.Runs {
		run := &m.Runs[i]
		run.Language = strings.TrimSpace(run.Language)
		if run.Language == "" || run.Truth == "" || run.Predictions == "" {
			return nil, fmt.Errorf("%s: run %d: language, truth and predictions are required", path, i+1)
		}
		run.Truth = resolvePath(base, run.Truth)
		run.Predictions = resolvePath(base, run.Predictions)

		// Names become output file prefixes
		name := run.OutputName()
		if seen[name] {
			return nil, fmt.Errorf("%s: run %d: run name %q collides with an earlier run's output name %q", path, i+1, run.DisplayName(), name)
		}
		seen[name] = true
	}

	return &m, nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
