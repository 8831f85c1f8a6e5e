// Package pipeline runs one evaluation: load, group, score, report.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/acroeval/internal/cache"
	"github.com/ppiankov/acroeval/internal/extract"
	"github.com/ppiankov/acroeval/internal/match"
	"github.com/ppiankov/acroeval/internal/model"
	"github.com/ppiankov/acroeval/internal/normalize"
	"github.com/ppiankov/acroeval/internal/score"
	"github.com/ppiankov/acroeval/internal/truth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run names one (language, truth, predictions) tuple
type Run struct {
	Name        string `yaml:"name"`
	Language    string `yaml:"language"`
	Truth       string `yaml:"truth"`
	Predictions string `yaml:"predictions"`
}

// DisplayName returns the run name, defaulting to the predictions file name
func (r Run) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	base := filepath.Base(r.Predictions)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputName returns the file name prefix of the run's reports
func (r Run) OutputName() string {
	return SanitizeFilename(r.DisplayName())
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// SanitizeFilename turns a run name into a safe file name
func SanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".")

	if s == "" {
		s = "run"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}

// Pipeline orchestrates a complete evaluation
type Pipeline struct {
	loader   *Loader
	scorer   *score.Scorer
	renderer *Renderer
	cache    cache.Cache // nil when caching is disabled
	config   *model.Config
	logger   *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		loader:   NewLoader(0),
		scorer:   score.NewScorer(match.NewMatcher(cfg.Scoring.MinLCS), logger, cfg.Scoring.MissLogLimit),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		cache:    c,
		config:   cfg,
		logger:   logger,
	}
}

// WithCache replaces the pipeline cache; nil disables caching
func (p *Pipeline) WithCache(c cache.Cache) *Pipeline {
	p.cache = c
	return p
}

// EvalResult contains the complete evaluation result
type EvalResult struct {
	Report *model.Report
}

// cachedCurve is the cached part of a report
type cachedCurve struct {
	Summary   model.Summary      `json:"summary"`
	Curve     model.Curve        `json:"curve"`
	Hits      []model.Hit        `json:"hits,omitempty"`
	Uncovered []model.TruthGroup `json:"uncovered,omitempty"`
}

// Evaluate scores the predictions of run against its truth table
func (p *Pipeline) Evaluate(ctx context.Context, run Run) (*EvalResult, error) {
	// 1. Resolve language
	lang, err := normalize.Resolve(run.Language, p.config.Scoring.StrictLanguage)
	if err != nil {
		return nil, err
	}
	if !lang.Known() {
		p.logger.Warn("unknown language, normalizing by lower-casing only", zap.String("language", run.Language))
	}

	// 2. Load inputs
	truthIn, err := p.loader.Load(ctx, run.Truth)
	if err != nil {
		return nil, fmt.Errorf("load truth: %w", err)
	}
	predIn, err := p.loader.Load(ctx, run.Predictions)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}

	report := &model.Report{
		Name:        run.DisplayName(),
		Language:    lang.String(),
		TruthPath:   run.Truth,
		Predictions: run.Predictions,
		GeneratedAt: time.Now().UTC(),
	}

	// 3. Serve from cache when the inputs are unchanged. Debug runs always
	// rescore so that per-rank diagnostics are emitted.
	key := cache.Key(truthIn.Data, predIn.Data, []byte(lang), []byte(strconv.Itoa(p.scorer.MinLCS())))
	if p.logger.Core().Enabled(zapcore.DebugLevel) {
		p.logger.Debug("debug logging enabled, bypassing curve cache lookup", zap.String("run", report.Name))
	} else if cc, ok := p.cached(key); ok {
		p.logger.Info("curve served from cache", zap.String("run", report.Name))
		report.Summary = cc.Summary
		report.Curve = cc.Curve
		report.Hits = cc.Hits
		report.Uncovered = cc.Uncovered
		report.Cached = true
		return &EvalResult{Report: report}, nil
	}

	// 4. Parse tables
	records, err := extract.ReadTruth(bytes.NewReader(truthIn.Data), run.Truth)
	if err != nil {
		return nil, fmt.Errorf("read truth: %w", err)
	}
	candidates, err := extract.ReadCandidates(bytes.NewReader(predIn.Data), run.Predictions)
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Group truth rows
	groups := truth.Build(records, lang)
	p.logger.Debug("truth grouped",
		zap.String("run", report.Name),
		zap.Int("records", len(records)),
		zap.Int("recall_groups", len(groups.Recall)),
		zap.Int("precision_groups", len(groups.Precision)))

	// 6. Score
	res, err := p.scorer.Score(candidates, groups.Recall, groups.Precision, lang)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", report.Name, err)
	}

	summary := model.Summarize(res.Curve, model.DefaultCutoffs)
	summary.RecallGroups = res.Total
	summary.PrecisionGroups = len(groups.Precision)
	summary.Covered = res.Covered
	summary.FalsePositives = res.FalsePositives

	report.Summary = summary
	report.Curve = res.Curve
	report.Hits = res.Hits
	report.Uncovered = res.Uncovered

	p.store(key, cachedCurve{
		Summary:   summary,
		Curve:     res.Curve,
		Hits:      res.Hits,
		Uncovered: res.Uncovered,
	})

	return &EvalResult{Report: report}, nil
}

func (p *Pipeline) cached(key string) (cachedCurve, bool) {
	var cc cachedCurve
	if p.cache == nil {
		return cc, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return cc, false
	}
	if err := json.Unmarshal(data, &cc); err != nil {
		p.logger.Warn("discarding unreadable cache entry", zap.Error(err))
		_ = p.cache.Delete(key)
		return cc, false
	}
	return cc, true
}

// store never fails the run; cache errors are only logged
func (p *Pipeline) store(key string, cc cachedCurve) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(cc)
	if err != nil {
		p.logger.Warn("marshal cache entry", zap.Error(err))
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		p.logger.Warn("write cache entry", zap.Error(err))
	}
}

// RenderReport writes the enabled output formats next to prefix
func (p *Pipeline) RenderReport(report *model.Report, prefix string) ([]string, error) {
	var written []string
	out := p.config.Output

	if out.WantsFormat(model.FormatJSON) {
		path := prefix + ".json"
		if err := p.renderer.RenderJSON(report, path); err != nil {
			return written, fmt.Errorf("render JSON: %w", err)
		}
		written = append(written, path)
	}

	if out.WantsFormat(model.FormatTSV) {
		path := prefix + ".tsv"
		if err := p.renderer.RenderTSV(report, path); err != nil {
			return written, fmt.Errorf("render TSV: %w", err)
		}
		written = append(written, path)
	}

	if out.WantsFormat(model.FormatMarkdown) {
		path := prefix + ".md"
		if err := p.renderer.RenderMarkdown(report, path); err != nil {
			return written, fmt.Errorf("render markdown: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
