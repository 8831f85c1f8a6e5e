package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/acroeval/internal/model"
)

// Renderer writes reports to disk
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the complete report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}

// RenderTSV writes the curve, one row per number of candidates considered
func (r *Renderer) RenderTSV(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCurveTSV(w, report.Curve)
	})
}

// WriteCurveTSV writes the columns k, precision, recall, f1 where k is 1-based
func WriteCurveTSV(w io.Writer, c model.Curve) error {
	if _, err := fmt.Fprintln(w, "k\tprecision\trecall\tf1"); err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		if _, err := fmt.Fprintf(w, "%d\t%.6f\t%.6f\t%.6f\n", i+1, c.Precision[i], c.Recall[i], c.F1[i]); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdown writes a human-readable summary
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	md := r.Markdown(report)
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, md)
		return err
	})
}

// Markdown formats the report summary and uncovered truth as Markdown
func (r *Renderer) Markdown(report *model.Report) string {
	var sb strings.Builder
	s := report.Summary

	fmt.Fprintf(&sb, "# Evaluation: %s\n\n", report.Name)
	fmt.Fprintf(&sb, "- Language: `%s`\n", report.Language)
	fmt.Fprintf(&sb, "- Truth: `%s`\n", report.TruthPath)
	fmt.Fprintf(&sb, "- Predictions: `%s`\n", report.Predictions)
	fmt.Fprintf(&sb, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if report.Cached {
		sb.WriteString("- Curve served from cache\n")
	}
	sb.WriteString("\n## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Candidates | %d |\n", s.Candidates)
	fmt.Fprintf(&sb, "| Recall groups | %d |\n", s.RecallGroups)
	fmt.Fprintf(&sb, "| Precision groups | %d |\n", s.PrecisionGroups)
	fmt.Fprintf(&sb, "| Covered | %d |\n", s.Covered)
	fmt.Fprintf(&sb, "| False positives | %d |\n", s.FalsePositives)
	fmt.Fprintf(&sb, "| Final precision | %.4f |\n", s.FinalPrecision)
	fmt.Fprintf(&sb, "| Final recall | %.4f |\n", s.FinalRecall)
	fmt.Fprintf(&sb, "| Final F1 | %.4f |\n", s.FinalF1)
	fmt.Fprintf(&sb, "| Best F1 | %.4f (k=%d) |\n", s.BestF1, s.BestF1Rank)

	if len(s.Cutoffs) > 0 {
		sb.WriteString("\n## Cutoffs\n\n")
		sb.WriteString("| k | Precision | Recall | F1 |\n|---|---|---|---|\n")
		for _, c := range s.Cutoffs {
			fmt.Fprintf(&sb, "| %d | %.4f | %.4f | %.4f |\n", c.K, c.Precision, c.Recall, c.F1)
		}
	}

	if len(report.Uncovered) > 0 {
		fmt.Fprintf(&sb, "\n## Uncovered truth (%d)\n\n", len(report.Uncovered))
		for _, g := range report.Uncovered {
			for _, e := range g.Entries {
				fmt.Fprintf(&sb, "- %s in %s\n", e.Acrostic, e.Page)
			}
		}
	}

	if r.includeFooter {
		sb.WriteString("\n---\n\n")
		sb.WriteString("_k counts candidates from the least confident one; recall is non-decreasing in k._\n")
	}

	return sb.String()
}

// RenderSummary prints a short summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Summary
	fmt.Fprintf(w, "%s [%s]: %d candidates, %d/%d groups covered, %d false positives\n",
		report.Name, report.Language, s.Candidates, s.Covered, s.RecallGroups, s.FalsePositives)
	fmt.Fprintf(w, "  final  P=%.4f R=%.4f F1=%.4f\n", s.FinalPrecision, s.FinalRecall, s.FinalF1)
	fmt.Fprintf(w, "  best   F1=%.4f at k=%d\n", s.BestF1, s.BestF1Rank)
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return bw.Flush()
}
