package model

import "time"

// Curve holds the rank-indexed metrics of one evaluation.
// Index k describes the state after consuming k+1 candidates, starting from
// the least confident one.
type Curve struct {
	Precision []float64 `json:"precision"`
	Recall    []float64 `json:"recall"`
	F1        []float64 `json:"f1"`
}

// Len returns the number of ranks in the curve
func (c Curve) Len() int {
	return len(c.Recall)
}

// Hit records the truth groups covered at one rank
type Hit struct {
	Rank     int    `json:"rank"`
	Title    string `json:"title"`
	Acrostic string `json:"acrostic"`
	Groups   []int  `json:"groups"` // IDs of the recall groups matched at this rank
}

// Report is the complete output of one evaluation run
type Report struct {
	Name        string    `json:"name"`
	Language    string    `json:"language"`
	TruthPath   string    `json:"truth_path"`
	Predictions string    `json:"predictions_path"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary Summary `json:"summary"`
	Curve   Curve   `json:"curve"`

	Hits      []Hit        `json:"hits,omitempty"`
	Uncovered []TruthGroup `json:"uncovered,omitempty"`

	Cached bool `json:"cached"` // Whether the curve came from the cache
}

// Summary holds the headline numbers of a curve
type Summary struct {
	Candidates      int        `json:"candidates"`
	RecallGroups    int        `json:"recall_groups"`
	PrecisionGroups int        `json:"precision_groups"`
	Covered         int        `json:"covered"`
	FalsePositives  int        `json:"false_positives"`
	FinalPrecision  float64    `json:"final_precision"`
	FinalRecall     float64    `json:"final_recall"`
	FinalF1         float64    `json:"final_f1"`
	BestF1          float64    `json:"best_f1"`
	BestF1Rank      int        `json:"best_f1_rank"` // Number of candidates considered at the best F1
	Cutoffs         []CutoffAt `json:"cutoffs,omitempty"`
}

// CutoffAt holds the metrics after a fixed number of candidates
type CutoffAt struct {
	K         int     `json:"k"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// DefaultCutoffs are the candidate counts reported in summaries
var DefaultCutoffs = []int{10, 100, 1000, 10000}

// Summarize fills the curve-derived part of a summary
func Summarize(c Curve, cutoffs []int) Summary {
	s := Summary{Candidates: c.Len()}
	n := c.Len()
	if n == 0 {
		return s
	}

	s.FinalPrecision = c.Precision[n-1]
	s.FinalRecall = c.Recall[n-1]
	s.FinalF1 = c.F1[n-1]

	for k, f := range c.F1 {
		if f > s.BestF1 || s.BestF1Rank == 0 {
			s.BestF1 = f
			s.BestF1Rank = k + 1
		}
	}

	for _, k := range cutoffs {
		if k <= 0 || k > n {
			continue
		}
		s.Cutoffs = append(s.Cutoffs, CutoffAt{
			K:         k,
			Precision: c.Precision[k-1],
			Recall:    c.Recall[k-1],
			F1:        c.F1[k-1],
		})
	}

	return s
}
