// Package score accumulates rank-indexed precision, recall and F1 over a
// ranked candidate stream.
package score

import (
	"errors"

	"github.com/ppiankov/acroeval/internal/match"
	"github.com/ppiankov/acroeval/internal/model"
	"github.com/ppiankov/acroeval/internal/normalize"
	"go.uber.org/zap"
)

// ErrNoRecallGroups is returned when there is nothing to recall
var ErrNoRecallGroups = errors.New("no recall groups: truth set is empty or fully excluded")

// Result is the outcome of scoring one candidate list
type Result struct {
	Curve          model.Curve
	Hits           []model.Hit
	Uncovered      []model.TruthGroup // Recall groups never matched, in group order
	FalsePositives int
	Covered        int
	Total          int
}

// Scorer matches candidates against truth groups
type Scorer struct {
	matcher      *match.Matcher
	logger       *zap.Logger
	missLogLimit int
}

// NewScorer creates a scorer. A nil logger disables diagnostics; misses are
// logged only for ranks below missLogLimit.
func NewScorer(matcher *match.Matcher, logger *zap.Logger, missLogLimit int) *Scorer {
	if matcher == nil {
		matcher = match.NewMatcher(match.DefaultMinLCS)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		matcher:      matcher,
		logger:       logger,
		missLogLimit: missLogLimit,
	}
}

// MinLCS returns the fuzzy-match threshold of the scorer's matcher
func (s *Scorer) MinLCS() int {
	return s.matcher.MinLCS()
}

// Score consumes candidates from the least confident (last in input order)
// to the most confident. Every recall group is matched at most once; a
// candidate that covers no outstanding recall group is a false positive
// unless it matches some precision group.
func (s *Scorer) Score(candidates []model.Candidate, recall, precision []model.TruthGroup, lang normalize.Language) (*Result, error) {
	total := len(recall)
	if total == 0 {
		return nil, ErrNoRecallGroups
	}

	n := len(candidates)
	res := &Result{
		Curve: model.Curve{
			Precision: make([]float64, n),
			Recall:    make([]float64, n),
			F1:        make([]float64, n),
		},
		Total: total,
	}

	live := make([]bool, total)
	for i := range live {
		live[i] = true
	}
	recallByPage := indexByPage(recall)
	precisionByPage := indexByPage(precision)

	covered := 0
	fp := 0
	for k := 0; k < n; k++ {
		c := candidates[n-1-k]
		query := normalize.Key(c.Query(), lang)

		// Collect first, then remove.
		var matched []int
		for _, gi := range recallByPage[c.Title] {
			if live[gi] && s.groupMatches(recall[gi], c.Title, query, k) {
				matched = append(matched, gi)
			}
		}
		for _, gi := range matched {
			live[gi] = false
		}
		covered += len(matched)

		if len(matched) > 0 {
			ids := make([]int, len(matched))
			for i, gi := range matched {
				ids[i] = recall[gi].ID
			}
			res.Hits = append(res.Hits, model.Hit{Rank: k, Title: c.Title, Acrostic: c.Acrostic, Groups: ids})
		} else {
			if !s.anyMatches(precision, precisionByPage[c.Title], c.Title, query) {
				fp++
			}
			if k < s.missLogLimit {
				s.logger.Debug("miss",
					zap.Int("rank", k),
					zap.String("acrostic", c.Acrostic),
					zap.String("query", c.Query()),
					zap.String("title", c.Title))
			}
		}

		p := float64(k+1-fp) / float64(k+1)
		r := float64(covered) / float64(total)
		res.Curve.Precision[k] = p
		res.Curve.Recall[k] = r
		res.Curve.F1[k] = F1(p, r)
	}

	for gi, g := range recall {
		if !live[gi] {
			continue
		}
		res.Uncovered = append(res.Uncovered, g)
		for _, e := range g.Entries {
			s.logger.Info("uncovered",
				zap.Int("group", g.ID),
				zap.String("key", e.Key),
				zap.String("page", e.Page))
		}
	}

	res.Covered = covered
	res.FalsePositives = fp
	return res, nil
}

func (s *Scorer) groupMatches(g model.TruthGroup, title, query string, rank int) bool {
	for _, e := range g.Entries {
		if e.Page == title && s.matcher.Matches(e.Key, query) {
			s.logger.Debug("hit",
				zap.Int("rank", rank),
				zap.Int("group", g.ID),
				zap.String("key", e.Key),
				zap.String("page", e.Page))
			return true
		}
	}
	return false
}

func (s *Scorer) anyMatches(groups []model.TruthGroup, candidates []int, title, query string) bool {
	for _, gi := range candidates {
		for _, e := range groups[gi].Entries {
			if e.Page == title && s.matcher.Matches(e.Key, query) {
				return true
			}
		}
	}
	return false
}

// indexByPage maps every page to the indices of the groups with an entry
// on it, in group order
func indexByPage(groups []model.TruthGroup) map[string][]int {
	idx := make(map[string][]int)
	for gi, g := range groups {
		for _, page := range g.Pages() {
			idx[page] = append(idx[page], gi)
		}
	}
	return idx
}

// F1 returns the harmonic mean of precision and recall, or 0 when both are 0
func F1(precision, recall float64) float64 {
	if precision == 0 && recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
