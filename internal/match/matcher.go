// Package match decides whether a candidate query covers a truth acrostic.
package match

import "strings"

// DefaultMinLCS is the absolute LCS length accepted as a fuzzy match
const DefaultMinLCS = 5

// Matcher combines exact containment with an approximate LCS test.
// Inputs are expected to be normalized and space-stripped.
type Matcher struct {
	minLCS int
}

// NewMatcher creates a matcher; minLCS <= 0 selects DefaultMinLCS
func NewMatcher(minLCS int) *Matcher {
	if minLCS <= 0 {
		minLCS = DefaultMinLCS
	}
	return &Matcher{minLCS: minLCS}
}

// MinLCS returns the LCS threshold in use
func (m *Matcher) MinLCS() int {
	return m.minLCS
}

// Matches reports whether truth is contained in query, or whether their
// longest common subsequence reaches the threshold. The threshold is an
// absolute rune count, so truths shorter than it match by containment only.
func (m *Matcher) Matches(truth, query string) bool {
	if truth == "" {
		return false
	}
	if strings.Contains(query, truth) {
		return true
	}
	return LCSLength([]rune(truth), []rune(query)) >= m.minLCS
}

// LCSLength returns the length of the longest common subsequence of a and b
func LCSLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// LCSAlign aligns a into b along a longest common subsequence. The result
// has one entry per rune of a: the index of the rune of b it is paired
// with, or -1.
func LCSAlign(a, b []rune) []int {
	idx := make([]int, len(a))
	for i := range idx {
		idx[i] = -1
	}
	if len(a) == 0 || len(b) == 0 {
		return idx
	}

	cols := len(b) + 1
	dp := make([]int, (len(a)+1)*cols)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				dp[i*cols+j] = dp[(i-1)*cols+j-1] + 1
			case dp[(i-1)*cols+j] >= dp[i*cols+j-1]:
				dp[i*cols+j] = dp[(i-1)*cols+j]
			default:
				dp[i*cols+j] = dp[i*cols+j-1]
			}
		}
	}

	for i, j := len(a), len(b); i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			idx[i-1] = j - 1
			i--
			j--
		case dp[(i-1)*cols+j] >= dp[i*cols+j-1]:
			i--
		default:
			j--
		}
	}
	return idx
}

// LCS returns the longest common subsequence of a and b, drawn from b
func LCS(a, b string) string {
	br := []rune(b)
	var sb strings.Builder
	for _, j := range LCSAlign([]rune(a), br) {
		if j != -1 {
			sb.WriteRune(br[j])
		}
	}
	return sb.String()
}
