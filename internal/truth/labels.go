// Package truth turns ground-truth rows into countable groups.
package truth

import "strings"

// LabelSet is a set of single-character status labels over [0-9a-z].
// Characters outside that range carry no meaning and are ignored.
type LabelSet uint64

// Named labels
const (
	LabelSplit LabelSet = 1 << ('s' - 'a' + 10) // Acrostic continues on the next row
)

// Exclusion sets. The two are independent literal sets; one is not
// derived from the other.
var (
	RecallExclusions    = ParseLabels("no23468itwe")
	PrecisionExclusions = ParseLabels("o23468we")
)

func labelBit(r rune) (LabelSet, bool) {
	switch {
	case r >= '0' && r <= '9':
		return 1 << uint(r-'0'), true
	case r >= 'a' && r <= 'z':
		return 1 << uint(r-'a'+10), true
	}
	return 0, false
}

// ParseLabels parses a label-flags string into a set
func ParseLabels(flags string) LabelSet {
	var set LabelSet
	for _, r := range flags {
		if bit, ok := labelBit(r); ok {
			set |= bit
		}
	}
	return set
}

// Has reports whether every label of other is in s
func (s LabelSet) Has(other LabelSet) bool {
	return s&other == other
}

// Intersects reports whether s and other share a label
func (s LabelSet) Intersects(other LabelSet) bool {
	return s&other != 0
}

// String lists the labels in [0-9a-z] order
func (s LabelSet) String() string {
	var sb strings.Builder
	for _, r := range "0123456789abcdefghijklmnopqrstuvwxyz" {
		if bit, _ := labelBit(r); s&bit != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
