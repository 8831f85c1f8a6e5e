package truth

import (
	"github.com/ppiankov/acroeval/internal/model"
	"github.com/ppiankov/acroeval/internal/normalize"
)

// BuildGroups filters records by the prohibited labels and merges split
// rows into groups.
//
// Every row, excluded or not, decides with its own split label whether the
// next row joins the open group. An excluded row without the split label
// therefore breaks the chain, while an excluded row carrying it passes the
// join through.
func BuildGroups(records []model.TruthRecord, lang normalize.Language, prohibited LabelSet) []model.TruthGroup {
	var groups []model.TruthGroup
	join := false

	for _, rec := range records {
		labels := ParseLabels(rec.Labels)
		joinPrev := join
		join = labels.Has(LabelSplit)

		if labels.Intersects(prohibited) {
			continue
		}

		entry := model.GroupEntry{
			Key:      normalize.Key(rec.Acrostic, lang),
			Page:     rec.Page,
			Acrostic: rec.Acrostic,
			Line:     rec.Line,
		}

		if joinPrev && len(groups) > 0 {
			last := &groups[len(groups)-1]
			last.Entries = append(last.Entries, entry)
			continue
		}

		groups = append(groups, model.TruthGroup{
			ID:      len(groups),
			Entries: []model.GroupEntry{entry},
		})
	}

	return groups
}

// Collections holds the two group collections built from one truth table
type Collections struct {
	Recall    []model.TruthGroup
	Precision []model.TruthGroup
}

// Build builds the recall and precision collections, each from scratch
func Build(records []model.TruthRecord, lang normalize.Language) Collections {
	return Collections{
		Recall:    BuildGroups(records, lang, RecallExclusions),
		Precision: BuildGroups(records, lang, PrecisionExclusions),
	}
}
