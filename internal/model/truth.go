package model

// TruthRecord is one raw row of the ground-truth file
type TruthRecord struct {
	Labels   string `json:"labels"`   // One character per status flag
	Acrostic string `json:"acrostic"` // Acrostic text as curated
	Page     string `json:"page"`     // Page or document identifier, joined against candidate titles
	Line     int    `json:"line"`     // 1-based line in the source file
}

// GroupEntry is one member of a truth group
type GroupEntry struct {
	Key      string `json:"key"`      // Normalized, space-stripped acrostic
	Page     string `json:"page"`     // Page identifier of the source row
	Acrostic string `json:"acrostic"` // Raw acrostic, kept for reports
	Line     int    `json:"line"`
}

// TruthGroup is a countable unit of ground truth. Rows of an acrostic that was
// split across consecutive pages share one group and are matched together.
type TruthGroup struct {
	ID      int          `json:"id"`
	Entries []GroupEntry `json:"entries"`
}

// Pages returns the distinct page identifiers of the group in entry order
func (g TruthGroup) Pages() []string {
	seen := make(map[string]bool, len(g.Entries))
	var pages []string
	for _, e := range g.Entries {
		if !seen[e.Page] {
			seen[e.Page] = true
			pages = append(pages, e.Page)
		}
	}
	return pages
}

// Candidate is one ranked prediction row
type Candidate struct {
	Title    string `json:"title"`    // Document title, joined against truth pages
	Acrostic string `json:"acrostic"` // Predicted acrostic, only used in diagnostics
	Cluster  string `json:"cluster"`
	Prefix   string `json:"prefix"`
	Postfix  string `json:"postfix"`
	Line     int    `json:"line"`
}

// Query returns the raw text a candidate is matched with
func (c Candidate) Query() string {
	return c.Prefix + c.Cluster + c.Postfix
}
