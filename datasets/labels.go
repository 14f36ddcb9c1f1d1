package datasets

import "path/filepath"
import "strings"

// LabelResolver turns a raw row of file into a label value
type LabelResolver interface {

	// Label returns Phishing or Legit for row read from file
	Label(file string, row RawRecord) int

	// Name identifies the strategy in load reports
	Name() string
}

// ColumnLabels resolves labels from the label column. The lower-cased cell text is
// compared against a closed vocabulary; anything else, including a missing cell, is Legit.
type ColumnLabels struct {
	positive map[string]struct{}
}

// NewColumnLabels creates the resolver for the positive cell values
func NewColumnLabels(positive []string) *ColumnLabels {
	c := &ColumnLabels{positive: make(map[string]struct{}, len(positive))}
	for _, p := range positive {
		c.positive[strings.ToLower(p)] = struct{}{}
	}
	return c
}

// Label returns Phishing iff the cell is one of the positive values
func (c *ColumnLabels) Label(_ string, row RawRecord) int {
	if !row.HasCell {
		return Legit
	}
	if _, ok := c.positive[strings.ToLower(row.Cell)]; ok {
		return Phishing
	}
	return Legit
}

// Name identifies the strategy
func (c *ColumnLabels) Name() string {
	return "column"
}

// FilenameLabels labels a whole file by its name: Phishing iff the lower-cased base name
// contains one of the keywords.
type FilenameLabels struct {
	keywords []string
}

// NewFilenameLabels creates the resolver for the keywords
func NewFilenameLabels(keywords []string) *FilenameLabels {
	f := &FilenameLabels{}
	for _, k := range keywords {
		f.keywords = append(f.keywords, strings.ToLower(k))
	}
	return f
}

// Label returns the label of file
func (f *FilenameLabels) Label(file string, _ RawRecord) int {
	base := strings.ToLower(filepath.Base(file))
	for _, k := range f.keywords {
		if strings.Contains(base, k) {
			return Phishing
		}
	}
	return Legit
}

// Name identifies the strategy
func (f *FilenameLabels) Name() string {
	return "filename"
}
