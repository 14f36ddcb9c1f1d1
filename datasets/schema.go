package datasets

import "strings"

import "github.com/pkg/errors"

// ErrNoURLColumn is returned when a header has none of the URL column names
var ErrNoURLColumn = errors.New("no usable URL column")

// Schema holds the resolved column roles of a table
type Schema struct {
	URL       int
	URLName   string
	Label     int // -1 when the table has no label column
	LabelName string
}

// HasLabel reports whether the table has a label column
func (s Schema) HasLabel() bool {
	return s.Label >= 0
}

// NormalizeColumn trims and lower-cases a column name
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// InferSchema resolves the URL and label columns of header. The first name of urlColumns
// present in the header is the URL column, the first of labelColumns the label column.
// When a name occurs more than once the first occurrence wins.
func InferSchema(header []string, urlColumns, labelColumns []string) (s Schema, err error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		n := NormalizeColumn(h)
		if _, ok := index[n]; !ok {
			index[n] = i
		}
	}
	s.URL, s.Label = -1, -1
	for _, c := range urlColumns {
		if i, ok := index[c]; ok {
			s.URL, s.URLName = i, c
			break
		}
	}
	if s.URL < 0 {
		return s, errors.Wrapf(ErrNoURLColumn, "columns %q", header)
	}
	for _, c := range labelColumns {
		if i, ok := index[c]; ok {
			s.Label, s.LabelName = i, c
			break
		}
	}
	return s, nil
}
