package datasets

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferSchema(t *testing.T) {
	opts := DefaultOptions()
	for _, tc := range []struct {
		name      string
		header    []string
		url       int
		urlName   string
		label     int
		labelName string
	}{
		{"plain", []string{"url", "label"}, 0, "url", 1, "label"},
		{"domain and type", []string{"Domain", "Type"}, 0, "domain", 1, "type"},
		{"whitespace", []string{" rank ", "  LINK "}, 1, "link", -1, ""},
		{"url beats domain", []string{"domain", "url"}, 1, "url", -1, ""},
		{"label priority", []string{"malicious", "url", "type"}, 1, "url", 2, "type"},
		{"duplicate column", []string{"url", "URL", "phishing"}, 0, "url", 2, "phishing"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := InferSchema(tc.header, opts.URLColumns, opts.LabelColumns)
			require.NoError(t, err)
			assert.Equal(t, tc.url, s.URL)
			assert.Equal(t, tc.urlName, s.URLName)
			assert.Equal(t, tc.label, s.Label)
			assert.Equal(t, tc.labelName, s.LabelName)
			assert.Equal(t, tc.label >= 0, s.HasLabel())
		})
	}
}

func TestInferSchemaNoURL(t *testing.T) {
	opts := DefaultOptions()
	_, err := InferSchema([]string{"rank", "host", "label"}, opts.URLColumns, opts.LabelColumns)
	require.Error(t, err)
	assert.Equal(t, ErrNoURLColumn, errors.Cause(err))
	assert.True(t, IsSkip(err))
}

func TestColumnLabels(t *testing.T) {
	c := NewColumnLabels(DefaultOptions().PositiveLabels)
	for cell, want := range map[string]int{
		"1":         Phishing,
		"phish":     Phishing,
		"Malicious": Phishing,
		"BAD":       Phishing,
		"0":         Legit,
		"legit":     Legit,
		"phishing":  Legit,
		" 1":        Legit,
		"1.0":       Legit,
		"":          Legit,
	} {
		assert.Equal(t, want, c.Label("x.csv", RawRecord{Cell: cell, HasCell: true}), "%q", cell)
	}
	assert.Equal(t, Legit, c.Label("x.csv", RawRecord{}))
}

func TestFilenameLabels(t *testing.T) {
	f := NewFilenameLabels(DefaultOptions().AutoLabelKeywords)
	for file, want := range map[string]int{
		"datasets/malicious_set.csv": Phishing,
		"PhishTank.csv":              Phishing,
		"spam-urls.csv":              Phishing,
		"top-1m.csv":                 Legit,
		"phish/legit.csv":            Legit,
	} {
		assert.Equal(t, want, f.Label(file, RawRecord{}), file)
	}
}
