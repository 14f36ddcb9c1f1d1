package datasets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadColumnLabels(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mixed.csv", strings.Join([]string{
		"Domain,Type",
		"http://paypal-verify.example/login,phish",
		"https://example.com,legit",
		"example.org,legit",
		",phish",
		"http://bad.example,PHISH",
	}, "\n"))

	c, report, err := NewLoader(DefaultOptions(), nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, Corpus{
		{URL: "http://paypal-verify.example/login", Label: Phishing},
		{URL: "https://example.com", Label: Legit},
		{URL: "http://bad.example", Label: Phishing},
	}, c)
	assert.Equal(t, "domain", report.URLColumn)
	assert.Equal(t, "type", report.LabelColumn)
	assert.Equal(t, "column", report.Strategy)
	assert.False(t, report.AutoLabeled())
	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 2, report.Invalid)
	assert.Equal(t, 1, report.Legit)
	assert.Equal(t, 2, report.Phishing)
}

func TestLoadAutoLabel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "malicious_set.csv", "rank,url\n1,http://a.example\n2,https://b.example/x\n3,ftp://c.example\n")

	c, report, err := NewLoader(DefaultOptions(), nil).Load(path)
	require.NoError(t, err)
	require.Len(t, c, 2)
	for _, r := range c {
		assert.Equal(t, Phishing, r.Label)
	}
	assert.True(t, report.AutoLabeled())

	path = writeFile(t, dir, "top-1m.csv", "rank,url\n1,http://google.com\n")
	c, _, err = NewLoader(DefaultOptions(), nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, Corpus{{URL: "http://google.com", Label: Legit}}, c)
}

func TestLoadSkips(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name    string
		content string
		cause   error
	}{
		{"no_url.csv", "rank,host\n1,google.com\n", ErrNoURLColumn},
		{"no_valid.csv", "url,label\ngoogle.com,0\n HTTP://x.com,1\n", ErrNoValidURLs},
		{"empty.csv", "", ErrNoHeader},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, report, err := NewLoader(DefaultOptions(), nil).Load(writeFile(t, dir, tc.name, tc.content))
			require.Error(t, err)
			assert.True(t, IsSkip(err))
			assert.Equal(t, tc.cause, errors.Cause(err))
			assert.Equal(t, tc.cause, errors.Cause(report.Skipped))
		})
	}
}

func TestLoadMalformedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", strings.Join([]string{
		"url,label",
		"http://ok.example,1",
		"http://too.many,1,extra",
		"http://short.example",
		`http://quoted.example/"x",0`,
		"",
		"http://last.example,0",
	}, "\n"))

	c, report, err := NewLoader(DefaultOptions(), nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, Corpus{
		{URL: "http://ok.example", Label: Phishing},
		{URL: "http://short.example", Label: Legit},
		{URL: `http://quoted.example/"x"`, Label: Legit},
		{URL: "http://last.example", Label: Legit},
	}, c)
	assert.Equal(t, 1, report.Malformed)
}

func TestLoadLatin1(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latin.csv", "url\nhttp://caf\xe9.example/\xff\n")

	c, _, err := NewLoader(DefaultOptions(), nil).Load(path)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, "http://café.example/ÿ", c[0].URL)
}

func TestLoadOpenError(t *testing.T) {
	_, _, err := NewLoader(DefaultOptions(), nil).Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.False(t, IsSkip(err))
}

func TestLoadCustomVocabulary(t *testing.T) {
	opts := Options{
		URLColumns:     []string{"address"},
		LabelColumns:   []string{"verdict"},
		PositiveLabels: []string{"Yes"},
	}
	c, err := NewLoader(opts, nil).Read("feed.csv", strings.NewReader("Address,Verdict\nhttp://x.example,yes\nhttp://y.example,1\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, Corpus{
		{URL: "http://x.example", Label: Phishing},
		{URL: "http://y.example", Label: Legit},
	}, c)
}
