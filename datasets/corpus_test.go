package datasets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_phish.csv", "url\nhttp://p1.example\nhttp://p2.example\n")
	writeFile(t, dir, "a_legit.csv", "url,label\nhttp://l1.example,0\nhttp://l2.example,bad\n")
	writeFile(t, dir, "c_nourl.csv", "host\nexample.com\n")
	writeFile(t, dir, "notes.txt", "url\nhttp://ignored.example\n")
	writeFile(t, dir, "upper.CSV", "url\nhttp://ignored.example\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.csv"), 0755))

	for _, workers := range []int{1, 4} {
		c, reports, err := NewBuilder(NewLoader(DefaultOptions(), nil), workers, nil).Build(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, Corpus{
			{URL: "http://l1.example", Label: Legit},
			{URL: "http://l2.example", Label: Phishing},
			{URL: "http://p1.example", Label: Phishing},
			{URL: "http://p2.example", Label: Phishing},
		}, c)
		require.Len(t, reports, 3)
		assert.Equal(t, "a_legit.csv", reports[0].File)
		assert.Nil(t, reports[0].Skipped)
		assert.True(t, reports[1].AutoLabeled())
		assert.Equal(t, ErrNoURLColumn, errors.Cause(reports[2].Skipped))
	}
}

func TestBuildEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "no_url.csv", "host\nexample.com\n")

	_, _, err := NewBuilder(NewLoader(DefaultOptions(), nil), 0, nil).Build(context.Background(), dir)
	require.Error(t, err)
	assert.Equal(t, ErrEmptyCorpus, errors.Cause(err))

	_, _, err = NewBuilder(NewLoader(DefaultOptions(), nil), 0, nil).Build(context.Background(), t.TempDir())
	assert.Equal(t, ErrEmptyCorpus, errors.Cause(err))
}

func TestBuildMissingDir(t *testing.T) {
	_, _, err := NewBuilder(NewLoader(DefaultOptions(), nil), 0, nil).Build(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.NotEqual(t, ErrEmptyCorpus, errors.Cause(err))
}
