package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neurlang/phishnet/export"
	"github.com/neurlang/phishnet/features"
	"github.com/neurlang/phishnet/inference"
	"github.com/neurlang/phishnet/net/feedforward"
	"github.com/neurlang/phishnet/scaler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	dir := t.TempDir()
	params := &scaler.Params{FeatureNames: features.Names()}
	for i := 0; i < features.Len; i++ {
		params.Mean = append(params.Mean, 0)
		params.Scale = append(params.Scale, 1)
	}
	require.NoError(t, export.Write(dir, feedforward.New(features.Len, 1), params, "v"))
	p, err := inference.Load(dir, features.DefaultOptions())
	require.NoError(t, err)

	var out bytes.Buffer
	score(&out, p, []string{"https://example.com/", "not a url"})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\thttps://example.com/"))
	assert.Regexp(t, `^0\.\d{6}\t(phishing|legit)\t`, lines[0])
	assert.Equal(t, "-\tinvalid\tnot a url", lines[1])
}
