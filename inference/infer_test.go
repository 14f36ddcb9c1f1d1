package inference

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/phishnet/export"
	"github.com/neurlang/phishnet/features"
	"github.com/neurlang/phishnet/net/feedforward"
	"github.com/neurlang/phishnet/onnx"
	"github.com/neurlang/phishnet/scaler"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params() *scaler.Params {
	p := &scaler.Params{FeatureNames: features.Names()}
	for i := 0; i < features.Len; i++ {
		p.Mean = append(p.Mean, float64(i))
		p.Scale = append(p.Scale, 2)
	}
	return p
}

func TestLoadScore(t *testing.T) {
	dir := t.TempDir()
	net := feedforward.New(features.Len, 9)
	require.NoError(t, export.Write(dir, net, params(), "v"))

	p, err := Load(dir, features.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "v", p.Version)

	const url = "https://secure-login.example.com/verify?id=1"
	score, ok := p.Score(url)
	require.True(t, ok)

	rec, ok := features.New(features.DefaultOptions()).Extract(url)
	require.True(t, ok)
	want := net.Infer(params().Transform(rec.Slice()))[0]
	assert.InDelta(t, want, score, 1e-5)

	_, ok = p.Score("ftp://example.com")
	assert.False(t, ok)
}

func TestLoadVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export.Write(dir, feedforward.New(features.Len, 1), params(), "one"))

	b, err := export.NewSidecar(params(), "two").Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, export.ScalerFile), b, 0o644))

	_, err = Load(dir, features.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, ErrVersionMismatch, errors.Cause(err))
}

func TestLoadFeatureMismatch(t *testing.T) {
	dir := t.TempDir()
	p := params()
	p.FeatureNames = append([]string(nil), p.FeatureNames...)
	p.FeatureNames[0] = "other"
	require.NoError(t, export.Write(dir, feedforward.New(features.Len, 1), p, "v"))

	_, err := Load(dir, features.DefaultOptions())
	assert.Error(t, err)

	_, err = Load(t.TempDir(), features.DefaultOptions())
	assert.Error(t, err)
}

func TestNetwork(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	net := new(feedforward.FeedforwardNetwork)
	net.NewLayer(3, 4, feedforward.ReLU, rng)
	net.NewLayer(4, 2, feedforward.Identity, rng)

	m, err := export.Model(net, "v")
	require.NoError(t, err)
	got, err := Network(m)
	require.NoError(t, err)
	require.Equal(t, 2, got.LenLayers())
	assert.Equal(t, feedforward.ReLU, got.GetLayer(0).Activation)
	assert.Equal(t, feedforward.Identity, got.GetLayer(1).Activation)

	in := []float64{0.3, -1, 2}
	want, have := net.Infer(in), got.Infer(in)
	for i := range want {
		assert.InDelta(t, want[i], have[i], 1e-5)
	}
}

func TestNetworkErrors(t *testing.T) {
	m, err := export.Model(feedforward.New(2, 1), "v")
	require.NoError(t, err)

	bad := *m
	bad.Graph.Nodes = append([]onnx.Node{{Name: "x", OpType: "Conv"}}, m.Graph.Nodes...)
	_, err = Network(&bad)
	assert.Error(t, err)

	bad.Graph.Nodes = m.Graph.Nodes[1:]
	_, err = Network(&bad)
	assert.Error(t, err)

	bad.Graph.Nodes = nil
	_, err = Network(&bad)
	assert.Error(t, err)
}
