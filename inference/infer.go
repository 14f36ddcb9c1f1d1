// Package inference scores URLs with an exported model and sidecar pair
package inference

import "os"
import "path/filepath"

import "github.com/neurlang/phishnet/export"
import "github.com/neurlang/phishnet/features"
import "github.com/neurlang/phishnet/net/feedforward"
import "github.com/neurlang/phishnet/onnx"
import "github.com/neurlang/phishnet/scaler"
import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// ErrVersionMismatch is returned when the model and sidecar come from different runs
var ErrVersionMismatch = errors.New("model and scaler versions differ")

// Predictor scores URLs
type Predictor struct {
	Version string

	net       *feedforward.FeedforwardNetwork
	params    *scaler.Params
	extractor *features.Extractor
}

// Load reads the artifact pair of dir. The extractor options must match the ones the
// model was trained with.
func Load(dir string, opts features.Options) (*Predictor, error) {
	b, err := os.ReadFile(filepath.Join(dir, export.ModelFile))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", export.ModelFile)
	}
	model, err := onnx.Unmarshal(b)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", export.ModelFile)
	}
	net, err := Network(model)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", export.ModelFile)
	}

	sidecar, err := export.ReadSidecar(filepath.Join(dir, export.ScalerFile))
	if err != nil {
		return nil, err
	}
	params := sidecar.Params()
	if err := params.Validate(features.Names()); err != nil {
		return nil, errors.Wrapf(err, "check %s", export.ScalerFile)
	}
	if net.Inputs() != params.Len() || net.Outputs() != 1 {
		return nil, errors.Errorf("model maps %d features to %d outputs, scaler has %d features",
			net.Inputs(), net.Outputs(), params.Len())
	}
	version, _ := model.MetadataValue(export.VersionKey)
	if version != sidecar.Version {
		return nil, errors.Wrapf(ErrVersionMismatch, "%s has %q, %s has %q",
			export.ModelFile, version, export.ScalerFile, sidecar.Version)
	}

	return &Predictor{
		Version:   version,
		net:       net,
		params:    params,
		extractor: features.New(opts),
	}, nil
}

// Score returns the phishing probability of url, or false when no features can be
// extracted from it.
func (p *Predictor) Score(url string) (float64, bool) {
	rec, ok := p.extractor.Extract(url)
	if !ok {
		return 0, false
	}
	return p.net.Infer(p.params.Transform(rec.Slice()))[0], true
}

// Network rebuilds a feedforward network from a graph of Gemm nodes, each optionally
// followed by an element-wise activation.
func Network(m *onnx.Model) (*feedforward.FeedforwardNetwork, error) {
	net := new(feedforward.FeedforwardNetwork)
	var pending *feedforward.Layer
	flush := func() error {
		if pending == nil {
			return nil
		}
		err := net.AddLayer(*pending)
		pending = nil
		return err
	}

	for i := range m.Graph.Nodes {
		n := &m.Graph.Nodes[i]
		switch n.OpType {
		case "Gemm":
			if err := flush(); err != nil {
				return nil, err
			}
			l, err := gemmLayer(&m.Graph, n)
			if err != nil {
				return nil, err
			}
			pending = &l
		case feedforward.ReLU.String(), feedforward.Sigmoid.String():
			if pending == nil || pending.Activation != feedforward.Identity {
				return nil, errors.Errorf("node %s: activation without a preceding Gemm", n.Name)
			}
			pending.Activation = feedforward.ReLU
			if n.OpType == feedforward.Sigmoid.String() {
				pending.Activation = feedforward.Sigmoid
			}
		default:
			return nil, errors.Errorf("node %s: unsupported operator %s", n.Name, n.OpType)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if net.LenLayers() == 0 {
		return nil, errors.New("graph has no Gemm nodes")
	}
	return net, nil
}

func gemmLayer(g *onnx.Graph, n *onnx.Node) (feedforward.Layer, error) {
	if len(n.Inputs) != 3 {
		return feedforward.Layer{}, errors.Errorf("node %s: Gemm takes 3 inputs, has %d", n.Name, len(n.Inputs))
	}
	for name, want := range map[string]float32{"alpha": 1, "beta": 1} {
		if a, ok := n.Attribute(name); ok && a.F != want {
			return feedforward.Layer{}, errors.Errorf("node %s: unsupported %s %g", n.Name, name, a.F)
		}
	}
	if a, ok := n.Attribute("transB"); !ok || a.I != 1 {
		return feedforward.Layer{}, errors.Errorf("node %s: weights must be transposed", n.Name)
	}
	if a, ok := n.Attribute("transA"); ok && a.I != 0 {
		return feedforward.Layer{}, errors.Errorf("node %s: transposed input unsupported", n.Name)
	}

	w, ok := g.Initializer(n.Inputs[1])
	if !ok || len(w.Dims) != 2 || w.Dims[0] <= 0 || w.Dims[1] <= 0 {
		return feedforward.Layer{}, errors.Errorf("node %s: no 2d weight %s", n.Name, n.Inputs[1])
	}
	b, ok := g.Initializer(n.Inputs[2])
	if !ok || len(b.Dims) != 1 || b.Dims[0] != w.Dims[0] {
		return feedforward.Layer{}, errors.Errorf("node %s: no bias %s of %d values", n.Name, n.Inputs[2], w.Dims[0])
	}
	return feedforward.Layer{
		Weight: mat.NewDense(int(w.Dims[0]), int(w.Dims[1]), float64s(w.Floats)),
		Bias:   float64s(b.Floats),
	}, nil
}

func float64s(v []float32) []float64 {
	o := make([]float64, len(v))
	for i, f := range v {
		o[i] = float64(f)
	}
	return o
}
