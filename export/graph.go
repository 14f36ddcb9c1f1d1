// Package export writes the trained classifier as an ONNX model and its normalization
// sidecar, atomically as a pair.
package export

import "fmt"

import "github.com/neurlang/phishnet/net/feedforward"
import "github.com/neurlang/phishnet/onnx"
import "github.com/pkg/errors"

// graph constants shared with consumers of the artifacts
const (
	IRVersion   = 6
	Opset       = 11
	GraphName   = "phishnet"
	InputName   = "input"
	OutputName  = "output"
	Producer    = "phishnet"
	VersionKey  = "phishnet.version"
	WeightName  = "fc%d.weight"
	BiasName    = "fc%d.bias"
	gemmOutName = "fc%d"
)

// Model builds the ONNX graph of net: one Gemm per layer followed by its activation.
// The graph takes a single row of features and is stamped with version.
func Model(net *feedforward.FeedforwardNetwork, version string) (*onnx.Model, error) {
	if net.LenLayers() == 0 {
		return nil, errors.New("network has no layers")
	}
	g := onnx.Graph{
		Name: GraphName,
		Inputs: []onnx.ValueInfo{{
			Name: InputName, ElemType: onnx.Float, Shape: []onnx.Dim{{Value: 1}, {Value: int64(net.Inputs())}},
		}},
		Outputs: []onnx.ValueInfo{{
			Name: OutputName, ElemType: onnx.Float, Shape: []onnx.Dim{{Value: 1}, {Value: int64(net.Outputs())}},
		}},
	}

	prev := InputName
	for i := 0; i < net.LenLayers(); i++ {
		l := net.GetLayer(i)
		n := i + 1
		weight, bias := fmt.Sprintf(WeightName, n), fmt.Sprintf(BiasName, n)
		g.Initializers = append(g.Initializers, weightTensor(weight, l), onnx.Tensor{
			Name: bias, Dims: []int64{int64(l.Outputs())}, DataType: onnx.Float, Floats: float32s(l.Bias),
		})

		out := fmt.Sprintf(gemmOutName, n)
		last := i == net.LenLayers()-1
		if last && l.Activation == feedforward.Identity {
			out = OutputName
		}
		g.Nodes = append(g.Nodes, onnx.Node{
			Name:    fmt.Sprintf("gemm%d", n),
			OpType:  "Gemm",
			Inputs:  []string{prev, weight, bias},
			Outputs: []string{out},
			Attributes: []onnx.Attribute{
				onnx.FloatAttribute("alpha", 1),
				onnx.FloatAttribute("beta", 1),
				onnx.IntAttribute("transB", 1),
			},
		})
		prev = out
		if l.Activation == feedforward.Identity {
			continue
		}

		op := l.Activation.String()
		out = fmt.Sprintf("%s%d", op, n)
		if last {
			out = OutputName
		}
		g.Nodes = append(g.Nodes, onnx.Node{
			Name:    fmt.Sprintf("%s%d", op, n),
			OpType:  op,
			Inputs:  []string{prev},
			Outputs: []string{out},
		})
		prev = out
	}

	return &onnx.Model{
		IRVersion:    IRVersion,
		ProducerName: Producer,
		Graph:        g,
		OpsetImport:  []onnx.OperatorSet{{Version: Opset}},
		Metadata:     []onnx.Property{{Key: VersionKey, Value: version}},
	}, nil
}

// weightTensor stores the outputs × inputs weights row major
func weightTensor(name string, l feedforward.Layer) onnx.Tensor {
	rows, cols := l.Outputs(), l.Inputs()
	data := make([]float32, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data = append(data, float32(l.Weight.At(r, c)))
		}
	}
	return onnx.Tensor{Name: name, Dims: []int64{int64(rows), int64(cols)}, DataType: onnx.Float, Floats: data}
}

func float32s(v []float64) []float32 {
	o := make([]float32, len(v))
	for i, f := range v {
		o[i] = float32(f)
	}
	return o
}
