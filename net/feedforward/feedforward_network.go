// Package feedforward implements a fully connected feedforward network type
package feedforward

import "math"
import "math/rand"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// Layer is one fully connected layer: output = activation(input · Weightᵀ + Bias)
type Layer struct {
	Weight     *mat.Dense // outputs × inputs
	Bias       []float64
	Activation Activation
}

// Inputs returns the input width of the layer
func (l Layer) Inputs() int {
	_, c := l.Weight.Dims()
	return c
}

// Outputs returns the output width of the layer
func (l Layer) Outputs() int {
	r, _ := l.Weight.Dims()
	return r
}

// FeedforwardNetwork is the feedforward network
type FeedforwardNetwork struct {
	layers []Layer
}

// hidden layer widths of the phishing classifier
const (
	Hidden1 = 128
	Hidden2 = 64
)

// New creates the phishing classifier network inputs→128→64→1 with ReLU hidden
// activations and a sigmoid output, initialized from a source seeded with seed.
func New(inputs int, seed int64) *FeedforwardNetwork {
	rng := rand.New(rand.NewSource(seed))
	f := new(FeedforwardNetwork)
	f.NewLayer(inputs, Hidden1, ReLU, rng)
	f.NewLayer(Hidden1, Hidden2, ReLU, rng)
	f.NewLayer(Hidden2, 1, Sigmoid, rng)
	return f
}

// NewLayer adds a layer to the end of network. Weights and biases are drawn uniformly
// from [-1/√inputs, 1/√inputs).
func (f *FeedforwardNetwork) NewLayer(inputs, outputs int, act Activation, rng *rand.Rand) {
	bound := 1 / math.Sqrt(float64(inputs))
	w := make([]float64, outputs*inputs)
	for i := range w {
		w[i] = (2*rng.Float64() - 1) * bound
	}
	b := make([]float64, outputs)
	for i := range b {
		b[i] = (2*rng.Float64() - 1) * bound
	}
	f.layers = append(f.layers, Layer{
		Weight:     mat.NewDense(outputs, inputs, w),
		Bias:       b,
		Activation: act,
	})
}

// AddLayer appends a layer with known weights. The weights are copied.
func (f *FeedforwardNetwork) AddLayer(l Layer) error {
	if l.Weight == nil {
		return errors.Errorf("layer %d has no weights", len(f.layers))
	}
	if len(l.Bias) != l.Outputs() {
		return errors.Errorf("layer %d has %d biases for %d outputs", len(f.layers), len(l.Bias), l.Outputs())
	}
	if len(f.layers) > 0 && f.layers[len(f.layers)-1].Outputs() != l.Inputs() {
		return errors.Errorf("layer %d takes %d inputs, previous layer gives %d", len(f.layers), l.Inputs(),
			f.layers[len(f.layers)-1].Outputs())
	}
	f.layers = append(f.layers, Layer{
		Weight:     mat.DenseCopyOf(l.Weight),
		Bias:       append([]float64(nil), l.Bias...),
		Activation: l.Activation,
	})
	return nil
}

// LenLayers returns the number of layers
func (f *FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer returns the n-th layer. The weights are shared with the network.
func (f *FeedforwardNetwork) GetLayer(n int) Layer {
	return f.layers[n]
}

// Inputs returns the input width of the network
func (f *FeedforwardNetwork) Inputs() int {
	if len(f.layers) == 0 {
		return 0
	}
	return f.layers[0].Inputs()
}

// Outputs returns the output width of the network
func (f *FeedforwardNetwork) Outputs() int {
	if len(f.layers) == 0 {
		return 0
	}
	return f.layers[len(f.layers)-1].Outputs()
}

// Pass holds the activations of one forward pass, input included
type Pass struct {
	activations []*mat.Dense
}

// Output returns the network output of the pass, one row per input row
func (p *Pass) Output() *mat.Dense {
	return p.activations[len(p.activations)-1]
}

// Forward runs the network on every row of x
func (f *FeedforwardNetwork) Forward(x mat.Matrix) *Pass {
	p := &Pass{activations: []*mat.Dense{mat.DenseCopyOf(x)}}
	rows, _ := x.Dims()
	for _, l := range f.layers {
		z := mat.NewDense(rows, l.Outputs(), nil)
		z.Mul(p.Output(), l.Weight.T())
		raw := z.RawMatrix()
		for i := 0; i < raw.Rows; i++ {
			row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
			for j := range row {
				row[j] = l.Activation.apply(row[j] + l.Bias[j])
			}
		}
		p.activations = append(p.activations, z)
	}
	return p
}

// Infer runs the network on a single input vector
func (f *FeedforwardNetwork) Infer(x []float64) []float64 {
	in := mat.NewDense(1, len(x), append([]float64(nil), x...))
	return mat.Row(nil, 0, f.Forward(in).Output())
}

// Gradient is the loss gradient of one layer
type Gradient struct {
	Weight *mat.Dense
	Bias   []float64
}

// Backward propagates delta, the loss gradient with respect to the last layer's
// pre-activation, through the pass and returns the gradient of every layer.
func (f *FeedforwardNetwork) Backward(p *Pass, delta *mat.Dense) []Gradient {
	grads := make([]Gradient, len(f.layers))
	for l := len(f.layers) - 1; l >= 0; l-- {
		dw := new(mat.Dense)
		dw.Mul(delta.T(), p.activations[l])
		grads[l] = Gradient{Weight: dw, Bias: columnSums(delta)}
		if l == 0 {
			break
		}

		da := new(mat.Dense)
		da.Mul(delta, f.layers[l].Weight)
		act := f.layers[l-1].Activation
		out := p.activations[l]
		da.Apply(func(i, j int, v float64) float64 {
			return v * act.derivative(out.At(i, j))
		}, da)
		delta = da
	}
	return grads
}

func columnSums(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	o := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			o[j] += m.At(i, j)
		}
	}
	return o
}

// Parameters returns the trainable parameters in layer order, weights before biases.
// The slices alias the network, so updating them updates the network.
func (f *FeedforwardNetwork) Parameters() (o [][]float64) {
	for _, l := range f.layers {
		o = append(o, l.Weight.RawMatrix().Data, l.Bias)
	}
	return
}

// Flatten returns the gradients in the order of Parameters
func Flatten(grads []Gradient) (o [][]float64) {
	for _, g := range grads {
		o = append(o, g.Weight.RawMatrix().Data, g.Bias)
	}
	return
}
