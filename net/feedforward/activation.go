package feedforward

import "math"

// Activation is the element-wise function applied to a layer output
type Activation byte

const (
	Identity Activation = iota
	ReLU
	Sigmoid
)

// String returns the ONNX operator implementing the activation
func (a Activation) String() string {
	switch a {
	case ReLU:
		return "Relu"
	case Sigmoid:
		return "Sigmoid"
	}
	return "Identity"
}

func (a Activation) apply(z float64) float64 {
	switch a {
	case ReLU:
		if z < 0 {
			return 0
		}
		return z
	case Sigmoid:
		if z >= 0 {
			return 1 / (1 + math.Exp(-z))
		}
		e := math.Exp(z)
		return e / (1 + e)
	}
	return z
}

// derivative returns the activation derivative expressed in terms of its output y
func (a Activation) derivative(y float64) float64 {
	switch a {
	case ReLU:
		if y > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		return y * (1 - y)
	}
	return 1
}
