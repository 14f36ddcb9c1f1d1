package learning

import "math"

// Adam is the adaptive moment estimation optimizer with bias-corrected moments
type Adam struct {
	h    HyperParameters
	step int
	m    [][]float64
	v    [][]float64
}

// NewAdam creates an optimizer for parameters shaped like params
func NewAdam(h HyperParameters, params [][]float64) *Adam {
	a := &Adam{h: h}
	for _, p := range params {
		a.m = append(a.m, make([]float64, len(p)))
		a.v = append(a.v, make([]float64, len(p)))
	}
	return a
}

// Steps returns the number of updates applied
func (a *Adam) Steps() int {
	return a.step
}

// Step updates params in place using grads. Both must be shaped like the slices the
// optimizer was created with.
func (a *Adam) Step(params, grads [][]float64) {
	a.step++
	b1, b2 := a.h.Beta1, a.h.Beta2
	correction1 := 1 - math.Pow(b1, float64(a.step))
	correction2 := math.Sqrt(1 - math.Pow(b2, float64(a.step)))
	size := a.h.LearningRate / correction1

	for k, p := range params {
		g, m, v := grads[k], a.m[k], a.v[k]
		for i := range p {
			m[i] = b1*m[i] + (1-b1)*g[i]
			v[i] = b2*v[i] + (1-b2)*g[i]*g[i]
			p[i] -= size * m[i] / (math.Sqrt(v[i])/correction2 + a.h.Epsilon)
		}
	}
}
