package learning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdamFirstStep(t *testing.T) {
	h := DefaultHyperParameters()
	params := [][]float64{{1, -2}, {0.5}}
	a := NewAdam(h, params)
	a.Step(params, [][]float64{{3, -0.01}, {0}})

	// the first bias-corrected step moves every parameter with a nonzero gradient by lr
	assert.InDelta(t, 1-h.LearningRate, params[0][0], 1e-10)
	assert.InDelta(t, -2+h.LearningRate, params[0][1], 1e-8)
	assert.Equal(t, 0.5, params[1][0])
	assert.Equal(t, 1, a.Steps())
}

func TestAdamMinimizes(t *testing.T) {
	h := DefaultHyperParameters()
	h.LearningRate = 0.05
	params := [][]float64{{4, -3}}
	a := NewAdam(h, params)
	for i := 0; i < 2000; i++ {
		p := params[0]
		a.Step(params, [][]float64{{2 * (p[0] - 1), 2 * (p[1] + 2)}})
	}
	assert.InDelta(t, 1, params[0][0], 1e-3)
	assert.InDelta(t, -2, params[0][1], 1e-3)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultHyperParameters().Validate())
	for _, mutate := range []func(*HyperParameters){
		func(h *HyperParameters) { h.Epochs = 0 },
		func(h *HyperParameters) { h.LearningRate = 0 },
		func(h *HyperParameters) { h.Beta1 = 1 },
		func(h *HyperParameters) { h.Beta2 = -0.1 },
		func(h *HyperParameters) { h.Epsilon = math.NaN() },
		func(h *HyperParameters) { h.Epsilon = math.Inf(1) },
		func(h *HyperParameters) { h.LearningRate = math.NaN() },
		func(h *HyperParameters) { h.LearningRate = math.Inf(1) },
		func(h *HyperParameters) { h.Beta1 = math.NaN() },
		func(h *HyperParameters) { h.Beta2 = math.NaN() },
	} {
		h := DefaultHyperParameters()
		mutate(&h)
		assert.Error(t, h.Validate(), "%+v", h)
	}
}
