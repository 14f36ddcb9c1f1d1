package trainer

import "math"

import "github.com/neurlang/phishnet/net/feedforward"
import "gonum.org/v1/gonum/mat"

// logFloor clamps log terms of the cross-entropy
const logFloor = -100

// Threshold is the score above which a URL is classified as phishing
const Threshold = 0.5

func clampedLog(v float64) float64 {
	return math.Max(math.Log(v), logFloor)
}

// Loss returns the mean binary cross-entropy of predictions p against targets y
func Loss(p *mat.Dense, y []float64) float64 {
	var sum float64
	for i, target := range y {
		v := p.At(i, 0)
		sum -= target*clampedLog(v) + (1-target)*clampedLog(1-v)
	}
	return sum / float64(len(y))
}

// Accuracy returns the fraction of predictions p on the correct side of Threshold
func Accuracy(p *mat.Dense, y []float64) float64 {
	var hits int
	for i, target := range y {
		if (p.At(i, 0) > Threshold) == (target > Threshold) {
			hits++
		}
	}
	return float64(hits) / float64(len(y))
}

// Evaluate runs net on x and returns the loss and accuracy against y
func Evaluate(net *feedforward.FeedforwardNetwork, x mat.Matrix, y []float64) (loss, accuracy float64) {
	out := net.Forward(x).Output()
	return Loss(out, y), Accuracy(out, y)
}
