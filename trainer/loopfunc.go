package trainer

import "math"

import "github.com/neurlang/phishnet/learning"
import "github.com/neurlang/phishnet/net/feedforward"
import "github.com/pkg/errors"
import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

// ErrNonFiniteLoss is returned when the training loss becomes NaN or infinite
var ErrNonFiniteLoss = errors.New("non-finite training loss")

// Result summarizes a finished training run
type Result struct {
	Epochs   int
	Loss     float64 // loss of the trained network on the training set
	Accuracy float64
}

// Train fits net to the rows of x and the targets y, one full-batch Adam step per
// epoch. Progress uses the forward pass each epoch computes before its update.
func Train(net *feedforward.FeedforwardNetwork, x *mat.Dense, y []float64, h learning.HyperParameters,
	log *zap.SugaredLogger) (Result, error) {

	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := h.Validate(); err != nil {
		return Result{}, err
	}
	rows, cols := x.Dims()
	if rows == 0 {
		return Result{}, errors.New("no training rows")
	}
	if rows != len(y) {
		return Result{}, errors.Errorf("%d rows for %d targets", rows, len(y))
	}
	if cols != net.Inputs() {
		return Result{}, errors.Errorf("%d features for a network of %d inputs", cols, net.Inputs())
	}

	params := net.Parameters()
	opt := learning.NewAdam(h, params)
	delta := mat.NewDense(rows, 1, nil)
	n := float64(rows)

	for epoch := 1; epoch <= h.Epochs; epoch++ {
		pass := net.Forward(x)
		out := pass.Output()
		loss := Loss(out, y)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return Result{Epochs: epoch}, errors.Wrapf(ErrNonFiniteLoss, "epoch %d", epoch)
		}
		if h.ReportEvery > 0 && epoch%h.ReportEvery == 0 {
			log.Infow("epoch", "epoch", epoch, "epochs", h.Epochs, "loss", loss, "accuracy", Accuracy(out, y))
		}

		for i := range y {
			delta.Set(i, 0, (out.At(i, 0)-y[i])/n)
		}
		opt.Step(params, feedforward.Flatten(net.Backward(pass, delta)))
	}

	loss, accuracy := Evaluate(net, x, y)
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return Result{Epochs: h.Epochs}, errors.Wrapf(ErrNonFiniteLoss, "after epoch %d", h.Epochs)
	}
	return Result{Epochs: h.Epochs, Loss: loss, Accuracy: accuracy}, nil
}
