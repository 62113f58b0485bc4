package nn

import (
	"fmt"
	"math"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Loss selects the output layer's loss function.
type Loss int

// Supported losses.
const (
	// CrossEntropy pairs a softmax output with negative log likelihood.
	CrossEntropy Loss = iota
	// MSE is mean squared error for regression outputs.
	MSE
)

// String returns the loss name.
func (l Loss) String() string {
	switch l {
	case CrossEntropy:
		return "cross-entropy"
	case MSE:
		return "mse"
	default:
		return fmt.Sprintf("loss(%d)", int(l))
	}
}

// OutputLayer is a dense layer with an attached loss. It is always the last
// layer of a network.
type OutputLayer struct {
	DenseLayer
	loss Loss
}

var _ Layer = (*OutputLayer)(nil)

// NewOutput creates an output layer. CrossEntropy forces a softmax
// activation; MSE uses the given activation as is.
func NewOutput(in, out int, activation Activation, loss Loss) *OutputLayer {
	if loss == CrossEntropy {
		activation = Softmax
	}
	inner := NewDense(in, out, activation)
	return &OutputLayer{DenseLayer: *inner, loss: loss}
}

// Name returns a short layer description.
func (l *OutputLayer) Name() string {
	return fmt.Sprintf("output(%d -> %d, %s, %s)", l.in, l.out, l.activation, l.loss)
}

// LossValue computes the mean loss of the cached forward output against a
// label batch.
func (l *OutputLayer) LossValue(labels *ndarray.Array) float64 {
	return l.lossOf(l.lastOutput, labels)
}

// PerExampleLoss computes a [batch, 1] column of per-example losses for an
// output batch that has already been produced by Forward.
func (l *OutputLayer) PerExampleLoss(output, labels *ndarray.Array) *ndarray.Array {
	rows := output.Shape()[0]
	cols := output.Shape()[1]
	out := output.AsFloat32()
	lab := labels.AsFloat32()
	scores := make([]float32, rows)

	for r := 0; r < rows; r++ {
		var s float64
		for c := 0; c < cols; c++ {
			p := float64(out[r*cols+c])
			y := float64(lab[r*cols+c])
			switch l.loss {
			case CrossEntropy:
				if y > 0 {
					s -= y * math.Log(math.Max(p, 1e-12))
				}
			case MSE:
				d := p - y
				s += d * d / float64(cols)
			}
		}
		scores[r] = float32(s)
	}

	col, err := ndarray.FromSlice32(scores, ndarray.Shape{rows, 1}, ndarray.CPU)
	if err != nil {
		panic(fmt.Sprintf("nn: per-example loss: %v", err))
	}
	return col
}

// Delta computes the initial error signal of the backward pass, averaged
// over the batch. For CrossEntropy the softmax derivative is already folded
// in, matching the Softmax special case in DenseLayer.Backward.
func (l *OutputLayer) Delta(labels *ndarray.Array) *ndarray.Array {
	if l.lastOutput == nil {
		panic("nn: Delta before Forward on " + l.Name())
	}
	batch := float64(l.lastOutput.Shape()[0])
	diff := l.backend.Sub(l.lastOutput, labels)
	switch l.loss {
	case CrossEntropy:
		return l.backend.MulScalar(diff, 1/batch)
	case MSE:
		return l.backend.MulScalar(diff, 2/batch)
	default:
		panic("nn: unknown loss " + l.loss.String())
	}
}

func (l *OutputLayer) lossOf(output, labels *ndarray.Array) float64 {
	per := l.PerExampleLoss(output, labels)
	data := per.AsFloat32()
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	return sum / float64(len(data))
}
