package nn

import (
	"fmt"
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// DenseLayer is a fully connected layer: y = act(x W + b).
type DenseLayer struct {
	in, out    int
	activation Activation
	weightInit WeightInit

	backend ndarray.Backend
	w, b    *ndarray.Array

	// Forward cache for the backward pass.
	lastInput  *ndarray.Array
	lastOutput *ndarray.Array

	gradW, gradB *ndarray.Array
}

var _ Layer = (*DenseLayer)(nil)

// NewDense creates a dense layer with the init scheme matched to the
// activation.
func NewDense(in, out int, activation Activation) *DenseLayer {
	return &DenseLayer{
		in:         in,
		out:        out,
		activation: activation,
		weightInit: defaultInitFor(activation),
	}
}

// Name returns a short layer description.
func (l *DenseLayer) Name() string {
	return fmt.Sprintf("dense(%d -> %d, %s)", l.in, l.out, l.activation)
}

func (l *DenseLayer) InputSize() int  { return l.in }
func (l *DenseLayer) OutputSize() int { return l.out }

// Init allocates weights and biases.
func (l *DenseLayer) Init(rng *rand.Rand, backend ndarray.Backend) {
	l.backend = backend
	l.w = l.weightInit.NewWeights(rng, l.in, l.out)
	l.b = ndarray.Zeros(ndarray.Shape{1, l.out}, ndarray.Float32, ndarray.CPU)
}

// Forward computes act(x W + b) and caches input and output.
func (l *DenseLayer) Forward(input *ndarray.Array, train bool) *ndarray.Array {
	pre := l.backend.Add(l.backend.MatMul(input, l.w), l.b)
	out := l.activation.Apply(l.backend, pre)
	if train {
		l.lastInput = input
		l.lastOutput = out
	}
	return out
}

// Backward propagates the error signal through the activation and the
// affine map, filling the weight and bias gradients.
func (l *DenseLayer) Backward(epsilon *ndarray.Array) *ndarray.Array {
	if l.lastInput == nil {
		panic("nn: Backward before Forward on " + l.Name())
	}

	// delta = epsilon * act'(output), except for softmax where the caller
	// already folded the derivative into epsilon.
	delta := epsilon
	if l.activation != Softmax {
		delta = l.backend.Mul(epsilon, l.activation.DerivativeFromOutput(l.lastOutput))
	}

	l.gradW = l.backend.MatMul(l.backend.Transpose(l.lastInput), delta)
	l.gradB = l.backend.SumDim(delta, 0, true)
	return l.backend.MatMul(delta, l.backend.Transpose(l.w))
}

// Params returns the weight and bias arrays.
func (l *DenseLayer) Params() map[string]*ndarray.Array {
	return map[string]*ndarray.Array{"W": l.w, "b": l.b}
}

// Grads returns the gradients from the last backward pass.
func (l *DenseLayer) Grads() map[string]*ndarray.Array {
	return map[string]*ndarray.Array{"W": l.gradW, "b": l.gradB}
}
