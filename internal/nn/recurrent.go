package nn

import (
	"fmt"
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// RecurrentLayer is a simple Elman cell: h = act(x Wx + h_prev Wh + b).
//
// Forward treats its input as a single timestep with a zero initial state,
// which keeps batch training shapes identical to a dense layer. Step carries
// the hidden state across calls for streaming inference.
type RecurrentLayer struct {
	in, hidden int
	activation Activation

	backend    ndarray.Backend
	wx, wh, b  *ndarray.Array
	state      *ndarray.Array

	lastInput  *ndarray.Array
	lastPrev   *ndarray.Array
	lastOutput *ndarray.Array

	gradWx, gradWh, gradB *ndarray.Array
}

var (
	_ Layer    = (*RecurrentLayer)(nil)
	_ Stateful = (*RecurrentLayer)(nil)
)

// NewRecurrent creates an Elman recurrent layer.
func NewRecurrent(in, hidden int, activation Activation) *RecurrentLayer {
	return &RecurrentLayer{in: in, hidden: hidden, activation: activation}
}

// Name returns a short layer description.
func (l *RecurrentLayer) Name() string {
	return fmt.Sprintf("recurrent(%d -> %d, %s)", l.in, l.hidden, l.activation)
}

func (l *RecurrentLayer) InputSize() int  { return l.in }
func (l *RecurrentLayer) OutputSize() int { return l.hidden }

// Init allocates the input, recurrent and bias parameters.
func (l *RecurrentLayer) Init(rng *rand.Rand, backend ndarray.Backend) {
	l.backend = backend
	init := defaultInitFor(l.activation)
	l.wx = init.NewWeights(rng, l.in, l.hidden)
	l.wh = init.NewWeights(rng, l.hidden, l.hidden)
	l.b = ndarray.Zeros(ndarray.Shape{1, l.hidden}, ndarray.Float32, ndarray.CPU)
}

// step computes one cell update from an explicit previous state.
func (l *RecurrentLayer) step(input, prev *ndarray.Array) *ndarray.Array {
	pre := l.backend.Add(l.backend.MatMul(input, l.wx), l.backend.MatMul(prev, l.wh))
	pre = l.backend.Add(pre, l.b)
	return l.activation.Apply(l.backend, pre)
}

// Forward runs a single stateless timestep with a zero initial state.
func (l *RecurrentLayer) Forward(input *ndarray.Array, train bool) *ndarray.Array {
	prev := ndarray.Zeros(ndarray.Shape{input.Shape()[0], l.hidden}, ndarray.Float32, ndarray.CPU)
	out := l.step(input, prev)
	if train {
		l.lastInput = input
		l.lastPrev = prev
		l.lastOutput = out
	}
	return out
}

// Backward propagates through one timestep (truncated backprop of depth 1).
func (l *RecurrentLayer) Backward(epsilon *ndarray.Array) *ndarray.Array {
	if l.lastInput == nil {
		panic("nn: Backward before Forward on " + l.Name())
	}
	delta := l.backend.Mul(epsilon, l.activation.DerivativeFromOutput(l.lastOutput))

	l.gradWx = l.backend.MatMul(l.backend.Transpose(l.lastInput), delta)
	l.gradWh = l.backend.MatMul(l.backend.Transpose(l.lastPrev), delta)
	l.gradB = l.backend.SumDim(delta, 0, true)
	return l.backend.MatMul(delta, l.backend.Transpose(l.wx))
}

// Params returns the input, recurrent and bias parameter arrays.
func (l *RecurrentLayer) Params() map[string]*ndarray.Array {
	return map[string]*ndarray.Array{"Wx": l.wx, "Wh": l.wh, "b": l.b}
}

// Grads returns the gradients from the last backward pass.
func (l *RecurrentLayer) Grads() map[string]*ndarray.Array {
	return map[string]*ndarray.Array{"Wx": l.gradWx, "Wh": l.gradWh, "b": l.gradB}
}

// Step runs one timestep, carrying the hidden state across calls. The state
// is created lazily at the batch size of the first call.
func (l *RecurrentLayer) Step(input *ndarray.Array) *ndarray.Array {
	if l.state == nil || l.state.Shape()[0] != input.Shape()[0] {
		l.state = ndarray.Zeros(ndarray.Shape{input.Shape()[0], l.hidden}, ndarray.Float32, ndarray.CPU)
	}
	l.state = l.step(input, l.state)
	return l.state
}

// State returns the carried hidden state under the name "h".
func (l *RecurrentLayer) State() map[string]*ndarray.Array {
	if l.state == nil {
		return map[string]*ndarray.Array{}
	}
	return map[string]*ndarray.Array{"h": l.state}
}

// SetState replaces the carried hidden state.
func (l *RecurrentLayer) SetState(state map[string]*ndarray.Array) {
	l.state = state["h"]
}

// ClearState drops the carried hidden state.
func (l *RecurrentLayer) ClearState() {
	l.state = nil
}
