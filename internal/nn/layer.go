package nn

import (
	"math/rand"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Layer is one trainable stage of a multi-layer network. A layer owns its
// parameters and, after a backward pass, its parameter gradients.
type Layer interface {
	Name() string
	InputSize() int
	OutputSize() int

	// Init allocates parameters. The backend is retained for forward and
	// backward computation.
	Init(rng *rand.Rand, backend ndarray.Backend)

	// Forward computes the layer output for a [batch, in] input. The layer
	// caches whatever it needs for a following Backward call.
	Forward(input *ndarray.Array, train bool) *ndarray.Array

	// Backward takes the error signal w.r.t. the layer output and returns
	// the error signal w.r.t. the layer input, filling Grads as a side
	// effect. Must follow a Forward call on the same batch.
	Backward(epsilon *ndarray.Array) *ndarray.Array

	// Params returns the parameter arrays by local name ("W", "b", ...).
	Params() map[string]*ndarray.Array

	// Grads returns the gradients computed by the last Backward call,
	// under the same local names as Params.
	Grads() map[string]*ndarray.Array
}

// Pretrainable is implemented by layers that support unsupervised
// layer-wise pretraining.
type Pretrainable interface {
	Layer

	// PretrainStep runs one unsupervised update on a feature batch and
	// returns the reconstruction loss before the update.
	PretrainStep(features *ndarray.Array, lr float64) float64
}

// Stateful is implemented by recurrent layers that carry hidden state
// across single-timestep calls.
type Stateful interface {
	Layer

	// Step runs one timestep using and updating the carried state.
	Step(input *ndarray.Array) *ndarray.Array

	// State returns the carried state arrays by name ("h", ...).
	State() map[string]*ndarray.Array

	// SetState replaces the carried state.
	SetState(state map[string]*ndarray.Array)

	// ClearState drops the carried state.
	ClearState()
}
