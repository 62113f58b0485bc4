// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package network provides the keyword call surface over a multi-layer
// network handle.
//
// Each operation takes a kw.Params map and dispatches on which parameters
// are present, in a fixed priority order. The handle itself is opaque: the
// package never constructs, closes or retains one beyond the call.
//
// Example:
//
//	net, _ := network.New(network.Config{Seed: 42, LR: 0.1},
//		network.Dense(784, 128, network.ReLU),
//		network.OutputLayer(128, 10, network.Softmax, network.CrossEntropy),
//	)
//	_, _ = network.Init(net)
//	_, _ = network.Fit(kw.Params{"network": net, "iter": trainIter})
//	res, _ := network.Evaluate(kw.Params{"network": net, "iter": testIter})
package network

import (
	"github.com/strata-ml/strata/dataset"
	"github.com/strata-ml/strata/eval"
	"github.com/strata-ml/strata/gradient"
	"github.com/strata-ml/strata/internal/nn"
	"github.com/strata-ml/strata/ndarray"
)

// TrainingMode tags an output pass as a training or inference pass.
type TrainingMode = nn.TrainingMode

// Training modes.
const (
	Test  TrainingMode = nn.Test
	Train TrainingMode = nn.Train
)

// Activation selects a layer nonlinearity.
type Activation = nn.Activation

// Activations.
const (
	Identity Activation = nn.Identity
	ReLU     Activation = nn.ReLU
	Sigmoid  Activation = nn.Sigmoid
	Tanh     Activation = nn.Tanh
	Softmax  Activation = nn.Softmax
)

// Loss selects the output layer's loss function.
type Loss = nn.Loss

// Losses.
const (
	CrossEntropy Loss = nn.CrossEntropy
	MSE          Loss = nn.MSE
)

// Config holds the network-level training configuration.
type Config = nn.Config

// Layer is one trainable stage of a network stack.
type Layer = nn.Layer

// Handle is the engine surface the keyword operations drive. It is
// satisfied by the built-in multi-layer network; callers own the handle's
// lifecycle.
type Handle interface {
	Init() error

	Output(input *ndarray.Array, train bool) (*ndarray.Array, error)
	OutputMode(input *ndarray.Array, mode TrainingMode) (*ndarray.Array, error)
	OutputMasked(input, featuresMask, labelsMask *ndarray.Array, train bool) (*ndarray.Array, error)
	OutputIterator(it dataset.Iterator, train bool) (*ndarray.Array, error)

	Evaluate(it dataset.Iterator) (*eval.Evaluation, error)
	EvaluateWithLabels(it dataset.Iterator, labels []string) (*eval.Evaluation, error)
	EvaluateTopN(it dataset.Iterator, labels []string, topN int) (*eval.Evaluation, error)

	PretrainLayer(layerIdx int, it dataset.Iterator) error
	PretrainLayerOn(layerIdx int, features *ndarray.Array) error

	FeedForwardToLayer(layerIdx int, input *ndarray.Array, train bool) ([]*ndarray.Array, error)
	FeedForwardToLayerInput(layerIdx int, input *ndarray.Array) ([]*ndarray.Array, error)
	FeedForwardToLayerTrain(layerIdx int, train bool) ([]*ndarray.Array, error)

	Fit(it dataset.Iterator) error
	FitData(features, labels *ndarray.Array) error

	Score() float64
	ScoreExamples(ds *dataset.DataSet, addRegularization bool) (*ndarray.Array, error)
	ScoreExamplesIterator(it dataset.Iterator, addRegularization bool) (*ndarray.Array, error)

	SetInput(input *ndarray.Array)
	SetLabels(labels *ndarray.Array)
	NumLayers() int
	Summary() string
	ModelParams() map[string]*ndarray.Array
	SetModelParams(params map[string]*ndarray.Array) error
	Gradient() *gradient.DefaultTable

	RNNTimeStep(input *ndarray.Array) (*ndarray.Array, error)
	RNNClearPreviousState()
	RNNGetPreviousState(layerIdx int) (map[string]*ndarray.Array, error)
	RNNSetPreviousState(layerIdx int, state map[string]*ndarray.Array) error

	Backend() ndarray.Backend
}

// Compile-time check that the built-in engine satisfies Handle.
var _ Handle = (*nn.MultiLayerNetwork)(nil)

// New assembles a multi-layer network handle from a configuration and a
// layer stack. The returned handle must be initialized before use.
func New(cfg Config, layers ...Layer) (Handle, error) {
	return nn.NewMultiLayer(cfg, layers...)
}

// Dense creates a fully connected layer.
func Dense(in, out int, activation Activation) Layer {
	return nn.NewDense(in, out, activation)
}

// OutputLayer creates the final layer with an attached loss.
func OutputLayer(in, out int, activation Activation, loss Loss) Layer {
	return nn.NewOutput(in, out, activation, loss)
}

// Recurrent creates a simple Elman recurrent layer.
func Recurrent(in, hidden int, activation Activation) Layer {
	return nn.NewRecurrent(in, hidden, activation)
}

// Autoencoder creates a tied-weight autoencoder layer for layer-wise
// pretraining.
func Autoencoder(in, hidden int) Layer {
	return nn.NewAutoencoder(in, hidden)
}
