// Copyright 2026 Strata ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network

import (
	"github.com/strata-ml/strata/gradient"
	"github.com/strata-ml/strata/ndarray"
)

// One-to-one delegations. No dispatch happens here; engine errors are
// propagated unchanged, and mutating calls return the same handle.

// Init initializes the network's parameters and returns the handle.
func Init(h Handle) (Handle, error) {
	if err := h.Init(); err != nil {
		return nil, err
	}
	return h, nil
}

// Score returns the loss of the most recent fit step.
func Score(h Handle) float64 {
	return h.Score()
}

// SetInput stores the working input batch and returns the handle. The
// input accepts the same array-valued forms as the keyword operations.
func SetInput(h Handle, input any) (Handle, error) {
	a, err := coerceValue(input, KeyInput)
	if err != nil {
		return nil, err
	}
	h.SetInput(a)
	return h, nil
}

// SetLabels stores the working label batch and returns the handle.
func SetLabels(h Handle, labels any) (Handle, error) {
	a, err := coerceValue(labels, KeyLabels)
	if err != nil {
		return nil, err
	}
	h.SetLabels(a)
	return h, nil
}

// NumLayers returns the number of layers in the network.
func NumLayers(h Handle) int {
	return h.NumLayers()
}

// Summary returns a human-readable description of the network.
func Summary(h Handle) string {
	return h.Summary()
}

// ModelParams returns every parameter array under its positional name.
func ModelParams(h Handle) map[string]*ndarray.Array {
	return h.ModelParams()
}

// SetModelParams copies values into named parameters and returns the
// handle.
func SetModelParams(h Handle, params map[string]*ndarray.Array) (Handle, error) {
	if err := h.SetModelParams(params); err != nil {
		return nil, err
	}
	return h, nil
}

// Gradient returns the gradient table of the most recent fit step.
func Gradient(h Handle) *gradient.DefaultTable {
	return h.Gradient()
}

// RNNTimeStep runs one timestep of streaming inference.
func RNNTimeStep(h Handle, input any) (*ndarray.Array, error) {
	a, err := coerceValue(input, KeyInput)
	if err != nil {
		return nil, err
	}
	return h.RNNTimeStep(a)
}

// RNNClearPreviousState clears carried recurrent state and returns the
// handle.
func RNNClearPreviousState(h Handle) Handle {
	h.RNNClearPreviousState()
	return h
}

// RNNGetPreviousState returns the carried state of a recurrent layer.
func RNNGetPreviousState(h Handle, layerIdx int) (map[string]*ndarray.Array, error) {
	return h.RNNGetPreviousState(layerIdx)
}

// RNNSetPreviousState replaces the carried state of a recurrent layer and
// returns the handle.
func RNNSetPreviousState(h Handle, layerIdx int, state map[string]*ndarray.Array) (Handle, error) {
	if err := h.RNNSetPreviousState(layerIdx, state); err != nil {
		return nil, err
	}
	return h, nil
}
